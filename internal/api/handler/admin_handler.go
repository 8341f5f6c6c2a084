package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/core/ports"
)

// AdminHandler exposes the privileged account and organization operations.
// Authorization is enforced twice: the capability middleware gates the route
// group on JWT claims, and the service re-verifies the caller against its
// stored actor row before acting.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type createBranchRequest struct {
	Name     string `json:"name" validate:"required"`
	City     string `json:"city"`
	IsMatriz bool   `json:"is_matriz"`
}

type createClinicRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
	Name     string `json:"name"      validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type createActorRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required"`
	BranchID string `json:"branch_id"`
	ClinicID string `json:"clinic_id"`
}

type updateActorRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type removeOrphanRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type accountStatusResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// CreateBranch handles POST /v1/admin/branches.
//
// @Summary      Create a branch
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBranchRequest  true  "Branch details"
// @Success      201   {object}  domain.Branch
// @Failure      403   {object}  errorResponse
// @Router       /v1/admin/branches [post]
func (h *AdminHandler) CreateBranch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createBranchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	branch, err := h.service.CreateBranch(c.Request().Context(), ports.CreateBranchInput{
		Caller:   caller,
		Name:     req.Name,
		City:     req.City,
		IsMatriz: req.IsMatriz,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, branch)
}

// CreateClinic handles POST /v1/admin/clinics.
//
// @Summary      Create a clinic under a branch
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClinicRequest  true  "Clinic details"
// @Success      201   {object}  domain.Clinic
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/clinics [post]
func (h *AdminHandler) CreateClinic(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createClinicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	clinic, err := h.service.CreateClinic(c.Request().Context(), ports.CreateClinicInput{
		Caller:   caller,
		BranchID: req.BranchID,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, clinic)
}

// CreateActor handles POST /v1/admin/actors.
//
// @Summary      Provision an actor account
// @Description  When an account already exists for the email, the existing
// @Description  identity is returned instead of failing.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createActorRequest  true  "Account details"
// @Success      201   {object}  domain.Actor
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/actors [post]
func (h *AdminHandler) CreateActor(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createActorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actor, err := h.service.CreateActor(c.Request().Context(), ports.CreateActorInput{
		Caller:   caller,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		BranchID: req.BranchID,
		ClinicID: req.ClinicID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actor)
}

// UpdateActor handles PATCH /v1/admin/actors/:id.
//
// @Summary      Update an actor's profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Actor id"
// @Param        body  body      updateActorRequest  true  "Fields to change"
// @Success      200   {object}  domain.Actor
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/actors/{id} [patch]
func (h *AdminHandler) UpdateActor(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateActorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	actor, err := h.service.UpdateActor(c.Request().Context(), ports.UpdateActorInput{
		Caller:  caller,
		ActorID: c.Param("id"),
		Name:    req.Name,
		Active:  req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actor)
}

// DeleteActor handles DELETE /v1/admin/actors/:id.
//
// @Summary      Delete an actor account
// @Description  Rejected while the actor still references orders.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Actor id"
// @Success      204  "no content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/admin/actors/{id} [delete]
func (h *AdminHandler) DeleteActor(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteActor(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword handles POST /v1/admin/actors/:id/reset-password.
//
// @Summary      Reset an actor's password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "Actor id"
// @Param        body  body  resetPasswordRequest  true  "New password"
// @Success      204   "no content"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/actors/{id}/reset-password [post]
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.ResetPassword(c.Request().Context(), caller, c.Param("id"), req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmContact handles POST /v1/admin/actors/:id/confirm-contact.
//
// @Summary      Force-confirm an actor's contact
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Actor id"
// @Success      204  "no content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/actors/{id}/confirm-contact [post]
func (h *AdminHandler) ConfirmContact(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.ConfirmContact(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAccounts handles GET /v1/admin/accounts.
//
// @Summary      Audit listing of all accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountStatusResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	rows, err := h.service.ListAccounts(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]accountStatusResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, accountStatusResponse{
			ID:             r.Actor.ID,
			Name:           r.Actor.Name,
			Email:          r.Actor.Email,
			Role:           string(r.Actor.Role),
			Active:         r.Actor.Active,
			EmailConfirmed: r.EmailConfirmed,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// RemoveOrphan handles DELETE /v1/admin/orphans.
//
// @Summary      Remove an authentication record with no actor profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  removeOrphanRequest  true  "Orphan account email"
// @Success      204   "no content"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/orphans [delete]
func (h *AdminHandler) RemoveOrphan(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req removeOrphanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.RemoveOrphanAccount(c.Request().Context(), caller, req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
