package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/core/ports"
)

// DirectoryHandler serves the role-scoped administrative listings.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

type dentistSummaryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ClinicID   string `json:"clinic_id,omitempty"`
	BranchID   string `json:"branch_id,omitempty"`
	Active     bool   `json:"active"`
	OrderCount int64  `json:"order_count"`
}

type clinicSummaryResponse struct {
	ID           string    `json:"id"`
	BranchID     string    `json:"branch_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	DentistCount int64     `json:"dentist_count"`
	PatientCount int64     `json:"patient_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type branchSummaryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city,omitempty"`
	IsMatriz     bool      `json:"is_matriz"`
	DentistCount int64     `json:"dentist_count"`
	PatientCount int64     `json:"patient_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type createPatientRequest struct {
	Name      string    `json:"name"  validate:"required"`
	Phone     string    `json:"phone" validate:"required"`
	BirthDate time.Time `json:"birth_date"`
}

// ListDentists handles GET /v1/dentists.
//
// @Summary      List dentists visible to the caller
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dentistSummaryResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dentists [get]
func (h *DirectoryHandler) ListDentists(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	rows, err := h.service.ListDentists(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]dentistSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dentistSummaryResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// ListClinics handles GET /v1/clinics.
//
// @Summary      List clinics visible to the caller
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clinicSummaryResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/clinics [get]
func (h *DirectoryHandler) ListClinics(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	rows, err := h.service.ListClinics(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]clinicSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, clinicSummaryResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// ListBranches handles GET /v1/branches.
//
// @Summary      List branches visible to the caller
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   branchSummaryResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/branches [get]
func (h *DirectoryHandler) ListBranches(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	rows, err := h.service.ListBranches(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]branchSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, branchSummaryResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// ListPatients handles GET /v1/patients.
//
// @Summary      List patients visible to the caller
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Patient
// @Router       /v1/patients [get]
func (h *DirectoryHandler) ListPatients(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	patients, err := h.service.ListPatients(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// CreatePatient handles POST /v1/patients.
//
// @Summary      Register a patient
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  domain.Patient
// @Failure      422   {object}  errorResponse
// @Router       /v1/patients [post]
func (h *DirectoryHandler) CreatePatient(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patient, err := h.service.CreatePatient(c.Request().Context(), ports.CreatePatientInput{
		Caller:    caller,
		Name:      req.Name,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, patient)
}
