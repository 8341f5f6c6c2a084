package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/api/metrics"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /v1/orders.
//
// @Summary      Submit a new prosthesis order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  createOrderResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{
			ProductName:    it.ProductName,
			ProsthesisType: it.ProsthesisType,
			Material:       it.Material,
			Color:          it.Color,
			SelectedTeeth:  it.SelectedTeeth,
			Quantity:       it.Quantity,
			Observations:   it.Observations,
		})
	}

	result, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		Caller:          caller,
		PatientID:       req.PatientID,
		Items:           items,
		Priority:        req.Priority,
		Deadline:        req.Deadline,
		DeliveryAddress: req.DeliveryAddress,
		Observations:    req.Observations,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if !result.AlreadyExisted {
		metrics.OrdersCreatedTotal.WithLabelValues(req.Priority).Inc()
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		OrderID:   result.OrderID,
		Status:    result.Status,
		CreatedAt: result.CreatedAt.UTC().Format(time.RFC3339),
		Links:     linksFor(result.OrderID),
	})
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetOrder(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// List handles GET /v1/orders.
//
// @Summary      List orders visible to the caller
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        priority  query     string  false  "Filter by priority"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listOrdersResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	input := ports.ListOrdersInput{
		Caller:   caller,
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
	}
	if from := c.QueryParam("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			input.DateFrom = t
		}
	}
	if to := c.QueryParam("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			input.DateTo = t
		}
	}

	result, err := h.service.ListOrders(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := make([]orderResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toOrderResponse(&result.Items[i]))
	}
	return c.JSON(http.StatusOK, listOrdersResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Advance handles POST /v1/orders/:id/advance.
//
// @Summary      Advance an order one pipeline step
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true   "Order id"
// @Param        body  body      advanceOrderRequest  false  "Optional expected status guard"
// @Success      200   {object}  transitionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/advance [post]
func (h *OrderHandler) Advance(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req advanceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AdvanceStatus(c.Request().Context(), ports.AdvanceOrderInput{
		Caller:         caller,
		OrderID:        c.Param("id"),
		ExpectedStatus: req.ExpectedStatus,
	})
	if err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(reasonFor(err)).Inc()
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(result.From, result.To).Inc()
	return c.JSON(http.StatusOK, transitionResponse(*result))
}

// Cancel handles POST /v1/orders/:id/cancel.
//
// @Summary      Cancel a non-terminal order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  transitionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.service.CancelOrder(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(reasonFor(err)).Inc()
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(result.From, result.To).Inc()
	return c.JSON(http.StatusOK, transitionResponse(*result))
}

// AddAttachment handles POST /v1/orders/:id/attachments.
//
// @Summary      Record an object-storage reference on an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Order id"
// @Param        body  body      addAttachmentRequest  true  "Attachment reference"
// @Success      204   "no content"
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/attachments [post]
func (h *OrderHandler) AddAttachment(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req addAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.AddAttachment(c.Request().Context(), ports.AttachmentInput{
		Caller:     caller,
		OrderID:    c.Param("id"),
		FileName:   req.FileName,
		StorageKey: req.StorageKey,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard handles GET /v1/dashboard.
//
// @Summary      Scoped order counts for the home screen
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /v1/dashboard [get]
func (h *OrderHandler) Dashboard(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	summary, err := h.service.DashboardSummary(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Total:     summary.Total,
		Delivered: summary.Delivered,
		Cancelled: summary.Cancelled,
		ByStatus:  summary.ByStatus,
	})
}

func toOrderResponse(v *ports.OrderView) orderResponse {
	items := make([]orderItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, orderItemResponse{
			ProductName:    it.ProductName,
			ProsthesisType: it.ProsthesisType,
			Material:       it.Material,
			Color:          it.Color,
			SelectedTeeth:  it.SelectedTeeth,
			Quantity:       it.Quantity,
			Observations:   it.Observations,
		})
	}

	attachments := make([]attachmentResponse, 0, len(v.Attachments))
	for _, a := range v.Attachments {
		attachments = append(attachments, attachmentResponse{
			FileName:   a.FileName,
			StorageKey: a.StorageKey,
			UploadedAt: a.UploadedAt,
		})
	}

	resp := orderResponse{
		OrderID:         v.ID,
		DentistID:       v.DentistID,
		PatientID:       v.PatientID,
		Items:           items,
		Priority:        v.Priority,
		DeliveryAddress: v.DeliveryAddress,
		Observations:    v.Observations,
		Attachments:     attachments,
		Status:          v.Status,
		StatusLabel:     v.StatusLabel,
		StatusColor:     v.StatusColor,
		Stage:           v.Stage,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Links:           linksFor(v.ID),
	}
	if !v.Deadline.IsZero() {
		d := v.Deadline
		resp.Deadline = &d
	}
	return resp
}

func linksFor(orderID string) orderLinks {
	return orderLinks{
		Self:     "/v1/orders/" + orderID,
		Timeline: "/v1/orders/" + orderID + "/timeline",
	}
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
