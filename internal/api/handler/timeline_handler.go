package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/api/metrics"
	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// TimelineHandler serves the audit-log projection of an order's lifecycle.
type TimelineHandler struct {
	service ports.TimelineService
}

func NewTimelineHandler(service ports.TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// Get handles GET /v1/orders/:id/timeline.
//
// @Summary      Order lifecycle timeline
// @Description  Replays the order's audit entries as lifecycle events. Callers
// @Description  below the top admin tier receive only the creation event.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {array}   timelineEventResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/timeline [get]
func (h *TimelineHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	events, err := h.service.OrderTimeline(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TimelineProjectionsTotal.Inc()

	super := domain.IsSuperAdmin(caller.Role)
	out := make([]timelineEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, timelineEventResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			Status:    string(e.Status),
			Label:     domain.StatusLabel(e.Status, super),
			Color:     domain.StatusColor(e.Status),
			ActorName: e.ActorName,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
