package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/core/ports"
)

// NotificationHandler serves per-actor notifications.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /v1/notifications.
//
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Max rows (default 50)"
// @Success      200    {array}  domain.Notification
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	notifications, err := h.service.ListNotifications(c.Request().Context(), caller, queryInt(c, "limit", 50))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead handles POST /v1/notifications/:id/read.
//
// @Summary      Acknowledge a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Notification id"
// @Success      204  "no content"
// @Router       /v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkRead(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
