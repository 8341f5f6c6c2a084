package handler

import (
	"errors"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// reasonFor maps a transition failure to a low-cardinality metric label.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, domain.ErrTerminalStatus):
		return "terminal_status"
	case errors.Is(err, domain.ErrUnknownStatus):
		return "unknown_status"
	case errors.Is(err, domain.ErrStatusConflict):
		return "status_conflict"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "internal"
	}
}
