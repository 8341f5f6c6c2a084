package ports

import (
	"context"
	"time"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

// ChangeEvent is the fanout job emitted after a status transition commits.
// It carries everything the notification pipeline needs without re-reading
// the order.
type ChangeEvent struct {
	EntryID    string // audit entry id, used for duplicate suppression
	OrderID    string
	DentistID  string
	ActorID    string
	From       domain.OrderStatus
	To         domain.OrderStatus
	OccurredAt time.Time
}

// FanoutService turns one committed change into notification rows and
// realtime invalidation signals. Processing the same EntryID twice must be
// harmless.
type FanoutService interface {
	Process(ctx context.Context, event ChangeEvent) error
}
