package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalflow/lab-system/internal/api/metrics"
	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// DedupChecker abstracts the duplicate-suppression store (Redis). The same
// committed change may be enqueued more than once across restarts; fanout
// must stay harmless on replay.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, entryID string) (bool, error)
	Mark(ctx context.Context, entryID string) error
}

// ChangeNotifier publishes realtime invalidation signals. Consumers react
// by re-running the affected projection or list, never by patching cached
// state in place.
type ChangeNotifier interface {
	PublishOrderChange(ctx context.Context, orderID string, entryID string) error
	PublishActorNotification(ctx context.Context, actorID string) error
}

type fanoutService struct {
	notifications ports.NotificationRepository
	dedup         DedupChecker
	notifier      ChangeNotifier
	log           zerolog.Logger
}

// NewFanoutService returns a FanoutService implementation.
func NewFanoutService(
	notifications ports.NotificationRepository,
	dedup DedupChecker,
	notifier ChangeNotifier,
	log zerolog.Logger,
) ports.FanoutService {
	return &fanoutService{
		notifications: notifications,
		dedup:         dedup,
		notifier:      notifier,
		log:           log,
	}
}

// Process fans one committed transition out to its consumers: an
// invalidation signal on the order's audit channel, and, when the new
// status is externally visible, a notification row plus signal for the
// requesting dentist.
func (s *fanoutService) Process(ctx context.Context, event ports.ChangeEvent) error {
	isDup, err := s.dedup.IsDuplicate(ctx, event.EntryID)
	if err != nil {
		s.log.Warn().Err(err).Str("entry_id", event.EntryID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.FanoutDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("entry_id", event.EntryID).Msg("duplicate change event skipped")
		return nil
	}
	metrics.FanoutDedupTotal.WithLabelValues("miss").Inc()

	if markErr := s.dedup.Mark(ctx, event.EntryID); markErr != nil {
		s.log.Warn().Err(markErr).Str("entry_id", event.EntryID).Msg("failed to set dedup key")
	}

	if err := s.notifier.PublishOrderChange(ctx, event.OrderID, event.EntryID); err != nil {
		return fmt.Errorf("fanout: publish order change: %w", err)
	}

	// Dentists only ever see the submitted state, so intermediate
	// production steps generate no message for them. Delivery and
	// cancellation are the visible outcomes.
	var message string
	switch event.To {
	case domain.StatusEntregue:
		message = "Pedido entregue"
	case domain.StatusCancelado:
		message = "Pedido cancelado"
	default:
		return nil
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		ActorID:   event.DentistID,
		OrderID:   event.OrderID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return fmt.Errorf("fanout: insert notification: %w", err)
	}
	metrics.NotificationsPublishedTotal.WithLabelValues(string(event.To)).Inc()
	if err := s.notifier.PublishActorNotification(ctx, event.DentistID); err != nil {
		s.log.Warn().Err(err).Str("actor_id", event.DentistID).Msg("failed to publish actor notification")
	}

	s.log.Info().
		Str("order_id", event.OrderID).
		Str("to", string(event.To)).
		Str("dentist_id", event.DentistID).
		Msg("change fanned out")

	return nil
}

type notificationService struct {
	notifications ports.NotificationRepository
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(notifications ports.NotificationRepository) ports.NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListNotifications(ctx context.Context, caller ports.ActorContext, limit int) ([]*domain.Notification, error) {
	if caller.ActorID == "" {
		return nil, fmt.Errorf("list notifications: %w", domain.ErrForbidden)
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = 50
	}
	return s.notifications.ListByActor(ctx, caller.ActorID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, caller ports.ActorContext, notificationID string) error {
	if caller.ActorID == "" {
		return fmt.Errorf("mark read: %w", domain.ErrForbidden)
	}
	return s.notifications.MarkRead(ctx, caller.ActorID, notificationID)
}
