package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

type timelineService struct {
	orders ports.OrderRepository
	audits ports.AuditRepository
	actors ports.ActorRepository
	log    zerolog.Logger
}

// NewTimelineService returns a TimelineService implementation.
func NewTimelineService(
	orders ports.OrderRepository,
	audits ports.AuditRepository,
	actors ports.ActorRepository,
	log zerolog.Logger,
) ports.TimelineService {
	return &timelineService{orders: orders, audits: audits, actors: actors, log: log}
}

// OrderTimeline replays the order's audit log into lifecycle events.
//
// The replay is a pure function of the entries in creation-time order: a
// create entry always yields an event; an update entry yields one only when
// its snapshots disagree on status. Actor names are resolved best-effort.
// Non-super-admin viewers get the timeline truncated to the create event,
// mirroring the status-label gating.
func (s *timelineService) OrderTimeline(ctx context.Context, caller ports.ActorContext, orderID string) ([]domain.TimelineEvent, error) {
	// Scoped lookup first: out-of-scope orders read as not found.
	if _, err := s.orders.FindByID(ctx, orderID, ports.ScopeFor(caller)); err != nil {
		return nil, err
	}

	entries, err := s.audits.ListByEntity(ctx, domain.EntityTypeOrder, orderID)
	if err != nil {
		return nil, err
	}

	events := make([]domain.TimelineEvent, 0, len(entries))
	for _, e := range entries {
		switch e.Action {
		case domain.AuditActionCreate:
			status := e.New.Status
			if status == "" {
				status = domain.StatusPedidoSolicitado
			}
			events = append(events, domain.TimelineEvent{
				ID:        e.ID,
				Action:    domain.TimelineCreate,
				Status:    status,
				CreatedAt: e.CreatedAt,
			})
		case domain.AuditActionUpdate:
			// Pure non-status edits produce no timeline event.
			if e.Old.Status == e.New.Status {
				continue
			}
			events = append(events, domain.TimelineEvent{
				ID:        e.ID,
				Action:    domain.TimelineStatusChange,
				Status:    e.New.Status,
				CreatedAt: e.CreatedAt,
			})
		}
	}

	s.resolveActorNames(ctx, entries, events)

	if !domain.IsSuperAdmin(caller.Role) {
		return filterToCreate(events), nil
	}
	return events, nil
}

// resolveActorNames attaches display names to events. A failed or partial
// lookup degrades to nameless events; it never fails the projection.
func (s *timelineService) resolveActorNames(ctx context.Context, entries []*domain.AuditLogEntry, events []domain.TimelineEvent) {
	byEntry := make(map[string]string, len(entries))
	idSet := make(map[string]struct{})
	for _, e := range entries {
		if e.ActorID == "" {
			continue
		}
		byEntry[e.ID] = e.ActorID
		idSet[e.ActorID] = struct{}{}
	}
	if len(idSet) == 0 {
		return
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	actors, err := s.actors.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("actor name resolution failed, emitting nameless timeline")
		return
	}

	for i := range events {
		if a, ok := actors[byEntry[events[i].ID]]; ok {
			events[i].ActorName = a.Name
		}
	}
}

// filterToCreate keeps only the initial create event.
func filterToCreate(events []domain.TimelineEvent) []domain.TimelineEvent {
	for _, e := range events {
		if e.Action == domain.TimelineCreate {
			return []domain.TimelineEvent{e}
		}
	}
	return []domain.TimelineEvent{}
}
