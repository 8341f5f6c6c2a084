package domain

import "time"

// AuditAction distinguishes the two kinds of audit entries.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
)

// AuditSnapshot is the subset of entity state captured on either side of a
// change. For orders only the status is load-bearing; the projector compares
// Old.Status against New.Status to decide whether an update is a status
// change.
type AuditSnapshot struct {
	Status OrderStatus `json:"status,omitempty" bson:"status,omitempty"`
}

// AuditLogEntry is one immutable, append-only record of a change. Entries
// are never mutated or deleted; the timeline is a full replay of the
// entries for one entity in creation-time order.
type AuditLogEntry struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	EntityType string        `json:"entity_type" bson:"entity_type"`
	EntityID   string        `json:"entity_id" bson:"entity_id"`
	Action     AuditAction   `json:"action" bson:"action"`
	ActorID    string        `json:"actor_id" bson:"actor_id"`
	Old        AuditSnapshot `json:"old_value" bson:"old_value"`
	New        AuditSnapshot `json:"new_value" bson:"new_value"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}

// EntityTypeOrder is the entity_type tag for order audit entries.
const EntityTypeOrder = "order"

// TimelineAction classifies a projected timeline event.
type TimelineAction string

const (
	TimelineCreate       TimelineAction = "create"
	TimelineStatusChange TimelineAction = "status_change"
)

// TimelineEvent is one human-meaningful lifecycle event derived from the
// audit log. ActorName is best-effort: empty when the profile could not be
// resolved.
type TimelineEvent struct {
	ID        string         `json:"id"`
	Action    TimelineAction `json:"action"`
	Status    OrderStatus    `json:"status"`
	ActorName string         `json:"actor_name,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
