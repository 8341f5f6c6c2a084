package domain

import "time"

// Notification is a per-actor message row. The realtime channel only
// signals "something for you changed"; the row itself is the payload the
// client re-fetches.
type Notification struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	OrderID   string    `json:"order_id,omitempty" bson:"order_id,omitempty"`
	Message   string    `json:"message" bson:"message"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
