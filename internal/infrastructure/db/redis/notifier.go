package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ChangeNotifier publishes realtime invalidation signals over Redis
// pub/sub. Channels carry no payload beyond the identifiers: subscribers
// react by re-running the affected query, never by patching cached state.
//
// Channel layout:
//
//	audit:order:<order_id>  — a new audit entry exists for the order
//	notify:actor:<actor_id> — the actor's notification list changed
type ChangeNotifier struct {
	client *redis.Client
}

// NewChangeNotifier creates a ChangeNotifier wrapping the given client.
func NewChangeNotifier(client *redis.Client) *ChangeNotifier {
	return &ChangeNotifier{client: client}
}

// PublishOrderChange signals that entryID was appended to the order's
// audit log.
func (n *ChangeNotifier) PublishOrderChange(ctx context.Context, orderID, entryID string) error {
	return n.client.Publish(ctx, OrderChannel(orderID), entryID).Err()
}

// PublishActorNotification signals that the actor has a new notification.
func (n *ChangeNotifier) PublishActorNotification(ctx context.Context, actorID string) error {
	return n.client.Publish(ctx, ActorChannel(actorID), "1").Err()
}

// SubscribeOrder opens a subscription on one order's audit channel. The
// caller owns the returned PubSub and must Close it.
func (n *ChangeNotifier) SubscribeOrder(ctx context.Context, orderID string) *redis.PubSub {
	return n.client.Subscribe(ctx, OrderChannel(orderID))
}

// SubscribeActor opens a subscription on one actor's notification channel.
func (n *ChangeNotifier) SubscribeActor(ctx context.Context, actorID string) *redis.PubSub {
	return n.client.Subscribe(ctx, ActorChannel(actorID))
}

// OrderChannel names the audit channel for one order.
func OrderChannel(orderID string) string {
	return fmt.Sprintf("audit:order:%s", orderID)
}

// ActorChannel names the notification channel for one actor.
func ActorChannel(actorID string) string {
	return fmt.Sprintf("notify:actor:%s", actorID)
}
