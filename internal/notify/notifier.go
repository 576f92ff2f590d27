package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stagelink/api/internal/models"
)

// Notifier publishes best-effort notifications over redis pub/sub. Delivery
// is never guaranteed and never consulted for authorization; with no redis
// client configured every publish is a no-op.
type Notifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewNotifier(client *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

func UserRoom(userID string) string {
	return "user:" + userID
}

func RoleRoom(role models.Role) string {
	return "role:" + string(role)
}

type message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Publish sends an event to a room. Failures are logged and swallowed: a
// broken side-channel must not fail the operation that triggered it.
func (n *Notifier) Publish(ctx context.Context, room, event string, payload any) {
	if n == nil || n.client == nil {
		return
	}

	raw, err := json.Marshal(message{Event: event, Payload: payload})
	if err != nil {
		n.log.Error().Err(err).Str("event", event).Msg("marshal notification")
		return
	}

	if err := n.client.Publish(ctx, "notify:"+room, raw).Err(); err != nil {
		n.log.Warn().Err(err).
			Str("room", room).
			Str("event", event).
			Msg("notification publish failed")
	}
}
