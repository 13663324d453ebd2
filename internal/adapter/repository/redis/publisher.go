package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gowallet/internal/domain"
)

// NotificationChannelPrefix is followed by the account id.
const NotificationChannelPrefix = "wallet:notifications:"

// NotificationMessage is the JSON payload published for a notification.
type NotificationMessage struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	EntryID   string    `json:"transactionId,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher pushes notifications to per-account Redis pub/sub channels.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends n to the owner's channel. Having no subscribers is not an error.
func (p *Publisher) Publish(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(NotificationMessage{
		ID:        n.ID,
		AccountID: n.AccountID,
		EntryID:   n.EntryID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, NotificationChannelPrefix+n.AccountID, payload).Err()
}
