package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionUpdated = "question_updated"
	EventQuestionDeleted = "question_deleted"
)

// QuestionEvent tells list views that the question set changed.
type QuestionEvent struct {
	Type       string `json:"type"`
	ID         uint   `json:"id"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Notifier delivers question events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event QuestionEvent) error
}

// RedisNotifier publishes events on a redis channel so every server instance can
// relay them to its own websocket clients.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, event QuestionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal question event: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("publish question event: %w", err)
	}
	return nil
}

// RelayRedisEvents forwards events published on channel to the hub until ctx is done.
func RelayRedisEvents(ctx context.Context, client *redis.Client, channel string, hub *Hub, logger *zap.Logger) {
	pubsub := client.Subscribe(ctx, channel)
	defer pubsub.Close()

	logger.Info("relaying question events from redis", zap.String("channel", channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event QuestionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("dropping malformed question event", zap.Error(err))
				continue
			}
			if err := hub.Notify(ctx, event); err != nil {
				logger.Warn("failed to relay question event", zap.Error(err))
			}
		}
	}
}
