package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelNotifications = "notify_events"
)

// NotifyEvent 投递给在线用户的通知事件
type NotifyEvent struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"` // 接收者
	Kind      string `json:"kind"`
	ActorID   int64  `json:"actor_id"`
	ActorName string `json:"actor_name,omitempty"`
	PostID    int64  `json:"post_id"`
	CommentID int64  `json:"comment_id,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = ChannelNotifications
	}
	return &Publisher{client: client, channel: channel}
}

// PublishNotify 发布通知事件
func (p *Publisher) PublishNotify(ctx context.Context, event *NotifyEvent) error {
	event.Type = "notification"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notify event: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client  *redis.Client
	channel string
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client, channel string) *Subscriber {
	if channel == "" {
		channel = ChannelNotifications
	}
	return &Subscriber{client: client, channel: channel}
}

// Subscribe 订阅通知事件，handler 同步执行
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*NotifyEvent)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event NotifyEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
