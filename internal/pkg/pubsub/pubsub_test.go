package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestPublishSubscribe(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *NotifyEvent, 1)
	sub := NewSubscriber(client, "test_channel")
	go func() {
		_ = sub.Subscribe(ctx, func(event *NotifyEvent) {
			received <- event
		})
	}()

	// give the subscription a moment to attach
	time.Sleep(100 * time.Millisecond)

	pub := NewPublisher(client, "test_channel")
	err := pub.PublishNotify(ctx, &NotifyEvent{
		UserID:    42,
		Kind:      "reply",
		ActorID:   7,
		ActorName: "alice",
		PostID:    3,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "notification", event.Type)
		assert.Equal(t, int64(42), event.UserID)
		assert.Equal(t, "reply", event.Kind)
		assert.Equal(t, "alice", event.ActorName)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestSubscribe_StopsOnContextCancel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	sub := NewSubscriber(client, "test_channel")
	go func() {
		done <- sub.Subscribe(ctx, func(*NotifyEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}

func TestNewPublisher_DefaultChannel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	pub := NewPublisher(client, "")
	assert.Equal(t, ChannelNotifications, pub.channel)

	sub := NewSubscriber(client, "")
	assert.Equal(t, ChannelNotifications, sub.channel)
}
