package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"country_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// EventBroadcaster definition fire-and-forget publish over the pub/sub
// transport, at-most-once, no ack, no retry
type EventBroadcaster interface {
	Publish(destination string, payload interface{}) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish serialize payload and publish to the destination channel
func (r *RedisPubSub) Publish(destination string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, destination, data).Err()
}

// Subscribe attach to a destination, feed each raw payload to handler
// until ctx is cancelled
func (r *RedisPubSub) Subscribe(ctx context.Context, destination string, handler func(payload []byte)) error {
	sub := r.client.Subscribe(r.ctx, destination)
	go pump(ctx, destination, sub.Channel(), sub.Close, handler)
	return nil
}

// pump feeds messages to handler until the channel closes or ctx is
// cancelled, the subscription is closed exactly once
func pump(ctx context.Context, destination string, ch <-chan *redis.Message, closeFn func() error, handler func(payload []byte)) {
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return
			}
			handler([]byte(m.Payload))
		case <-ctx.Done():
			logger.Log.Info(fmt.Sprintf("%s , sub close", destination))
			if err := closeFn(); err != nil {
				logger.Log.Errorf("close subscription:", err)
			}
			return
		}
	}
}
