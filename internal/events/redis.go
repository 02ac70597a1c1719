package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
)

const redisChannel = "chat:events"

// RedisBus carries events over Redis pub/sub so several processes sharing
// one store see each other's writes. The client belongs to the caller;
// Close ends the bus's subscriptions but leaves the client open.
type RedisBus struct {
	client *redis.Client

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client, done: make(chan struct{})}
}

var _ Bus = (*RedisBus)(nil)

func (b *RedisBus) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	if b.isClosed() {
		return ErrBusClosed
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, redisChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so events
// published after it returns are delivered.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	out := make(chan Event, subscriberBuffer)
	if b.isClosed() {
		close(out)
		return out, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	pubsub := b.client.Subscribe(ctx, redisChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("Failed to subscribe to %s: %v", redisChannel, err)
		pubsub.Close()
		cancel()
		close(out)
		return out, func() {}
	}

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("Failed to decode event: %v", err)
					continue
				}
				select {
				case out <- ev:
				default:
					log.Printf("event subscriber is full, dropping %s", ev.Type)
				}
			}
		}
	}()

	return out, cancel
}

func (b *RedisBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.done)
	}
	return nil
}
