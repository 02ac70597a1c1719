package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return m, client
}

func TestRedisBusRoundTrip(t *testing.T) {
	_, client := newRedisClient(t)
	bus := NewRedisBus(client)
	defer bus.Close()

	stream, cancel := bus.Subscribe(context.Background())
	defer cancel()

	roomID := uuid.New()
	ev, _ := New(TypeSendRandomMessage, roomID, map[string]string{"mode": "random"})
	ev.Origin = "node-a"
	if err := bus.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := receive(t, stream)
	if got.Type != TypeSendRandomMessage || got.RoomID != roomID || got.Origin != "node-a" {
		t.Errorf("Unexpected event %+v", got)
	}
	if string(got.Data) != `{"mode":"random"}` {
		t.Errorf("Unexpected data %s", got.Data)
	}
}

func TestRedisBusSharedAcrossProcesses(t *testing.T) {
	m, first := newRedisClient(t)
	second := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer second.Close()

	publisher, subscriber := NewRedisBus(first), NewRedisBus(second)
	stream, cancel := subscriber.Subscribe(context.Background())
	defer cancel()

	ev, _ := New(TypeRoomUpdated, uuid.New(), nil)
	if err := publisher.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := receive(t, stream); got.Type != TypeRoomUpdated {
		t.Errorf("Expected room_updated, got %s", got.Type)
	}
}

func waitClosed(t *testing.T, ch <-chan Event) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream was not closed")
		}
	}
}

func TestRedisBusCancelClosesStream(t *testing.T) {
	m, client := newRedisClient(t)
	bus := NewRedisBus(client)
	defer bus.Close()

	ctx, stop := context.WithCancel(context.Background())
	byCtx, cancelCtx := bus.Subscribe(ctx)
	defer cancelCtx()
	byFunc, cancelFunc := bus.Subscribe(context.Background())

	if n := m.PubSubNumSub(redisChannel)[redisChannel]; n != 2 {
		t.Fatalf("Expected 2 subscribers, got %d", n)
	}

	stop()
	waitClosed(t, byCtx)
	cancelFunc()
	waitClosed(t, byFunc)
}

func TestRedisBusClose(t *testing.T) {
	_, client := newRedisClient(t)
	bus := NewRedisBus(client)

	stream, cancel := bus.Subscribe(context.Background())
	defer cancel()

	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	waitClosed(t, stream)

	ev, _ := New(TypeDataReset, uuid.Nil, nil)
	if err := bus.Publish(context.Background(), ev); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Expected ErrBusClosed, got %v", err)
	}
	late, _ := bus.Subscribe(context.Background())
	waitClosed(t, late)

	// The client belongs to the caller and stays usable.
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("Expected client to stay open, got %v", err)
	}
}
