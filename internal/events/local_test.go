package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestLocalBusFanOut(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx := context.Background()
	first, cancelFirst := bus.Subscribe(ctx)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(ctx)
	defer cancelSecond()

	roomID := uuid.New()
	ev, err := New(TypeMessageCreated, roomID, map[string]string{"content": "hi"})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if err := bus.Publish(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, ch := range []<-chan Event{first, second} {
		got := receive(t, ch)
		if got.Type != TypeMessageCreated || got.RoomID != roomID {
			t.Errorf("Expected %s for %s, got %+v", TypeMessageCreated, roomID, got)
		}
		if string(got.Data) != `{"content":"hi"}` {
			t.Errorf("Unexpected data %s", got.Data)
		}
	}
}

func TestLocalBusCancelClosesStream(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe(context.Background())
	cancel()
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("stream was not closed")
	}
}

func TestLocalBusContextEndsSubscription(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := bus.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("stream was not closed")
	}
}

func TestLocalBusClosed(t *testing.T) {
	bus := NewLocalBus()
	bus.Close()

	err := bus.Publish(context.Background(), Event{Type: TypeDataReset})
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Expected ErrBusClosed, got %v", err)
	}
}
