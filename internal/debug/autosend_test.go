package debug

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/services"
)

func newTestController(bus events.Bus) *Controller {
	c := NewController(bus, "test")
	c.minInterval = time.Millisecond
	return c
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("auto sender did not finish")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config: %v", err)
	}

	bad := []AutoSendConfig{
		{Interval: 100 * time.Millisecond, Total: 5, Mode: services.SenderModeRandom},
		{Interval: 11 * time.Second, Total: 5, Mode: services.SenderModeRandom},
		{Interval: time.Second, Total: 0, Mode: services.SenderModeRandom},
		{Interval: time.Second, Total: 51, Mode: services.SenderModeRandom},
		{Interval: time.Second, Total: 5, Mode: "all"},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for %+v, got %v", cfg, err)
		}
	}
}

func TestControllerStopsAfterTotal(t *testing.T) {
	bus := events.NewLocalBus()
	defer bus.Close()

	stream, cancel := bus.Subscribe(context.Background())
	defer cancel()

	c := newTestController(bus)
	roomID := uuid.New()
	cfg := AutoSendConfig{Interval: 5 * time.Millisecond, Total: 3, Mode: services.SenderModeRandom}

	if err := c.Start(roomID, cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, c.Done(roomID))

	st := c.Status(roomID)
	if st.Running || st.Sent != 3 || st.Total != 3 {
		t.Errorf("Unexpected status %+v", st)
	}

	for i := 0; i < 3; i++ {
		select {
		case ev := <-stream:
			if ev.Type != events.TypeSendRandomMessage || ev.RoomID != roomID || ev.Origin != "test" {
				t.Errorf("Unexpected event %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing tick %d", i)
		}
	}

	if err := c.Stop(roomID); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Expected ErrNotRunning, got %v", err)
	}
}

func TestControllerSingleRunPerRoom(t *testing.T) {
	bus := events.NewLocalBus()
	defer bus.Close()

	c := newTestController(bus)
	defer c.StopAll()

	roomID := uuid.New()
	cfg := AutoSendConfig{Interval: time.Second, Total: 50, Mode: services.SenderModeRandom}

	if err := c.Start(roomID, cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(roomID, cfg); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}

	if err := c.Stop(roomID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	waitDone(t, c.Done(roomID))

	if st := c.Status(roomID); st.Running {
		t.Errorf("Expected stopped sender, got %+v", st)
	}

	if err := c.Start(roomID, cfg); err != nil {
		t.Errorf("restart: %v", err)
	}
}

func TestControllerUnknownRoom(t *testing.T) {
	c := newTestController(events.NewLocalBus())

	if err := c.Stop(uuid.New()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Expected ErrNotRunning, got %v", err)
	}
	if st := c.Status(uuid.New()); st.Running || st.Sent != 0 {
		t.Errorf("Unexpected status %+v", st)
	}
	waitDone(t, c.Done(uuid.New()))
}

type recordingSender struct {
	mu    sync.Mutex
	calls []services.RandomRequest
	seen  chan struct{}
}

func (r *recordingSender) SendRandomMessage(_ context.Context, _ uuid.UUID, req services.RandomRequest) (*models.Message, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	r.seen <- struct{}{}
	return &models.Message{}, nil
}

func TestMessengerIgnoresForeignOrigin(t *testing.T) {
	bus := events.NewLocalBus()
	defer bus.Close()

	sender := &recordingSender{seen: make(chan struct{}, 4)}
	m := NewMessenger(bus, sender, "mine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	// Give Run a moment to subscribe.
	time.Sleep(20 * time.Millisecond)

	roomID := uuid.New()
	foreign, _ := events.New(events.TypeSendRandomMessage, roomID, services.RandomRequest{Mode: services.SenderModeRandom})
	foreign.Origin = "theirs"
	bus.Publish(ctx, foreign)

	own, _ := events.New(events.TypeSendRandomMessage, roomID, services.RandomRequest{Mode: services.SenderModeSingle})
	own.Origin = "mine"
	bus.Publish(ctx, own)

	select {
	case <-sender.seen:
	case <-time.After(time.Second):
		t.Fatal("messenger did not handle its own tick")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.calls) != 1 || sender.calls[0].Mode != services.SenderModeSingle {
		t.Errorf("Unexpected calls %+v", sender.calls)
	}
}

func TestAutoSendEndToEnd(t *testing.T) {
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	bus := events.NewLocalBus()
	defer bus.Close()

	svc := services.NewChatService(db, bus, rand.New(rand.NewSource(3)))
	room, _ := db.Factory().Rooms().Insert("room", models.NewGroupRoomType([]uuid.UUID{uuid.New()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewMessenger(bus, svc, "node").Run(ctx)
	time.Sleep(20 * time.Millisecond)

	c := NewController(bus, "node")
	c.minInterval = time.Millisecond
	cfg := AutoSendConfig{Interval: 5 * time.Millisecond, Total: 4, Mode: services.SenderModeRandom}
	if err := c.Start(room.ID, cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, c.Done(room.ID))

	deadline := time.Now().Add(2 * time.Second)
	for {
		count, _ := db.Factory().Messages().Count()
		if count == 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 4 messages, got %d", count)
		}
		time.Sleep(10 * time.Millisecond)
	}

	stored, _ := db.Factory().Rooms().Find(room.ID)
	messages, _ := db.Factory().Messages().ListByRoomID(room.ID)
	if stored.LastMessageContent != messages[len(messages)-1].Content {
		t.Errorf("Expected last message %q, got %q", messages[len(messages)-1].Content, stored.LastMessageContent)
	}
}

func TestMessengersShareRedisBus(t *testing.T) {
	m := miniredis.RunT(t)
	newBus := func() *events.RedisBus {
		client := redis.NewClient(&redis.Options{Addr: m.Addr()})
		t.Cleanup(func() { client.Close() })
		bus := events.NewRedisBus(client)
		t.Cleanup(func() { bus.Close() })
		return bus
	}
	busA, busB := newBus(), newBus()

	senderA := &recordingSender{seen: make(chan struct{}, 4)}
	senderB := &recordingSender{seen: make(chan struct{}, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewMessenger(busA, senderA, "a").Run(ctx)
	go NewMessenger(busB, senderB, "b").Run(ctx)

	deadline := time.Now().Add(time.Second)
	for m.PubSubNumSub("chat:events")["chat:events"] != 2 {
		if time.Now().After(deadline) {
			t.Fatal("messengers never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	c := NewController(busA, "a")
	c.minInterval = time.Millisecond
	cfg := AutoSendConfig{Interval: 5 * time.Millisecond, Total: 2, Mode: services.SenderModeRandom}
	if err := c.Start(uuid.New(), cfg); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-senderA.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("origin a missed tick %d", i)
		}
	}

	select {
	case <-senderB.seen:
		t.Error("messenger b handled a tick published by a")
	case <-time.After(50 * time.Millisecond):
	}
}
