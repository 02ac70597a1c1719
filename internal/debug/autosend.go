package debug

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/services"
)

const (
	MinInterval = 500 * time.Millisecond
	MaxInterval = 10 * time.Second
	MinTotal    = 1
	MaxTotal    = 50
)

var (
	ErrAlreadyRunning = errors.New("auto send already running")
	ErrNotRunning     = errors.New("auto send not running")
	ErrInvalidConfig  = errors.New("invalid auto send config")
)

type AutoSendConfig struct {
	Interval time.Duration
	Total    int
	Mode     services.SenderMode
	SenderID uuid.UUID
}

func DefaultConfig() AutoSendConfig {
	return AutoSendConfig{Interval: time.Second, Total: 5, Mode: services.SenderModeRandom}
}

func (c AutoSendConfig) Validate() error {
	return c.validate(MinInterval)
}

func (c AutoSendConfig) validate(minInterval time.Duration) error {
	if c.Interval < minInterval || c.Interval > MaxInterval {
		return ErrInvalidConfig
	}
	if c.Total < MinTotal || c.Total > MaxTotal {
		return ErrInvalidConfig
	}
	if !c.Mode.Valid() {
		return ErrInvalidConfig
	}
	return nil
}

type Status struct {
	RoomID  uuid.UUID     `json:"room_id"`
	Running bool          `json:"running"`
	Sent    int           `json:"sent"`
	Total   int           `json:"total"`
	Every   time.Duration `json:"interval"`
}

type autoSender struct {
	cfg     AutoSendConfig
	sent    int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Controller runs at most one auto-sender per room. Every tick publishes a
// send_random_message command; the Messenger in the same process performs
// the write.
type Controller struct {
	bus    events.Bus
	origin string

	mu      sync.Mutex
	senders map[uuid.UUID]*autoSender
	// minInterval is lowered by tests.
	minInterval time.Duration
}

func NewController(bus events.Bus, origin string) *Controller {
	return &Controller{
		bus:         bus,
		origin:      origin,
		senders:     make(map[uuid.UUID]*autoSender),
		minInterval: MinInterval,
	}
}

func (c *Controller) Start(roomID uuid.UUID, cfg AutoSendConfig) error {
	if err := cfg.validate(c.minInterval); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.senders[roomID]; ok && s.running {
		return ErrAlreadyRunning
	}

	s := &autoSender{
		cfg:     cfg,
		running: true,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	c.senders[roomID] = s

	go c.run(roomID, s)
	return nil
}

func (c *Controller) run(roomID uuid.UUID, s *autoSender) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			select {
			case <-s.stop:
				return
			default:
			}
			c.tick(roomID, s)

			c.mu.Lock()
			s.sent++
			finished := s.sent >= s.cfg.Total
			if finished {
				s.running = false
			}
			c.mu.Unlock()

			if finished {
				return
			}
		}
	}
}

func (c *Controller) tick(roomID uuid.UUID, s *autoSender) {
	ev, err := events.New(events.TypeSendRandomMessage, roomID, services.RandomRequest{
		Mode:     s.cfg.Mode,
		SenderID: s.cfg.SenderID,
	})
	if err != nil {
		log.Printf("Failed to encode auto send tick: %v", err)
		return
	}
	ev.Origin = c.origin

	if err := c.bus.Publish(context.Background(), ev); err != nil {
		log.Printf("Failed to publish auto send tick for room %s: %v", roomID, err)
	}
}

// Stop cancels the room's auto-sender. The sent counter is kept for Status.
func (c *Controller) Stop(roomID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.senders[roomID]
	if !ok || !s.running {
		return ErrNotRunning
	}
	s.running = false
	close(s.stop)
	return nil
}

// StopAll cancels every running auto-sender and waits for them to exit.
func (c *Controller) StopAll() {
	c.mu.Lock()
	var waiting []chan struct{}
	for _, s := range c.senders {
		if s.running {
			s.running = false
			close(s.stop)
		}
		waiting = append(waiting, s.done)
	}
	c.mu.Unlock()

	for _, done := range waiting {
		<-done
	}
}

func (c *Controller) Status(roomID uuid.UUID) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{RoomID: roomID}
	if s, ok := c.senders[roomID]; ok {
		st.Running = s.running
		st.Sent = s.sent
		st.Total = s.cfg.Total
		st.Every = s.cfg.Interval
	}
	return st
}

// Done is closed when the room's current auto-sender exits.
func (c *Controller) Done(roomID uuid.UUID) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.senders[roomID]; ok {
		return s.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}
