package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendQueueSize  = 256
)

// Actions is what a connection may do beyond joining and leaving rooms.
type Actions interface {
	// RoomExists reports whether roomID names a stored room.
	RoomExists(roomID uuid.UUID) (bool, error)
	// PostMessage stores data, a message payload, in roomID as senderID.
	// The stored message comes back to the room through the event relay.
	PostMessage(senderID, roomID uuid.UUID, data json.RawMessage) error
}

// Client is one websocket connection of a session. The hub pushes frames
// into send; the client only reads commands from the socket.
type Client struct {
	ID       uuid.UUID
	SenderID uuid.UUID

	conn *websocket.Conn
	hub  *Hub
	// send is closed by the hub, under hub.mu, once closed is set.
	send   chan []byte
	closed bool

	mu    sync.RWMutex
	rooms map[uuid.UUID]bool
}

func NewClient(hub *Hub, conn *websocket.Conn, senderID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		SenderID: senderID,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		hub:      hub,
		rooms:    make(map[uuid.UUID]bool),
	}
}

// Serve registers the client and runs it until the connection drops.
// initialRooms are joined as if the client had asked for them.
func (c *Client) Serve(actions Actions, initialRooms ...uuid.UUID) {
	c.hub.Register(c)
	go c.writeFrames()

	for _, roomID := range initialRooms {
		c.handle(actions, &Message{Type: TypeRoomJoin, RoomID: &roomID})
	}
	c.readFrames(actions)
}

func (c *Client) readFrames(actions Actions) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.handle(actions, &msg)
	}
}

// handle answers one command frame. Failures go back to the client as an
// error frame and never end the connection.
func (c *Client) handle(actions Actions, msg *Message) {
	var err error
	switch msg.Type {
	case TypePong:
	case TypeRoomJoin:
		err = c.join(actions, msg.RoomID)
	case TypeRoomLeave:
		err = c.leave(msg.RoomID)
	case TypeMessage:
		err = c.post(actions, msg)
	default:
		err = ErrInvalidMessage
	}

	if err != nil {
		log.Printf("Client %s %s frame rejected: %v", c.ID, msg.Type, err)
		c.SendError(msg.RoomID, err)
	}
}

func (c *Client) join(actions Actions, roomID *uuid.UUID) error {
	if roomID == nil {
		return ErrInvalidMessage
	}

	exists, err := actions.RoomExists(*roomID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRoomNotFound
	}

	c.hub.JoinRoom(c, *roomID)
	return c.reply(TypeRoomJoined, roomID, nil)
}

func (c *Client) leave(roomID *uuid.UUID) error {
	if roomID == nil {
		return ErrInvalidMessage
	}
	if !c.IsInRoom(*roomID) {
		return ErrNotInRoom
	}

	c.hub.LeaveRoom(c, *roomID)
	return c.reply(TypeRoomLeft, roomID, nil)
}

func (c *Client) post(actions Actions, msg *Message) error {
	if msg.RoomID == nil || len(msg.Data) == 0 {
		return ErrInvalidMessage
	}
	if !c.IsInRoom(*msg.RoomID) {
		return ErrNotInRoom
	}
	return actions.PostMessage(c.SenderID, *msg.RoomID, msg.Data)
}

func (c *Client) writeFrames() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// reply queues a frame for this client only.
func (c *Client) reply(msgType MessageType, roomID *uuid.UUID, data interface{}) error {
	msg := Message{
		Type:      msgType,
		RoomID:    roomID,
		SenderID:  c.SenderID,
		Timestamp: time.Now().UTC(),
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = raw
	}

	frame, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(roomID *uuid.UUID, err error) {
	if qerr := c.reply(TypeError, roomID, map[string]string{"error": err.Error()}); qerr != nil && !errors.Is(qerr, ErrClientQueueFull) && !errors.Is(qerr, ErrClientClosed) {
		log.Printf("Failed to queue error frame for client %s: %v", c.ID, qerr)
	}
}

func (c *Client) IsInRoom(roomID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[roomID]
}

func (c *Client) GetRooms() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]uuid.UUID, 0, len(c.rooms))
	for roomID := range c.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}
