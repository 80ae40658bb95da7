package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
	"github.com/teris-io/shortid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendQueueSize  = 256
)

// Client is one websocket connection. user is the session that opened it;
// the connection only becomes addressable after it identifies as that user.
type Client struct {
	id         string
	conn       *websocket.Conn
	chatServer *ChatServer
	log        *log.Logger
	user       types.User
	send       chan *ServerMessage
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewClient(user types.User, conn *websocket.Conn, cs *ChatServer, l *log.Logger) (*Client, error) {
	id, err := shortid.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate connection id: %w", err)
	}

	return &Client{
		id:         id,
		conn:       conn,
		chatServer: cs,
		log:        l,
		user:       user,
		send:       make(chan *ServerMessage, sendQueueSize),
		stop:       make(chan struct{}),
	}, nil
}

func (c *Client) Id() string {
	return c.id
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			bytes, err := serializeMessage(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.chatServer.removeClient(c)
		c.stopClient()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Println("error parsing message:", err)
			c.queueMessage(ErrInvalidMessage(-1))
			continue
		}

		c.handle(&msg)
	}
}

func (c *Client) handle(msg *ClientMessage) {
	switch {
	case msg.Identify != nil:
		c.identify(msg)
	case msg.Join != nil:
		c.joinRoom(msg)
	case msg.Leave != nil:
		c.leaveRoom(msg)
	default:
		c.queueMessage(ErrInvalidMessage(msg.Id))
	}
}

func (c *Client) identify(msg *ClientMessage) {
	if msg.Identify.UserId != c.user.Id {
		c.log.Printf("connection %s: user %d tried to identify as %d", c.id, c.user.Id, msg.Identify.UserId)
		c.queueMessage(ErrForbidden(msg.Id))
		return
	}

	if err := c.chatServer.identify(c, c.user.Id); err != nil {
		c.log.Printf("connection %s: identify: %v", c.id, err)
		c.queueMessage(ErrInternalError(msg.Id))
		return
	}

	c.queueMessage(NoErrOK(msg.Id, map[string]any{"connection_id": c.id}))
}

func (c *Client) joinRoom(msg *ClientMessage) {
	room, err := types.ParseRoomKey(msg.Join.RoomId)
	if err != nil {
		c.queueMessage(ErrInvalidMessage(msg.Id))
		return
	}

	registry := c.chatServer.registry
	userId := registry.UserOf(c.id)
	if userId == 0 {
		c.queueMessage(ErrNotIdentified(msg.Id))
		return
	}

	if err := c.chatServer.authorizeJoin(userId, room); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.queueMessage(ErrRoomNotFound(msg.Id))
		case errors.Is(err, errForbidden):
			c.queueMessage(ErrForbidden(msg.Id))
		default:
			c.log.Printf("connection %s: authorize join %s: %v", c.id, room, err)
			c.queueMessage(ErrInternalError(msg.Id))
		}
		return
	}

	if err := registry.Join(c.id, room.String()); err != nil {
		if errors.Is(err, errNotIdentified) {
			c.queueMessage(ErrNotIdentified(msg.Id))
			return
		}
		c.queueMessage(ErrInternalError(msg.Id))
		return
	}

	c.queueMessage(NoErrOK(msg.Id, map[string]any{"room_id": room.String()}))
}

func (c *Client) leaveRoom(msg *ClientMessage) {
	room, err := types.ParseRoomKey(msg.Leave.RoomId)
	if err != nil {
		c.queueMessage(ErrInvalidMessage(msg.Id))
		return
	}

	c.chatServer.registry.Leave(c.id, room.String())
	c.queueMessage(NoErrOK(msg.Id, map[string]any{"room_id": room.String()}))
}

// queueMessage never blocks. It reports false when the client's queue is full
// and the message was dropped.
func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Printf("connection %s: send queue full, dropping message", c.id)
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() { close(c.stop) })
}
