package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/stats"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

const authorizeTimeout = 5 * time.Second

var errForbidden = errors.New("forbidden")

type ChatServer struct {
	log      *log.Logger
	db       database.LearnLinkRepository
	stats    stats.StatsProvider
	registry *Registry
	stop     chan stopReq
	// closed once Run has drained the registry
	stopped chan struct{}
}

type stopReq struct {
	done chan struct{}
}

func NewChatServer(logger *log.Logger, db database.LearnLinkRepository, su stats.StatsProvider) *ChatServer {
	return &ChatServer{
		log:      logger,
		db:       db,
		stats:    su,
		registry: NewRegistry(),
		stop:     make(chan stopReq),
		stopped:  make(chan struct{}),
	}
}

func (cs *ChatServer) Registry() *Registry {
	return cs.registry
}

// Run blocks until Shutdown is called, then closes every live connection.
func (cs *ChatServer) Run() {
	req := <-cs.stop

	clients, identified := cs.registry.drain()
	cs.log.Printf("closing %d connection(s)", len(clients))
	for _, c := range clients {
		c.stopClient()
	}

	// drained clients are no longer found by removeClient
	for range clients {
		cs.stats.Decr(stats.NumConnections)
	}
	for range identified {
		cs.stats.Decr(stats.NumIdentifiedConnections)
	}

	close(cs.stopped)
	close(req.done)
}

// Shutdown asks Run to close every connection and waits for it. Calls after
// the server has stopped return immediately.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Println("received shutdown signal")

	req := stopReq{done: make(chan struct{})}
	select {
	case cs.stop <- req:
	case <-cs.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterClient starts tracking an opened connection. The connection cannot
// receive pushes until it identifies.
func (cs *ChatServer) RegisterClient(c *Client) {
	cs.registry.Add(c)
	cs.stats.Incr(stats.NumConnections)
	cs.log.Printf("connection %s opened by user %d", c.id, c.user.Id)
}

func (cs *ChatServer) removeClient(c *Client) {
	found, identified := cs.registry.Unregister(c.id)
	if !found {
		return
	}

	cs.stats.Decr(stats.NumConnections)
	if identified {
		cs.stats.Decr(stats.NumIdentifiedConnections)
	}
	cs.log.Printf("connection %s closed", c.id)
}

func (cs *ChatServer) identify(c *Client, userId int) error {
	newlyIdentified, err := cs.registry.Register(c.id, userId)
	if err != nil {
		return err
	}

	if newlyIdentified {
		cs.stats.Incr(stats.NumIdentifiedConnections)
	}
	return nil
}

// authorizeJoin checks relational membership for room. It returns
// database.ErrNotFound for unknown rooms and errForbidden for non-members.
func (cs *ChatServer) authorizeJoin(userId int, room types.RoomKey) error {
	ctx, cancel := context.WithTimeout(context.Background(), authorizeTimeout)
	defer cancel()

	switch room.Kind {
	case types.RoomKindChatroom:
		if _, err := cs.db.GetChatroom(ctx, room.Id); err != nil {
			return err
		}

		member, err := cs.db.IsChatroomMember(ctx, room.Id, userId)
		if err != nil {
			return err
		}
		if !member {
			return errForbidden
		}
	case types.RoomKindDirectMessage:
		dm, err := cs.db.GetDirectMessage(ctx, room.Id)
		if err != nil {
			return err
		}
		if !dm.HasParticipant(userId) {
			return errForbidden
		}
	default:
		return types.ErrInvalidRoomId
	}

	return nil
}

func (cs *ChatServer) PushToUsers(userIds []int, push types.Push) types.Delivery {
	return cs.deliver(cs.registry.clientsForUsers(userIds), push)
}

func (cs *ChatServer) PushToRoom(room types.RoomKey, push types.Push) types.Delivery {
	return cs.deliver(cs.registry.clientsInRoom(room.String()), push)
}

// deliver queues push on every client without blocking. A full queue counts
// as a drop for that client only.
func (cs *ChatServer) deliver(clients []*Client, push types.Push) types.Delivery {
	del := types.Delivery{Targeted: len(clients)}
	msg := pushMessage(push)
	for _, c := range clients {
		if c.queueMessage(msg) {
			del.Queued++
		} else {
			del.Dropped++
		}
	}

	return del
}
