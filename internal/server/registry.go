package server

import (
	"errors"
	"sync"
)

var (
	ErrUnknownConnection = errors.New("unknown connection")
	errNotIdentified     = errors.New("connection not identified")
)

type connEntry struct {
	client *Client
	userId int
	rooms  map[string]struct{}
}

// Registry maps live connections to user identities and room subscriptions.
// All three indexes change under one lock so a removed connection never
// lingers in a user or room set.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connEntry
	users map[int]map[string]struct{}
	rooms map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*connEntry),
		users: make(map[int]map[string]struct{}),
		rooms: make(map[string]map[string]struct{}),
	}
}

// Add tracks a freshly opened, not yet identified connection.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c.id]; ok {
		return
	}
	r.conns[c.id] = &connEntry{client: c, rooms: make(map[string]struct{})}
}

// Register binds connId to userId. It reports whether the connection became
// identified by this call. Binding to a different user moves the connection.
func (r *Registry) Register(connId string, userId int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connId]
	if !ok {
		return false, ErrUnknownConnection
	}

	if e.userId == userId {
		return false, nil
	}

	wasIdentified := e.userId != 0
	if wasIdentified {
		removeFromSet(r.users, e.userId, connId)
	}

	e.userId = userId
	addToSet(r.users, userId, connId)

	return !wasIdentified, nil
}

// Unregister drops the connection and every room membership it held. Unknown
// ids are ignored.
func (r *Registry) Unregister(connId string) (found, identified bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connId]
	if !ok {
		return false, false
	}

	for room := range e.rooms {
		removeFromSet(r.rooms, room, connId)
	}
	if e.userId != 0 {
		removeFromSet(r.users, e.userId, connId)
	}
	delete(r.conns, connId)

	return true, e.userId != 0
}

// UserOf returns the identity bound to connId, or zero.
func (r *Registry) UserOf(connId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.conns[connId]; ok {
		return e.userId
	}
	return 0
}

func (r *Registry) ConnectionsFor(userId int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return setKeys(r.users[userId])
}

// Join subscribes an identified connection to room. Joining twice is a no-op.
func (r *Registry) Join(connId, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connId]
	if !ok {
		return ErrUnknownConnection
	}
	if e.userId == 0 {
		return errNotIdentified
	}

	e.rooms[room] = struct{}{}
	addToSet(r.rooms, room, connId)

	return nil
}

func (r *Registry) Leave(connId, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connId]
	if !ok {
		return
	}

	delete(e.rooms, room)
	removeFromSet(r.rooms, room, connId)
}

func (r *Registry) SubscribersOf(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return setKeys(r.rooms[room])
}

func (r *Registry) JoinedRooms(connId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.conns[connId]; ok {
		return setKeys(e.rooms)
	}
	return []string{}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

func (r *Registry) clientsForUsers(userIds []int) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var clients []*Client
	for _, uid := range userIds {
		for connId := range r.users[uid] {
			if _, ok := seen[connId]; ok {
				continue
			}
			seen[connId] = struct{}{}
			clients = append(clients, r.conns[connId].client)
		}
	}

	return clients
}

func (r *Registry) clientsInRoom(room string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.rooms[room]))
	for connId := range r.rooms[room] {
		clients = append(clients, r.conns[connId].client)
	}

	return clients
}

// drain empties the registry and returns every connection it held along with
// how many of them had identified.
func (r *Registry) drain() (clients []*Client, identified int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients = make([]*Client, 0, len(r.conns))
	for _, e := range r.conns {
		clients = append(clients, e.client)
		if e.userId != 0 {
			identified++
		}
	}

	r.conns = make(map[string]*connEntry)
	r.users = make(map[int]map[string]struct{})
	r.rooms = make(map[string]map[string]struct{})

	return clients, identified
}

func addToSet[K comparable](index map[K]map[string]struct{}, key K, connId string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[connId] = struct{}{}
}

func removeFromSet[K comparable](index map[K]map[string]struct{}, key K, connId string) {
	set, ok := index[key]
	if !ok {
		return
	}

	delete(set, connId)
	if len(set) == 0 {
		delete(index, key)
	}
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}
