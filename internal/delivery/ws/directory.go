package ws

import "sync"

// RoomDirectory maps room ids to the live connections subscribed to them.
// Membership is in-memory only and rebuilt from scratch as connections
// join; rooms whose last member leaves are removed so ephemeral anonymous
// room ids are never revived.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewRoomDirectory creates an empty room directory.
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Ensure creates the room's membership set if absent. No-op if present.
func (d *RoomDirectory) Ensure(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[roomID]; !ok {
		d.rooms[roomID] = make(map[*Client]struct{})
	}
}

// Add subscribes a connection to a room, creating the room if needed.
func (d *RoomDirectory) Add(roomID string, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		d.rooms[roomID] = members
	}
	members[c] = struct{}{}
}

// Remove unsubscribes a connection from a room. A room left empty is
// deleted from the directory.
func (d *RoomDirectory) Remove(roomID string, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(d.rooms, roomID)
	}
}

// Members returns the live connections subscribed to a room. An unknown
// room yields an empty slice, never an error.
func (d *RoomDirectory) Members(roomID string) []*Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[roomID]
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// Has reports whether the connection is currently a member of the room.
func (d *RoomDirectory) Has(roomID string, c *Client) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID][c]
	return ok
}

// RoomCount returns the number of rooms with at least one live member.
func (d *RoomDirectory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
