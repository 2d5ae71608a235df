package ws

import (
	"sync"

	"github.com/cecepns/stroke-care/internal/domain"
)

type session struct {
	participant domain.Participant
	rooms       map[string]struct{}
}

// SessionRegistry tracks, per live connection, which participant it
// represents and which rooms it is subscribed to. Pure bookkeeping for the
// relay; everything is dropped on disconnect.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[*Client]*session
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[*Client]*session),
	}
}

// Register binds a participant to a connection. Re-registering replaces the
// participant but keeps the tracked rooms.
func (r *SessionRegistry) Register(c *Client, p domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[c]; ok {
		s.participant = p
		return
	}
	r.sessions[c] = &session{
		participant: p,
		rooms:       make(map[string]struct{}),
	}
}

// Participant returns the identity bound to a connection.
func (r *SessionRegistry) Participant(c *Client) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[c]
	if !ok {
		return domain.Participant{}, false
	}
	return s.participant, true
}

// TrackRoom records a room subscription for the connection.
func (r *SessionRegistry) TrackRoom(c *Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[c]; ok {
		s.rooms[roomID] = struct{}{}
	}
}

// UntrackRoom removes a room subscription for the connection.
func (r *SessionRegistry) UntrackRoom(c *Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[c]; ok {
		delete(s.rooms, roomID)
	}
}

// Rooms returns the rooms the connection is subscribed to.
func (r *SessionRegistry) Rooms(c *Client) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[c]
	if !ok {
		return nil
	}
	rooms := make([]string, 0, len(s.rooms))
	for roomID := range s.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

// Forget drops all bookkeeping for a connection.
func (r *SessionRegistry) Forget(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, c)
}

// FindByParticipant locates a live non-admin connection by participant id.
// Used for admin-initiated contact with a user who has not joined a room.
func (r *SessionRegistry) FindByParticipant(id domain.ParticipantID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c, s := range r.sessions {
		if s.participant.ID == id && s.participant.Role != domain.RoleAdmin {
			return c, true
		}
	}
	return nil, false
}

// Count returns the number of live identified connections.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
