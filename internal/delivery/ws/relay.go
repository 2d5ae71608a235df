package ws

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/usecase"
)

// MessageStore is the persistence gateway the relay appends to and replays
// from. The relay has no retry logic: a failed insert is logged and the
// event dropped, so delivery is at-most-once and the sender only learns of
// success by seeing its own echo.
type MessageStore interface {
	Insert(roomID string, senderID *int64, senderName, content string) (*domain.ChatMessage, error)
	History(roomID string) ([]domain.StoredMessage, error)
}

// Resolver shapes a connection's identity into a Participant.
type Resolver interface {
	Resolve(claims *usecase.Claims, declared *domain.Participant) domain.Participant
}

// Relay is the routing engine: for each inbound event it decides which room
// the message belongs to, persists it, and fans it out to the right set of
// live connections. All state is owned by the struct; nothing is global.
type Relay struct {
	logger    *slog.Logger
	store     MessageStore
	resolver  Resolver
	directory *RoomDirectory
	sessions  *SessionRegistry

	// roomOf maps a non-admin participant id to its current room, so sends
	// that omit the room still resolve. Anonymous entries are dropped on
	// disconnect; registered entries are harmless to keep (the mapping is
	// deterministic).
	mu     sync.RWMutex
	roomOf map[domain.ParticipantID]string

	maxContent int
}

// NewRelay creates a relay with its own directory and session registry.
func NewRelay(logger *slog.Logger, store MessageStore, resolver Resolver, maxContent int) *Relay {
	if maxContent <= 0 {
		maxContent = domain.MaxContentLength
	}
	return &Relay{
		logger:     logger.With(slog.String("component", "relay")),
		store:      store,
		resolver:   resolver,
		directory:  NewRoomDirectory(),
		sessions:   NewSessionRegistry(),
		roomOf:     make(map[domain.ParticipantID]string),
		maxContent: maxContent,
	}
}

// Directory exposes live room membership, e.g. for dashboard stats.
func (r *Relay) Directory() *RoomDirectory { return r.directory }

// Sessions exposes live connection bookkeeping, e.g. for online counts.
func (r *Relay) Sessions() *SessionRegistry { return r.sessions }

// OnlineCount returns the number of identified live connections.
func (r *Relay) OnlineCount() int { return r.sessions.Count() }

// HandleJoinChat subscribes a registered user or admin to their room.
// Admins land in admin_global; a registered user lands in their stable
// user_<id> room, so reconnecting always resumes the same history.
func (r *Relay) HandleJoinChat(c *Client, payload JoinPayload) {
	p := r.resolver.Resolve(c.claims, &payload.User)

	var roomID string
	if p.IsAdmin() {
		roomID = domain.AdminGlobalRoom
	} else {
		uid, ok := p.ID.Int64()
		if !ok {
			r.logger.Warn("joinChat without a registered user id", slog.String("participant", p.ID.String()))
			return
		}
		roomID = domain.UserRoomID(uid)
	}

	r.sessions.Register(c, p)
	r.directory.Ensure(roomID)
	r.directory.Add(roomID, c)
	r.sessions.TrackRoom(c, roomID)

	if !p.IsAdmin() {
		r.setRoomOf(p.ID, roomID)
		r.signalAdmins(EventNewUserChat, RoomSignal{User: p, RoomID: roomID})
	}

	r.sendRoomRoster(c, roomID)
	r.replayHistory(c, roomID)

	r.logger.Info("participant joined chat",
		slog.String("participant", p.ID.String()),
		slog.String("room", roomID),
		slog.String("role", string(p.Role)),
	)
}

// HandleJoinAnonymousChat mints a fresh ephemeral room for a guest. The
// room is guaranteed empty, so there is no history to replay.
func (r *Relay) HandleJoinAnonymousChat(c *Client, payload JoinPayload) {
	declared := payload.User
	declared.Role = domain.RoleAnonymous
	p := r.resolver.Resolve(nil, &declared)

	roomID := domain.NewAnonymousRoomID()
	r.setRoomOf(p.ID, roomID)

	r.sessions.Register(c, p)
	r.directory.Ensure(roomID)
	r.directory.Add(roomID, c)
	r.sessions.TrackRoom(c, roomID)

	r.signalAdmins(EventNewAnonymousUser, RoomSignal{User: p, RoomID: roomID})

	r.logger.Info("anonymous participant joined",
		slog.String("participant", p.ID.String()),
		slog.String("room", roomID),
	)
}

// HandleJoinAdminChat subscribes an admin to admin_global without a history
// fetch.
func (r *Relay) HandleJoinAdminChat(c *Client, payload JoinPayload) {
	p := r.resolver.Resolve(c.claims, &payload.User)
	if !p.IsAdmin() {
		r.logger.Debug("ignoring joinAdminChat from non-admin", slog.String("participant", p.ID.String()))
		return
	}

	r.sessions.Register(c, p)
	r.directory.Ensure(domain.AdminGlobalRoom)
	r.directory.Add(domain.AdminGlobalRoom, c)
	r.sessions.TrackRoom(c, domain.AdminGlobalRoom)

	r.logger.Info("admin joined global room", slog.String("participant", p.ID.String()))
}

// HandleJoinChatRoom lets an admin open any existing room alongside
// admin_global. Non-admin attempts are a silent no-op: no state change and
// no error event, which is the existing client contract.
func (r *Relay) HandleJoinChatRoom(c *Client, payload JoinRoomPayload) {
	p := r.resolver.Resolve(c.claims, &payload.User)
	if !p.IsAdmin() {
		r.logger.Debug("ignoring joinChatRoom from non-admin",
			slog.String("participant", p.ID.String()),
			slog.String("room", payload.RoomID),
		)
		return
	}
	if payload.RoomID == "" {
		return
	}

	r.sessions.Register(c, p)
	r.directory.Ensure(payload.RoomID)
	r.directory.Add(payload.RoomID, c)
	r.sessions.TrackRoom(c, payload.RoomID)

	r.replayHistory(c, payload.RoomID)

	r.logger.Info("admin opened room",
		slog.String("participant", p.ID.String()),
		slog.String("room", payload.RoomID),
	)
}

// HandleSendMessage routes a registered-user or admin message. Admin
// senders must name the room; user senders fall back to their own tracked
// room.
func (r *Relay) HandleSendMessage(c *Client, payload SendPayload) {
	if !r.acceptContent(c, payload.Content) {
		return
	}

	sender := payload.Sender
	roomID := payload.RoomID
	if roomID == "" {
		if sender.Role == domain.RoleAdmin {
			// Ambiguous: which user room? Drop.
			r.logger.Warn("admin sendMessage without a room", slog.String("sender", sender.ID.String()))
			return
		}
		roomID = r.getRoomOf(sender.ID)
		if roomID == "" {
			r.logger.Warn("sendMessage with no resolvable room", slog.String("sender", sender.ID.String()))
			return
		}
	}

	var senderID *int64
	if uid, ok := sender.ID.Int64(); ok {
		senderID = &uid
	}

	stored, err := r.store.Insert(roomID, senderID, sender.Name, payload.Content)
	if err != nil {
		r.logger.Error("failed to persist message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	r.fanOut(domain.Message{
		ID:        stored.ID,
		Content:   stored.Content,
		Sender:    sender,
		RoomID:    roomID,
		Timestamp: stored.CreatedAt,
	})
}

// HandleSendAnonymousMessage routes a guest message into the guest's
// tracked ephemeral room. Guests are never backing-store users, so the
// persisted sender id is null and the outbound role is forced to anonymous
// no matter what the client declared.
func (r *Relay) HandleSendAnonymousMessage(c *Client, payload SendPayload) {
	if !r.acceptContent(c, payload.Content) {
		return
	}

	sender := payload.Sender
	roomID := r.getRoomOf(sender.ID)
	if roomID == "" {
		r.logger.Warn("anonymous send before join completed", slog.String("sender", sender.ID.String()))
		return
	}

	stored, err := r.store.Insert(roomID, nil, sender.Name, payload.Content)
	if err != nil {
		r.logger.Error("failed to persist anonymous message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	sender.Role = domain.RoleAnonymous
	r.fanOut(domain.Message{
		ID:        stored.ID,
		Content:   stored.Content,
		Sender:    sender,
		RoomID:    roomID,
		Timestamp: stored.CreatedAt,
	})
}

// HandleAdminSendToUser delivers an admin message into a specific user
// room. When targetUserId names a live connection that is not yet a member
// of the room (first admin-initiated contact), that connection is joined
// first so it receives this very message.
func (r *Relay) HandleAdminSendToUser(c *Client, payload AdminSendPayload) {
	if !r.acceptContent(c, payload.Content) {
		return
	}
	if payload.TargetRoomID == "" {
		r.logger.Warn("adminSendToUser without a target room", slog.String("sender", payload.Sender.ID.String()))
		return
	}

	if payload.TargetUserID != "" {
		r.autoJoinTarget(payload.TargetUserID, payload.TargetRoomID)
	}

	sender := payload.Sender
	var senderID *int64
	if uid, ok := sender.ID.Int64(); ok {
		senderID = &uid
	}

	stored, err := r.store.Insert(payload.TargetRoomID, senderID, sender.Name, payload.Content)
	if err != nil {
		r.logger.Error("failed to persist admin message", slog.String("room", payload.TargetRoomID), slog.Any("error", err))
		return
	}

	// The admin is a member of the target room when they opened it via
	// joinChatRoom, so they see their own echo through the room fan-out.
	r.deliver(r.directory.Members(payload.TargetRoomID), domain.Message{
		ID:        stored.ID,
		Content:   stored.Content,
		Sender:    sender,
		RoomID:    payload.TargetRoomID,
		Timestamp: stored.CreatedAt,
	})
}

// HandleDisconnect tears down every trace of a connection: room
// memberships (empty rooms are garbage-collected), the anonymous room
// mapping, and the session itself. Remaining members get no notification.
func (r *Relay) HandleDisconnect(c *Client) {
	for _, roomID := range r.sessions.Rooms(c) {
		r.directory.Remove(roomID, c)
	}
	if p, ok := r.sessions.Participant(c); ok {
		if p.Role == domain.RoleAnonymous {
			r.dropRoomOf(p.ID)
		}
		r.logger.Info("participant disconnected", slog.String("participant", p.ID.String()))
	}
	r.sessions.Forget(c)
}

// acceptContent enforces the server-side content bound. Rejected content
// produces an explicit error event instead of a silent drop.
func (r *Relay) acceptContent(c *Client, content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		c.Send(encodeEvent(r.logger, EventError, ErrorPayload{Message: "message content is empty"}))
		return false
	}
	if len([]rune(content)) > r.maxContent {
		c.Send(encodeEvent(r.logger, EventError, ErrorPayload{Message: "message content exceeds the allowed length"}))
		return false
	}
	return true
}

// fanOut delivers a message to every member of its room, and, for non-admin
// senders outside admin_global, to every admin_global member as well. The
// two sets are merged so no connection receives the message twice.
func (r *Relay) fanOut(msg domain.Message) {
	targets := make(map[*Client]struct{})
	for _, m := range r.directory.Members(msg.RoomID) {
		targets[m] = struct{}{}
	}
	if msg.Sender.Role != domain.RoleAdmin && msg.RoomID != domain.AdminGlobalRoom {
		for _, m := range r.directory.Members(domain.AdminGlobalRoom) {
			targets[m] = struct{}{}
		}
	}

	recipients := make([]*Client, 0, len(targets))
	for m := range targets {
		recipients = append(recipients, m)
	}
	r.deliver(recipients, msg)
}

func (r *Relay) deliver(recipients []*Client, msg domain.Message) {
	data := encodeEvent(r.logger, EventMessage, msg)
	if data == nil {
		return
	}
	for _, m := range recipients {
		m.Send(data)
	}
}

// replayHistory pushes a room's full ordered history to the joining
// connection only; replay is never re-broadcast to the room. Each stored
// row is normalized to carry the same sender shape as a live message.
func (r *Relay) replayHistory(c *Client, roomID string) {
	rows, err := r.store.History(roomID)
	if err != nil {
		r.logger.Error("failed to load history", slog.String("room", roomID), slog.Any("error", err))
		return
	}
	messages := lo.Map(rows, func(row domain.StoredMessage, _ int) domain.Message {
		return domain.Message{
			ID:        row.ID,
			Content:   row.Content,
			Sender:    row.Sender(),
			RoomID:    row.RoomID,
			Timestamp: row.CreatedAt,
		}
	})
	c.Send(encodeEvent(r.logger, EventLoadMessages, messages))
}

// sendRoomRoster unicasts the current room membership to a joiner.
func (r *Relay) sendRoomRoster(c *Client, roomID string) {
	members := r.directory.Members(roomID)
	roster := make([]domain.Participant, 0, len(members))
	for _, m := range members {
		if p, ok := r.sessions.Participant(m); ok {
			roster = append(roster, p)
		}
	}
	c.Send(encodeEvent(r.logger, EventConnectedUsers, roster))
}

// signalAdmins pushes an out-of-band signal to every admin_global member so
// admin UIs discover new conversations without polling.
func (r *Relay) signalAdmins(event string, signal RoomSignal) {
	data := encodeEvent(r.logger, event, signal)
	if data == nil {
		return
	}
	for _, m := range r.directory.Members(domain.AdminGlobalRoom) {
		m.Send(data)
	}
}

// autoJoinTarget pulls a live user connection into a room ahead of an
// admin-initiated message, updating its tracked room mapping.
func (r *Relay) autoJoinTarget(targetID domain.ParticipantID, roomID string) {
	target, ok := r.sessions.FindByParticipant(targetID)
	if !ok {
		return
	}
	if r.directory.Has(roomID, target) {
		return
	}
	r.directory.Ensure(roomID)
	r.directory.Add(roomID, target)
	r.sessions.TrackRoom(target, roomID)
	r.setRoomOf(targetID, roomID)
	r.logger.Info("auto-joined user to room",
		slog.String("participant", targetID.String()),
		slog.String("room", roomID),
	)
}

func (r *Relay) setRoomOf(id domain.ParticipantID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomOf[id] = roomID
}

func (r *Relay) getRoomOf(id domain.ParticipantID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomOf[id]
}

func (r *Relay) dropRoomOf(id domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roomOf, id)
}
