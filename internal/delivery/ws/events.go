package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/cecepns/stroke-care/internal/domain"
)

// Inbound event names. These are the existing client contract and must not
// change.
const (
	EventJoinChat             = "joinChat"
	EventJoinAnonymousChat    = "joinAnonymousChat"
	EventJoinChatRoom         = "joinChatRoom"
	EventJoinAdminChat        = "joinAdminChat"
	EventSendMessage          = "sendMessage"
	EventSendAnonymousMessage = "sendAnonymousMessage"
	EventAdminSendToUser      = "adminSendToUser"
)

// Outbound event names.
const (
	EventMessage          = "message"
	EventLoadMessages     = "loadMessages"
	EventNewUserChat      = "newUserChat"
	EventNewAnonymousUser = "newAnonymousUser"
	EventConnectedUsers   = "connectedUsers"
	EventError            = "error"
)

// Envelope frames every message on the socket in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload carries the joining identity for joinChat, joinAnonymousChat
// and joinAdminChat.
type JoinPayload struct {
	User domain.Participant `json:"user"`
}

// JoinRoomPayload carries an admin's request to open a specific room.
type JoinRoomPayload struct {
	RoomID string             `json:"roomId"`
	User   domain.Participant `json:"user"`
}

// SendPayload carries sendMessage and sendAnonymousMessage events. RoomID
// is optional for non-admin senders, whose room is tracked server-side.
type SendPayload struct {
	Content string             `json:"content"`
	Sender  domain.Participant `json:"sender"`
	RoomID  string             `json:"roomId,omitempty"`
}

// AdminSendPayload carries an admin message aimed at a specific user room.
// TargetUserID, when set, asks the relay to pull that user's live
// connection into the room if it is not a member yet.
type AdminSendPayload struct {
	Content      string               `json:"content"`
	TargetRoomID string               `json:"targetRoomId"`
	Sender       domain.Participant   `json:"sender"`
	TargetUserID domain.ParticipantID `json:"targetUserId,omitempty"`
}

// RoomSignal notifies admin_global members that a conversation appeared.
type RoomSignal struct {
	User   domain.Participant `json:"user"`
	RoomID string             `json:"roomId"`
}

// ErrorPayload is sent back on rejected input, e.g. oversized content.
type ErrorPayload struct {
	Message string `json:"message"`
}

func encodeEvent(logger *slog.Logger, event string, payload any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal event payload", slog.String("event", event), slog.Any("error", err))
		return nil
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		logger.Error("failed to marshal envelope", slog.String("event", event), slog.Any("error", err))
		return nil
	}
	return data
}
