package domain

import (
	"strconv"
	"time"
)

// ChatMessage is the persisted form of a relayed message. Rows are
// append-only: written once on a validated send, never updated, removed
// only by an explicit admin room deletion.
type ChatMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RoomID     string    `gorm:"size:64;index;not null" json:"room_id"`
	SenderID   *int64    `gorm:"index" json:"sender_id"` // nil for anonymous senders
	SenderName string    `gorm:"size:100;not null" json:"sender_name"`
	Content    string    `gorm:"size:500;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// StoredMessage is a history row with the sender's role joined in from the
// users table. Anonymous senders have no users row, so role and name fall
// back to the denormalized columns.
type StoredMessage struct {
	ID         uint      `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   *int64    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sender reconstructs the denormalized sender object consumers expect,
// so replayed messages carry the same shape as live ones.
func (m StoredMessage) Sender() Participant {
	p := Participant{Name: m.SenderName, Role: Role(m.SenderRole)}
	if p.Name == "" {
		p.Name = "Anonymous"
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if m.SenderID != nil {
		p.ID = ParticipantID(strconv.FormatInt(*m.SenderID, 10))
	}
	return p
}

// Message is the live wire shape pushed to room members. The sender object
// is the live participant, which is authoritative at send time.
type Message struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	Sender    Participant `json:"sender"`
	RoomID    string      `json:"room_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// RoomSummary aggregates one room's stored conversation for dashboards.
type RoomSummary struct {
	RoomID         string    `json:"id"`
	UserName       string    `json:"user_name"`
	MessageCount   int64     `json:"message_count"`
	FirstMessageAt time.Time `json:"first_message_at"`
	LastMessageAt  time.Time `json:"last_message_at"`
}

// ActiveRoom is a room with stored traffic, as listed for admin operators.
type ActiveRoom struct {
	RoomID       string    `json:"room_id"`
	SenderName   string    `json:"sender_name"`
	SenderID     *int64    `json:"sender_id"`
	LastActivity time.Time `json:"last_activity"`
	IsAnonymous  bool      `json:"is_anonymous"`
}

// RoomHistory is a user's own conversation log grouped by room.
type RoomHistory struct {
	RoomID        string          `json:"roomId"`
	LastMessageAt time.Time       `json:"lastMessageAt"`
	MessageCount  int64           `json:"messageCount"`
	Messages      []StoredMessage `json:"messages"`
}
