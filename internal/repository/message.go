package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cecepns/stroke-care/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// historyColumns joins the sender's current role and name from the users
// table; anonymous senders have no users row and keep the stored columns.
const historyColumns = `chat_messages.id, chat_messages.room_id, chat_messages.sender_id,
	COALESCE(users.name, chat_messages.sender_name) AS sender_name,
	COALESCE(users.role, '') AS sender_role,
	chat_messages.content, chat_messages.created_at`

// MessageRepository is the durable append-only message store keyed by room.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends a message to a room's log and returns the stored row with
// its assigned id and server timestamp.
func (r *MessageRepository) Insert(roomID string, senderID *int64, senderName, content string) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
	}
	if err := r.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

// History returns every message in a room in chronological order, ties
// broken by insertion id.
func (r *MessageRepository) History(roomID string) ([]domain.StoredMessage, error) {
	var rows []domain.StoredMessage
	err := r.db.Table("chat_messages").
		Select(historyColumns).
		Joins("LEFT JOIN users ON users.id = chat_messages.sender_id").
		Where("chat_messages.room_id = ?", roomID).
		Order("chat_messages.created_at ASC, chat_messages.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for room %s: %w", roomID, err)
	}
	return rows, nil
}

// Recent returns the N most recent messages of a room in chronological
// order. The underlying query runs newest-first and the result is reversed.
func (r *MessageRepository) Recent(roomID string, limit int) ([]domain.StoredMessage, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentLimit
	}
	var rows []domain.StoredMessage
	err := r.db.Table("chat_messages").
		Select(historyColumns).
		Joins("LEFT JOIN users ON users.id = chat_messages.sender_id").
		Where("chat_messages.room_id = ?", roomID).
		Order("chat_messages.created_at DESC, chat_messages.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages for room %s: %w", roomID, err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// RoomSummaries aggregates stored registered-user conversations, most
// recently active first.
func (r *MessageRepository) RoomSummaries() ([]domain.RoomSummary, error) {
	var rows []domain.RoomSummary
	err := r.db.Table("chat_messages").
		Select(`room_id AS room_id,
			MIN(sender_name) AS user_name,
			COUNT(*) AS message_count,
			MIN(created_at) AS first_message_at,
			MAX(created_at) AS last_message_at`).
		Where("room_id LIKE 'user_%'").
		Group("room_id").
		Order("last_message_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize rooms: %w", err)
	}
	return rows, nil
}

// ActiveRooms lists user and anonymous rooms with stored traffic, most
// recently active first. Admin-authored rows are excluded.
func (r *MessageRepository) ActiveRooms() ([]domain.ActiveRoom, error) {
	var rows []domain.ActiveRoom
	err := r.db.Table("chat_messages").
		Select(`chat_messages.room_id AS room_id,
			MIN(chat_messages.sender_name) AS sender_name,
			MIN(chat_messages.sender_id) AS sender_id,
			MAX(chat_messages.created_at) AS last_activity,
			chat_messages.room_id LIKE 'anon_%' AS is_anonymous`).
		Joins("LEFT JOIN users ON users.id = chat_messages.sender_id").
		Where("chat_messages.room_id <> ?", domain.AdminGlobalRoom).
		Where("chat_messages.room_id LIKE 'user_%' OR chat_messages.room_id LIKE 'anon_%'").
		Where("users.role <> 'admin' OR users.role IS NULL").
		Group("chat_messages.room_id").
		Order("last_activity DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active rooms: %w", err)
	}
	return rows, nil
}

// DeleteRoom removes a room's entire message log. This is the only way
// stored messages are ever deleted.
func (r *MessageRepository) DeleteRoom(roomID string) error {
	if err := r.db.Where("room_id = ?", roomID).Delete(&domain.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("failed to delete room %s: %w", roomID, err)
	}
	return nil
}

// Count returns the total number of stored messages.
func (r *MessageRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.ChatMessage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}
