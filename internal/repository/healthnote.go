package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cecepns/stroke-care/internal/domain"
)

// HealthNoteRepository provides access to daily health-journal entries.
type HealthNoteRepository struct {
	db *gorm.DB
}

// NewHealthNoteRepository creates a new health-note repository.
func NewHealthNoteRepository(db *gorm.DB) *HealthNoteRepository {
	return &HealthNoteRepository{db: db}
}

// ListByUser retrieves a user's notes, most recent date first.
func (r *HealthNoteRepository) ListByUser(userID int64) ([]domain.HealthNote, error) {
	var notes []domain.HealthNote
	err := r.db.Where("user_id = ?", userID).
		Order("note_date DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list health notes: %w", err)
	}
	return notes, nil
}

// FindByDate retrieves a user's note for a specific date (YYYY-MM-DD).
func (r *HealthNoteRepository) FindByDate(userID int64, date string) (*domain.HealthNote, error) {
	var note domain.HealthNote
	err := r.db.First(&note, "user_id = ? AND note_date = ?", userID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find health note: %w", err)
	}
	return &note, nil
}

// Upsert creates the note, or updates the existing row when the user already
// has a note for that date. Reports whether a new row was created.
func (r *HealthNoteRepository) Upsert(note *domain.HealthNote) (created bool, err error) {
	existing, err := r.FindByDate(note.UserID, note.NoteDate)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if existing != nil {
		note.ID = existing.ID
		note.CreatedAt = existing.CreatedAt
		if err := r.db.Save(note).Error; err != nil {
			return false, fmt.Errorf("failed to update health note: %w", err)
		}
		return false, nil
	}
	if err := r.db.Create(note).Error; err != nil {
		return false, fmt.Errorf("failed to create health note: %w", err)
	}
	return true, nil
}

// Delete removes a note owned by the user.
func (r *HealthNoteRepository) Delete(id, userID int64) error {
	result := r.db.Delete(&domain.HealthNote{}, "id = ? AND user_id = ?", id, userID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete health note: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll retrieves every note with the owner's name, for the admin feed.
func (r *HealthNoteRepository) ListAll() ([]domain.HealthNote, error) {
	var notes []domain.HealthNote
	err := r.db.Table("health_notes").
		Select("health_notes.*, users.name AS user_name").
		Joins("JOIN users ON users.id = health_notes.user_id").
		Order("health_notes.note_date DESC").
		Scan(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list health notes: %w", err)
	}
	return notes, nil
}
