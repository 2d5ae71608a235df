package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cecepns/stroke-care/internal/domain"
)

// ScreeningRepository provides access to stroke-risk screening results.
type ScreeningRepository struct {
	db *gorm.DB
}

// NewScreeningRepository creates a new screening repository.
func NewScreeningRepository(db *gorm.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

// Create saves a completed screening.
func (r *ScreeningRepository) Create(screening *domain.Screening) error {
	if err := r.db.Create(screening).Error; err != nil {
		return fmt.Errorf("failed to create screening: %w", err)
	}
	return nil
}

// HistoryByUser retrieves a user's screenings, newest first.
func (r *ScreeningRepository) HistoryByUser(userID int64) ([]domain.Screening, error) {
	var screenings []domain.Screening
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&screenings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list screenings: %w", err)
	}
	return screenings, nil
}

// FindByID retrieves one screening scoped to its owner.
func (r *ScreeningRepository) FindByID(id, userID int64) (*domain.Screening, error) {
	var screening domain.Screening
	err := r.db.First(&screening, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find screening: %w", err)
	}
	return &screening, nil
}

// ListAll retrieves every screening with the owner's name, newest first.
func (r *ScreeningRepository) ListAll() ([]domain.Screening, error) {
	var screenings []domain.Screening
	err := r.db.Table("screenings").
		Select("screenings.*, users.name AS user_name").
		Joins("JOIN users ON users.id = screenings.user_id").
		Order("screenings.created_at DESC").
		Scan(&screenings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list screenings: %w", err)
	}
	return screenings, nil
}
