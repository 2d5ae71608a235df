package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cecepns/stroke-care/internal/domain"
)

// MaterialRepository provides access to education materials.
type MaterialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates a new material repository.
func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List retrieves all materials with author names, in display order.
func (r *MaterialRepository) List() ([]domain.Material, error) {
	var materials []domain.Material
	err := r.db.Table("materials").
		Select("materials.*, users.name AS author_name").
		Joins("JOIN users ON users.id = materials.author_id").
		Order("materials.sort_order ASC, materials.created_at DESC").
		Scan(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

// Create saves a new material. When no sort order is set, the material is
// appended after the current maximum.
func (r *MaterialRepository) Create(material *domain.Material) error {
	if material.SortOrder == 0 {
		var maxOrder int
		row := r.db.Model(&domain.Material{}).Select("COALESCE(MAX(sort_order), 0)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return fmt.Errorf("failed to compute sort order: %w", err)
		}
		material.SortOrder = maxOrder + 1
	}
	if err := r.db.Create(material).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// Update applies the given column values to a material.
func (r *MaterialRepository) Update(id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.Model(&domain.Material{}).Where("id = ?", id).Updates(fields)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder sets the sort order for each listed material id in one pass.
func (r *MaterialRepository) Reorder(orderedIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&domain.Material{}).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
				return fmt.Errorf("failed to reorder material %d: %w", id, err)
			}
		}
		return nil
	})
}

// FindByID retrieves a material by id.
func (r *MaterialRepository) FindByID(id int64) (*domain.Material, error) {
	var material domain.Material
	if err := r.db.First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find material: %w", err)
	}
	return &material, nil
}

// Delete removes a material by id.
func (r *MaterialRepository) Delete(id int64) error {
	result := r.db.Delete(&domain.Material{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of materials.
func (r *MaterialRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.Material{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return n, nil
}
