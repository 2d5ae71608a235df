package domain

import "time"

// Material statuses.
const (
	MaterialStatusDraft     = "draft"
	MaterialStatusPublished = "published"
)

// Material is an education item shown in the mobile app: an article or a
// video with a description, ordered manually by admins.
type Material struct {
	ID          int64     `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	VideoURL    string    `gorm:"size:500" json:"video_url"`
	Description string    `gorm:"size:1000" json:"description"`
	Type        string    `gorm:"size:20;not null;default:article" json:"type"`
	Status      string    `gorm:"size:20;not null;default:draft" json:"status"`
	AuthorID    int64     `gorm:"index;not null" json:"author_id"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AuthorName string `gorm:"-" json:"author_name,omitempty"`
}

// TableName returns the table name for Material.
func (Material) TableName() string {
	return "materials"
}
