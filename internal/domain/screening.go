package domain

import "time"

// Screening risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Screening is one completed stroke-risk questionnaire. Answers are kept as
// the raw JSON the client submitted; score, category and risk level come
// from the fixed scoring table.
type Screening struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Answers   string    `gorm:"type:text;not null" json:"answers"`
	Score     int       `gorm:"not null" json:"score"`
	Category  string    `gorm:"size:100;not null" json:"category"`
	RiskLevel string    `gorm:"size:10;not null" json:"risk_level"`
	CreatedAt time.Time `json:"created_at"`

	UserName string `gorm:"-" json:"user_name,omitempty"`
}

// TableName returns the table name for Screening.
func (Screening) TableName() string {
	return "screenings"
}
