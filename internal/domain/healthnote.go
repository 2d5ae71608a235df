package domain

import "time"

// Metric statuses recorded alongside health-journal values.
const (
	MetricStatusLow    = "low"
	MetricStatusNormal = "normal"
	MetricStatusHigh   = "high"
)

// HealthNote is one day's health-journal entry. A user has at most one note
// per date; posting again for the same date updates the existing row.
type HealthNote struct {
	ID                     int64     `gorm:"primarykey" json:"id"`
	UserID                 int64     `gorm:"uniqueIndex:idx_user_date;not null" json:"user_id"`
	NoteDate               string    `gorm:"size:10;uniqueIndex:idx_user_date;not null" json:"note_date"` // YYYY-MM-DD
	BloodSugar             *float64  `json:"blood_sugar"`
	BloodSugarStatus       *string   `gorm:"size:10" json:"blood_sugar_status"`
	Cholesterol            *float64  `json:"cholesterol"`
	CholesterolStatus      *string   `gorm:"size:10" json:"cholesterol_status"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic"`
	BloodPressureStatus    *string   `gorm:"size:10" json:"blood_pressure_status"`
	Notes                  *string   `gorm:"type:text" json:"notes"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	UserName string `gorm:"-" json:"user_name,omitempty"`
}

// TableName returns the table name for HealthNote.
func (HealthNote) TableName() string {
	return "health_notes"
}
