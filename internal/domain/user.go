package domain

import "time"

// User is a registered account (patient or admin operator).
type User struct {
	ID        int64      `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      string     `gorm:"size:20;not null;default:user" json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Participant shapes the account into the identity the relay routes on.
func (u User) Participant() Participant {
	role := RoleUser
	if u.Role == string(RoleAdmin) {
		role = RoleAdmin
	}
	return Participant{
		ID:   ParticipantID(formatInt(u.ID)),
		Name: u.Name,
		Role: role,
	}
}
