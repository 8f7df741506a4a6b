package models

import "time"

// User represents application user.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// RegistrationDate keeps the locale-formatted date shown on the
	// profile page (dd.mm.yyyy), not a timestamp.
	RegistrationDate string `gorm:"size:32;not null" json:"registrationDate"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Levels []Level `gorm:"constraint:OnDelete:CASCADE" json:"levels"`
}
