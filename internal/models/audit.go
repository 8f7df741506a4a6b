package models

import "time"

// AuditLog records authenticated mutating requests (level completion,
// reset and similar) for later review.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Action    string `gorm:"size:64;not null"`
	Path      string `gorm:"size:255;not null"`
	CreatedAt time.Time
}
