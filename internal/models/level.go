package models

import "time"

// LevelCount is the fixed number of quiz levels per user.
const LevelCount = 10

// Level is one per-user progress slot. All ten rows are created at
// registration and only flip between incomplete and completed; they are
// never added or removed individually.
type Level struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"uniqueIndex:idx_user_level;not null" json:"-"`

	Number    int  `gorm:"uniqueIndex:idx_user_level;not null" json:"level"`
	Completed bool `gorm:"not null;default:false" json:"completed"`

	CompletionDate *time.Time `json:"completionDate,omitempty"`
	CompletionTime *string    `gorm:"size:16" json:"completionTime"` // "MM.SS", filled by the client
}

// DefaultLevels returns the initial incomplete level set for a new user.
func DefaultLevels() []Level {
	levels := make([]Level, 0, LevelCount)
	for i := 1; i <= LevelCount; i++ {
		levels = append(levels, Level{Number: i})
	}
	return levels
}
