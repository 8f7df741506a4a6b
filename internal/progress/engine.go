package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/DaniilYevlanov/serverwok/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the user (or, defensively, one of their level
	// rows) does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidLevel means the level number is outside 1..LevelCount.
	ErrInvalidLevel = errors.New("invalid level number")
	// ErrAlreadyCompleted means the level was completed earlier and has
	// not been reset since.
	ErrAlreadyCompleted = errors.New("level already completed")
)

// Engine is the level progression state machine. Each level moves from
// incomplete to completed exactly once; the only way back is a whole-user
// reset. Every mutation runs in a single transaction, so two concurrent
// completions for the same user cannot clobber each other's rows.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// GetLevels returns the user's levels ordered by number.
func (e *Engine) GetLevels(username string) ([]models.Level, error) {
	user, err := e.findUser(e.db, username)
	if err != nil {
		return nil, err
	}

	var levels []models.Level
	if err := e.db.Where("user_id = ?", user.ID).
		Order("number ASC").
		Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	return levels, nil
}

// CompleteLevel marks level number as completed, stamping the current
// instant and the caller-supplied elapsed time text ("MM.SS"). The text is
// stored as-is, never recomputed server-side. A repeat completion is
// rejected with ErrAlreadyCompleted until ResetLevels is called.
//
// On a storage failure nothing is committed; the caller must retry the
// whole operation.
func (e *Engine) CompleteLevel(username string, number int, completionTime string) (time.Time, error) {
	if number < 1 || number > models.LevelCount {
		return time.Time{}, ErrInvalidLevel
	}

	var completedAt time.Time
	err := e.db.Transaction(func(tx *gorm.DB) error {
		user, err := e.findUser(tx, username)
		if err != nil {
			return err
		}

		var level models.Level
		if err := tx.Where("user_id = ? AND number = ?", user.ID, number).
			First(&level).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// should not happen: all ten rows exist from registration
				return ErrNotFound
			}
			return fmt.Errorf("load level: %w", err)
		}

		if level.Completed {
			return ErrAlreadyCompleted
		}

		now := time.Now()
		if err := tx.Model(&level).Updates(map[string]interface{}{
			"completed":       true,
			"completion_date": now,
			"completion_time": completionTime,
		}).Error; err != nil {
			return fmt.Errorf("save level: %w", err)
		}

		completedAt = now
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return completedAt, nil
}

// ResetLevels puts all of the user's levels back to the initial incomplete
// state in one transaction. Level numbers are preserved.
func (e *Engine) ResetLevels(username string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		user, err := e.findUser(tx, username)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Level{}).
			Where("user_id = ?", user.ID).
			Updates(map[string]interface{}{
				"completed":       false,
				"completion_date": nil,
				"completion_time": nil,
			}).Error; err != nil {
			return fmt.Errorf("reset levels: %w", err)
		}
		return nil
	})
}

func (e *Engine) findUser(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
