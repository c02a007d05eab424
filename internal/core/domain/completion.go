package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// optimisticIDPrefix marks placeholder completions created by the client
// before the server confirms them. Placeholder IDs must never be persisted.
const optimisticIDPrefix = "optimistic-"

// Completion records that a habit was marked done on a calendar day.
// Identity is (HabitID, Day); the ID is only a storage handle.
type Completion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Day Day `json:"day" db:"day"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewCompletion(habitID, userID string, day Day) *Completion {
	now := time.Now().UTC()

	return &Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		UserID:    userID,
		Day:       day,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewOptimisticCompletion builds a speculative fact for the client cache.
// Its ID carries a placeholder marker so it can never be mistaken for an
// authoritative row.
func NewOptimisticCompletion(habitID string, day Day) Completion {
	return Completion{
		ID:        optimisticIDPrefix + uuid.NewString(),
		HabitID:   habitID,
		Day:       day,
		CreatedAt: time.Now().UTC(),
	}
}

// IsOptimistic reports whether the completion is an unconfirmed placeholder.
func (c Completion) IsOptimistic() bool {
	return strings.HasPrefix(c.ID, optimisticIDPrefix)
}

// SameFact reports logical equality: same habit, same calendar day.
func (c Completion) SameFact(other Completion) bool {
	return c.HabitID == other.HabitID && c.Day == other.Day
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrValidation)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if c.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrValidation)
	}
	if c.IsOptimistic() {
		return errors.New("optimistic placeholder must not be persisted")
	}
	return nil
}
