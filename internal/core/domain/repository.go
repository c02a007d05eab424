package domain

import "context"

type CompletionRepository interface {
	// Create persists a new completion. Returns ErrCompletionConflict if
	// one already exists for the same habit and day.
	Create(ctx context.Context, completion *Completion) error

	// DeleteByHabitDay removes the completion for (habitID, day), scoped
	// to the owning user. Returns ErrCompletionNotFound if none exists.
	DeleteByHabitDay(ctx context.Context, habitID, userID string, day Day) error

	// ListByHabit retrieves completions for a habit within [from, to].
	// A zero from/to means unbounded on that side.
	ListByHabit(ctx context.Context, habitID, userID string, from, to Day) ([]*Completion, error)

	// ListByUserDay retrieves every completion the user logged on a day,
	// across all habits. Backs the "today" view.
	ListByUserDay(ctx context.Context, userID string, day Day) ([]*Completion, error)
}

type BoardItemRepository interface {
	// Create persists a new board item.
	Create(ctx context.Context, item *BoardItem) error

	// GetByID retrieves an item by its unique identifier.
	GetByID(ctx context.Context, id string) (*BoardItem, error)

	// ListByUserID retrieves all items for a user, ordered by column then
	// sort order.
	ListByUserID(ctx context.Context, userID string) ([]*BoardItem, error)

	// UpdatePosition persists a status/order change for one item.
	UpdatePosition(ctx context.Context, item *BoardItem) error

	// Delete permanently removes an item.
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
