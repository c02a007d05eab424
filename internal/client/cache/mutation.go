package cache

import (
	"context"
	"fmt"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// Mutation is the closed set of completion mutations. Each variant carries
// exactly the fields its contract needs; dispatch is an exhaustive switch
// in Apply.
type Mutation interface {
	isMutation()
}

type CompleteToday struct {
	HabitID string
}

type CompleteOnDate struct {
	HabitID string
	Day     domain.Day
}

type UncompleteToday struct {
	HabitID string
}

type UncompleteOnDate struct {
	HabitID string
	Day     domain.Day
}

func (CompleteToday) isMutation()    {}
func (CompleteOnDate) isMutation()   {}
func (UncompleteToday) isMutation()  {}
func (UncompleteOnDate) isMutation() {}

// Apply dispatches a mutation to its handler.
func (c *Cache) Apply(ctx context.Context, m Mutation) error {
	switch m := m.(type) {
	case CompleteToday:
		return c.completeOn(ctx, m.HabitID, c.now())
	case CompleteOnDate:
		return c.completeOn(ctx, m.HabitID, m.Day)
	case UncompleteToday:
		return c.uncompleteOn(ctx, m.HabitID, c.now())
	case UncompleteOnDate:
		return c.uncompleteOn(ctx, m.HabitID, m.Day)
	default:
		return fmt.Errorf("%w: unknown mutation %T", domain.ErrValidation, m)
	}
}
