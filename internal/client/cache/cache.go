// Package cache implements the optimistic completion cache: speculative
// habit-completion mutations applied to every dependent view before the
// server confirms, rolled back precisely on failure, reconciled by refetch
// on settlement either way.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/haidave/everbase-sync-engine/internal/client/store"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// Remote is the persistence collaborator the cache dispatches to. Insert
// may reject a duplicate day with ErrCompletionConflict and delete may
// report ErrCompletionNotFound; both are tolerated because the caller's
// intent is already satisfied.
type Remote interface {
	InsertCompletion(ctx context.Context, habitID string, day domain.Day) (*domain.Completion, error)
	DeleteCompletion(ctx context.Context, habitID string, day domain.Day) error
	FetchCompletions(ctx context.Context, query FetchQuery) ([]domain.Completion, error)
}

// FetchQuery selects completions by habit and/or day range. Empty HabitID
// means all of the user's habits; zero From/To means unbounded.
type FetchQuery struct {
	HabitID string
	From    domain.Day
	To      domain.Day
}

// Cache owns the view store and the mutation entry points. All methods are
// safe for concurrent use; each mutation's snapshot-predict-dispatch
// sequence runs before control reaches the remote call.
type Cache struct {
	views  *store.Store[ViewKey, []domain.Completion]
	remote Remote

	// now is the day clock; swapped in tests.
	now func() domain.Day
}

func New(remote Remote) *Cache {
	return &Cache{
		views:  store.New[ViewKey, []domain.Completion](),
		remote: remote,
		now:    domain.Today,
	}
}

// Prime publishes an authoritative fact set for a view, typically from an
// initial fetch. Only primed views are updated optimistically or refetched.
func (c *Cache) Prime(key ViewKey, facts []domain.Completion) {
	c.views.Set(key, facts)
}

// View returns the current (possibly optimistic) contents of a view.
func (c *Cache) View(key ViewKey) ([]domain.Completion, bool) {
	return c.views.Get(key)
}

// Stale reports whether a view is awaiting reconciliation.
func (c *Cache) Stale(key ViewKey) bool {
	return c.views.IsStale(key)
}

// Subscribe registers a callback invoked with the key of every view that
// changes. Returns an unsubscribe func.
func (c *Cache) Subscribe(fn func(ViewKey)) func() {
	return c.views.Subscribe(fn)
}

// Complete marks the habit done today.
func (c *Cache) Complete(ctx context.Context, habitID string) error {
	return c.Apply(ctx, CompleteToday{HabitID: habitID})
}

// CompleteOn marks the habit done on a specific calendar day.
func (c *Cache) CompleteOn(ctx context.Context, habitID string, day domain.Day) error {
	return c.Apply(ctx, CompleteOnDate{HabitID: habitID, Day: day})
}

// Uncomplete removes today's completion for the habit.
func (c *Cache) Uncomplete(ctx context.Context, habitID string) error {
	return c.Apply(ctx, UncompleteToday{HabitID: habitID})
}

// UncompleteOn removes the habit's completion for a specific calendar day.
func (c *Cache) UncompleteOn(ctx context.Context, habitID string, day domain.Day) error {
	return c.Apply(ctx, UncompleteOnDate{HabitID: habitID, Day: day})
}

func (c *Cache) completeOn(ctx context.Context, habitID string, day domain.Day) error {
	if strings.TrimSpace(habitID) == "" {
		return fmt.Errorf("%w: habit id is required", domain.ErrValidation)
	}
	if day.IsZero() {
		return fmt.Errorf("%w: day is required", domain.ErrValidation)
	}

	today := c.now()
	affected := c.primedViews(AffectedViews(habitID, day, today))

	restore := c.views.Snapshot(affected...)

	placeholder := domain.NewOptimisticCompletion(habitID, day)
	for _, key := range affected {
		c.views.Update(key, func(facts []domain.Completion) []domain.Completion {
			return insertFact(facts, placeholder)
		})
	}

	_, err := c.remote.InsertCompletion(ctx, habitID, day)
	if err != nil && !errors.Is(err, domain.ErrCompletionConflict) {
		restore()
		c.settle(ctx, habitID, day, today)
		return fmt.Errorf("complete habit %s on %s: %w", habitID, day, err)
	}

	c.settle(ctx, habitID, day, today)
	return nil
}

func (c *Cache) uncompleteOn(ctx context.Context, habitID string, day domain.Day) error {
	if strings.TrimSpace(habitID) == "" {
		return fmt.Errorf("%w: habit id is required", domain.ErrValidation)
	}
	if day.IsZero() {
		return fmt.Errorf("%w: day is required", domain.ErrValidation)
	}

	today := c.now()
	affected := c.primedViews(AffectedViews(habitID, day, today))

	restore := c.views.Snapshot(affected...)

	for _, key := range affected {
		c.views.Update(key, func(facts []domain.Completion) []domain.Completion {
			return removeFact(facts, habitID, day)
		})
	}

	err := c.remote.DeleteCompletion(ctx, habitID, day)
	if err != nil && !errors.Is(err, domain.ErrCompletionNotFound) {
		restore()
		c.settle(ctx, habitID, day, today)
		return fmt.Errorf("uncomplete habit %s on %s: %w", habitID, day, err)
	}

	c.settle(ctx, habitID, day, today)
	return nil
}

// settle runs after the remote call resolves, success or failure: every
// view the fact could appear in is marked stale and refetched so the
// authoritative rows supersede whatever the optimistic step predicted.
// This is the correctness backstop for out-of-order settlement of opposite
// in-flight mutations.
func (c *Cache) settle(ctx context.Context, habitID string, day, today domain.Day) {
	for _, key := range c.primedViews(InvalidatedViews(habitID, day, today)) {
		c.views.MarkStale(key)
		c.refetch(ctx, key, today)
	}
}

func (c *Cache) refetch(ctx context.Context, key ViewKey, today domain.Day) {
	facts, err := c.remote.FetchCompletions(ctx, fetchQueryFor(key, today))
	if err != nil {
		log.Printf("[CACHE] refetch failed for view %+v, left stale: %v", key, err)
		return
	}
	c.views.Set(key, facts)
}

// primedViews filters keys down to views that have been primed. A view the
// UI never requested holds no projection to update.
func (c *Cache) primedViews(keys []ViewKey) []ViewKey {
	out := keys[:0]
	for _, key := range keys {
		if _, ok := c.views.Get(key); ok {
			out = append(out, key)
		}
	}
	return out
}

func fetchQueryFor(key ViewKey, today domain.Day) FetchQuery {
	switch key.Kind {
	case ViewToday:
		return FetchQuery{From: today, To: today}
	case ViewMonth:
		first := domain.Day{Year: key.Year, Month: key.Month, Day: 1}
		return FetchQuery{HabitID: key.HabitID, From: first, To: first.MonthEnd()}
	case ViewYear:
		return FetchQuery{
			HabitID: key.HabitID,
			From:    domain.Day{Year: key.Year, Month: 1, Day: 1},
			To:      domain.Day{Year: key.Year, Month: 12, Day: 31},
		}
	default:
		return FetchQuery{HabitID: key.HabitID}
	}
}

// insertFact appends the placeholder unless the fact is already present.
// Matching is by (habit, day), so re-completing an already-complete day is
// a visual no-op.
func insertFact(facts []domain.Completion, fact domain.Completion) []domain.Completion {
	for _, f := range facts {
		if f.SameFact(fact) {
			return facts
		}
	}
	out := make([]domain.Completion, len(facts), len(facts)+1)
	copy(out, facts)
	return append(out, fact)
}

// removeFact drops every fact matching (habitID, day), optimistic
// duplicates included.
func removeFact(facts []domain.Completion, habitID string, day domain.Day) []domain.Completion {
	out := make([]domain.Completion, 0, len(facts))
	for _, f := range facts {
		if f.HabitID == habitID && f.Day == day {
			continue
		}
		out = append(out, f)
	}
	return out
}
