package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type completionKey struct {
	habitID string
	day     domain.Day
}

// InMemoryCompletionRepository backs tests and local runs. It enforces the
// same one-row-per-(habit, day) constraint the postgres unique index does.
type InMemoryCompletionRepository struct {
	store map[completionKey]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[completionKey]*domain.Completion),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey{habitID: completion.HabitID, day: completion.Day}
	if _, exists := r.store[key]; exists {
		return domain.ErrCompletionConflict
	}

	copied := *completion
	r.store[key] = &copied
	return nil
}

func (r *InMemoryCompletionRepository) DeleteByHabitDay(ctx context.Context, habitID, userID string, day domain.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey{habitID: habitID, day: day}
	existing, ok := r.store[key]
	if !ok || existing.UserID != userID {
		return domain.ErrCompletionNotFound
	}

	delete(r.store, key)
	return nil
}

func (r *InMemoryCompletionRepository) ListByHabit(ctx context.Context, habitID, userID string, from, to domain.Day) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.HabitID != habitID || c.UserID != userID {
			continue
		}
		if !from.IsZero() && c.Day.Before(from) {
			continue
		}
		if !to.IsZero() && c.Day.After(to) {
			continue
		}
		copied := *c
		completions = append(completions, &copied)
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[j].Day.Before(completions[i].Day)
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) ListByUserDay(ctx context.Context, userID string, day domain.Day) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.UserID == userID && c.Day == day {
			copied := *c
			completions = append(completions, &copied)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].HabitID < completions[j].HabitID
	})

	return completions, nil
}

type InMemoryBoardItemRepository struct {
	store map[string]*domain.BoardItem

	mu sync.RWMutex
}

func NewInMemoryBoardItemRepository() *InMemoryBoardItemRepository {
	return &InMemoryBoardItemRepository{
		store: make(map[string]*domain.BoardItem),
	}
}

func (r *InMemoryBoardItemRepository) Create(ctx context.Context, item *domain.BoardItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *item
	r.store[item.ID] = &copied
	return nil
}

func (r *InMemoryBoardItemRepository) GetByID(ctx context.Context, id string) (*domain.BoardItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.store[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	copied := *item
	return &copied, nil
}

func (r *InMemoryBoardItemRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BoardItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.BoardItem
	for _, item := range r.store {
		if item.UserID == userID {
			copied := *item
			items = append(items, &copied)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Status != items[j].Status {
			return items[i].Status < items[j].Status
		}
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (r *InMemoryBoardItemRepository) UpdatePosition(ctx context.Context, item *domain.BoardItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[item.ID]; !ok {
		return domain.ErrItemNotFound
	}

	copied := *item
	r.store[item.ID] = &copied
	return nil
}

func (r *InMemoryBoardItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrItemNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	copied := *user
	r.store[user.ID] = &copied
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
