package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// CompletionService is the authoritative side of the completion contract:
// at most one row per (habit, day), duplicate inserts rejected with a
// conflict the client treats as satisfied intent.
type CompletionService struct {
	repo domain.CompletionRepository
}

func NewCompletionService(repo domain.CompletionRepository) *CompletionService {
	return &CompletionService{
		repo: repo,
	}
}

type CreateCompletionInput struct {
	HabitID string
	UserID  string
	Day     domain.Day
}

func (s *CompletionService) Create(ctx context.Context, input CreateCompletionInput) (*domain.Completion, error) {
	completion := domain.NewCompletion(input.HabitID, input.UserID, input.Day)

	if err := completion.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	return completion, nil
}

// Delete removes the completion for (habitID, day). The day key is the
// identity; the client never addresses completions by row ID.
func (s *CompletionService) Delete(ctx context.Context, habitID, userID string, day domain.Day) error {
	if strings.TrimSpace(habitID) == "" {
		return fmt.Errorf("%w: habit_id is required", domain.ErrValidation)
	}
	if day.IsZero() {
		return fmt.Errorf("%w: day is required", domain.ErrValidation)
	}

	return s.repo.DeleteByHabitDay(ctx, habitID, userID, day)
}

// List retrieves completions for one habit within [from, to]; zero bounds
// mean all-time. An empty habitID lists every completion the user logged
// on the from-day, which backs the client's today view.
func (s *CompletionService) List(ctx context.Context, habitID, userID string, from, to domain.Day) ([]*domain.Completion, error) {
	if strings.TrimSpace(habitID) == "" {
		if from.IsZero() || from != to {
			return nil, fmt.Errorf("%w: listing without habit_id requires from == to", domain.ErrValidation)
		}
		return s.repo.ListByUserDay(ctx, userID, from)
	}

	return s.repo.ListByHabit(ctx, habitID, userID, from, to)
}
