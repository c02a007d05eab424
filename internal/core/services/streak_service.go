package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/haidave/everbase-sync-engine/internal/client/streak"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// StreakService computes streaks server-side from the authoritative rows,
// with the same pure calculator the client runs on its cache.
type StreakService struct {
	repo domain.CompletionRepository
}

func NewStreakService(repo domain.CompletionRepository) *StreakService {
	return &StreakService{
		repo: repo,
	}
}

func (s *StreakService) GetStreaks(ctx context.Context, habitID, userID string) (streak.Streaks, error) {
	if strings.TrimSpace(habitID) == "" {
		return streak.Streaks{}, fmt.Errorf("%w: habit_id is required", domain.ErrValidation)
	}

	rows, err := s.repo.ListByHabit(ctx, habitID, userID, domain.Day{}, domain.Day{})
	if err != nil {
		return streak.Streaks{}, err
	}

	facts := make([]domain.Completion, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, *row)
	}

	return streak.ComputeNow(facts), nil
}
