package services

import (
	"context"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// BoardService owns the server-side item positions the client reducer
// reconciles against after its optimistic drop.
type BoardService struct {
	repo domain.BoardItemRepository
}

func NewBoardService(repo domain.BoardItemRepository) *BoardService {
	return &BoardService{
		repo: repo,
	}
}

type CreateItemInput struct {
	UserID string
	Kind   string
	Title  string
	Status domain.Status
}

func (s *BoardService) Create(ctx context.Context, input CreateItemInput) (*domain.BoardItem, error) {
	item, err := domain.NewBoardItem(input.UserID, input.Kind, input.Title, input.Status)
	if err != nil {
		return nil, err
	}

	// New items land at the end of their column.
	existing, err := s.repo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.Status == item.Status && other.SortOrder >= item.SortOrder {
			item.SortOrder = other.SortOrder + 1
		}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *BoardService) ListByUserID(ctx context.Context, userID string) ([]*domain.BoardItem, error) {
	return s.repo.ListByUserID(ctx, userID)
}

type MoveItemInput struct {
	ItemID string
	UserID string
	Status domain.Status
	Order  int
}

// MoveItem persists one status/order change. Order values are taken as the
// client computed them; the server only guards ownership and validity.
func (s *BoardService) MoveItem(ctx context.Context, input MoveItemInput) (*domain.BoardItem, error) {
	item, err := s.repo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	if item.UserID != input.UserID {
		return nil, domain.ErrItemNotFound
	}

	if err := item.MoveTo(input.Status, input.Order); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePosition(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *BoardService) Delete(ctx context.Context, id, userID string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		return domain.ErrItemNotFound
	}

	return s.repo.Delete(ctx, id)
}
