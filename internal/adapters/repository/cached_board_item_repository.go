package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

var _ domain.BoardItemRepository = (*CachedBoardItemRepository)(nil)

// CachedBoardItemRepository decorates a BoardItemRepository with a redis
// read-through cache on the per-user item list. Every write invalidates
// the owner's key; drag drops hit this path once per changed item, so the
// list is rebuilt on the next read.
type CachedBoardItemRepository struct {
	next  domain.BoardItemRepository
	cache *redis.Client
}

func NewCachedBoardItemRepository(next domain.BoardItemRepository, cache *redis.Client) *CachedBoardItemRepository {
	return &CachedBoardItemRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedBoardItemRepository) cacheKey(userID string) string {
	return fmt.Sprintf("board_items:%s", userID)
}

func (r *CachedBoardItemRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate board items for user %s: %v", userID, err)
	}
}

func (r *CachedBoardItemRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BoardItem, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var items []*domain.BoardItem
		if err := json.Unmarshal([]byte(val), &items); err == nil {
			return items, nil
		}

		log.Printf("[CACHE] Corrupted board items for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	items, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return items, nil
}

func (r *CachedBoardItemRepository) GetByID(ctx context.Context, id string) (*domain.BoardItem, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedBoardItemRepository) Create(ctx context.Context, item *domain.BoardItem) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.UserID)
	return nil
}

func (r *CachedBoardItemRepository) UpdatePosition(ctx context.Context, item *domain.BoardItem) error {
	if err := r.next.UpdatePosition(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.UserID)
	return nil
}

func (r *CachedBoardItemRepository) Delete(ctx context.Context, id string) error {
	item, err := r.next.GetByID(ctx, id)
	if err == nil && item != nil {
		defer r.invalidate(ctx, item.UserID)
	}

	return r.next.Delete(ctx, id)
}
