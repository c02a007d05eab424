package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type PostgresBoardItemRepository struct {
	db *sqlx.DB
}

func NewPostgresBoardItemRepository(db *sqlx.DB) *PostgresBoardItemRepository {
	return &PostgresBoardItemRepository{db: db}
}

func (r *PostgresBoardItemRepository) Create(ctx context.Context, item *domain.BoardItem) error {
	query := `
		INSERT INTO board_items (
			id, user_id, kind, title, status, sort_order, created_at, updated_at
		) VALUES (
			:id, :user_id, :kind, :title, :status, :sort_order, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, item)
	return err
}

func (r *PostgresBoardItemRepository) GetByID(ctx context.Context, id string) (*domain.BoardItem, error) {
	var item domain.BoardItem
	query := `SELECT * FROM board_items WHERE id = $1`

	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresBoardItemRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BoardItem, error) {
	items := []*domain.BoardItem{}

	query := `
		SELECT * FROM board_items
		WHERE user_id = $1
		ORDER BY status ASC, sort_order ASC, id ASC`

	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresBoardItemRepository) UpdatePosition(ctx context.Context, item *domain.BoardItem) error {
	query := `
		UPDATE board_items
		SET status = :status,
		    sort_order = :sort_order,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *PostgresBoardItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM board_items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}
