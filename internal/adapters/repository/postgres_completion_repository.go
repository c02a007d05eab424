package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	query := `
		INSERT INTO completions (
			id, habit_id, user_id, day, created_at, updated_at
		) VALUES (
			:id, :habit_id, :user_id, :day, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// 23505: the (habit_id, day) unique index. The completion for
			// that day already exists, which is what the client asked for.
			if pqErr.Code == "23505" {
				return domain.ErrCompletionConflict
			}
			if pqErr.Code == "23503" {
				return errors.New("referenced habit or user does not exist")
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCompletionRepository) DeleteByHabitDay(ctx context.Context, habitID, userID string, day domain.Day) error {
	query := `
		DELETE FROM completions
		WHERE habit_id = $1
		  AND user_id = $2 -- ownership check
		  AND day = $3`

	result, err := r.db.ExecContext(ctx, query, habitID, userID, day)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) ListByHabit(ctx context.Context, habitID, userID string, from, to domain.Day) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND user_id = $2
		  AND ($3::date IS NULL OR day >= $3)
		  AND ($4::date IS NULL OR day <= $4)
		ORDER BY day DESC`

	fromArg := dayArg(from)
	toArg := dayArg(to)

	err := r.db.SelectContext(ctx, &completions, query, habitID, userID, fromArg, toArg)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByUserDay(ctx context.Context, userID string, day domain.Day) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE user_id = $1
		  AND day = $2
		ORDER BY habit_id ASC`

	err := r.db.SelectContext(ctx, &completions, query, userID, day)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// dayArg maps the zero Day to SQL NULL so a zero bound means unbounded.
func dayArg(d domain.Day) any {
	if d.IsZero() {
		return sql.NullTime{}
	}
	return d
}
