package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists per-user daily usage counters.
type Repository interface {
	// DailyCount returns the count for the given UTC date (YYYY-MM-DD).
	// A user with no row for that date has a count of zero.
	DailyCount(ctx context.Context, userID, date string) (int, error)
	// IncrementDaily bumps the counter for the given date by one, creating
	// the row if needed.
	IncrementDaily(ctx context.Context, userID, date string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Postgres-backed usage repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) DailyCount(ctx context.Context, userID, date string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT daily_count FROM suggestion_usage WHERE user_id = $1 AND usage_date = $2`,
		userID, date,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying daily usage: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) IncrementDaily(ctx context.Context, userID, date string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO suggestion_usage (user_id, usage_date, daily_count, updated_at)
		 VALUES ($1, $2, 1, NOW())
		 ON CONFLICT (user_id, usage_date)
		 DO UPDATE SET daily_count = suggestion_usage.daily_count + 1, updated_at = NOW()`,
		userID, date,
	)
	if err != nil {
		return fmt.Errorf("incrementing daily usage: %w", err)
	}
	return nil
}
