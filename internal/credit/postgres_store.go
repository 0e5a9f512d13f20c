package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// numericValueOutOfRange is the SQLSTATE postgres reports on BIGINT overflow.
const numericValueOutOfRange = "22003"

// PostgresStore keeps scores in the social_credit table.
type PostgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a SQL-backed store. The schema is created by the
// migrations in the migrations directory.
func NewPostgresStore(db *sql.DB, log *slog.Logger) *PostgresStore {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStore{
		db:  db,
		log: log,
	}
}

// Get returns the stored score or 0 when the user has no row.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (int64, error) {
	const query = `
		SELECT score
		FROM social_credit
		WHERE user_id = $1
	`

	var score int64
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		s.log.WarnContext(ctx, "failed to fetch score", slog.Int64("user_id", userID), slog.Any("error", err))
		return 0, fmt.Errorf("select score: %w", err)
	}

	return score, nil
}

// Add upserts the row and returns the new score in one statement.
func (s *PostgresStore) Add(ctx context.Context, userID int64, delta int64) (int64, error) {
	const query = `
		INSERT INTO social_credit (user_id, score, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET score = social_credit.score + EXCLUDED.score,
		    updated_at = EXCLUDED.updated_at
		RETURNING score
	`

	var score int64
	if err := s.db.QueryRowContext(ctx, query, userID, delta).Scan(&score); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == numericValueOutOfRange {
			return 0, ErrOverflow
		}

		s.log.WarnContext(ctx, "failed to adjust score", slog.Int64("user_id", userID), slog.Int64("delta", delta), slog.Any("error", err))
		return 0, fmt.Errorf("upsert score: %w", err)
	}

	return score, nil
}

// HealthCheck pings the database.
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	if s == nil || s.db == nil {
		return sql.ErrConnDone
	}
	return s.db.PingContext(ctx)
}
