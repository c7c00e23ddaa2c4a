package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"feeScope/internal/model"
)

// Store provides Postgres persistence for claim history.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the claim history table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS claim_history (
			id BIGSERIAL PRIMARY KEY,
			owner TEXT NOT NULL,
			tx_hash TEXT NOT NULL,
			tokens TEXT[] NOT NULL,
			claimed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS claim_history_owner_idx ON claim_history (owner, claimed_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure claim_history schema: %w", err)
	}
	return nil
}

// AppendClaim inserts one confirmed claim record.
func (s *Store) AppendClaim(ctx context.Context, rec model.ClaimRecord) error {
	if rec.Tokens == nil {
		rec.Tokens = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO claim_history (owner, tx_hash, tokens, claimed_at)
		VALUES ($1, $2, $3, $4)
	`,
		strings.ToLower(rec.Owner),
		rec.TxHash,
		rec.Tokens,
		rec.ClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("insert claim record: %w", err)
	}
	return nil
}

// ListClaims returns the owner's claim records, newest first.
func (s *Store) ListClaims(ctx context.Context, owner string, limit int) ([]model.ClaimRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT owner, tx_hash, tokens, claimed_at
		FROM claim_history
		WHERE owner = $1
		ORDER BY claimed_at DESC
		LIMIT $2
	`, strings.ToLower(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("query claim history: %w", err)
	}
	defer rows.Close()

	records := make([]model.ClaimRecord, 0, limit)
	for rows.Next() {
		var rec model.ClaimRecord
		if err := rows.Scan(&rec.Owner, &rec.TxHash, &rec.Tokens, &rec.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan claim record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read claim history: %w", err)
	}

	return records, nil
}
