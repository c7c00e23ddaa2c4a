package storage

import (
	"context"

	"feeScope/internal/model"
)

// ClaimStore persists confirmed claim history.
type ClaimStore interface {
	AppendClaim(ctx context.Context, rec model.ClaimRecord) error
	ListClaims(ctx context.Context, owner string, limit int) ([]model.ClaimRecord, error)
}
