package fees

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/model"
)

// TokenFeed supplies candidate token addresses for an owner. The service
// treats it as an opaque source and tolerates empty results.
type TokenFeed interface {
	TokenAddresses(ctx context.Context, owner common.Address) ([]common.Address, error)
}

// SnapshotAggregator turns a candidate list into a snapshot.
type SnapshotAggregator interface {
	Aggregate(ctx context.Context, owner common.Address, candidates []common.Address) *model.ClaimableSnapshot
}

// Service ties token discovery, aggregation and the result cache together
// behind a single fetch operation.
type Service struct {
	feed   TokenFeed
	agg    SnapshotAggregator
	cache  *SnapshotCache
	logger *zap.Logger
}

// NewService builds a Service.
func NewService(feed TokenFeed, agg SnapshotAggregator, cache *SnapshotCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{feed: feed, agg: agg, cache: cache, logger: logger}
}

// Snapshot returns the owner's snapshot, honoring the result cache unless
// force is set, in which case the entry is evicted first. Discovery-feed
// failures degrade to an empty snapshot that is not cached, so the next
// request retries discovery.
func (s *Service) Snapshot(ctx context.Context, owner common.Address, force bool) (*model.ClaimableSnapshot, error) {
	if force {
		s.cache.Invalidate(owner)
	} else if snapshot, ok := s.cache.Get(owner); ok {
		return snapshot, nil
	}

	candidates, err := s.feed.TokenAddresses(ctx, owner)
	if err != nil {
		s.logger.Warn("token discovery failed", zap.String("owner", owner.Hex()), zap.Error(err))
		return model.EmptySnapshot(), nil
	}

	snapshot := s.agg.Aggregate(ctx, owner, candidates)
	s.cache.Put(owner, snapshot)

	return snapshot, nil
}

// Invalidate evicts the owner's cached snapshot.
func (s *Service) Invalidate(owner common.Address) {
	s.cache.Invalidate(owner)
}
