package fees

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/model"
	"feeScope/internal/token"
)

// BalanceReader reads raw claimable amounts for an owner across tokens.
type BalanceReader interface {
	ReadBalances(ctx context.Context, owner common.Address, tokens []common.Address) (map[common.Address]*big.Int, bool)
}

// MetadataResolver resolves token display metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, addr common.Address) token.Metadata
}

// Aggregator produces claimable-fee snapshots. Balances are read for the full
// candidate list first and metadata is resolved only for tokens that survive
// the zero filter, so metadata round trips scale with claimable assets rather
// than candidate count.
type Aggregator struct {
	reader        BalanceReader
	resolver      MetadataResolver
	wrappedNative common.Address
	logger        *zap.Logger
}

// NewAggregator builds an Aggregator. Fees accrued in the wrapped
// native-currency token are always checked, even when the candidate list does
// not mention it.
func NewAggregator(reader BalanceReader, resolver MetadataResolver, wrappedNative common.Address, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		reader:        reader,
		resolver:      resolver,
		wrappedNative: wrappedNative,
		logger:        logger,
	}
}

// Aggregate builds the owner's snapshot from the candidate token list.
func (a *Aggregator) Aggregate(ctx context.Context, owner common.Address, candidates []common.Address) *model.ClaimableSnapshot {
	tokens := dedupe(append(append([]common.Address{}, candidates...), a.wrappedNative))

	amounts, degraded := a.reader.ReadBalances(ctx, owner, tokens)

	snapshot := model.EmptySnapshot()
	snapshot.Degraded = degraded

	for _, addr := range tokens {
		amount, ok := amounts[addr]
		if !ok || amount == nil || amount.Sign() <= 0 {
			continue
		}

		meta := a.resolver.Resolve(ctx, addr)
		snapshot.Rewards = append(snapshot.Rewards, model.RewardAsset{
			Address:         addr.Hex(),
			Symbol:          meta.Symbol,
			Decimals:        meta.Decimals,
			Amount:          amount.String(),
			FormattedAmount: FormatAmount(amount, meta.Decimals),
		})
		snapshot.TokenAddresses = append(snapshot.TokenAddresses, addr.Hex())
	}

	a.logger.Debug("aggregated snapshot",
		zap.String("owner", owner.Hex()),
		zap.Int("candidates", len(tokens)),
		zap.Int("rewards", len(snapshot.Rewards)),
		zap.Bool("degraded", degraded),
	)

	return snapshot
}

// dedupe drops repeated addresses, keeping first-occurrence order so chunk
// address sets stay disjoint.
func dedupe(tokens []common.Address) []common.Address {
	seen := make(map[common.Address]struct{}, len(tokens))
	out := make([]common.Address, 0, len(tokens))
	for _, addr := range tokens {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
