package fees

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"feeScope/internal/token"
)

type stubReader struct {
	amounts   map[common.Address]*big.Int
	degraded  bool
	gotTokens []common.Address
}

func (s *stubReader) ReadBalances(_ context.Context, _ common.Address, tokens []common.Address) (map[common.Address]*big.Int, bool) {
	s.gotTokens = tokens
	return s.amounts, s.degraded
}

type stubResolver struct {
	metas map[common.Address]token.Metadata
}

func (s *stubResolver) Resolve(_ context.Context, addr common.Address) token.Metadata {
	if meta, ok := s.metas[addr]; ok {
		return meta
	}
	return token.Metadata{Symbol: "TKN", Decimals: 18}
}

var wrappedNative = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

func TestAggregateFiltersZeroBalances(t *testing.T) {
	tokenA, tokenB, tokenC := testAddr(0), testAddr(1), testAddr(2)

	// Raw balances 5e17 (18 decimals) and 12e23 (6 decimals).
	amountB, _ := new(big.Int).SetString("500000000000000000", 10)
	amountC, _ := new(big.Int).SetString("1200000000000000000000000", 10)

	reader := &stubReader{amounts: map[common.Address]*big.Int{
		tokenA: big.NewInt(0),
		tokenB: amountB,
		tokenC: amountC,
	}}
	resolver := &stubResolver{metas: map[common.Address]token.Metadata{
		tokenB: {Symbol: "BBB", Decimals: 18},
		tokenC: {Symbol: "CCC", Decimals: 6},
	}}

	agg := NewAggregator(reader, resolver, wrappedNative, nil)
	snapshot := agg.Aggregate(context.Background(), testOwner, []common.Address{tokenA, tokenB, tokenC})

	require.Len(t, snapshot.Rewards, 2)
	require.Len(t, snapshot.TokenAddresses, 2)
	require.False(t, snapshot.Degraded)

	require.Equal(t, tokenB.Hex(), snapshot.Rewards[0].Address)
	require.Equal(t, "BBB", snapshot.Rewards[0].Symbol)
	require.Equal(t, "500000000000000000", snapshot.Rewards[0].Amount)
	require.Equal(t, "0.500000", snapshot.Rewards[0].FormattedAmount)

	require.Equal(t, tokenC.Hex(), snapshot.Rewards[1].Address)
	require.Equal(t, "1,200,000,000,000,000,000.00", snapshot.Rewards[1].FormattedAmount)

	// TokenAddresses is exactly the set of addresses in Rewards.
	for i, reward := range snapshot.Rewards {
		require.Equal(t, reward.Address, snapshot.TokenAddresses[i])
	}
}

func TestAggregateAlwaysChecksWrappedNative(t *testing.T) {
	reader := &stubReader{amounts: map[common.Address]*big.Int{}}
	agg := NewAggregator(reader, &stubResolver{}, wrappedNative, nil)

	snapshot := agg.Aggregate(context.Background(), testOwner, nil)

	require.Equal(t, []common.Address{wrappedNative}, reader.gotTokens)
	require.Empty(t, snapshot.Rewards)
	require.Empty(t, snapshot.TokenAddresses)
}

func TestAggregateDedupesCandidates(t *testing.T) {
	tokenA := testAddr(0)
	reader := &stubReader{amounts: map[common.Address]*big.Int{tokenA: big.NewInt(1)}}
	agg := NewAggregator(reader, &stubResolver{}, wrappedNative, nil)

	snapshot := agg.Aggregate(context.Background(), testOwner,
		[]common.Address{tokenA, wrappedNative, tokenA})

	require.Equal(t, []common.Address{tokenA, wrappedNative}, reader.gotTokens)
	require.Len(t, snapshot.Rewards, 1)
}

func TestAggregatePropagatesDegraded(t *testing.T) {
	reader := &stubReader{amounts: map[common.Address]*big.Int{}, degraded: true}
	agg := NewAggregator(reader, &stubResolver{}, wrappedNative, nil)

	snapshot := agg.Aggregate(context.Background(), testOwner, nil)
	require.True(t, snapshot.Degraded)
}
