package token

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	wrappedNative = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testToken     = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

// fakeERC20 answers symbol() and decimals() calls with ABI-encoded values.
type fakeERC20 struct {
	symbol   string
	decimals uint8
	err      error

	mu    sync.Mutex
	calls int
}

func (f *fakeERC20) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	parsed, err := erc20ABIStringInstance()
	if err != nil {
		return nil, err
	}

	symbolData, err := parsed.Pack("symbol")
	if err != nil {
		return nil, err
	}
	if string(msg.Data) == string(symbolData) {
		return parsed.Methods["symbol"].Outputs.Pack(f.symbol)
	}
	return parsed.Methods["decimals"].Outputs.Pack(f.decimals)
}

func (f *fakeERC20) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolveCachesSuccess(t *testing.T) {
	fake := &fakeERC20{symbol: "USDC", decimals: 6}
	resolver := NewResolver(fake, wrappedNative, "WETH", nil)

	meta := resolver.Resolve(context.Background(), testToken)
	require.Equal(t, Metadata{Symbol: "USDC", Decimals: 6}, meta)
	require.Equal(t, 2, fake.callCount())

	// Second resolution is served from the permanent cache.
	meta = resolver.Resolve(context.Background(), testToken)
	require.Equal(t, Metadata{Symbol: "USDC", Decimals: 6}, meta)
	require.Equal(t, 2, fake.callCount())
}

func TestResolveFallbackNotCached(t *testing.T) {
	fake := &fakeERC20{err: errors.New("rpc down")}
	resolver := NewResolver(fake, wrappedNative, "WETH", nil)

	meta := resolver.Resolve(context.Background(), testToken)
	require.Equal(t, Metadata{Symbol: testToken.Hex()[:8], Decimals: 18}, meta)
	failedCalls := fake.callCount()
	require.Positive(t, failedCalls)

	// The fallback was not cached, so a later call retries and succeeds.
	fake.err = nil
	fake.symbol = "DAI"
	fake.decimals = 18

	meta = resolver.Resolve(context.Background(), testToken)
	require.Equal(t, Metadata{Symbol: "DAI", Decimals: 18}, meta)
	require.Greater(t, fake.callCount(), failedCalls)
}

func TestResolveWrappedNativeBypassesNetwork(t *testing.T) {
	fake := &fakeERC20{symbol: "NOPE", decimals: 0}
	resolver := NewResolver(fake, wrappedNative, "WETH", nil)

	meta := resolver.Resolve(context.Background(), wrappedNative)
	require.Equal(t, Metadata{Symbol: "WETH", Decimals: 18}, meta)
	require.Zero(t, fake.callCount())
}
