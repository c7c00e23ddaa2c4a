package token

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Metadata captures the display attributes of an ERC20 token.
type Metadata struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ContractCaller executes a read-only contract call.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

const fallbackDecimals = 18

// Resolver resolves token metadata with a permanent in-memory cache.
// Resolution never fails: when either on-chain call errors the resolver
// degrades to a fallback value derived from the address, without caching it,
// so a later call may retry.
type Resolver struct {
	caller        ContractCaller
	wrappedNative common.Address
	wrappedSymbol string
	logger        *zap.Logger

	mu   sync.RWMutex
	data map[common.Address]Metadata
}

// NewResolver builds a Resolver. The wrapped native-currency token bypasses
// the network entirely.
func NewResolver(caller ContractCaller, wrappedNative common.Address, wrappedSymbol string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		caller:        caller,
		wrappedNative: wrappedNative,
		wrappedSymbol: wrappedSymbol,
		logger:        logger,
		data:          make(map[common.Address]Metadata),
	}
}

// Resolve returns the token's metadata, fetching symbol and decimals
// concurrently on a cache miss.
func (r *Resolver) Resolve(ctx context.Context, addr common.Address) Metadata {
	if addr == r.wrappedNative {
		return Metadata{Symbol: r.wrappedSymbol, Decimals: fallbackDecimals}
	}

	r.mu.RLock()
	meta, ok := r.data[addr]
	r.mu.RUnlock()
	if ok {
		return meta
	}

	var symbol string
	var decimals uint8

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		symbol, err = r.fetchSymbol(gctx, addr)
		return err
	})
	g.Go(func() error {
		var err error
		decimals, err = r.fetchDecimals(gctx, addr)
		return err
	})

	if err := g.Wait(); err != nil {
		r.logger.Warn("token metadata fetch failed, using fallback",
			zap.String("token", addr.Hex()), zap.Error(err))
		return Metadata{Symbol: addr.Hex()[:8], Decimals: fallbackDecimals}
	}

	meta = Metadata{Symbol: symbol, Decimals: decimals}
	r.mu.Lock()
	r.data[addr] = meta
	r.mu.Unlock()

	return meta
}

func (r *Resolver) fetchDecimals(ctx context.Context, addr common.Address) (uint8, error) {
	parsed, err := erc20ABIStringInstance()
	if err != nil {
		return 0, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := r.call(ctx, addr, parsed, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

func (r *Resolver) fetchSymbol(ctx context.Context, addr common.Address) (string, error) {
	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return "", fmt.Errorf("parse erc20 string abi: %w", err)
	}
	if values, err := r.call(ctx, addr, stringABI, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			return symbol, nil
		}
	}

	// Some older tokens return bytes32 symbols.
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return "", fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}
	values, err := r.call(ctx, addr, bytes32ABI, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := bytes32ToString(values[0])
	if !ok {
		return "", fmt.Errorf("unsupported symbol type %T", values[0])
	}
	return symbol, nil
}

func (r *Resolver) call(ctx context.Context, addr common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &addr, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
