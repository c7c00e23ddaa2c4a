package fees

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"feeScope/internal/claim"
	"feeScope/internal/token"
)

// DefaultChunkSize bounds the number of claimableFees calls packed into one
// multicall request, keeping the aggregate call under the node's size and gas
// limits.
const DefaultChunkSize = 500

// Reader reads claimable fee balances in chunked multicall batches. Failure
// isolation is per chunk: an unreadable item or a failed chunk transport
// degrades to zero balances instead of aborting the run.
type Reader struct {
	caller      token.ContractCaller
	multicall   common.Address
	distributor common.Address
	chunkSize   int
	logger      *zap.Logger
}

// NewReader builds a Reader. chunkSize <= 0 falls back to DefaultChunkSize.
func NewReader(caller token.ContractCaller, multicall, distributor common.Address, chunkSize int, logger *zap.Logger) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		caller:      caller,
		multicall:   multicall,
		distributor: distributor,
		chunkSize:   chunkSize,
		logger:      logger,
	}
}

// ReadBalances returns the raw claimable amount per token for the owner.
// An empty token list returns an empty map without any network call. The
// second result reports whether any read was degraded to zero.
func (r *Reader) ReadBalances(ctx context.Context, owner common.Address, tokens []common.Address) (map[common.Address]*big.Int, bool) {
	amounts := make(map[common.Address]*big.Int, len(tokens))
	if len(tokens) == 0 {
		return amounts, false
	}

	chunks := splitChunks(tokens, r.chunkSize)

	type chunkResult struct {
		amounts  map[common.Address]*big.Int
		degraded bool
	}
	results := make([]chunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			got, degraded := r.readChunk(gctx, owner, chunk)
			results[i] = chunkResult{amounts: got, degraded: degraded}
			return nil
		})
	}
	// readChunk never returns an error, it degrades.
	_ = g.Wait()

	degraded := false
	for _, res := range results {
		for addr, amount := range res.amounts {
			amounts[addr] = amount
		}
		degraded = degraded || res.degraded
	}

	return amounts, degraded
}

func (r *Reader) readChunk(ctx context.Context, owner common.Address, tokens []common.Address) (map[common.Address]*big.Int, bool) {
	amounts := make(map[common.Address]*big.Int, len(tokens))
	degraded := false

	calls := make([]multicallCall, 0, len(tokens))
	callTokens := make([]common.Address, 0, len(tokens))
	for _, tokenAddr := range tokens {
		callData, err := claim.PackClaimableFees(owner, tokenAddr)
		if err != nil {
			r.logger.Warn("pack claimableFees failed", zap.String("token", tokenAddr.Hex()), zap.Error(err))
			amounts[tokenAddr] = big.NewInt(0)
			degraded = true
			continue
		}
		calls = append(calls, multicallCall{Target: r.distributor, CallData: callData})
		callTokens = append(callTokens, tokenAddr)
	}

	data, err := packTryAggregate(calls)
	if err != nil {
		r.logger.Warn("pack tryAggregate failed", zap.Int("tokens", len(tokens)), zap.Error(err))
		return zeroFill(amounts, tokens), true
	}

	msg := ethereum.CallMsg{To: &r.multicall, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		r.logger.Warn("multicall chunk failed, zero-filling",
			zap.Int("tokens", len(tokens)), zap.Error(err))
		return zeroFill(amounts, tokens), true
	}

	results, err := unpackTryAggregate(resp)
	if err != nil || len(results) != len(calls) {
		r.logger.Warn("multicall response malformed, zero-filling",
			zap.Int("tokens", len(tokens)), zap.Error(err))
		return zeroFill(amounts, tokens), true
	}

	for i, res := range results {
		tokenAddr := callTokens[i]

		if !res.Success || len(res.ReturnData) == 0 {
			r.logger.Warn("claimableFees item failed", zap.String("token", tokenAddr.Hex()))
			amounts[tokenAddr] = big.NewInt(0)
			degraded = true
			continue
		}

		amount, err := claim.UnpackClaimableFees(res.ReturnData)
		if err != nil {
			r.logger.Warn("claimableFees decode failed", zap.String("token", tokenAddr.Hex()), zap.Error(err))
			amounts[tokenAddr] = big.NewInt(0)
			degraded = true
			continue
		}
		amounts[tokenAddr] = amount
	}

	return amounts, degraded
}

// zeroFill assigns zero to every token not already present in amounts.
func zeroFill(amounts map[common.Address]*big.Int, tokens []common.Address) map[common.Address]*big.Int {
	for _, tokenAddr := range tokens {
		if _, ok := amounts[tokenAddr]; !ok {
			amounts[tokenAddr] = big.NewInt(0)
		}
	}
	return amounts
}

// splitChunks partitions tokens into slices of at most size elements,
// preserving order.
func splitChunks(tokens []common.Address, size int) [][]common.Address {
	chunks := make([][]common.Address, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
