package fees

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/model"
)

// Refresh/poll defaults: the poll loop's upper bound is
// maxAttempts * interval rather than one long-lived timeout.
const (
	DefaultPollInterval    = 2500 * time.Millisecond
	DefaultPollMaxAttempts = 6
)

// State labels the refresh controller's current phase, for observability.
type State int32

const (
	StateIdle State = iota
	StateRefreshing
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StatePolling:
		return "polling"
	default:
		return "idle"
	}
}

// FetchFunc retrieves a snapshot for an owner. force bypasses the result
// cache.
type FetchFunc func(ctx context.Context, owner common.Address, force bool) (*model.ClaimableSnapshot, error)

// RefreshOptions selects refresh behavior per invocation.
type RefreshOptions struct {
	// Force bypasses the result cache on the first fetch. Used for initial
	// load, post-connect, and post-claim refreshes.
	Force bool
	// PollUntilZero keeps re-fetching after the first fetch until the
	// snapshot has no claimable assets or the attempt budget runs out.
	PollUntilZero bool
}

// Refresher drives snapshot refreshes under a single-flight guard: a refresh
// requested while another is in flight is rejected immediately, never queued
// or coalesced. An in-flight refresh runs to completion or failure; it is not
// cancelled by later requests.
type Refresher struct {
	fetch       FetchFunc
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger

	inFlight atomic.Bool
	state    atomic.Int32

	mu         sync.Mutex
	lastResult *model.ClaimableSnapshot
}

// NewRefresher builds a Refresher. Non-positive interval or maxAttempts fall
// back to the defaults.
func NewRefresher(fetch FetchFunc, interval time.Duration, maxAttempts int, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		fetch:       fetch,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// State reports the controller's current phase.
func (r *Refresher) State() State {
	return State(r.state.Load())
}

// LastResult returns the last successful snapshot, or nil.
func (r *Refresher) LastResult() *model.ClaimableSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResult
}

// Refresh fetches the owner's snapshot. started is false when another refresh
// holds the single-flight guard; the call is then a no-op and lastResult is
// untouched. With PollUntilZero the controller re-fetches up to the attempt
// budget, stopping early once the snapshot has no claimable assets; budget
// exhaustion is not failure and returns the last fetched snapshot. The guard
// is released on every exit path.
func (r *Refresher) Refresh(ctx context.Context, owner common.Address, opts RefreshOptions) (snapshot *model.ClaimableSnapshot, started bool, err error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Debug("refresh already in flight, skipping", zap.String("owner", owner.Hex()))
		return nil, false, nil
	}
	defer func() {
		r.state.Store(int32(StateIdle))
		r.inFlight.Store(false)
	}()

	r.state.Store(int32(StateRefreshing))

	// Clear the stale view while the fetch is running.
	r.setLastResult(nil)

	snapshot, err = r.fetch(ctx, owner, opts.Force)
	if err != nil {
		r.logger.Warn("refresh fetch failed", zap.String("owner", owner.Hex()), zap.Error(err))
		return nil, true, err
	}

	if opts.PollUntilZero {
		for attempt := 1; len(snapshot.Rewards) > 0 && attempt < r.maxAttempts; attempt++ {
			r.state.Store(int32(StatePolling))
			r.logger.Debug("claimable fees still nonzero, polling",
				zap.String("owner", owner.Hex()),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.maxAttempts),
			)

			if err = r.wait(ctx); err != nil {
				return nil, true, err
			}

			// Re-fetches always bypass the cache: a TTL-fresh entry would
			// keep echoing the pre-claim snapshot for the whole poll budget.
			snapshot, err = r.fetch(ctx, owner, true)
			if err != nil {
				r.logger.Warn("poll fetch failed", zap.String("owner", owner.Hex()), zap.Error(err))
				return nil, true, err
			}
		}
	}

	r.setLastResult(snapshot)
	return snapshot, true, nil
}

func (r *Refresher) setLastResult(snapshot *model.ClaimableSnapshot) {
	r.mu.Lock()
	r.lastResult = snapshot
	r.mu.Unlock()
}

func (r *Refresher) wait(ctx context.Context) error {
	timer := time.NewTimer(r.interval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
