package fees

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"feeScope/internal/model"
)

func nonzeroSnapshot() *model.ClaimableSnapshot {
	return &model.ClaimableSnapshot{
		Rewards: []model.RewardAsset{{
			Address: testAddr(0).Hex(),
			Symbol:  "TKN",
			Amount:  "1",
		}},
		TokenAddresses: []string{testAddr(0).Hex()},
	}
}

// scriptedFetch returns each snapshot in order, then keeps returning the last.
type scriptedFetch struct {
	mu        sync.Mutex
	snapshots []*model.ClaimableSnapshot
	forces    []bool
	calls     int
}

func (s *scriptedFetch) fetch(_ context.Context, _ common.Address, force bool) (*model.ClaimableSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if idx >= len(s.snapshots) {
		idx = len(s.snapshots) - 1
	}
	s.calls++
	s.forces = append(s.forces, force)
	return s.snapshots[idx], nil
}

func (s *scriptedFetch) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRefreshSingleFetch(t *testing.T) {
	script := &scriptedFetch{snapshots: []*model.ClaimableSnapshot{nonzeroSnapshot()}}
	r := NewRefresher(script.fetch, time.Millisecond, 3, nil)

	snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{Force: true})
	require.NoError(t, err)
	require.True(t, started)
	require.Len(t, snapshot.Rewards, 1)
	require.Equal(t, 1, script.callCount())
	require.Equal(t, []bool{true}, script.forces)
	require.Same(t, snapshot, r.LastResult())
	require.Equal(t, StateIdle, r.State())
	require.False(t, r.inFlight.Load())
}

func TestRefreshRejectsConcurrentRequest(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	fetch := func(_ context.Context, _ common.Address, _ bool) (*model.ClaimableSnapshot, error) {
		entered <- struct{}{}
		<-release
		return model.EmptySnapshot(), nil
	}

	r := NewRefresher(fetch, time.Millisecond, 3, nil)

	type result struct {
		snapshot *model.ClaimableSnapshot
		started  bool
		err      error
	}
	firstDone := make(chan result, 1)
	go func() {
		snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{})
		firstDone <- result{snapshot, started, err}
	}()

	<-entered

	snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{})
	require.NoError(t, err)
	require.False(t, started)
	require.Nil(t, snapshot)

	close(release)
	first := <-firstDone
	require.NoError(t, first.err)
	require.True(t, first.started)
	require.NotNil(t, first.snapshot)

	// The guard is released: a new refresh proceeds.
	_, started, err = r.Refresh(context.Background(), testOwner, RefreshOptions{})
	require.NoError(t, err)
	require.True(t, started)
}

func TestRefreshGuardReleasedAfterFailure(t *testing.T) {
	fetchErr := errors.New("fetch failed")
	fetch := func(_ context.Context, _ common.Address, _ bool) (*model.ClaimableSnapshot, error) {
		return nil, fetchErr
	}

	r := NewRefresher(fetch, time.Millisecond, 3, nil)

	snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{})
	require.ErrorIs(t, err, fetchErr)
	require.True(t, started)
	require.Nil(t, snapshot)
	require.Nil(t, r.LastResult())
	require.False(t, r.inFlight.Load())
	require.Equal(t, StateIdle, r.State())
}

func TestRefreshPollUntilZeroStopsAtZero(t *testing.T) {
	script := &scriptedFetch{snapshots: []*model.ClaimableSnapshot{
		nonzeroSnapshot(),
		nonzeroSnapshot(),
		model.EmptySnapshot(),
	}}
	r := NewRefresher(script.fetch, time.Millisecond, 3, nil)

	start := time.Now()
	snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{Force: true, PollUntilZero: true})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.True(t, started)
	require.Empty(t, snapshot.Rewards)
	require.Equal(t, 3, script.callCount())
	// Exactly two inter-attempt delays.
	require.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
	// Poll re-fetches always bypass the cache.
	require.Equal(t, []bool{true, true, true}, script.forces)
}

func TestRefreshPollExhaustionReturnsLastSnapshot(t *testing.T) {
	script := &scriptedFetch{snapshots: []*model.ClaimableSnapshot{nonzeroSnapshot()}}
	r := NewRefresher(script.fetch, time.Millisecond, 3, nil)

	snapshot, started, err := r.Refresh(context.Background(), testOwner, RefreshOptions{PollUntilZero: true})

	// Exhaustion is best-available data, not failure.
	require.NoError(t, err)
	require.True(t, started)
	require.Len(t, snapshot.Rewards, 1)
	require.Equal(t, 3, script.callCount())
	require.Same(t, snapshot, r.LastResult())
}

func TestRefreshClearsLastResultOnEntry(t *testing.T) {
	observed := make(chan *model.ClaimableSnapshot, 2)
	var r *Refresher
	fetch := func(_ context.Context, _ common.Address, _ bool) (*model.ClaimableSnapshot, error) {
		observed <- r.LastResult()
		return model.EmptySnapshot(), nil
	}
	r = NewRefresher(fetch, time.Millisecond, 3, nil)

	_, _, err := r.Refresh(context.Background(), testOwner, RefreshOptions{})
	require.NoError(t, err)
	require.NotNil(t, r.LastResult())

	// The second refresh must not show the stale result during its fetch.
	_, _, err = r.Refresh(context.Background(), testOwner, RefreshOptions{})
	require.NoError(t, err)

	<-observed
	require.Nil(t, <-observed)
}
