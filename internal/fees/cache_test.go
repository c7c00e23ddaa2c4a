package fees

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"feeScope/internal/model"
)

func TestSnapshotCachePutGet(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000000AA")
	cache := NewSnapshotCache(time.Minute)

	_, ok := cache.Get(owner)
	require.False(t, ok)

	snapshot := model.EmptySnapshot()
	cache.Put(owner, snapshot)

	got, ok := cache.Get(owner)
	require.True(t, ok)
	require.Same(t, snapshot, got)
}

func TestSnapshotCacheKeyIsCaseInsensitive(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)
	snapshot := model.EmptySnapshot()

	cache.Put(common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), snapshot)

	got, ok := cache.Get(common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	require.True(t, ok)
	require.Same(t, snapshot, got)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000000AA")
	cache := NewSnapshotCache(time.Minute)

	now := time.Unix(1000, 0)
	cache.now = func() time.Time { return now }

	cache.Put(owner, model.EmptySnapshot())

	now = now.Add(59 * time.Second)
	_, ok := cache.Get(owner)
	require.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get(owner)
	require.False(t, ok)
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000000AA")
	cache := NewSnapshotCache(time.Minute)

	cache.Put(owner, model.EmptySnapshot())
	cache.Invalidate(owner)

	_, ok := cache.Get(owner)
	require.False(t, ok)

	// Idempotent on a missing entry.
	cache.Invalidate(owner)
}
