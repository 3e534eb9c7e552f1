package core

import (
	"context"
	"sync"
)

type stateDiffCacheKey struct{}

// stateDiffCache memoizes one trace_replayBlockTransactions call per block
// number across the grouped diff datatypes (balance_diffs/nonce_diffs/
// code_diffs/storage_diffs): when all four are requested together over the
// same partitions, extract is issued once per block and its Response is
// fanned out to each datatype's transform, rather than repeated per
// datatype (spec.md §4.5 StateDiffs MultiDatatype).
type stateDiffCache struct {
	mu      sync.Mutex
	entries map[uint64]*stateDiffCacheEntry
}

type stateDiffCacheEntry struct {
	once    sync.Once
	results []StateDiffResult
	err     error
}

func newStateDiffCache() *stateDiffCache {
	return &stateDiffCache{entries: make(map[uint64]*stateDiffCacheEntry)}
}

// withStateDiffCache attaches a shared cache to ctx, scoped to one Freeze
// run. Every diff collector sharing this ctx issues at most one replay call
// per block.
func withStateDiffCache(ctx context.Context, c *stateDiffCache) context.Context {
	return context.WithValue(ctx, stateDiffCacheKey{}, c)
}

func stateDiffCacheFrom(ctx context.Context) *stateDiffCache {
	c, _ := ctx.Value(stateDiffCacheKey{}).(*stateDiffCache)
	return c
}

// replayBlockStateDiffs fetches a block's state diffs, reusing a cached
// result from ctx's stateDiffCache if one of the other three grouped diff
// collectors has already fetched (or is fetching) this same block. Falls
// back to an uncached call when ctx carries no cache (e.g. direct unit
// tests of a single diff collector).
func replayBlockStateDiffs(ctx context.Context, src *Source, block uint64) ([]StateDiffResult, error) {
	cache := stateDiffCacheFrom(ctx)
	if cache == nil {
		return src.Fetcher.TraceReplayBlockStateDiffs(ctx, block)
	}

	cache.mu.Lock()
	entry, ok := cache.entries[block]
	if !ok {
		entry = &stateDiffCacheEntry{}
		cache.entries[block] = entry
	}
	cache.mu.Unlock()

	entry.once.Do(func() {
		entry.results, entry.err = src.Fetcher.TraceReplayBlockStateDiffs(ctx, block)
	})
	return entry.results, entry.err
}
