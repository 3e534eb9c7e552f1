package core

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ForEachItem expands part into its work items along dims and extracts each
// one with up to maxConcurrent invocations in flight at a time, mirroring
// rancher-steve's ParallelPartitionLister: one semaphore permit acquired per
// item, one errgroup shared across every goroutine so the first extract
// error cancels the rest of the items still in flight.
//
// extract runs concurrently and must not touch the caller's accumulator
// directly; it returns an apply closure capturing whatever it fetched.
// apply closures are sent through a channel of capacity 1 to a single
// consumer goroutine that calls them one at a time, so the accumulator
// never needs its own lock — exactly one writer touches it, same as every
// other builder in this package (spec.md §4.5, §5: bounded channel of
// capacity 1 feeding a single transform consumer). extract may return a nil
// apply when an item produced nothing to store.
//
// If an in-flight extract errors, the errgroup's context is canceled; the
// acquire loop then stops dispatching new items but always falls through to
// draining the apply channel and joining every goroutine already in flight
// before returning, so the original error is never masked by a subsequent
// "context canceled" and no goroutine is leaked.
func ForEachItem(ctx context.Context, part Partition, dims []Dim, maxConcurrent int64, extract func(ctx context.Context, p Params) (apply func(), err error)) error {
	items := part.WorkItems(dims)
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := semaphore.NewWeighted(maxConcurrent)
	g, gctx := errgroup.WithContext(ctx)

	applyCh := make(chan func(), 1)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for apply := range applyCh {
			apply()
		}
	}()

	for _, item := range items {
		item := item
		if err := sem.Acquire(gctx, 1); err != nil {
			break // a sibling task already failed; stop dispatching, still join below
		}
		g.Go(func() error {
			defer sem.Release(1)
			apply, err := extract(gctx, item)
			if err != nil {
				return err
			}
			if apply == nil {
				return nil
			}
			select {
			case applyCh <- apply:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err := g.Wait()
	close(applyCh)
	<-consumerDone
	return err
}
