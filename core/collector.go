package core

import "context"

// Collector is implemented by every dataset (one per Datatype): Collect
// expands part into the individual work items its RequiredParameters()
// demand (via part.WorkItems), fetches each with maxConcurrentBlocks of
// parallelism, and merges the result into exactly one DataFrame — the unit
// a Sink writes as a single file (spec.md §5: one file per Partition per
// Datatype).
type Collector interface {
	Collect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error)
}

// CollectorFunc adapts a plain function to the Collector interface, the way
// every single-trait dataset file in this package registers itself.
type CollectorFunc func(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error)

func (f CollectorFunc) Collect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	return f(ctx, src, part, schema, maxConcurrentBlocks)
}

// CollectorPair implements the dual-trait Collector for a CollectorKind of
// ByBoth (spec.md §4.4, §9 Open Question): original_source's
// CollectByBlock/CollectByTransaction traits, collapsed into one interface
// but still two distinct implementations, chosen per call from what the
// Partition actually populates. ByTransaction runs iff the Partition
// populates TransactionHashes and not BlockNumbers; otherwise ByBlock runs.
type CollectorPair struct {
	ByBlock       CollectorFunc
	ByTransaction CollectorFunc
}

func (p CollectorPair) Collect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	if len(part.TransactionHashes) > 0 && len(part.BlockNumbers) == 0 {
		return p.ByTransaction(ctx, src, part, schema, maxConcurrentBlocks)
	}
	return p.ByBlock(ctx, src, part, schema, maxConcurrentBlocks)
}
