package core

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// FreezeRequest is one freeze() invocation's fully-resolved configuration:
// every Open Question (schema, sort, format, concurrency) has already been
// settled by the CLI layer before this is built (spec.md §4).
type FreezeRequest struct {
	Source              *Source
	Datatypes           []Datatype
	Schemas             Schemas
	Partitions          []Partition
	OutputDir           string
	Format              OutputFormat
	Gzip                bool
	SkipIfExists        bool
	MaxConcurrentChunks uint64
	MaxConcurrentBlocks uint64
	ReportPath          string // empty disables the JSON report
}

// chunkTask is one (Partition, Datatype) unit of work — the granularity at
// which max_concurrent_chunks applies and at which exactly one output file
// is produced.
type chunkTask struct {
	partition Partition
	datatype  Datatype
}

// Freeze runs the full extract-transform-sink pipeline described by req,
// returning a summary of what was written, skipped, and failed. A single
// chunk's error, including an unresolvable collector, is recorded, not fatal
// (spec.md §4.6: partial failures don't abort the run). Only a NewSink
// failure returns before any chunk runs; ctx cancellation stops further
// chunks from being dispatched, and a report write failure is returned
// after the run.
func Freeze(ctx context.Context, req FreezeRequest) (FreezeSummary, error) {
	datatypeNames := make([]string, 0, len(req.Datatypes))
	for _, d := range req.Datatypes {
		datatypeNames = append(datatypeNames, d.Name())
	}

	summary := FreezeSummary{
		RunID:   NewRunID(),
		ChainID: req.Source.ChainID,
		Query: ResolvedQuery{
			Datatypes:      datatypeNames,
			PartitionCount: len(req.Partitions),
		},
		Source: ResolvedSource{
			ChainID:             req.Source.ChainID,
			NetworkName:         req.Source.NetworkName,
			RPCURL:              RedactRPCURL(req.Source.RPCURL),
			MaxConcurrentChunks: req.MaxConcurrentChunks,
			MaxConcurrentBlocks: req.MaxConcurrentBlocks,
		},
		Started: time.Now(),
	}

	sink, err := NewSink(req.Format, req.Gzip)
	if err != nil {
		return summary, err
	}

	var tasks []chunkTask
	for _, part := range req.Partitions {
		for _, d := range req.Datatypes {
			tasks = append(tasks, chunkTask{partition: part, datatype: d})
		}
	}

	maxChunks := int64(req.MaxConcurrentChunks)
	if maxChunks <= 0 {
		maxChunks = 1
	}
	sem := semaphore.NewWeighted(maxChunks)
	var mu sync.Mutex

	// One stateDiffCache per run: every chunk task shares it, but only the
	// grouped diff collectors (balance_diffs/nonce_diffs/code_diffs/
	// storage_diffs) ever read from it.
	ctx = withStateDiffCache(ctx, newStateDiffCache())

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			runChunk(gctx, req, sink, task, &summary, &mu)
			return nil // recorded in summary, never propagated — keeps siblings running
		})
	}
	_ = g.Wait()

	summary.Finished = time.Now()
	if req.ReportPath != "" {
		if werr := WriteReport(req.ReportPath, summary); werr != nil {
			return summary, werr
		}
	}
	return summary, nil
}

// runChunk collects and writes exactly one (Partition, Datatype) pair,
// recording the outcome into summary under mu.
func runChunk(ctx context.Context, req FreezeRequest, sink Sink, task chunkTask, summary *FreezeSummary, mu *sync.Mutex) {
	identity := task.partition.Identity()
	datatypeName := task.datatype.Name()
	schema := req.Schemas[task.datatype]
	path := OutputPath(req.OutputDir, req.Source.NetworkName, task.datatype, identity, req.Format, req.Gzip)

	mu.Lock()
	if req.SkipIfExists && Exists(path) {
		summary.addSkipped(datatypeName, identity, path)
		mu.Unlock()
		return
	}
	mu.Unlock()

	collector, err := ResolveCollector(task.datatype)
	if err == nil {
		var df DataFrame
		df, err = collector.Collect(ctx, req.Source, task.partition, schema, int64(req.MaxConcurrentBlocks))
		if err == nil {
			err = sink.Write(df, schema, path)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		summary.addErrored(datatypeName, identity, err)
		return
	}
	summary.addCompleted(datatypeName, identity, path)
}
