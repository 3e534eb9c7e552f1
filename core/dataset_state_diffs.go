package core

import (
	"context"

	"github.com/holiman/uint256"
)

// This file groups the four state-diff datasets (spec.md §4.5 StateDiffs
// MultiDatatype): each projects out its own slice of the Same/Born/Died/
// Changed account diff from one trace_replayBlockTransactions response per
// block. The replay call itself is issued at most once per block across all
// four, via replayBlockStateDiffs's cache (state_diff_cache.go) — when all
// four are requested together over the same partitions, whichever collector
// reaches a given block first pays for the RPC and the other three observe
// the cached result.

func diffKindString(k DiffKind) string {
	switch k {
	case DiffBorn:
		return "born"
	case DiffDied:
		return "died"
	case DiffChanged:
		return "changed"
	default:
		return "same"
	}
}

func init() {
	registerCollector(BalanceDiffs, balanceDiffsCollect)
	registerCollector(CodeDiffs, codeDiffsCollect)
	registerCollector(NonceDiffs, nonceDiffsCollect)
	registerCollector(StorageDiffs, storageDiffsCollect)
}

// --- balance_diffs ---

func balanceDiffsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "balance_diffs",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "kind", Type: ColString, Default: true},
			{Name: "from_value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
			{Name: "to_value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type balanceDiffsColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	address         Column[[]byte]
	kind            Column[string]
	fromValue       Column[*uint256.Int]
	toValue         Column[*uint256.Int]
}

func newBalanceDiffsColumns(schema Table) *balanceDiffsColumns {
	return &balanceDiffsColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		address:         NewColumn[[]byte](schema.HasColumn("address")),
		kind:            NewColumn[string](schema.HasColumn("kind")),
		fromValue:       NewColumn[*uint256.Int](schema.HasColumn("from_value")),
		toValue:         NewColumn[*uint256.Int](schema.HasColumn("to_value")),
	}
}

func (c *balanceDiffsColumns) NRows() int { return c.blockNumber.Len() }

func (c *balanceDiffsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.kind.Selected() {
		src.scalar["kind"] = strSeries(&c.kind)
	}
	if c.fromValue.Selected() {
		src.u256["from_value"] = c.fromValue.Values()
	}
	if c.toValue.Selected() {
		src.u256["to_value"] = c.toValue.Values()
	}
	return BuildDataFrame(BalanceDiffs, schema, c.NRows(), src)
}

func balanceDiffsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newBalanceDiffsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		results, err := replayBlockStateDiffs(ctx, src, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, res := range results {
				for _, d := range res.Diffs {
					if d.Kind == DiffSame {
						continue
					}
					cols.blockNumber.Store(num)
					cols.transactionHash.Store(res.TransactionHash.Bytes())
					cols.address.Store(d.Address.Bytes())
					cols.kind.Store(diffKindString(d.Kind))
					cols.fromValue.Store(U256FromBig(d.From))
					cols.toValue.Store(U256FromBig(d.To))
				}
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- nonce_diffs ---

func nonceDiffsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "nonce_diffs",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "kind", Type: ColString, Default: true},
			{Name: "from_value", Type: ColUInt64, Default: true},
			{Name: "to_value", Type: ColUInt64, Default: true},
		},
	}
}

type nonceDiffsColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	address         Column[[]byte]
	kind            Column[string]
	fromValue       Column[uint64]
	toValue         Column[uint64]
}

func newNonceDiffsColumns(schema Table) *nonceDiffsColumns {
	return &nonceDiffsColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		address:         NewColumn[[]byte](schema.HasColumn("address")),
		kind:            NewColumn[string](schema.HasColumn("kind")),
		fromValue:       NewColumn[uint64](schema.HasColumn("from_value")),
		toValue:         NewColumn[uint64](schema.HasColumn("to_value")),
	}
}

func (c *nonceDiffsColumns) NRows() int { return c.blockNumber.Len() }

func (c *nonceDiffsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.kind.Selected() {
		src.scalar["kind"] = strSeries(&c.kind)
	}
	if c.fromValue.Selected() {
		src.scalar["from_value"] = u64Series(&c.fromValue)
	}
	if c.toValue.Selected() {
		src.scalar["to_value"] = u64Series(&c.toValue)
	}
	return BuildDataFrame(NonceDiffs, schema, c.NRows(), src)
}

func nonceDiffsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newNonceDiffsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		results, err := replayBlockStateDiffs(ctx, src, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, res := range results {
				for _, d := range res.Diffs {
					if d.Kind == DiffSame || (d.NonceFrom == 0 && d.NonceTo == 0 && d.Kind != DiffChanged) {
						continue
					}
					cols.blockNumber.Store(num)
					cols.transactionHash.Store(res.TransactionHash.Bytes())
					cols.address.Store(d.Address.Bytes())
					cols.kind.Store(diffKindString(d.Kind))
					cols.fromValue.Store(d.NonceFrom)
					cols.toValue.Store(d.NonceTo)
				}
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- code_diffs ---

func codeDiffsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "code_diffs",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "kind", Type: ColString, Default: true},
			{Name: "from_value", Type: ColBinary, Default: true},
			{Name: "to_value", Type: ColBinary, Default: true},
		},
	}
}

type codeDiffsColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	address         Column[[]byte]
	kind            Column[string]
	fromValue       Column[[]byte]
	toValue         Column[[]byte]
}

func newCodeDiffsColumns(schema Table) *codeDiffsColumns {
	return &codeDiffsColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		address:         NewColumn[[]byte](schema.HasColumn("address")),
		kind:            NewColumn[string](schema.HasColumn("kind")),
		fromValue:       NewColumn[[]byte](schema.HasColumn("from_value")),
		toValue:         NewColumn[[]byte](schema.HasColumn("to_value")),
	}
}

func (c *codeDiffsColumns) NRows() int { return c.blockNumber.Len() }

func (c *codeDiffsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.kind.Selected() {
		src.scalar["kind"] = strSeries(&c.kind)
	}
	if c.fromValue.Selected() {
		src.scalar["from_value"] = binSeries(&c.fromValue)
	}
	if c.toValue.Selected() {
		src.scalar["to_value"] = binSeries(&c.toValue)
	}
	return BuildDataFrame(CodeDiffs, schema, c.NRows(), src)
}

func codeDiffsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newCodeDiffsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		results, err := replayBlockStateDiffs(ctx, src, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, res := range results {
				for _, d := range res.Diffs {
					if d.Kind != DiffBorn && d.Kind != DiffChanged {
						continue
					}
					if len(d.CodeFrom) == 0 && len(d.CodeTo) == 0 {
						continue
					}
					cols.blockNumber.Store(num)
					cols.transactionHash.Store(res.TransactionHash.Bytes())
					cols.address.Store(d.Address.Bytes())
					cols.kind.Store(diffKindString(d.Kind))
					cols.fromValue.Store(d.CodeFrom)
					cols.toValue.Store(d.CodeTo)
				}
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- storage_diffs ---

func storageDiffsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "storage_diffs",
		defaultSort:        []string{"block_number", "address", "slot"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "slot", Type: ColBinary, Default: true},
			{Name: "kind", Type: ColString, Default: true},
			{Name: "from_value", Type: ColBinary, Default: true},
			{Name: "to_value", Type: ColBinary, Default: true},
		},
	}
}

type storageDiffsColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	address         Column[[]byte]
	slot            Column[[]byte]
	kind            Column[string]
	fromValue       Column[[]byte]
	toValue         Column[[]byte]
}

func newStorageDiffsColumns(schema Table) *storageDiffsColumns {
	return &storageDiffsColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		address:         NewColumn[[]byte](schema.HasColumn("address")),
		slot:            NewColumn[[]byte](schema.HasColumn("slot")),
		kind:            NewColumn[string](schema.HasColumn("kind")),
		fromValue:       NewColumn[[]byte](schema.HasColumn("from_value")),
		toValue:         NewColumn[[]byte](schema.HasColumn("to_value")),
	}
}

func (c *storageDiffsColumns) NRows() int { return c.blockNumber.Len() }

func (c *storageDiffsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.slot.Selected() {
		src.scalar["slot"] = binSeries(&c.slot)
	}
	if c.kind.Selected() {
		src.scalar["kind"] = strSeries(&c.kind)
	}
	if c.fromValue.Selected() {
		src.scalar["from_value"] = binSeries(&c.fromValue)
	}
	if c.toValue.Selected() {
		src.scalar["to_value"] = binSeries(&c.toValue)
	}
	return BuildDataFrame(StorageDiffs, schema, c.NRows(), src)
}

func storageDiffsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newStorageDiffsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		results, err := replayBlockStateDiffs(ctx, src, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, res := range results {
				for _, d := range res.Diffs {
					for _, entry := range d.Storage {
						if entry.Kind == DiffSame {
							continue
						}
						cols.blockNumber.Store(num)
						cols.transactionHash.Store(res.TransactionHash.Bytes())
						cols.address.Store(d.Address.Bytes())
						cols.slot.Store(entry.Slot[:])
						cols.kind.Store(diffKindString(entry.Kind))
						cols.fromValue.Store(entry.From[:])
						cols.toValue.Store(entry.To[:])
					}
				}
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
