package core

import (
	"context"

	"github.com/holiman/uint256"
)

// This file groups the four point-in-time account-state datasets: one RPC
// call per (block_number, address) work item, fetched with
// max_concurrent_blocks parallelism via ForEachItem.

func init() {
	registerCollector(Balances, balancesCollect)
	registerCollector(Nonces, noncesCollect)
	registerCollector(Codes, codesCollect)
	registerCollector(Storages, storagesCollect)
}

// --- balances ---

func balancesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "balances",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber, DimAddress},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "balance", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type balancesColumns struct {
	blockNumber Column[uint64]
	address     Column[[]byte]
	balance     Column[*uint256.Int]
}

func newBalancesColumns(schema Table) *balancesColumns {
	return &balancesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		address:     NewColumn[[]byte](schema.HasColumn("address")),
		balance:     NewColumn[*uint256.Int](schema.HasColumn("balance")),
	}
}

func (c *balancesColumns) NRows() int { return c.blockNumber.Len() }

func (c *balancesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.balance.Selected() {
		src.u256["balance"] = c.balance.Values()
	}
	return BuildDataFrame(Balances, schema, c.NRows(), src)
}

func balancesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newBalancesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimAddress}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		addr, err := p.Address()
		if err != nil {
			return nil, err
		}
		bal, err := src.Fetcher.GetBalance(ctx, addr, num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.address.Store(addr.Bytes())
			cols.balance.Store(U256FromBig(bal))
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- nonces ---

func noncesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "nonces",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber, DimAddress},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "nonce", Type: ColUInt64, Default: true},
		},
	}
}

type noncesColumns struct {
	blockNumber Column[uint64]
	address     Column[[]byte]
	nonce       Column[uint64]
}

func newNoncesColumns(schema Table) *noncesColumns {
	return &noncesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		address:     NewColumn[[]byte](schema.HasColumn("address")),
		nonce:       NewColumn[uint64](schema.HasColumn("nonce")),
	}
}

func (c *noncesColumns) NRows() int { return c.blockNumber.Len() }

func (c *noncesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.nonce.Selected() {
		src.scalar["nonce"] = u64Series(&c.nonce)
	}
	return BuildDataFrame(Nonces, schema, c.NRows(), src)
}

func noncesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newNoncesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimAddress}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		addr, err := p.Address()
		if err != nil {
			return nil, err
		}
		n, err := src.Fetcher.GetTransactionCount(ctx, addr, num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.address.Store(addr.Bytes())
			cols.nonce.Store(n)
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- codes ---

func codesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "codes",
		defaultSort:        []string{"block_number", "address"},
		requiredParameters: []Dim{DimBlockNumber, DimAddress},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "code", Type: ColBinary, Default: true},
		},
	}
}

type codesColumns struct {
	blockNumber Column[uint64]
	address     Column[[]byte]
	code        Column[[]byte]
}

func newCodesColumns(schema Table) *codesColumns {
	return &codesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		address:     NewColumn[[]byte](schema.HasColumn("address")),
		code:        NewColumn[[]byte](schema.HasColumn("code")),
	}
}

func (c *codesColumns) NRows() int { return c.blockNumber.Len() }

func (c *codesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.code.Selected() {
		src.scalar["code"] = binSeries(&c.code)
	}
	return BuildDataFrame(Codes, schema, c.NRows(), src)
}

func codesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newCodesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimAddress}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		addr, err := p.Address()
		if err != nil {
			return nil, err
		}
		code, err := src.Fetcher.GetCode(ctx, addr, num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.address.Store(addr.Bytes())
			cols.code.Store(code)
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- storages ---

func storagesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "storages",
		defaultSort:        []string{"block_number", "address", "slot"},
		requiredParameters: []Dim{DimBlockNumber, DimAddress, DimSlot},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "slot", Type: ColBinary, Default: true},
			{Name: "value", Type: ColBinary, Default: true},
		},
	}
}

type storagesColumns struct {
	blockNumber Column[uint64]
	address     Column[[]byte]
	slot        Column[[]byte]
	value       Column[[]byte]
}

func newStoragesColumns(schema Table) *storagesColumns {
	return &storagesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		address:     NewColumn[[]byte](schema.HasColumn("address")),
		slot:        NewColumn[[]byte](schema.HasColumn("slot")),
		value:       NewColumn[[]byte](schema.HasColumn("value")),
	}
}

func (c *storagesColumns) NRows() int { return c.blockNumber.Len() }

func (c *storagesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.slot.Selected() {
		src.scalar["slot"] = binSeries(&c.slot)
	}
	if c.value.Selected() {
		src.scalar["value"] = binSeries(&c.value)
	}
	return BuildDataFrame(Storages, schema, c.NRows(), src)
}

func storagesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newStoragesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimAddress, DimSlot}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		addr, err := p.Address()
		if err != nil {
			return nil, err
		}
		slot, err := p.Slot()
		if err != nil {
			return nil, err
		}
		value, err := src.Fetcher.GetStorageAt(ctx, addr, slot, num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.address.Store(addr.Bytes())
			cols.slot.Store(slot[:])
			cols.value.Store(value[:])
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
