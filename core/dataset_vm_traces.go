package core

import (
	"context"
)

func vmTracesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "vm_traces",
		defaultSort:        []string{"transaction_hash", "pc"},
		requiredParameters: []Dim{DimTransactionHash},
		collector:          ByTransactionOnly,
		columns: []ColumnSpec{
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "pc", Type: ColUInt64, Default: true},
			{Name: "op", Type: ColString, Default: true},
			{Name: "gas", Type: ColUInt64, Default: false},
			{Name: "gas_cost", Type: ColUInt64, Default: false},
			{Name: "depth", Type: ColUInt32, Default: true},
		},
	}
}

type vmTracesColumns struct {
	transactionHash Column[[]byte]
	pc              Column[uint64]
	op              Column[string]
	gas             Column[uint64]
	gasCost         Column[uint64]
	depth           Column[uint32]
}

func newVmTracesColumns(schema Table) *vmTracesColumns {
	return &vmTracesColumns{
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		pc:              NewColumn[uint64](schema.HasColumn("pc")),
		op:              NewColumn[string](schema.HasColumn("op")),
		gas:             NewColumn[uint64](schema.HasColumn("gas")),
		gasCost:         NewColumn[uint64](schema.HasColumn("gas_cost")),
		depth:           NewColumn[uint32](schema.HasColumn("depth")),
	}
}

func (c *vmTracesColumns) NRows() int { return c.pc.Len() }

func (c *vmTracesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.pc.Selected() {
		src.scalar["pc"] = u64Series(&c.pc)
	}
	if c.op.Selected() {
		src.scalar["op"] = strSeries(&c.op)
	}
	if c.gas.Selected() {
		src.scalar["gas"] = u64Series(&c.gas)
	}
	if c.gasCost.Selected() {
		src.scalar["gas_cost"] = u64Series(&c.gasCost)
	}
	if c.depth.Selected() {
		src.scalar["depth"] = u32Series(&c.depth)
	}
	return BuildDataFrame(VmTraces, schema, c.NRows(), src)
}

func init() {
	registerCollector(VmTraces, vmTracesCollect)
}

func vmTracesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newVmTracesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimTransactionHash}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		hash, err := p.TransactionHash()
		if err != nil {
			return nil, err
		}
		steps, err := src.Fetcher.TraceVmTransaction(ctx, hash)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, s := range steps {
				cols.transactionHash.Store(hash.Bytes())
				cols.pc.Store(s.Pc)
				cols.op.Store(s.Op)
				cols.gas.Store(s.Gas)
				cols.gasCost.Store(s.GasCost)
				cols.depth.Store(uint32(s.Depth))
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
