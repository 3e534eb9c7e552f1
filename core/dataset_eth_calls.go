package core

import (
	"context"
)

func ethCallsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "eth_calls",
		defaultSort:        []string{"block_number", "to_address"},
		requiredParameters: []Dim{DimBlockNumber, DimToAddress, DimCallData},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "call_data", Type: ColBinary, Default: false},
			{Name: "output", Type: ColBinary, Default: true},
		},
	}
}

type ethCallsColumns struct {
	blockNumber Column[uint64]
	toAddress   Column[[]byte]
	callData    Column[[]byte]
	output      Column[[]byte]
}

func newEthCallsColumns(schema Table) *ethCallsColumns {
	return &ethCallsColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		toAddress:   NewColumn[[]byte](schema.HasColumn("to_address")),
		callData:    NewColumn[[]byte](schema.HasColumn("call_data")),
		output:      NewColumn[[]byte](schema.HasColumn("output")),
	}
}

func (c *ethCallsColumns) NRows() int { return c.blockNumber.Len() }

func (c *ethCallsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.toAddress.Selected() {
		src.scalar["to_address"] = binSeries(&c.toAddress)
	}
	if c.callData.Selected() {
		src.scalar["call_data"] = binSeries(&c.callData)
	}
	if c.output.Selected() {
		src.scalar["output"] = binSeries(&c.output)
	}
	return BuildDataFrame(EthCalls, schema, c.NRows(), src)
}

func init() {
	registerCollector(EthCalls, ethCallsCollect)
}

func ethCallsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newEthCallsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimToAddress, DimCallData}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		to, err := p.ToAddress()
		if err != nil {
			return nil, err
		}
		data, err := p.CallData()
		if err != nil {
			return nil, err
		}
		out, err := src.Fetcher.Call(ctx, to, data, num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.toAddress.Store(to.Bytes())
			cols.callData.Store(data)
			cols.output.Store(out)
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
