package core

import (
	"context"
	"encoding/json"
)

func traceCallsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "trace_calls",
		defaultSort:        []string{"block_number", "to_address"},
		requiredParameters: []Dim{DimBlockNumber, DimToAddress, DimCallData},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "call_data", Type: ColBinary, Default: false},
			{Name: "trace_address", Type: ColString, Default: true},
			{Name: "type", Type: ColString, Default: true},
			{Name: "gas_used", Type: ColUInt64, Default: false},
			{Name: "output", Type: ColBinary, Default: true},
			{Name: "error", Type: ColString, Default: false},
		},
	}
}

type traceCallsColumns struct {
	blockNumber  Column[uint64]
	toAddress    Column[[]byte]
	callData     Column[[]byte]
	traceAddress Column[string]
	typ          Column[string]
	gasUsed      Column[uint64]
	output       Column[[]byte]
	errorMsg     Column[string]
}

func newTraceCallsColumns(schema Table) *traceCallsColumns {
	return &traceCallsColumns{
		blockNumber:  NewColumn[uint64](schema.HasColumn("block_number")),
		toAddress:    NewColumn[[]byte](schema.HasColumn("to_address")),
		callData:     NewColumn[[]byte](schema.HasColumn("call_data")),
		traceAddress: NewColumn[string](schema.HasColumn("trace_address")),
		typ:          NewColumn[string](schema.HasColumn("type")),
		gasUsed:      NewColumn[uint64](schema.HasColumn("gas_used")),
		output:       NewColumn[[]byte](schema.HasColumn("output")),
		errorMsg:     NewColumn[string](schema.HasColumn("error")),
	}
}

func (c *traceCallsColumns) NRows() int { return c.blockNumber.Len() }

func (c *traceCallsColumns) CreateDataFrame(schema Table) DataFrame {
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
	if c.traceAddress.Selected() {
		src.scalar["trace_address"] = strSeries(&c.traceAddress)
	}
	if c.typ.Selected() {
		src.scalar["type"] = strSeries(&c.typ)
	}
	if c.gasUsed.Selected() {
		src.scalar["gas_used"] = u64Series(&c.gasUsed)
	}
	if c.output.Selected() {
		src.scalar["output"] = binSeries(&c.output)
	}
	if c.errorMsg.Selected() {
		src.scalar["error"] = strSeries(&c.errorMsg)
	}
	return BuildDataFrame(TraceCalls, schema, c.NRows(), src)
}

func init() {
	registerCollector(TraceCalls, traceCallsCollect)
}

func traceCallsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newTraceCallsColumns(schema)
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
		traces, err := src.Fetcher.TraceCall(ctx, to, data, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, ft := range traces {
				addrJSON, _ := json.Marshal(ft.TraceAddress)
				cols.blockNumber.Store(num)
				cols.toAddress.Store(to.Bytes())
				cols.callData.Store(data)
				cols.traceAddress.Store(string(addrJSON))
				cols.typ.Store(ft.Type)
				cols.gasUsed.Store(ft.GasUsed)
				cols.output.Store(ft.Output)
				cols.errorMsg.Store(ft.Error)
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
