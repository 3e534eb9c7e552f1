package core

import (
	"context"
	"encoding/json"

	"github.com/holiman/uint256"
)

// traces is the repo's one ByBoth datatype (spec.md §4.4, §9 Open
// Question): trace_block fetches every trace in a block, trace_transaction
// fetches every trace in one transaction. Both produce the same row shape,
// so CollectorPair dispatches between them on whichever dim the Partition
// actually populates.
func tracesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "traces",
		defaultSort:        []string{"block_number", "transaction_position"},
		requiredParameters: []Dim{DimBlockNumber, DimTransactionHash},
		collector:          ByBoth,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "transaction_position", Type: ColUInt32, Default: true},
			{Name: "trace_address", Type: ColString, Default: true},
			{Name: "type", Type: ColString, Default: true},
			{Name: "call_type", Type: ColString, Default: false},
			{Name: "from_address", Type: ColBinary, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
			{Name: "gas", Type: ColUInt64, Default: false},
			{Name: "gas_used", Type: ColUInt64, Default: false},
			{Name: "input", Type: ColBinary, Default: false},
			{Name: "output", Type: ColBinary, Default: false},
			{Name: "error", Type: ColString, Default: false},
		},
	}
}

type tracesColumns struct {
	blockNumber         Column[uint64]
	transactionHash     Column[[]byte]
	transactionPosition Column[uint32]
	traceAddress        Column[string]
	typ                 Column[string]
	callType            Column[string]
	fromAddress         Column[[]byte]
	toAddress           Column[[]byte]
	value               Column[*uint256.Int]
	gas                 Column[uint64]
	gasUsed             Column[uint64]
	input               Column[[]byte]
	output              Column[[]byte]
	errorMsg            Column[string]
}

func init() {
	registerDualCollector(Traces, tracesCollect, tracesCollectByTransaction)
	registerCollector(Contracts, contractsCollect)
	registerCollector(NativeTransfers, nativeTransfersCollect)
}

func newTracesColumns(schema Table) *tracesColumns {
	return &tracesColumns{
		blockNumber:         NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash:     NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		transactionPosition: NewColumn[uint32](schema.HasColumn("transaction_position")),
		traceAddress:        NewColumn[string](schema.HasColumn("trace_address")),
		typ:                 NewColumn[string](schema.HasColumn("type")),
		callType:            NewColumn[string](schema.HasColumn("call_type")),
		fromAddress:         NewColumn[[]byte](schema.HasColumn("from_address")),
		toAddress:           NewColumn[[]byte](schema.HasColumn("to_address")),
		value:               NewColumn[*uint256.Int](schema.HasColumn("value")),
		gas:                 NewColumn[uint64](schema.HasColumn("gas")),
		gasUsed:             NewColumn[uint64](schema.HasColumn("gas_used")),
		input:               NewColumn[[]byte](schema.HasColumn("input")),
		output:              NewColumn[[]byte](schema.HasColumn("output")),
		errorMsg:            NewColumn[string](schema.HasColumn("error")),
	}
}

func (c *tracesColumns) NRows() int { return c.blockNumber.Len() }

func (c *tracesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.transactionPosition.Selected() {
		src.scalar["transaction_position"] = u32Series(&c.transactionPosition)
	}
	if c.traceAddress.Selected() {
		src.scalar["trace_address"] = strSeries(&c.traceAddress)
	}
	if c.typ.Selected() {
		src.scalar["type"] = strSeries(&c.typ)
	}
	if c.callType.Selected() {
		src.scalar["call_type"] = strSeries(&c.callType)
	}
	if c.fromAddress.Selected() {
		src.scalar["from_address"] = binSeries(&c.fromAddress)
	}
	if c.toAddress.Selected() {
		src.scalar["to_address"] = binSeries(&c.toAddress)
	}
	if c.value.Selected() {
		src.u256["value"] = c.value.Values()
	}
	if c.gas.Selected() {
		src.scalar["gas"] = u64Series(&c.gas)
	}
	if c.gasUsed.Selected() {
		src.scalar["gas_used"] = u64Series(&c.gasUsed)
	}
	if c.input.Selected() {
		src.scalar["input"] = binSeries(&c.input)
	}
	if c.output.Selected() {
		src.scalar["output"] = binSeries(&c.output)
	}
	if c.errorMsg.Selected() {
		src.scalar["error"] = strSeries(&c.errorMsg)
	}
	return BuildDataFrame(Traces, schema, c.NRows(), src)
}

func traceAddressString(addr []int) string {
	b, _ := json.Marshal(addr)
	return string(b)
}

// storeFlatTrace appends one trace to cols. Called only from the apply
// closure ForEachItem's single consumer goroutine runs, so no locking is
// required here.
func storeFlatTrace(cols *tracesColumns, blockNumber uint64, ft FlatTrace) {
	cols.blockNumber.Store(blockNumber)
	cols.transactionHash.Store(ft.TransactionHash.Bytes())
	cols.transactionPosition.Store(uint32(ft.TransactionPosition))
	cols.traceAddress.Store(traceAddressString(ft.TraceAddress))
	cols.typ.Store(ft.Type)
	cols.callType.Store(ft.CallType)
	cols.fromAddress.Store(ft.From.Bytes())
	cols.toAddress.Store(ft.To.Bytes())
	cols.value.Store(U256FromBig(ft.Value))
	cols.gas.Store(ft.Gas)
	cols.gasUsed.Store(ft.GasUsed)
	cols.input.Store(ft.Input)
	cols.output.Store(ft.Output)
	cols.errorMsg.Store(ft.Error)
}

func tracesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newTracesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		traces, err := src.Fetcher.TraceBlock(ctx, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, ft := range traces {
				storeFlatTrace(cols, num, ft)
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// tracesCollectByTransaction is traces' CollectByTransaction trait: one
// trace_transaction call per transaction hash instead of one trace_block
// call per block number, chosen by CollectorPair when the Partition
// populates TransactionHashes and not BlockNumbers.
func tracesCollectByTransaction(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentTransactions int64) (DataFrame, error) {
	cols := newTracesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimTransactionHash}, maxConcurrentTransactions, func(ctx context.Context, p Params) (func(), error) {
		hash, err := p.TransactionHash()
		if err != nil {
			return nil, err
		}
		traces, err := src.Fetcher.TraceTransaction(ctx, hash)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, ft := range traces {
				storeFlatTrace(cols, ft.BlockNumber, ft)
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// contractsCollect derives contract-creation rows from its own trace_block
// call, decoded the same way as for Traces (CollectorKind ByBlockOnly, spec.md §4.5
// CallTraceDerivatives): a row per "create" type trace.
func contractsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newContractsColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		traces, err := src.Fetcher.TraceBlock(ctx, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, ft := range traces {
				if ft.Type != "create" {
					continue
				}
				cols.blockNumber.Store(num)
				cols.transactionHash.Store(ft.TransactionHash.Bytes())
				cols.contractAddress.Store(ft.To.Bytes())
				cols.deployerAddress.Store(ft.From.Bytes())
				cols.code.Store(ft.Output)
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// nativeTransfersCollect derives native ETH value-transfer rows from its own
// trace_block call: any call-type trace moving non-zero value.
func nativeTransfersCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newNativeTransfersColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		traces, err := src.Fetcher.TraceBlock(ctx, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for _, ft := range traces {
				if ft.Type != "call" || ft.Value == nil || ft.Value.Sign() == 0 {
					continue
				}
				cols.blockNumber.Store(num)
				cols.transactionHash.Store(ft.TransactionHash.Bytes())
				cols.fromAddress.Store(ft.From.Bytes())
				cols.toAddress.Store(ft.To.Bytes())
				cols.value.Store(U256FromBig(ft.Value))
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
