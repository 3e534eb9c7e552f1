package core

import (
	"github.com/holiman/uint256"
)

func nativeTransfersInfo() datatypeInfo {
	return datatypeInfo{
		name:               "native_transfers",
		defaultSort:        []string{"block_number"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "from_address", Type: ColBinary, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type nativeTransfersColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	fromAddress     Column[[]byte]
	toAddress       Column[[]byte]
	value           Column[*uint256.Int]
}

func newNativeTransfersColumns(schema Table) *nativeTransfersColumns {
	return &nativeTransfersColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		fromAddress:     NewColumn[[]byte](schema.HasColumn("from_address")),
		toAddress:       NewColumn[[]byte](schema.HasColumn("to_address")),
		value:           NewColumn[*uint256.Int](schema.HasColumn("value")),
	}
}

func (c *nativeTransfersColumns) NRows() int { return c.blockNumber.Len() }

func (c *nativeTransfersColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
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
	return BuildDataFrame(NativeTransfers, schema, c.NRows(), src)
}
