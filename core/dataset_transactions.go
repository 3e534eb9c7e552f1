package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

func transactionsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "transactions",
		defaultSort:        []string{"block_number", "transaction_index"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_index", Type: ColUInt32, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "from_address", Type: ColBinary, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
			{Name: "input", Type: ColBinary, Default: false},
			{Name: "gas_limit", Type: ColUInt64, Default: true},
			{Name: "gas_used", Type: ColUInt64, Default: false},
			{Name: "gas_price", Type: ColUInt64, Default: false},
			{Name: "nonce", Type: ColUInt64, Default: false},
			{Name: "status", Type: ColUInt32, Default: true},
			{Name: "chain_id", Type: ColUInt64, Default: false},
		},
	}
}

type transactionsColumns struct {
	blockNumber       Column[uint64]
	transactionIndex  Column[uint32]
	transactionHash   Column[[]byte]
	fromAddress       Column[[]byte]
	toAddress         Column[[]byte]
	value             Column[*uint256.Int]
	input             Column[[]byte]
	gasLimit          Column[uint64]
	gasUsed           Column[uint64]
	gasPrice          Column[uint64]
	nonce             Column[uint64]
	status            Column[uint32]
	chainID           Column[uint64]
}

func newTransactionsColumns(schema Table) *transactionsColumns {
	return &transactionsColumns{
		blockNumber:      NewColumn[uint64](schema.HasColumn("block_number")),
		transactionIndex: NewColumn[uint32](schema.HasColumn("transaction_index")),
		transactionHash:  NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		fromAddress:      NewColumn[[]byte](schema.HasColumn("from_address")),
		toAddress:        NewColumn[[]byte](schema.HasColumn("to_address")),
		value:            NewColumn[*uint256.Int](schema.HasColumn("value")),
		input:            NewColumn[[]byte](schema.HasColumn("input")),
		gasLimit:         NewColumn[uint64](schema.HasColumn("gas_limit")),
		gasUsed:          NewColumn[uint64](schema.HasColumn("gas_used")),
		gasPrice:         NewColumn[uint64](schema.HasColumn("gas_price")),
		nonce:            NewColumn[uint64](schema.HasColumn("nonce")),
		status:           NewColumn[uint32](schema.HasColumn("status")),
		chainID:          NewColumn[uint64](schema.HasColumn("chain_id")),
	}
}

func (c *transactionsColumns) NRows() int { return c.blockNumber.Len() }

func (c *transactionsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionIndex.Selected() {
		src.scalar["transaction_index"] = u32Series(&c.transactionIndex)
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
	if c.input.Selected() {
		src.scalar["input"] = binSeries(&c.input)
	}
	if c.gasLimit.Selected() {
		src.scalar["gas_limit"] = u64Series(&c.gasLimit)
	}
	if c.gasUsed.Selected() {
		src.scalar["gas_used"] = u64Series(&c.gasUsed)
	}
	if c.gasPrice.Selected() {
		src.scalar["gas_price"] = u64Series(&c.gasPrice)
	}
	if c.nonce.Selected() {
		src.scalar["nonce"] = u64Series(&c.nonce)
	}
	if c.status.Selected() {
		src.scalar["status"] = u32Series(&c.status)
	}
	if c.chainID.Selected() {
		src.scalar["chain_id"] = u64Series(&c.chainID)
	}
	return BuildDataFrame(Transactions, schema, c.NRows(), src)
}

func init() {
	registerCollector(Transactions, transactionsCollect)
}

func transactionsCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newTransactionsColumns(schema)
	needsReceipt := schema.HasColumn("gas_used") || schema.HasColumn("status")

	type txRow struct {
		idx      int
		hash     []byte
		from     []byte
		to       []byte
		value    *uint256.Int
		input    []byte
		gasLimit uint64
		gasUsed  uint64
		gasPrice uint64
		nonce    uint64
		status   uint32
	}

	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		blk, err := src.Fetcher.BlockByNumber(ctx, num)
		if err != nil {
			return nil, err
		}
		signer := types.LatestSignerForChainID(new(big.Int).SetUint64(src.ChainID))
		rows := make([]txRow, 0, len(blk.Transactions()))
		for idx, tx := range blk.Transactions() {
			from, _ := types.Sender(signer, tx)
			var gasUsed uint64
			var status uint32 = 1
			if needsReceipt {
				receipt, rerr := src.Fetcher.TransactionReceipt(ctx, tx.Hash())
				if rerr != nil {
					return nil, rerr
				}
				gasUsed = receipt.GasUsed
				status = uint32(receipt.Status)
			}
			var to []byte
			if t := tx.To(); t != nil {
				to = t.Bytes()
			}
			rows = append(rows, txRow{
				idx:      idx,
				hash:     tx.Hash().Bytes(),
				from:     from.Bytes(),
				to:       to,
				value:    U256FromBig(tx.Value()),
				input:    tx.Data(),
				gasLimit: tx.Gas(),
				gasUsed:  gasUsed,
				gasPrice: tx.GasPrice().Uint64(),
				nonce:    tx.Nonce(),
				status:   status,
			})
		}
		return func() {
			for _, row := range rows {
				cols.blockNumber.Store(num)
				cols.transactionIndex.Store(uint32(row.idx))
				cols.transactionHash.Store(row.hash)
				cols.fromAddress.Store(row.from)
				cols.toAddress.Store(row.to)
				cols.value.Store(row.value)
				cols.input.Store(row.input)
				cols.gasLimit.Store(row.gasLimit)
				cols.gasUsed.Store(row.gasUsed)
				cols.gasPrice.Store(row.gasPrice)
				cols.nonce.Store(row.nonce)
				cols.status.Store(row.status)
				cols.chainID.Store(src.ChainID)
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
