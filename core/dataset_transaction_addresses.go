package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

func transactionAddressesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "transaction_addresses",
		defaultSort:        []string{"block_number", "transaction_index"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "transaction_index", Type: ColUInt32, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "role", Type: ColString, Default: true},
		},
	}
}

type transactionAddressesColumns struct {
	blockNumber      Column[uint64]
	transactionHash  Column[[]byte]
	transactionIndex Column[uint32]
	address          Column[[]byte]
	role             Column[string]
}

func newTransactionAddressesColumns(schema Table) *transactionAddressesColumns {
	return &transactionAddressesColumns{
		blockNumber:      NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash:  NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		transactionIndex: NewColumn[uint32](schema.HasColumn("transaction_index")),
		address:          NewColumn[[]byte](schema.HasColumn("address")),
		role:             NewColumn[string](schema.HasColumn("role")),
	}
}

func (c *transactionAddressesColumns) NRows() int { return c.address.Len() }

func (c *transactionAddressesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.transactionIndex.Selected() {
		src.scalar["transaction_index"] = u32Series(&c.transactionIndex)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.role.Selected() {
		src.scalar["role"] = strSeries(&c.role)
	}
	return BuildDataFrame(TransactionAddresses, schema, c.NRows(), src)
}

func init() {
	registerCollector(TransactionAddresses, transactionAddressesCollect)
}

func transactionAddressesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newTransactionAddressesColumns(schema)
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(src.ChainID))

	err := ForEachItem(ctx, part, []Dim{DimBlockNumber}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		blk, err := src.Fetcher.BlockByNumber(ctx, num)
		if err != nil {
			return nil, err
		}
		return func() {
			for idx, tx := range blk.Transactions() {
				from, _ := types.Sender(signer, tx)
				cols.blockNumber.Store(num)
				cols.transactionHash.Store(tx.Hash().Bytes())
				cols.transactionIndex.Store(uint32(idx))
				cols.address.Store(from.Bytes())
				cols.role.Store("sender")
				if to := tx.To(); to != nil {
					cols.blockNumber.Store(num)
					cols.transactionHash.Store(tx.Hash().Bytes())
					cols.transactionIndex.Store(uint32(idx))
					cols.address.Store(to.Bytes())
					cols.role.Store("recipient")
				}
			}
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
