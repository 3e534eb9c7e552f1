package core

import (
	"context"
)

func blocksInfo() datatypeInfo {
	return datatypeInfo{
		name:               "blocks",
		defaultSort:        []string{"block_number"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "block_hash", Type: ColBinary, Default: true},
			{Name: "timestamp", Type: ColUInt64, Default: true},
			{Name: "author", Type: ColBinary, Default: false},
			{Name: "gas_used", Type: ColUInt64, Default: true},
			{Name: "gas_limit", Type: ColUInt64, Default: false},
			{Name: "base_fee_per_gas", Type: ColUInt64, Default: false},
			{Name: "extra_data", Type: ColBinary, Default: false},
			{Name: "parent_hash", Type: ColBinary, Default: false},
			{Name: "transaction_count", Type: ColUInt32, Default: true},
			{Name: "chain_id", Type: ColUInt64, Default: false},
		},
	}
}

type blocksColumns struct {
	blockNumber       Column[uint64]
	blockHash         Column[[]byte]
	timestamp         Column[uint64]
	author            Column[[]byte]
	gasUsed           Column[uint64]
	gasLimit          Column[uint64]
	baseFeePerGas     Column[uint64]
	extraData         Column[[]byte]
	parentHash        Column[[]byte]
	transactionCount  Column[uint32]
	chainID           Column[uint64]
}

func newBlocksColumns(schema Table) *blocksColumns {
	return &blocksColumns{
		blockNumber:      NewColumn[uint64](schema.HasColumn("block_number")),
		blockHash:        NewColumn[[]byte](schema.HasColumn("block_hash")),
		timestamp:        NewColumn[uint64](schema.HasColumn("timestamp")),
		author:           NewColumn[[]byte](schema.HasColumn("author")),
		gasUsed:          NewColumn[uint64](schema.HasColumn("gas_used")),
		gasLimit:         NewColumn[uint64](schema.HasColumn("gas_limit")),
		baseFeePerGas:    NewColumn[uint64](schema.HasColumn("base_fee_per_gas")),
		extraData:        NewColumn[[]byte](schema.HasColumn("extra_data")),
		parentHash:       NewColumn[[]byte](schema.HasColumn("parent_hash")),
		transactionCount: NewColumn[uint32](schema.HasColumn("transaction_count")),
		chainID:          NewColumn[uint64](schema.HasColumn("chain_id")),
	}
}

func (c *blocksColumns) NRows() int { return c.blockNumber.Len() }

func (c *blocksColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.blockHash.Selected() {
		src.scalar["block_hash"] = binSeries(&c.blockHash)
	}
	if c.timestamp.Selected() {
		src.scalar["timestamp"] = u64Series(&c.timestamp)
	}
	if c.author.Selected() {
		src.scalar["author"] = binSeries(&c.author)
	}
	if c.gasUsed.Selected() {
		src.scalar["gas_used"] = u64Series(&c.gasUsed)
	}
	if c.gasLimit.Selected() {
		src.scalar["gas_limit"] = u64Series(&c.gasLimit)
	}
	if c.baseFeePerGas.Selected() {
		src.scalar["base_fee_per_gas"] = u64Series(&c.baseFeePerGas)
	}
	if c.extraData.Selected() {
		src.scalar["extra_data"] = binSeries(&c.extraData)
	}
	if c.parentHash.Selected() {
		src.scalar["parent_hash"] = binSeries(&c.parentHash)
	}
	if c.transactionCount.Selected() {
		src.scalar["transaction_count"] = u32Series(&c.transactionCount)
	}
	if c.chainID.Selected() {
		src.scalar["chain_id"] = u64Series(&c.chainID)
	}
	return BuildDataFrame(Blocks, schema, c.NRows(), src)
}

func init() {
	registerCollector(Blocks, blocksCollect)
}

func blocksCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newBlocksColumns(schema)
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
			cols.blockNumber.Store(blk.NumberU64())
			cols.blockHash.Store(blk.Hash().Bytes())
			cols.timestamp.Store(blk.Time())
			cols.author.Store(blk.Coinbase().Bytes())
			cols.gasUsed.Store(blk.GasUsed())
			cols.gasLimit.Store(blk.GasLimit())
			if fee := blk.BaseFee(); fee != nil {
				cols.baseFeePerGas.Store(fee.Uint64())
			} else {
				cols.baseFeePerGas.Store(0)
			}
			cols.extraData.Store(blk.Extra())
			cols.parentHash.Store(blk.ParentHash().Bytes())
			cols.transactionCount.Store(uint32(len(blk.Transactions())))
			cols.chainID.Store(src.ChainID)
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}
