package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func init() {
	registerCollector(Erc721Metadata, erc721MetadataCollect)
	registerCollector(Erc721Transfers, erc721TransfersCollect)
}

// --- erc721_metadata ---
//
// Token IDs reuse the Slot dim's [32]byte representation (Design Notes:
// both are opaque 256-bit values scoped per contract) rather than adding a
// dedicated TokenId dim just for these two datasets.

func erc721MetadataInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc721_metadata",
		defaultSort:        []string{"block_number", "contract", "token_id"},
		requiredParameters: []Dim{DimBlockNumber, DimContract, DimSlot},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "contract", Type: ColBinary, Default: true},
			{Name: "token_id", Type: ColBinary, Default: true},
			{Name: "owner", Type: ColBinary, Default: true},
			{Name: "token_uri", Type: ColString, Default: false},
		},
	}
}

type erc721MetadataColumns struct {
	blockNumber Column[uint64]
	contract    Column[[]byte]
	tokenID     Column[[]byte]
	owner       Column[[]byte]
	tokenURI    Column[string]
}

func newErc721MetadataColumns(schema Table) *erc721MetadataColumns {
	return &erc721MetadataColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		contract:    NewColumn[[]byte](schema.HasColumn("contract")),
		tokenID:     NewColumn[[]byte](schema.HasColumn("token_id")),
		owner:       NewColumn[[]byte](schema.HasColumn("owner")),
		tokenURI:    NewColumn[string](schema.HasColumn("token_uri")),
	}
}

func (c *erc721MetadataColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc721MetadataColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.contract.Selected() {
		src.scalar["contract"] = binSeries(&c.contract)
	}
	if c.tokenID.Selected() {
		src.scalar["token_id"] = binSeries(&c.tokenID)
	}
	if c.owner.Selected() {
		src.scalar["owner"] = binSeries(&c.owner)
	}
	if c.tokenURI.Selected() {
		src.scalar["token_uri"] = strSeries(&c.tokenURI)
	}
	return BuildDataFrame(Erc721Metadata, schema, c.NRows(), src)
}

func erc721MetadataCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc721MetadataColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimContract, DimSlot}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		contract, err := p.Contract()
		if err != nil {
			return nil, err
		}
		tokenIDRaw, err := p.Slot()
		if err != nil {
			return nil, err
		}
		tokenID := new(big.Int).SetBytes(tokenIDRaw[:])
		ownerOut, err := src.Fetcher.Call(ctx, contract, callData(selectorOwnerOf, encodeUint256Arg(tokenID)), num)
		if err != nil {
			return nil, err
		}
		uriOut, _ := src.Fetcher.Call(ctx, contract, callData(selectorTokenURI, encodeUint256Arg(tokenID)), num)
		return func() {
			cols.blockNumber.Store(num)
			cols.contract.Store(contract.Bytes())
			cols.tokenID.Store(tokenIDRaw[:])
			cols.owner.Store(decodeAddressReturn(ownerOut).Bytes())
			cols.tokenURI.Store(decodeStringReturn(uriOut))
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- erc721_transfers ---

func erc721TransfersInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc721_transfers",
		defaultSort:        []string{"block_number", "log_index"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "log_index", Type: ColUInt32, Default: true},
			{Name: "contract", Type: ColBinary, Default: true},
			{Name: "from_address", Type: ColBinary, Default: true},
			{Name: "to_address", Type: ColBinary, Default: true},
			{Name: "token_id", Type: ColBinary, Default: true},
		},
	}
}

type erc721TransfersColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	logIndex        Column[uint32]
	contract        Column[[]byte]
	fromAddress     Column[[]byte]
	toAddress       Column[[]byte]
	tokenID         Column[[]byte]
}

func newErc721TransfersColumns(schema Table) *erc721TransfersColumns {
	return &erc721TransfersColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		logIndex:        NewColumn[uint32](schema.HasColumn("log_index")),
		contract:        NewColumn[[]byte](schema.HasColumn("contract")),
		fromAddress:     NewColumn[[]byte](schema.HasColumn("from_address")),
		toAddress:       NewColumn[[]byte](schema.HasColumn("to_address")),
		tokenID:         NewColumn[[]byte](schema.HasColumn("token_id")),
	}
}

func (c *erc721TransfersColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc721TransfersColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.logIndex.Selected() {
		src.scalar["log_index"] = u32Series(&c.logIndex)
	}
	if c.contract.Selected() {
		src.scalar["contract"] = binSeries(&c.contract)
	}
	if c.fromAddress.Selected() {
		src.scalar["from_address"] = binSeries(&c.fromAddress)
	}
	if c.toAddress.Selected() {
		src.scalar["to_address"] = binSeries(&c.toAddress)
	}
	if c.tokenID.Selected() {
		src.scalar["token_id"] = binSeries(&c.tokenID)
	}
	return BuildDataFrame(Erc721Transfers, schema, c.NRows(), src)
}

func erc721TransfersCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc721TransfersColumns(schema)
	fromBlock, toBlock := part.BlockRange()
	logs, err := src.Fetcher.GetLogs(ctx, fromBlock, toBlock, part.Contracts, [][]common.Hash{{topicTransfer}})
	if err != nil {
		return DataFrame{}, err
	}
	for _, lg := range logs {
		if len(lg.Topics) != 4 {
			continue // the 4th indexed topic (tokenId) is what distinguishes ERC-721 Transfer from ERC-20
		}
		cols.blockNumber.Store(lg.BlockNumber)
		cols.transactionHash.Store(lg.TxHash.Bytes())
		cols.logIndex.Store(uint32(lg.Index))
		cols.contract.Store(lg.Address.Bytes())
		cols.fromAddress.Store(common.BytesToAddress(lg.Topics[1].Bytes()).Bytes())
		cols.toAddress.Store(common.BytesToAddress(lg.Topics[2].Bytes()).Bytes())
		cols.tokenID.Store(lg.Topics[3].Bytes())
	}
	return cols.CreateDataFrame(schema), nil
}
