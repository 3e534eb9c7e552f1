package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func init() {
	registerCollector(Erc20Balances, erc20BalancesCollect)
	registerCollector(Erc20Metadata, erc20MetadataCollect)
	registerCollector(Erc20Supplies, erc20SuppliesCollect)
	registerCollector(Erc20Transfers, erc20TransfersCollect)
}

// --- erc20_balances ---

func erc20BalancesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc20_balances",
		defaultSort:        []string{"block_number", "contract", "address"},
		requiredParameters: []Dim{DimBlockNumber, DimContract, DimAddress},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "contract", Type: ColBinary, Default: true},
			{Name: "address", Type: ColBinary, Default: true},
			{Name: "balance", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type erc20BalancesColumns struct {
	blockNumber Column[uint64]
	contract    Column[[]byte]
	address     Column[[]byte]
	balance     Column[*uint256.Int]
}

func newErc20BalancesColumns(schema Table) *erc20BalancesColumns {
	return &erc20BalancesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		contract:    NewColumn[[]byte](schema.HasColumn("contract")),
		address:     NewColumn[[]byte](schema.HasColumn("address")),
		balance:     NewColumn[*uint256.Int](schema.HasColumn("balance")),
	}
}

func (c *erc20BalancesColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc20BalancesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.contract.Selected() {
		src.scalar["contract"] = binSeries(&c.contract)
	}
	if c.address.Selected() {
		src.scalar["address"] = binSeries(&c.address)
	}
	if c.balance.Selected() {
		src.u256["balance"] = c.balance.Values()
	}
	return BuildDataFrame(Erc20Balances, schema, c.NRows(), src)
}

func erc20BalancesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc20BalancesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimContract, DimAddress}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		contract, err := p.Contract()
		if err != nil {
			return nil, err
		}
		holder, err := p.Address()
		if err != nil {
			return nil, err
		}
		out, err := src.Fetcher.Call(ctx, contract, callData(selectorBalanceOf, encodeAddressArg(holder)), num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.contract.Store(contract.Bytes())
			cols.address.Store(holder.Bytes())
			cols.balance.Store(uint256.MustFromBig(decodeUint256Return(out)))
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- erc20_metadata ---

func erc20MetadataInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc20_metadata",
		defaultSort:        []string{"block_number", "contract"},
		requiredParameters: []Dim{DimBlockNumber, DimContract},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "contract", Type: ColBinary, Default: true},
			{Name: "name", Type: ColString, Default: true},
			{Name: "symbol", Type: ColString, Default: true},
			{Name: "decimals", Type: ColUInt32, Default: true},
		},
	}
}

type erc20MetadataColumns struct {
	blockNumber Column[uint64]
	contract    Column[[]byte]
	name        Column[string]
	symbol      Column[string]
	decimals    Column[uint32]
}

func newErc20MetadataColumns(schema Table) *erc20MetadataColumns {
	return &erc20MetadataColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		contract:    NewColumn[[]byte](schema.HasColumn("contract")),
		name:        NewColumn[string](schema.HasColumn("name")),
		symbol:      NewColumn[string](schema.HasColumn("symbol")),
		decimals:    NewColumn[uint32](schema.HasColumn("decimals")),
	}
}

func (c *erc20MetadataColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc20MetadataColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.contract.Selected() {
		src.scalar["contract"] = binSeries(&c.contract)
	}
	if c.name.Selected() {
		src.scalar["name"] = strSeries(&c.name)
	}
	if c.symbol.Selected() {
		src.scalar["symbol"] = strSeries(&c.symbol)
	}
	if c.decimals.Selected() {
		src.scalar["decimals"] = u32Series(&c.decimals)
	}
	return BuildDataFrame(Erc20Metadata, schema, c.NRows(), src)
}

func erc20MetadataCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc20MetadataColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimContract}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		contract, err := p.Contract()
		if err != nil {
			return nil, err
		}
		name, nerr := src.Fetcher.Call(ctx, contract, callData(selectorName), num)
		symbol, serr := src.Fetcher.Call(ctx, contract, callData(selectorSymbol), num)
		decimals, derr := src.Fetcher.Call(ctx, contract, callData(selectorDecimals), num)
		if nerr != nil && serr != nil && derr != nil {
			return nil, nerr // every metadata call failed: likely not an ERC-20 contract at this block
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.contract.Store(contract.Bytes())
			cols.name.Store(decodeStringReturn(name))
			cols.symbol.Store(decodeStringReturn(symbol))
			cols.decimals.Store(uint32(decodeUint256Return(decimals).Uint64()))
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- erc20_supplies ---

func erc20SuppliesInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc20_supplies",
		defaultSort:        []string{"block_number", "contract"},
		requiredParameters: []Dim{DimBlockNumber, DimContract},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "contract", Type: ColBinary, Default: true},
			{Name: "total_supply", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type erc20SuppliesColumns struct {
	blockNumber Column[uint64]
	contract    Column[[]byte]
	totalSupply Column[*uint256.Int]
}

func newErc20SuppliesColumns(schema Table) *erc20SuppliesColumns {
	return &erc20SuppliesColumns{
		blockNumber: NewColumn[uint64](schema.HasColumn("block_number")),
		contract:    NewColumn[[]byte](schema.HasColumn("contract")),
		totalSupply: NewColumn[*uint256.Int](schema.HasColumn("total_supply")),
	}
}

func (c *erc20SuppliesColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc20SuppliesColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.contract.Selected() {
		src.scalar["contract"] = binSeries(&c.contract)
	}
	if c.totalSupply.Selected() {
		src.u256["total_supply"] = c.totalSupply.Values()
	}
	return BuildDataFrame(Erc20Supplies, schema, c.NRows(), src)
}

func erc20SuppliesCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc20SuppliesColumns(schema)
	err := ForEachItem(ctx, part, []Dim{DimBlockNumber, DimContract}, maxConcurrentBlocks, func(ctx context.Context, p Params) (func(), error) {
		num, err := p.BlockNumber()
		if err != nil {
			return nil, err
		}
		contract, err := p.Contract()
		if err != nil {
			return nil, err
		}
		out, err := src.Fetcher.Call(ctx, contract, callData(selectorTotalSupply), num)
		if err != nil {
			return nil, err
		}
		return func() {
			cols.blockNumber.Store(num)
			cols.contract.Store(contract.Bytes())
			cols.totalSupply.Store(uint256.MustFromBig(decodeUint256Return(out)))
		}, nil
	})
	if err != nil {
		return DataFrame{}, err
	}
	return cols.CreateDataFrame(schema), nil
}

// --- erc20_transfers ---

func erc20TransfersInfo() datatypeInfo {
	return datatypeInfo{
		name:               "erc20_transfers",
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
			{Name: "value", Type: ColUInt256, Default: true, U256Reps: []U256Representation{U256Binary, U256Decimal}},
		},
	}
}

type erc20TransfersColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	logIndex        Column[uint32]
	contract        Column[[]byte]
	fromAddress     Column[[]byte]
	toAddress       Column[[]byte]
	value           Column[*uint256.Int]
}

func newErc20TransfersColumns(schema Table) *erc20TransfersColumns {
	return &erc20TransfersColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		logIndex:        NewColumn[uint32](schema.HasColumn("log_index")),
		contract:        NewColumn[[]byte](schema.HasColumn("contract")),
		fromAddress:     NewColumn[[]byte](schema.HasColumn("from_address")),
		toAddress:       NewColumn[[]byte](schema.HasColumn("to_address")),
		value:           NewColumn[*uint256.Int](schema.HasColumn("value")),
	}
}

func (c *erc20TransfersColumns) NRows() int { return c.blockNumber.Len() }

func (c *erc20TransfersColumns) CreateDataFrame(schema Table) DataFrame {
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
	if c.value.Selected() {
		src.u256["value"] = c.value.Values()
	}
	return BuildDataFrame(Erc20Transfers, schema, c.NRows(), src)
}

func erc20TransfersCollect(ctx context.Context, src *Source, part Partition, schema Table, maxConcurrentBlocks int64) (DataFrame, error) {
	cols := newErc20TransfersColumns(schema)
	fromBlock, toBlock := part.BlockRange()
	logs, err := src.Fetcher.GetLogs(ctx, fromBlock, toBlock, part.Contracts, [][]common.Hash{{topicTransfer}})
	if err != nil {
		return DataFrame{}, err
	}
	for _, lg := range logs {
		if len(lg.Topics) != 3 || len(lg.Data) < 32 {
			continue // ERC-721 Transfer indexes tokenId as a 4th topic and carries no data word
		}
		cols.blockNumber.Store(lg.BlockNumber)
		cols.transactionHash.Store(lg.TxHash.Bytes())
		cols.logIndex.Store(uint32(lg.Index))
		cols.contract.Store(lg.Address.Bytes())
		cols.fromAddress.Store(common.BytesToAddress(lg.Topics[1].Bytes()).Bytes())
		cols.toAddress.Store(common.BytesToAddress(lg.Topics[2].Bytes()).Bytes())
		cols.value.Store(uint256.MustFromBig(decodeUint256Return(lg.Data)))
	}
	return cols.CreateDataFrame(schema), nil
}
