package core

func contractsInfo() datatypeInfo {
	return datatypeInfo{
		name:               "contracts",
		defaultSort:        []string{"block_number", "contract_address"},
		requiredParameters: []Dim{DimBlockNumber},
		collector:          ByBlockOnly,
		columns: []ColumnSpec{
			{Name: "block_number", Type: ColUInt64, Default: true},
			{Name: "transaction_hash", Type: ColBinary, Default: true},
			{Name: "contract_address", Type: ColBinary, Default: true},
			{Name: "deployer_address", Type: ColBinary, Default: true},
			{Name: "code", Type: ColBinary, Default: false},
		},
	}
}

type contractsColumns struct {
	blockNumber     Column[uint64]
	transactionHash Column[[]byte]
	contractAddress Column[[]byte]
	deployerAddress Column[[]byte]
	code            Column[[]byte]
}

func newContractsColumns(schema Table) *contractsColumns {
	return &contractsColumns{
		blockNumber:     NewColumn[uint64](schema.HasColumn("block_number")),
		transactionHash: NewColumn[[]byte](schema.HasColumn("transaction_hash")),
		contractAddress: NewColumn[[]byte](schema.HasColumn("contract_address")),
		deployerAddress: NewColumn[[]byte](schema.HasColumn("deployer_address")),
		code:            NewColumn[[]byte](schema.HasColumn("code")),
	}
}

func (c *contractsColumns) NRows() int { return c.blockNumber.Len() }

func (c *contractsColumns) CreateDataFrame(schema Table) DataFrame {
	src := newColumnSource()
	if c.blockNumber.Selected() {
		src.scalar["block_number"] = u64Series(&c.blockNumber)
	}
	if c.transactionHash.Selected() {
		src.scalar["transaction_hash"] = binSeries(&c.transactionHash)
	}
	if c.contractAddress.Selected() {
		src.scalar["contract_address"] = binSeries(&c.contractAddress)
	}
	if c.deployerAddress.Selected() {
		src.scalar["deployer_address"] = binSeries(&c.deployerAddress)
	}
	if c.code.Selected() {
		src.scalar["code"] = binSeries(&c.code)
	}
	return BuildDataFrame(Contracts, schema, c.NRows(), src)
}
