package core

// Compile-time assertions that every dataset's column builder satisfies
// Columns, keeping CreateDataFrame's signature honest across all 24
// datasets in one place rather than duplicating the check per file.
var (
	_ Columns = (*blocksColumns)(nil)
	_ Columns = (*transactionsColumns)(nil)
	_ Columns = (*logsColumns)(nil)
	_ Columns = (*tracesColumns)(nil)
	_ Columns = (*contractsColumns)(nil)
	_ Columns = (*nativeTransfersColumns)(nil)
	_ Columns = (*balanceDiffsColumns)(nil)
	_ Columns = (*codeDiffsColumns)(nil)
	_ Columns = (*nonceDiffsColumns)(nil)
	_ Columns = (*storageDiffsColumns)(nil)
	_ Columns = (*balancesColumns)(nil)
	_ Columns = (*noncesColumns)(nil)
	_ Columns = (*codesColumns)(nil)
	_ Columns = (*storagesColumns)(nil)
	_ Columns = (*ethCallsColumns)(nil)
	_ Columns = (*traceCallsColumns)(nil)
	_ Columns = (*vmTracesColumns)(nil)
	_ Columns = (*transactionAddressesColumns)(nil)
	_ Columns = (*erc20BalancesColumns)(nil)
	_ Columns = (*erc20MetadataColumns)(nil)
	_ Columns = (*erc20SuppliesColumns)(nil)
	_ Columns = (*erc20TransfersColumns)(nil)
	_ Columns = (*erc721MetadataColumns)(nil)
	_ Columns = (*erc721TransfersColumns)(nil)
)
