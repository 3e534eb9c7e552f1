package core

import "fmt"

// Datatype is the closed enum naming one output table. Every value names
// exactly one Table produced by freeze().
type Datatype int

const (
	Blocks Datatype = iota
	Transactions
	Logs
	Traces
	BalanceDiffs
	CodeDiffs
	NonceDiffs
	StorageDiffs
	Storages
	Nonces
	Balances
	Codes
	Contracts
	NativeTransfers
	EthCalls
	TraceCalls
	Erc20Balances
	Erc20Metadata
	Erc20Supplies
	Erc20Transfers
	Erc721Metadata
	Erc721Transfers
	TransactionAddresses
	VmTraces

	datatypeCount
)

// CollectorKind identifies which collector trait(s) a Datatype implements.
type CollectorKind int

const (
	ByBlockOnly CollectorKind = iota
	ByTransactionOnly
	ByBoth
)

type datatypeInfo struct {
	name                string
	defaultSort         []string
	requiredParameters  []Dim
	columns             []ColumnSpec
	collector           CollectorKind
}

// ColumnSpec declares one column a Datatype can emit: its type, and whether
// it is part of the datatype's default (unfiltered) selection.
type ColumnSpec struct {
	Name       string
	Type       ColumnType
	Default    bool
	U256Reps   []U256Representation // only meaningful when Type == ColUInt256
}

var datatypeTable = [datatypeCount]datatypeInfo{}

func init() {
	datatypeTable = [datatypeCount]datatypeInfo{
		Blocks:                blocksInfo(),
		Transactions:          transactionsInfo(),
		Logs:                  logsInfo(),
		Traces:                tracesInfo(),
		BalanceDiffs:          balanceDiffsInfo(),
		CodeDiffs:             codeDiffsInfo(),
		NonceDiffs:            nonceDiffsInfo(),
		StorageDiffs:          storageDiffsInfo(),
		Storages:              storagesInfo(),
		Nonces:                noncesInfo(),
		Balances:              balancesInfo(),
		Codes:                 codesInfo(),
		Contracts:             contractsInfo(),
		NativeTransfers:       nativeTransfersInfo(),
		EthCalls:              ethCallsInfo(),
		TraceCalls:            traceCallsInfo(),
		Erc20Balances:         erc20BalancesInfo(),
		Erc20Metadata:         erc20MetadataInfo(),
		Erc20Supplies:         erc20SuppliesInfo(),
		Erc20Transfers:        erc20TransfersInfo(),
		Erc721Metadata:        erc721MetadataInfo(),
		Erc721Transfers:       erc721TransfersInfo(),
		TransactionAddresses:  transactionAddressesInfo(),
		VmTraces:              vmTracesInfo(),
	}
}

func (d Datatype) info() datatypeInfo {
	if d < 0 || d >= datatypeCount {
		return datatypeInfo{name: fmt.Sprintf("Datatype(%d)", int(d))}
	}
	return datatypeTable[d]
}

// Name returns the datatype's canonical lower_snake_case name, matching the
// CLI's accepted datatype tokens (see ParseDatatype).
func (d Datatype) Name() string { return d.info().name }

func (d Datatype) String() string { return d.Name() }

// DefaultSort returns the ordered column list this datatype sorts by when
// the user supplies no custom --sort.
func (d Datatype) DefaultSort() []string { return d.info().defaultSort }

// RequiredParameters returns the Dims this datatype requires to be present
// in the query's partitioned_by set.
func (d Datatype) RequiredParameters() []Dim { return d.info().requiredParameters }

// Columns returns the full set of columns this datatype can emit.
func (d Datatype) Columns() []ColumnSpec { return d.info().columns }

// Collector returns which collector trait(s) this datatype implements.
func (d Datatype) Collector() CollectorKind { return d.info().collector }

// RequiresTraceNamespace reports whether collecting this datatype issues a
// trace_* RPC (OpenEthereum/Erigon/Reth-style, gated by Source.SupportsTrace)
// rather than a namespace every node exposes. vm_traces uses
// debug_traceTransaction instead, a separate namespace, so it is not
// included here.
func (d Datatype) RequiresTraceNamespace() bool {
	switch d {
	case Traces, Contracts, NativeTransfers, TraceCalls,
		BalanceDiffs, NonceDiffs, CodeDiffs, StorageDiffs:
		return true
	default:
		return false
	}
}

// datatypeNames maps every accepted CLI token (including aliases) to a Datatype.
var datatypeNames = map[string]Datatype{
	"blocks":                 Blocks,
	"transactions":           Transactions,
	"txs":                    Transactions,
	"logs":                   Logs,
	"events":                 Logs,
	"traces":                 Traces,
	"call_traces":            Traces,
	"balance_diffs":          BalanceDiffs,
	"code_diffs":             CodeDiffs,
	"nonce_diffs":            NonceDiffs,
	"storage_diffs":          StorageDiffs,
	"slot_diffs":             StorageDiffs,
	"storages":               Storages,
	"nonces":                 Nonces,
	"balances":               Balances,
	"codes":                  Codes,
	"contracts":              Contracts,
	"native_transfers":       NativeTransfers,
	"eth_calls":              EthCalls,
	"trace_calls":            TraceCalls,
	"erc20_balances":         Erc20Balances,
	"erc20_metadata":         Erc20Metadata,
	"erc20_supplies":         Erc20Supplies,
	"erc20_transfers":        Erc20Transfers,
	"erc721_metadata":        Erc721Metadata,
	"erc721_transfers":       Erc721Transfers,
	"transaction_addresses":  TransactionAddresses,
	"vm_traces":              VmTraces,
	"opcode_traces":          VmTraces,
}

// ParseDatatype resolves a single CLI token to a Datatype. Unknown tokens
// return ErrBadParams. "state_diffs" is not a single Datatype — it expands
// to a MultiDatatype group; callers should check ParseMultiDatatypeToken
// first (see ParseDatatypeTokens).
func ParseDatatype(token string) (Datatype, error) {
	if d, ok := datatypeNames[token]; ok {
		return d, nil
	}
	return 0, BadParamsf("unknown datatype %q", token)
}

// ParseDatatypeTokens resolves a full CLI positional argument list into the
// flat set of Datatypes to collect, expanding group tokens like
// "state_diffs" into their constituent Datatypes. Order is preserved;
// duplicates introduced by overlapping tokens are dropped.
func ParseDatatypeTokens(tokens []string) ([]Datatype, error) {
	seen := make(map[Datatype]bool)
	var out []Datatype
	add := func(d Datatype) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for _, tok := range tokens {
		if multi, ok := ParseMultiDatatypeToken(tok); ok {
			for _, d := range multi.Datatypes() {
				add(d)
			}
			continue
		}
		d, err := ParseDatatype(tok)
		if err != nil {
			return nil, err
		}
		add(d)
	}
	if len(out) == 0 {
		return nil, BadParams("at least one datatype is required")
	}
	return out, nil
}

// MultiDatatype names a set of datatypes requested together by one CLI
// group token (spec.md §4.5). Only StateDiffs shares one RPC response per
// block across its members (state_diff_cache.go); each member of
// BlocksAndTransactions and CallTraceDerivatives issues its own RPC calls.
type MultiDatatype int

const (
	BlocksAndTransactions MultiDatatype = iota
	CallTraceDerivatives
	StateDiffs
)

func (m MultiDatatype) Datatypes() []Datatype {
	switch m {
	case BlocksAndTransactions:
		return []Datatype{Blocks, Transactions}
	case StateDiffs:
		return []Datatype{BalanceDiffs, CodeDiffs, NonceDiffs, StorageDiffs}
	case CallTraceDerivatives:
		return []Datatype{Contracts, NativeTransfers, Traces}
	default:
		return nil
	}
}

// ParseMultiDatatypeToken resolves the CLI tokens that expand to several
// datatypes at once ("state_diffs", "call_trace_derivatives",
// "blocks_and_transactions").
func ParseMultiDatatypeToken(token string) (MultiDatatype, bool) {
	switch token {
	case "state_diffs":
		return StateDiffs, true
	case "call_trace_derivatives":
		return CallTraceDerivatives, true
	case "blocks_and_transactions":
		return BlocksAndTransactions, true
	default:
		return 0, false
	}
}
