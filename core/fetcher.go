package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Fetcher is the stateless facade over JSON-RPC (spec.md §4.3): one typed
// method per wire call, each acquiring a rate-limiter token and a
// concurrency-semaphore permit before issuing the request. Fakeable for
// tests via any type satisfying this interface.
type Fetcher interface {
	ChainID(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number uint64) (*types.Block, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	GetLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topics [][]common.Hash) ([]types.Log, error)
	GetStorageAt(ctx context.Context, address common.Address, slot [32]byte, block uint64) ([32]byte, error)
	GetBalance(ctx context.Context, address common.Address, block uint64) (*big.Int, error)
	GetCode(ctx context.Context, address common.Address, block uint64) ([]byte, error)
	GetTransactionCount(ctx context.Context, address common.Address, block uint64) (uint64, error)
	Call(ctx context.Context, to common.Address, data []byte, block uint64) ([]byte, error)
	TraceBlock(ctx context.Context, block uint64) ([]FlatTrace, error)
	TraceTransaction(ctx context.Context, hash common.Hash) ([]FlatTrace, error)
	TraceReplayBlockStateDiffs(ctx context.Context, block uint64) ([]StateDiffResult, error)
	TraceCall(ctx context.Context, to common.Address, data []byte, block uint64) ([]FlatTrace, error)
	TraceVmTransaction(ctx context.Context, hash common.Hash) ([]VmStep, error)
}

// VmStep is one entry of a debug_traceTransaction structLogger trace —
// the opcode-level granularity the vm_traces dataset emits.
type VmStep struct {
	TransactionHash common.Hash
	Pc              uint64
	Op              string
	Gas             uint64
	GasCost         uint64
	Depth           int
}

// FlatTrace is the subset of a trace_block/trace_transaction result this
// engine decodes; see dataset_traces.go (traces, contracts,
// native_transfers) for consumers.
type FlatTrace struct {
	BlockNumber         uint64
	TransactionHash     common.Hash
	TransactionPosition int
	TraceAddress        []int
	Type                string // "call", "create", "suicide", "reward"
	CallType             string // "call", "delegatecall", "staticcall", "" for create
	From                common.Address
	To                  common.Address
	Value               *big.Int
	Gas                 uint64
	GasUsed             uint64
	Input               []byte
	Output              []byte
	Error               string
}

// StateDiff is one account's balance/nonce/code/storage delta within a
// trace_replayBlockTransactions state-diff result. Same/Born/Died/Changed
// mirror ethers' parity::Diff enum (spec.md §8 invariant 6).
type StateDiff struct {
	Address common.Address
	Kind    DiffKind
	From    *big.Int // nil for Born
	To      *big.Int // nil for Died
	NonceFrom, NonceTo     uint64
	CodeFrom, CodeTo       []byte
	Storage                []StorageDiffEntry
}

type DiffKind int

const (
	DiffSame DiffKind = iota
	DiffBorn
	DiffDied
	DiffChanged
)

type StorageDiffEntry struct {
	Slot     [32]byte
	Kind     DiffKind
	From, To [32]byte
}

// StateDiffResult is one transaction's state-diff set within a block.
type StateDiffResult struct {
	BlockNumber         uint64
	TransactionHash     common.Hash
	TransactionPosition int
	Diffs               []StateDiff
}

// rpcFetcher is the concrete Fetcher, backed by go-ethereum's JSON-RPC
// client (spec.md §6 "Wire"). It owns the rate limiter and concurrency
// semaphore, the only process-wide mutable shared state (Design Notes §9).
type rpcFetcher struct {
	client  *ethclient.Client
	limiter *rate.Limiter     // nil means unlimited
	sem     *semaphore.Weighted // nil means unlimited
}

// NewFetcher dials rpcURL and wraps it with the given rate/concurrency
// budgets. A nil/zero maxRPS or maxConcurrent means unlimited, matching
// spec.md §4.3.
func NewFetcher(ctx context.Context, rpcURL string, maxRPS float64, maxConcurrent int64) (Fetcher, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, RPCError(err)
	}
	f := &rpcFetcher{client: client}
	if maxRPS > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(maxRPS), int(maxRPS)+1)
	}
	if maxConcurrent > 0 {
		f.sem = semaphore.NewWeighted(maxConcurrent)
	}
	return f, nil
}

// acquire blocks until a rate-limiter token and a semaphore permit are both
// available, returning a release func that must be called on every exit
// path (success, error, or cancellation) — the scoped-guard discipline
// required by spec.md §5.
func (f *rpcFetcher) acquire(ctx context.Context) (func(), error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return func() {}, RPCError(err)
		}
	}
	if f.sem != nil {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return func() {}, RPCError(err)
		}
		return func() { f.sem.Release(1) }, nil
	}
	return func() {}, nil
}

func (f *rpcFetcher) ChainID(ctx context.Context) (uint64, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return 0, err
	}
	id, err := f.client.ChainID(ctx)
	if err != nil {
		return 0, RPCError(err)
	}
	return id.Uint64(), nil
}

func (f *rpcFetcher) BlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	b, err := f.client.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, RPCError(err)
	}
	return b, nil
}

func (f *rpcFetcher) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, false, err
	}
	tx, pending, err := f.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, false, RPCError(err)
	}
	return tx, pending, nil
}

func (f *rpcFetcher) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	r, err := f.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, RPCError(err)
	}
	return r, nil
}

func (f *rpcFetcher) GetLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topics [][]common.Hash) ([]types.Log, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	q := buildFilterQuery(fromBlock, toBlock, addresses, topics)
	logs, err := f.client.FilterLogs(ctx, q)
	if err != nil {
		return nil, RPCError(err)
	}
	return logs, nil
}

func (f *rpcFetcher) GetStorageAt(ctx context.Context, address common.Address, slot [32]byte, block uint64) ([32]byte, error) {
	release, err := f.acquire(ctx)
	defer release()
	var out [32]byte
	if err != nil {
		return out, err
	}
	b, err := f.client.StorageAt(ctx, address, slot, new(big.Int).SetUint64(block))
	if err != nil {
		return out, RPCError(err)
	}
	copy(out[:], b)
	return out, nil
}

func (f *rpcFetcher) GetBalance(ctx context.Context, address common.Address, block uint64) (*big.Int, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	bal, err := f.client.BalanceAt(ctx, address, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, RPCError(err)
	}
	return bal, nil
}

func (f *rpcFetcher) GetCode(ctx context.Context, address common.Address, block uint64) ([]byte, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	code, err := f.client.CodeAt(ctx, address, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, RPCError(err)
	}
	return code, nil
}

func (f *rpcFetcher) GetTransactionCount(ctx context.Context, address common.Address, block uint64) (uint64, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return 0, err
	}
	n, err := f.client.NonceAt(ctx, address, new(big.Int).SetUint64(block))
	if err != nil {
		return 0, RPCError(err)
	}
	return n, nil
}

func (f *rpcFetcher) Call(ctx context.Context, to common.Address, data []byte, block uint64) ([]byte, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	out, err := f.client.CallContract(ctx, callMsg(to, data), new(big.Int).SetUint64(block))
	if err != nil {
		return nil, RPCError(err)
	}
	return out, nil
}

// TraceBlock issues trace_block, outside ethclient's standard namespace, via
// the underlying rpc.Client.
func (f *rpcFetcher) TraceBlock(ctx context.Context, block uint64) ([]FlatTrace, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	var raw []rawFlatTrace
	if err := f.client.Client().CallContext(ctx, &raw, "trace_block", hexBlockNumber(block)); err != nil {
		return nil, RPCError(err)
	}
	return decodeFlatTraces(raw), nil
}

func (f *rpcFetcher) TraceTransaction(ctx context.Context, hash common.Hash) ([]FlatTrace, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	var raw []rawFlatTrace
	if err := f.client.Client().CallContext(ctx, &raw, "trace_transaction", hash); err != nil {
		return nil, RPCError(err)
	}
	return decodeFlatTraces(raw), nil
}

func (f *rpcFetcher) TraceReplayBlockStateDiffs(ctx context.Context, block uint64) ([]StateDiffResult, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	var raw []rawReplayResult
	if err := f.client.Client().CallContext(ctx, &raw, "trace_replayBlockTransactions", hexBlockNumber(block), []string{"stateDiff"}); err != nil {
		return nil, RPCError(err)
	}
	return decodeStateDiffResults(block, raw), nil
}

// TraceCall issues trace_call: simulates a message call at a historical
// block height and returns its call trace without it ever being mined,
// used by the trace_calls dataset.
func (f *rpcFetcher) TraceCall(ctx context.Context, to common.Address, data []byte, block uint64) ([]FlatTrace, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	callObj := map[string]any{"to": to, "data": hexutil.Bytes(data)}
	var raw rawFlatTrace
	if err := f.client.Client().CallContext(ctx, &raw, "trace_call", callObj, []string{"trace"}, hexBlockNumber(block)); err != nil {
		return nil, RPCError(err)
	}
	return decodeFlatTraces([]rawFlatTrace{raw}), nil
}

// TraceVmTransaction issues debug_traceTransaction with the structLogger
// tracer, used by the vm_traces dataset for opcode-level stepping.
func (f *rpcFetcher) TraceVmTransaction(ctx context.Context, hash common.Hash) ([]VmStep, error) {
	release, err := f.acquire(ctx)
	defer release()
	if err != nil {
		return nil, err
	}
	var raw rawStructLoggerResult
	opts := map[string]any{"tracer": "", "disableStorage": true, "disableMemory": true, "disableStack": true}
	if err := f.client.Client().CallContext(ctx, &raw, "debug_traceTransaction", hash, opts); err != nil {
		return nil, RPCError(err)
	}
	out := make([]VmStep, 0, len(raw.StructLogs))
	for _, sl := range raw.StructLogs {
		out = append(out, VmStep{
			TransactionHash: hash,
			Pc:              uint64(sl.Pc),
			Op:              sl.Op,
			Gas:             uint64(sl.Gas),
			GasCost:         uint64(sl.GasCost),
			Depth:           sl.Depth,
		})
	}
	return out, nil
}
