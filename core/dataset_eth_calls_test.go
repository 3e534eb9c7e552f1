package core

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeFetcher implements Fetcher with canned responses, exercising the
// eth_calls/trace_calls DimCallData wiring without a live RPC endpoint.
type fakeFetcher struct {
	callOutput   []byte
	callErr      error
	calls        []fakeCallRecord
	logsResult   []types.Log
	getLogsCalls []fakeGetLogsRecord
}

type fakeCallRecord struct {
	to    common.Address
	data  []byte
	block uint64
}

type fakeGetLogsRecord struct {
	fromBlock uint64
	toBlock   uint64
	addresses []common.Address
	topics    [][]common.Hash
}

func (f *fakeFetcher) ChainID(ctx context.Context) (uint64, error) { return 1, nil }
func (f *fakeFetcher) BlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	return nil, nil
}
func (f *fakeFetcher) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return nil, false, nil
}
func (f *fakeFetcher) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return nil, nil
}
func (f *fakeFetcher) GetLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topics [][]common.Hash) ([]types.Log, error) {
	f.getLogsCalls = append(f.getLogsCalls, fakeGetLogsRecord{fromBlock: fromBlock, toBlock: toBlock, addresses: addresses, topics: topics})
	return f.logsResult, nil
}
func (f *fakeFetcher) GetStorageAt(ctx context.Context, address common.Address, slot [32]byte, block uint64) ([32]byte, error) {
	return [32]byte{}, nil
}
func (f *fakeFetcher) GetBalance(ctx context.Context, address common.Address, block uint64) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (f *fakeFetcher) GetCode(ctx context.Context, address common.Address, block uint64) ([]byte, error) {
	return nil, nil
}
func (f *fakeFetcher) GetTransactionCount(ctx context.Context, address common.Address, block uint64) (uint64, error) {
	return 0, nil
}
func (f *fakeFetcher) Call(ctx context.Context, to common.Address, data []byte, block uint64) ([]byte, error) {
	f.calls = append(f.calls, fakeCallRecord{to: to, data: data, block: block})
	return f.callOutput, f.callErr
}
func (f *fakeFetcher) TraceBlock(ctx context.Context, block uint64) ([]FlatTrace, error) {
	return nil, nil
}
func (f *fakeFetcher) TraceTransaction(ctx context.Context, hash common.Hash) ([]FlatTrace, error) {
	return nil, nil
}
func (f *fakeFetcher) TraceReplayBlockStateDiffs(ctx context.Context, block uint64) ([]StateDiffResult, error) {
	return nil, nil
}
func (f *fakeFetcher) TraceCall(ctx context.Context, to common.Address, data []byte, block uint64) ([]FlatTrace, error) {
	f.calls = append(f.calls, fakeCallRecord{to: to, data: data, block: block})
	return []FlatTrace{{BlockNumber: block, To: to, Input: data, Output: f.callOutput}}, f.callErr
}
func (f *fakeFetcher) TraceVmTransaction(ctx context.Context, hash common.Hash) ([]VmStep, error) {
	return nil, nil
}

func TestEthCallsCollectSendsCallData(t *testing.T) {
	to := common.HexToAddress("0x0000000000000000000000000000000000000099")
	data := []byte{0x70, 0xa0, 0x82, 0x31}
	fake := &fakeFetcher{callOutput: []byte{0x01, 0x02}}
	src := &Source{Fetcher: fake}
	part := Partition{
		BlockNumbers: []uint64{100},
		ToAddresses:  []common.Address{to},
		CallDatas:    [][]byte{data},
	}
	schema, err := BuildSchema(EthCalls, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}

	df, err := ethCallsCollect(context.Background(), src, part, schema, 1)
	if err != nil {
		t.Fatalf("ethCallsCollect err = %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("Fetcher.Call invocation count = %d, want 1", len(fake.calls))
	}
	if string(fake.calls[0].data) != string(data) {
		t.Fatalf("Fetcher.Call received data = %x, want %x", fake.calls[0].data, data)
	}
	if fake.calls[0].to != to {
		t.Fatalf("Fetcher.Call received to = %s, want %s", fake.calls[0].to, to)
	}
	toCol, ok := df.Column("to_address")
	if !ok || toCol.Len() != 1 {
		t.Fatalf("expected exactly one output row")
	}
}

func TestEthCallsCollectRequiresCallData(t *testing.T) {
	to := common.HexToAddress("0x0000000000000000000000000000000000000099")
	fake := &fakeFetcher{}
	src := &Source{Fetcher: fake}
	// No CallDatas populated: the Cartesian product over an empty value-set
	// dim is empty, so no work items run and no RPC calls are issued.
	part := Partition{BlockNumbers: []uint64{100}, ToAddresses: []common.Address{to}}
	schema, err := BuildSchema(EthCalls, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	df, err := ethCallsCollect(context.Background(), src, part, schema, 1)
	if err != nil {
		t.Fatalf("ethCallsCollect err = %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("Fetcher.Call invocation count = %d, want 0 when call_data is unpopulated", len(fake.calls))
	}
	if col, ok := df.Column("to_address"); ok && col.Len() != 0 {
		t.Fatalf("expected zero output rows, got %d", col.Len())
	}
}

func TestTraceCallsCollectSendsCallData(t *testing.T) {
	to := common.HexToAddress("0x0000000000000000000000000000000000000042")
	data := []byte{0x18, 0x16, 0x0d, 0xdd}
	fake := &fakeFetcher{callOutput: []byte{0x09}}
	src := &Source{Fetcher: fake}
	part := Partition{
		BlockNumbers: []uint64{200},
		ToAddresses:  []common.Address{to},
		CallDatas:    [][]byte{data},
	}
	schema, err := BuildSchema(TraceCalls, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	_, err = traceCallsCollect(context.Background(), src, part, schema, 1)
	if err != nil {
		t.Fatalf("traceCallsCollect err = %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("Fetcher.TraceCall invocation count = %d, want 1", len(fake.calls))
	}
	if string(fake.calls[0].data) != string(data) {
		t.Fatalf("Fetcher.TraceCall received data = %x, want %x", fake.calls[0].data, data)
	}
}
