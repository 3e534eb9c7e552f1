package core

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// logsCollect treats Partition.Addresses as an optional eth_getLogs filter,
// not a required Cartesian-product dim — unlike eth_calls/balances, an
// empty address list is a valid "no filter" request, not a misconfiguration.
// With InnerRequestSize left at its zero value (unbounded), the whole
// 10-block partition goes out as a single eth_getLogs call.
func TestLogsCollectWithNoAddressesIsUnfiltered(t *testing.T) {
	fake := &fakeFetcher{logsResult: []types.Log{{BlockNumber: 5}}}
	src := &Source{Fetcher: fake, ChainID: 1}
	part := Partition{BlockNumbers: []uint64{1, 10}, Contiguous: true}
	schema, err := BuildSchema(Logs, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	df, err := logsCollect(context.Background(), src, part, schema, 1)
	if err != nil {
		t.Fatalf("logsCollect err = %v", err)
	}
	if len(fake.getLogsCalls) != 1 {
		t.Fatalf("GetLogs invocation count = %d, want 1", len(fake.getLogsCalls))
	}
	if len(fake.getLogsCalls[0].addresses) != 0 {
		t.Fatalf("GetLogs addresses filter = %v, want empty (no filter)", fake.getLogsCalls[0].addresses)
	}
	col, ok := df.Column("block_number")
	if !ok || col.Len() != 1 {
		t.Fatalf("expected one decoded log row")
	}
}

// TestLogsCollectSubChunksByInnerRequestSize mirrors spec.md's worked
// example: a 3-block partition with log_request_size=1 must reach the node
// as 3 separate eth_getLogs calls, one block each, rather than one call
// spanning the whole range.
func TestLogsCollectSubChunksByInnerRequestSize(t *testing.T) {
	fake := &fakeFetcher{}
	src := &Source{Fetcher: fake, ChainID: 1, InnerRequestSize: 1}
	part := Partition{BlockNumbers: []uint64{17000000, 17000002}, Contiguous: true}
	schema, err := BuildSchema(Logs, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	if _, err := logsCollect(context.Background(), src, part, schema, 1); err != nil {
		t.Fatalf("logsCollect err = %v", err)
	}
	if len(fake.getLogsCalls) != 3 {
		t.Fatalf("GetLogs invocation count = %d, want 3", len(fake.getLogsCalls))
	}
	for i, call := range fake.getLogsCalls {
		want := uint64(17000000 + i)
		if call.fromBlock != want || call.toBlock != want {
			t.Fatalf("call %d block range = [%d,%d], want [%d,%d]", i, call.fromBlock, call.toBlock, want, want)
		}
	}
}

func TestLogsCollectPassesAddressFilterThrough(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000055")
	fake := &fakeFetcher{}
	src := &Source{Fetcher: fake}
	part := Partition{
		BlockNumbers: []uint64{1, 10},
		Contiguous:   true,
		Addresses:    []common.Address{addr},
	}
	schema, err := BuildSchema(Logs, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	if _, err := logsCollect(context.Background(), src, part, schema, 1); err != nil {
		t.Fatalf("logsCollect err = %v", err)
	}
	if len(fake.getLogsCalls) != 1 || len(fake.getLogsCalls[0].addresses) != 1 {
		t.Fatalf("expected GetLogs to receive exactly the one supplied address filter")
	}
	if fake.getLogsCalls[0].addresses[0] != addr {
		t.Fatalf("GetLogs address filter = %s, want %s", fake.getLogsCalls[0].addresses[0], addr)
	}
}
