package core

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBalancesCollectCartesianProductOverAddresses(t *testing.T) {
	addr1 := common.HexToAddress("0x0000000000000000000000000000000000000011")
	addr2 := common.HexToAddress("0x0000000000000000000000000000000000000022")
	fake := &fakeFetcher{}
	src := &Source{Fetcher: fake}
	part := Partition{
		BlockNumbers: []uint64{1, 2},
		Contiguous:   true,
		Addresses:    []common.Address{addr1, addr2},
	}
	schema, err := BuildSchema(Balances, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	df, err := balancesCollect(context.Background(), src, part, schema, 2)
	if err != nil {
		t.Fatalf("balancesCollect err = %v", err)
	}
	col, ok := df.Column("address")
	if !ok {
		t.Fatal("expected address column to be present")
	}
	if col.Len() != 4 {
		t.Fatalf("row count = %d, want 4 (2 blocks x 2 addresses)", col.Len())
	}
}

func TestBalancesCollectNoAddressesProducesNoRows(t *testing.T) {
	fake := &fakeFetcher{}
	src := &Source{Fetcher: fake}
	part := Partition{BlockNumbers: []uint64{1, 2}, Contiguous: true}
	schema, err := BuildSchema(Balances, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	df, err := balancesCollect(context.Background(), src, part, schema, 2)
	if err != nil {
		t.Fatalf("balancesCollect err = %v", err)
	}
	if col, ok := df.Column("address"); ok && col.Len() != 0 {
		t.Fatalf("expected zero rows when no addresses supplied, got %d", col.Len())
	}
}
