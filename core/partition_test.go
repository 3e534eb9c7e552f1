package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPartitionBlockValuesContiguous(t *testing.T) {
	p := Partition{BlockNumbers: []uint64{100, 103}, Contiguous: true}
	got := p.blockValues()
	want := []uint64{100, 101, 102, 103}
	if len(got) != len(want) {
		t.Fatalf("blockValues length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("blockValues[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPartitionBlockValuesExplicit(t *testing.T) {
	p := Partition{BlockNumbers: []uint64{5, 9, 12}}
	got := p.blockValues()
	if len(got) != 3 || got[0] != 5 || got[1] != 9 || got[2] != 12 {
		t.Fatalf("blockValues = %v, want explicit list preserved", got)
	}
}

func TestWorkItemsCartesianProduct(t *testing.T) {
	addr1 := common.HexToAddress("0x0000000000000000000000000000000000000001")
	addr2 := common.HexToAddress("0x0000000000000000000000000000000000000002")
	p := Partition{
		BlockNumbers: []uint64{10, 11},
		Addresses:    []common.Address{addr1, addr2},
	}
	items := p.WorkItems([]Dim{DimBlockNumber, DimAddress})
	if len(items) != 4 {
		t.Fatalf("WorkItems count = %d, want 4 (2 blocks x 2 addresses)", len(items))
	}
	for _, it := range items {
		if _, err := it.BlockNumber(); err != nil {
			t.Fatalf("BlockNumber() unexpectedly failed: %v", err)
		}
		if _, err := it.Address(); err != nil {
			t.Fatalf("Address() unexpectedly failed: %v", err)
		}
	}
}

func TestWorkItemsEmptyValueDimProducesNoItems(t *testing.T) {
	p := Partition{BlockNumbers: []uint64{10, 11}}
	items := p.WorkItems([]Dim{DimBlockNumber, DimAddress})
	if len(items) != 0 {
		t.Fatalf("WorkItems count = %d, want 0 when a required dim has no values", len(items))
	}
}

func TestWorkItemsCallData(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000003")
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	p := Partition{
		BlockNumbers: []uint64{1},
		ToAddresses:  []common.Address{to},
		CallDatas:    [][]byte{data},
	}
	items := p.WorkItems([]Dim{DimBlockNumber, DimToAddress, DimCallData})
	if len(items) != 1 {
		t.Fatalf("WorkItems count = %d, want 1", len(items))
	}
	got, err := items[0].CallData()
	if err != nil {
		t.Fatalf("CallData() failed: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("CallData() = %x, want %x", got, data)
	}
}

func TestParamsAccessorsFailWhenUnpopulated(t *testing.T) {
	var p Params
	if _, err := p.BlockNumber(); err == nil {
		t.Fatal("BlockNumber() on empty Params should fail")
	}
	if _, err := p.CallData(); err == nil {
		t.Fatal("CallData() on empty Params should fail")
	}
	if _, err := p.Topic(0); err == nil {
		t.Fatal("Topic(0) on empty Params should fail")
	}
	if _, err := p.Topic(4); err == nil {
		t.Fatal("Topic(4) (out of range) should fail")
	}
}

func TestPartitionIdentity(t *testing.T) {
	p := Partition{BlockNumbers: []uint64{100, 200}, Contiguous: true}
	if got := p.Identity(); got != "100_to_200" {
		t.Fatalf("Identity() = %q, want %q", got, "100_to_200")
	}
	if got := (Partition{}).Identity(); got != "partition" {
		t.Fatalf("Identity() on empty partition = %q, want %q", got, "partition")
	}
}
