package core

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestValidatePartitionsNoPartitions(t *testing.T) {
	if err := ValidatePartitions([]Datatype{Blocks}, nil); !errors.Is(err, ErrBadParams) {
		t.Fatalf("ValidatePartitions(nil) err = %v, want ErrBadParams", err)
	}
}

func TestValidatePartitionsMissingRequiredValueDim(t *testing.T) {
	parts := []Partition{{BlockNumbers: []uint64{1, 2}, Contiguous: true}}
	err := ValidatePartitions([]Datatype{EthCalls}, parts)
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("ValidatePartitions err = %v, want ErrBadParams (eth_calls requires to_address+call_data)", err)
	}
}

func TestValidatePartitionsSatisfiedRequiredValueDim(t *testing.T) {
	to := common.HexToAddress("0x0000000000000000000000000000000000000001")
	parts := []Partition{{
		BlockNumbers: []uint64{1, 2},
		Contiguous:   true,
		ToAddresses:  []common.Address{to},
		CallDatas:    [][]byte{{0x01}},
	}}
	if err := ValidatePartitions([]Datatype{EthCalls}, parts); err != nil {
		t.Fatalf("ValidatePartitions err = %v, want nil when to_address/call_data supplied", err)
	}
}

func TestValidatePartitionsDoesNotRequireAddressForLogs(t *testing.T) {
	parts := []Partition{{BlockNumbers: []uint64{1, 2}, Contiguous: true}}
	if err := ValidatePartitions([]Datatype{Logs}, parts); err != nil {
		t.Fatalf("ValidatePartitions err = %v, want nil (logs treats address as an optional RPC filter, not a required dim)", err)
	}
}

func TestValueDimPopulatedAcrossMultiplePartitions(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000002")
	parts := []Partition{
		{BlockNumbers: []uint64{1}},
		{BlockNumbers: []uint64{2}, Addresses: []common.Address{addr}},
	}
	if !valueDimPopulated(parts, DimAddress) {
		t.Fatal("valueDimPopulated should find the address in the second partition")
	}
	if valueDimPopulated(parts, DimContract) {
		t.Fatal("valueDimPopulated should report false when no partition populates DimContract")
	}
}
