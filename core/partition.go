package core

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Partition is an immutable Cartesian-product shard of a query's input
// space: the unit of scheduling and of one output file per Datatype. Only
// the fields named in PartitionedBy are non-empty.
type Partition struct {
	BlockNumbers      []uint64 // closed [lo,hi] is represented as the two endpoints when Contiguous; otherwise an explicit list
	Contiguous        bool
	TransactionHashes []common.Hash
	Addresses         []common.Address
	Contracts         []common.Address
	ToAddresses       []common.Address
	Slots             [][32]byte
	Topic0s           [][32]byte
	Topic1s           [][32]byte
	Topic2s           [][32]byte
	Topic3s           [][32]byte
	CallDatas         [][]byte
}

// BlockRange returns the closed interval [lo,hi] for a contiguous block
// partition. It is only meaningful when Contiguous is true.
func (p Partition) BlockRange() (lo, hi uint64) {
	if len(p.BlockNumbers) == 0 {
		return 0, 0
	}
	return p.BlockNumbers[0], p.BlockNumbers[len(p.BlockNumbers)-1]
}

// blockValues expands a (possibly contiguous) partition's BlockNumbers into
// the full enumerated list of block numbers it covers.
func (p Partition) blockValues() []uint64 {
	if !p.Contiguous || len(p.BlockNumbers) != 2 {
		return p.BlockNumbers
	}
	lo, hi := p.BlockNumbers[0], p.BlockNumbers[1]
	out := make([]uint64, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		out = append(out, b)
	}
	return out
}

// dimValues returns, for each Dim present in partitionedBy, the ordered
// slice of values (as `any`, one of uint64/common.Hash/common.Address/[32]byte)
// this partition populates for that dim.
func (p Partition) dimValues(partitionedBy []Dim) ([]Dim, [][]any) {
	dims := make([]Dim, 0, len(partitionedBy))
	values := make([][]any, 0, len(partitionedBy))
	for _, d := range partitionedBy {
		var vs []any
		switch d {
		case DimBlockNumber:
			for _, b := range p.blockValues() {
				vs = append(vs, b)
			}
		case DimTransactionHash:
			for _, h := range p.TransactionHashes {
				vs = append(vs, h)
			}
		case DimAddress:
			for _, a := range p.Addresses {
				vs = append(vs, a)
			}
		case DimContract:
			for _, a := range p.Contracts {
				vs = append(vs, a)
			}
		case DimToAddress:
			for _, a := range p.ToAddresses {
				vs = append(vs, a)
			}
		case DimSlot:
			for _, s := range p.Slots {
				vs = append(vs, s)
			}
		case DimTopic0:
			for _, t := range p.Topic0s {
				vs = append(vs, t)
			}
		case DimTopic1:
			for _, t := range p.Topic1s {
				vs = append(vs, t)
			}
		case DimTopic2:
			for _, t := range p.Topic2s {
				vs = append(vs, t)
			}
		case DimTopic3:
			for _, t := range p.Topic3s {
				vs = append(vs, t)
			}
		case DimCallData:
			for _, c := range p.CallDatas {
				vs = append(vs, c)
			}
		}
		dims = append(dims, d)
		values = append(values, vs)
	}
	return dims, values
}

// WorkItems enumerates this partition's work items by Cartesian product over
// its populated dims, in the order given by partitionedBy. Each returned
// Params has exactly one value per populated dim.
func (p Partition) WorkItems(partitionedBy []Dim) []Params {
	dims, values := p.dimValues(partitionedBy)

	total := 1
	for _, vs := range values {
		total *= len(vs)
	}
	if total == 0 {
		return nil
	}

	out := make([]Params, 0, total)
	indices := make([]int, len(dims))
	for {
		out = append(out, buildParams(dims, values, indices))

		pos := len(dims) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(values[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

func buildParams(dims []Dim, values [][]any, indices []int) Params {
	var p Params
	for i, d := range dims {
		v := values[i][indices[i]]
		switch d {
		case DimBlockNumber:
			n := v.(uint64)
			p.blockNumber = &n
		case DimTransactionHash:
			h := v.(common.Hash)
			p.transactionHash = &h
		case DimAddress:
			a := v.(common.Address)
			p.address = &a
		case DimContract:
			a := v.(common.Address)
			p.contract = &a
		case DimToAddress:
			a := v.(common.Address)
			p.toAddress = &a
		case DimSlot:
			s := v.([32]byte)
			p.slot = &s
		case DimTopic0:
			t := v.([32]byte)
			p.topics[0] = &t
		case DimTopic1:
			t := v.([32]byte)
			p.topics[1] = &t
		case DimTopic2:
			t := v.([32]byte)
			p.topics[2] = &t
		case DimTopic3:
			t := v.([32]byte)
			p.topics[3] = &t
		case DimCallData:
			p.callData = v.([]byte)
		}
	}
	return p
}

// Identity returns a stable, file-name-safe string identifying this
// partition, used for output file names and report entries.
func (p Partition) Identity() string {
	var parts []string
	if len(p.BlockNumbers) > 0 {
		lo, hi := p.BlockRange()
		parts = append(parts, fmt.Sprintf("%d_to_%d", lo, hi))
	}
	if len(p.Addresses) > 0 {
		parts = append(parts, fmt.Sprintf("addr_%s", shortHex(p.Addresses[0].Bytes())))
	}
	if len(p.TransactionHashes) > 0 {
		parts = append(parts, fmt.Sprintf("tx_%s", shortHex(p.TransactionHashes[0].Bytes())))
	}
	if len(parts) == 0 {
		return "partition"
	}
	return strings.Join(parts, "__")
}

func shortHex(b []byte) string {
	s := common.Bytes2Hex(b)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
