package core

import (
	"github.com/ethereum/go-ethereum/common"
)

// groupSize returns g, defaulting to 1 (one value per partition) when g<=0,
// matching spec.md §4.1: "sub-chunking is by exact set partition with
// configurable group size (default: one value per partition)".
func groupSize(g int) int {
	if g <= 0 {
		return 1
	}
	return g
}

func groupIndices(n, size int) [][2]int {
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// AddressPartitions groups values into Partitions populating only DimAddress.
func AddressPartitions(values []common.Address, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		out = append(out, Partition{Addresses: append([]common.Address(nil), values[rng[0]:rng[1]]...)})
	}
	return out
}

// ContractPartitions groups values into Partitions populating only DimContract.
func ContractPartitions(values []common.Address, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		out = append(out, Partition{Contracts: append([]common.Address(nil), values[rng[0]:rng[1]]...)})
	}
	return out
}

// ToAddressPartitions groups values into Partitions populating only DimToAddress.
func ToAddressPartitions(values []common.Address, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		out = append(out, Partition{ToAddresses: append([]common.Address(nil), values[rng[0]:rng[1]]...)})
	}
	return out
}

// TransactionHashPartitions groups values into Partitions populating only
// DimTransactionHash.
func TransactionHashPartitions(values []common.Hash, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		out = append(out, Partition{TransactionHashes: append([]common.Hash(nil), values[rng[0]:rng[1]]...)})
	}
	return out
}

// SlotPartitions groups values into Partitions populating only DimSlot.
func SlotPartitions(values [][32]byte, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		out = append(out, Partition{Slots: append([][32]byte(nil), values[rng[0]:rng[1]]...)})
	}
	return out
}

// topicPartitions groups values into Partitions populating only the given
// topic dim (0..3).
func topicPartitions(n int, values [][32]byte, size int) []Partition {
	size = groupSize(size)
	out := make([]Partition, 0, (len(values)+size-1)/size)
	for _, rng := range groupIndices(len(values), size) {
		vs := append([][32]byte(nil), values[rng[0]:rng[1]]...)
		p := Partition{}
		switch n {
		case 0:
			p.Topic0s = vs
		case 1:
			p.Topic1s = vs
		case 2:
			p.Topic2s = vs
		case 3:
			p.Topic3s = vs
		}
		out = append(out, p)
	}
	return out
}

func Topic0Partitions(values [][32]byte, size int) []Partition { return topicPartitions(0, values, size) }
func Topic1Partitions(values [][32]byte, size int) []Partition { return topicPartitions(1, values, size) }
func Topic2Partitions(values [][32]byte, size int) []Partition { return topicPartitions(2, values, size) }
func Topic3Partitions(values [][32]byte, size int) []Partition { return topicPartitions(3, values, size) }

// CartesianPartitions merges one []Partition-per-dim (each populating only
// its own dim, as produced by BlockPartitions/AddressPartitions/…) into the
// full Cartesian product across dims, iterating in the order given by
// partitionedBy (spec.md §4.1: "iteration order is lexicographic in the
// order of partitioned_by").
func CartesianPartitions(partitionedBy []Dim, perDim map[Dim][]Partition) ([]Partition, error) {
	if len(partitionedBy) == 0 {
		return nil, BadParams("partitioned_by must name at least one dim")
	}
	groups := make([][]Partition, len(partitionedBy))
	for i, d := range partitionedBy {
		g, ok := perDim[d]
		if !ok || len(g) == 0 {
			return nil, BadParamsf("no partitions supplied for dim %s", d)
		}
		groups[i] = g
	}

	total := 1
	for _, g := range groups {
		total *= len(g)
	}

	out := make([]Partition, 0, total)
	indices := make([]int, len(groups))
	for {
		merged := Partition{}
		for i := range groups {
			merged = mergePartitionDim(merged, groups[i][indices[i]])
		}
		out = append(out, merged)

		pos := len(groups) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(groups[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out, nil
}

// mergePartitionDim copies whichever single dim src populates into dst.
func mergePartitionDim(dst, src Partition) Partition {
	if len(src.BlockNumbers) > 0 {
		dst.BlockNumbers = src.BlockNumbers
		dst.Contiguous = src.Contiguous
	}
	if len(src.TransactionHashes) > 0 {
		dst.TransactionHashes = src.TransactionHashes
	}
	if len(src.Addresses) > 0 {
		dst.Addresses = src.Addresses
	}
	if len(src.Contracts) > 0 {
		dst.Contracts = src.Contracts
	}
	if len(src.ToAddresses) > 0 {
		dst.ToAddresses = src.ToAddresses
	}
	if len(src.Slots) > 0 {
		dst.Slots = src.Slots
	}
	if len(src.Topic0s) > 0 {
		dst.Topic0s = src.Topic0s
	}
	if len(src.Topic1s) > 0 {
		dst.Topic1s = src.Topic1s
	}
	if len(src.Topic2s) > 0 {
		dst.Topic2s = src.Topic2s
	}
	if len(src.Topic3s) > 0 {
		dst.Topic3s = src.Topic3s
	}
	return dst
}
