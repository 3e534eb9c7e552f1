package core

// BlockChunkSpec describes how a user-supplied block range should be
// chunked. Exactly one of ChunkSize or NChunks should be set; honoring the
// one the caller supplied is the job of ChunkBlockRange, not the caller.
type BlockChunkSpec struct {
	Start     uint64
	End       uint64 // inclusive
	ChunkSize uint64
	NChunks   uint64 // used when ChunkSize == 0
}

// ChunkBlockRange splits [Start,End] into closed-interval chunks honoring
// whichever of ChunkSize/NChunks was supplied (spec.md §4.1: "a user may
// supply either chunk_size or n_chunks; honor the specified one"). Returns
// one []uint64{lo,hi} pair per chunk, in ascending order.
func ChunkBlockRange(spec BlockChunkSpec) ([][2]uint64, error) {
	if spec.End < spec.Start {
		return nil, BadParamsf("empty block range: start=%d end=%d", spec.Start, spec.End)
	}
	total := spec.End - spec.Start + 1

	chunkSize := spec.ChunkSize
	if chunkSize == 0 {
		if spec.NChunks == 0 {
			return nil, BadParams("must supply either chunk_size or n_chunks")
		}
		chunkSize = (total + spec.NChunks - 1) / spec.NChunks
		if chunkSize == 0 {
			chunkSize = 1
		}
	}
	if chunkSize == 0 {
		return nil, BadParams("chunk_size must be > 0")
	}

	var out [][2]uint64
	for lo := spec.Start; lo <= spec.End; lo += chunkSize {
		hi := lo + chunkSize - 1
		if hi > spec.End {
			hi = spec.End
		}
		out = append(out, [2]uint64{lo, hi})
		if hi == spec.End {
			break
		}
	}
	return out, nil
}

// BlockPartitions is ChunkBlockRange adapted to return Partitions populating
// only DimBlockNumber, each a contiguous closed interval.
func BlockPartitions(spec BlockChunkSpec) ([]Partition, error) {
	chunks, err := ChunkBlockRange(spec)
	if err != nil {
		return nil, err
	}
	out := make([]Partition, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, Partition{BlockNumbers: []uint64{c[0], c[1]}, Contiguous: true})
	}
	return out, nil
}
