package core

// Calibrate derives a consistent (max_concurrent_chunks, max_concurrent_blocks)
// pair from the user's three optional caps R (max_concurrent_requests), C
// (max_concurrent_chunks), B (max_concurrent_blocks), per spec.md §4.8's
// table. nil means the corresponding flag was not supplied.
func Calibrate(r, c, b *uint64) (resolvedChunks, resolvedBlocks uint64, err error) {
	if (r != nil && *r == 0) || (c != nil && *c == 0) || (b != nil && *b == 0) {
		return 0, 0, BadParams("max_concurrent_requests/chunks/blocks must be at least 1 when supplied")
	}
	switch {
	case r == nil && c == nil && b == nil:
		return 32, 3, nil

	case r != nil && c == nil && b == nil:
		return maxU64(*r/3, 1), 3, nil

	case r == nil && c != nil && b == nil:
		return *c, 3, nil

	case r == nil && c == nil && b != nil:
		return maxU64(100 / *b, 1), *b, nil

	case r != nil && c != nil && b == nil:
		return *c, maxU64(*r / *c, 1), nil

	case r == nil && c != nil && b != nil:
		return *c, *b, nil

	case r != nil && c == nil && b != nil:
		return maxU64(*r / *b, 1), *b, nil

	case r != nil && c != nil && b != nil:
		if *r != *c**b {
			return 0, 0, BadParamsf("max_concurrent_requests (%d) must equal max_concurrent_chunks * max_concurrent_blocks (%d * %d = %d)", *r, *c, *b, *c**b)
		}
		return *c, *b, nil

	default:
		return 32, 3, nil
	}
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
