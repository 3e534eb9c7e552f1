package core

import (
	"math/big"

	"github.com/holiman/uint256"
)

// U256Representation is one concrete rendering of a UInt256-typed column.
// Each selected representation emits one output column named "<col><suffix>".
type U256Representation int

const (
	// U256Binary emits the value as a big-endian 32-byte slice.
	U256Binary U256Representation = iota
	// U256Decimal emits the value as a base-10 string (exact, arbitrary precision).
	U256Decimal
	// U256F64 emits the value as a float64 (lossy above 2^53).
	U256F64
	// U256U64Low emits the low 64 bits of the value as a uint64.
	U256U64Low
)

// Suffix returns the column-name suffix this representation appends, e.g.
// "value" + U256Decimal.Suffix() == "value_decimal".
func (r U256Representation) Suffix() string {
	switch r {
	case U256Binary:
		return "_binary"
	case U256Decimal:
		return "_decimal"
	case U256F64:
		return "_f64"
	case U256U64Low:
		return "_u64_low"
	default:
		return "_unknown"
	}
}

// ExpandU256Column returns the concrete output column names for one UInt256
// source column under the given set of requested representations; the
// values themselves are converted by U256Value. Centralizing suffixing and
// conversion in this file means each dataset declares only the source
// uint256.Int value (see dataset_*.go) and nothing else.
func ExpandU256Column(name string, reps []U256Representation) []string {
	names := make([]string, 0, len(reps))
	for _, r := range reps {
		names = append(names, name+r.Suffix())
	}
	return names
}

// U256Value converts v into the requested representation.
func U256Value(v *uint256.Int, rep U256Representation) any {
	if v == nil {
		v = new(uint256.Int)
	}
	switch rep {
	case U256Binary:
		b := v.Bytes32()
		return b[:]
	case U256Decimal:
		return v.Dec()
	case U256F64:
		f := new(big.Float).SetInt(v.ToBig())
		out, _ := f.Float64()
		return out
	case U256U64Low:
		return v.Uint64()
	default:
		return nil
	}
}

// U256FromBig converts a *big.Int (as returned by go-ethereum's RPC types)
// into a *uint256.Int, clamping negative values to zero since chain state
// never carries negative balances.
func U256FromBig(b *big.Int) *uint256.Int {
	out := new(uint256.Int)
	if b == nil || b.Sign() < 0 {
		return out
	}
	out.SetFromBig(b)
	return out
}
