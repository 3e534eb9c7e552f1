package core

import (
	"sort"

	"github.com/holiman/uint256"
)

// Series is one finished output column: exactly one of the typed slices
// below is populated, matching Type.
type Series struct {
	Name string
	Type ColumnType

	Bool    []bool
	UInt32  []uint32
	UInt64  []uint64
	Int32   []int32
	Int64   []int64
	Float64 []float64
	String  []string
	Binary  [][]byte
}

// Len returns the series' row count.
func (s Series) Len() int {
	switch s.Type {
	case ColBool:
		return len(s.Bool)
	case ColUInt32:
		return len(s.UInt32)
	case ColUInt64:
		return len(s.UInt64)
	case ColInt32:
		return len(s.Int32)
	case ColInt64:
		return len(s.Int64)
	case ColFloat64:
		return len(s.Float64)
	case ColString:
		return len(s.String)
	case ColBinary:
		return len(s.Binary)
	default:
		return 0
	}
}

// reorder permutes the series' backing slice in place according to perm,
// where perm[i] is the source index that should end up at position i.
func (s *Series) reorder(perm []int) {
	switch s.Type {
	case ColBool:
		s.Bool = reorderSlice(s.Bool, perm)
	case ColUInt32:
		s.UInt32 = reorderSlice(s.UInt32, perm)
	case ColUInt64:
		s.UInt64 = reorderSlice(s.UInt64, perm)
	case ColInt32:
		s.Int32 = reorderSlice(s.Int32, perm)
	case ColInt64:
		s.Int64 = reorderSlice(s.Int64, perm)
	case ColFloat64:
		s.Float64 = reorderSlice(s.Float64, perm)
	case ColString:
		s.String = reorderSlice(s.String, perm)
	case ColBinary:
		s.Binary = reorderSlice(s.Binary, perm)
	}
}

func reorderSlice[T any](in []T, perm []int) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(perm))
	for i, src := range perm {
		out[i] = in[src]
	}
	return out
}

// less compares row i and row j of the series, used to build the sort
// permutation. Binary/bool columns are not valid sort keys.
func (s Series) less(i, j int) (lt, eq bool) {
	switch s.Type {
	case ColUInt32:
		return s.UInt32[i] < s.UInt32[j], s.UInt32[i] == s.UInt32[j]
	case ColUInt64:
		return s.UInt64[i] < s.UInt64[j], s.UInt64[i] == s.UInt64[j]
	case ColInt32:
		return s.Int32[i] < s.Int32[j], s.Int32[i] == s.Int32[j]
	case ColInt64:
		return s.Int64[i] < s.Int64[j], s.Int64[i] == s.Int64[j]
	case ColFloat64:
		return s.Float64[i] < s.Float64[j], s.Float64[i] == s.Float64[j]
	case ColString:
		return s.String[i] < s.String[j], s.String[i] == s.String[j]
	default:
		return false, true
	}
}

// DataFrame is the finished, column-oriented output of one Partition for
// one Datatype, ready for a Sink to write.
type DataFrame struct {
	Datatype Datatype
	NRows    int
	Columns  []Series
}

// Column returns the named series, if present.
func (df DataFrame) Column(name string) (Series, bool) {
	for _, s := range df.Columns {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// SortRows reorders every series in df according to sortCols, applied once
// (spec.md §5: "Final on-disk row order is given by the Table's
// sort_columns applied once per file"). Unknown sort columns are ignored,
// since U256 expansion may have dropped the raw column name.
func (df *DataFrame) SortRows(sortCols []string) {
	if df.NRows == 0 || len(sortCols) == 0 {
		return
	}
	var keys []Series
	for _, name := range sortCols {
		if s, ok := df.Column(name); ok {
			keys = append(keys, s)
		}
	}
	if len(keys) == 0 {
		return
	}
	perm := make([]int, df.NRows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		i, j := perm[a], perm[b]
		for _, k := range keys {
			lt, eq := k.less(i, j)
			if !eq {
				return lt
			}
		}
		return false
	})
	for idx := range df.Columns {
		df.Columns[idx].reorder(perm)
	}
}

// u256Series expands one UInt256 source column into one Series per
// requested representation (Design Notes §9: centralized here, the only
// place that computes suffixes and converts values).
func u256Series(name string, values []*uint256.Int, reps []U256Representation) []Series {
	out := make([]Series, 0, len(reps))
	for _, rep := range reps {
		s := Series{Name: name + rep.Suffix()}
		switch rep {
		case U256Binary:
			s.Type = ColBinary
			for _, v := range values {
				b := U256Value(v, rep).([]byte)
				s.Binary = append(s.Binary, b)
			}
		case U256Decimal:
			s.Type = ColString
			for _, v := range values {
				s.String = append(s.String, U256Value(v, rep).(string))
			}
		case U256F64:
			s.Type = ColFloat64
			for _, v := range values {
				s.Float64 = append(s.Float64, U256Value(v, rep).(float64))
			}
		case U256U64Low:
			s.Type = ColUInt64
			for _, v := range values {
				s.UInt64 = append(s.UInt64, U256Value(v, rep).(uint64))
			}
		}
		out = append(out, s)
	}
	return out
}
