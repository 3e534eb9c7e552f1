package core

import "github.com/holiman/uint256"

// Columns is implemented by every dataset's per-partition column builder
// (e.g. blocksColumns, balanceDiffsColumns). It is the Go analogue of
// original_source's `Dataset` + `ToDataFrames` traits: a mutable aggregate
// of parallel vectors plus n_rows, convertible to a DataFrame once a
// Partition's transform pass completes (spec.md §3 ColumnBuilder).
type Columns interface {
	NRows() int
	CreateDataFrame(schema Table) DataFrame
}

// columnSource is what a dataset's CreateDataFrame hands to BuildDataFrame:
// one pre-built Series per non-U256 selected column, and one raw
// *uint256.Int slice per UInt256 selected column (expanded centrally by
// BuildDataFrame via u256Series).
type columnSource struct {
	scalar map[string]Series
	u256   map[string][]*uint256.Int
}

func newColumnSource() columnSource {
	return columnSource{scalar: map[string]Series{}, u256: map[string][]*uint256.Int{}}
}

// BuildDataFrame assembles the final DataFrame for one Datatype from a
// columnSource, emitting columns in schema.Columns order (U256 columns
// expand to their requested representations). This is the single place
// dataset builders call into to honor invariant 2 (§8): every emitted
// column's name is one of the schema's selected/U256-expanded columns, and
// no column appears twice.
func BuildDataFrame(d Datatype, schema Table, nRows int, src columnSource) DataFrame {
	df := DataFrame{Datatype: d, NRows: nRows}
	for _, col := range schema.Columns {
		if schema.Types[col] == ColUInt256 {
			df.Columns = append(df.Columns, u256Series(col, src.u256[col], schema.U256Reps[col])...)
			continue
		}
		if s, ok := src.scalar[col]; ok {
			s.Name = col
			df.Columns = append(df.Columns, s)
		}
	}
	df.SortRows(schema.SortColumns)
	return df
}

// series helpers: one constructor per ColumnType, used by dataset builders
// to turn an accumulated Column[T] into a Series only when selected.

func boolSeries(col *Column[bool]) Series    { return Series{Type: ColBool, Bool: col.Values()} }
func u32Series(col *Column[uint32]) Series   { return Series{Type: ColUInt32, UInt32: col.Values()} }
func u64Series(col *Column[uint64]) Series   { return Series{Type: ColUInt64, UInt64: col.Values()} }
func i32Series(col *Column[int32]) Series    { return Series{Type: ColInt32, Int32: col.Values()} }
func i64Series(col *Column[int64]) Series    { return Series{Type: ColInt64, Int64: col.Values()} }
func f64Series(col *Column[float64]) Series  { return Series{Type: ColFloat64, Float64: col.Values()} }
func strSeries(col *Column[string]) Series   { return Series{Type: ColString, String: col.Values()} }
func binSeries(col *Column[[]byte]) Series   { return Series{Type: ColBinary, Binary: col.Values()} }
