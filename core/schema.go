package core


// Table is the frozen, per-run schema for one Datatype: selected columns,
// their types, sort keys, and U256 representations (spec.md §3).
type Table struct {
	Datatype       Datatype
	Columns        []string // ordered, selected column names (pre U256-expansion)
	Types          map[string]ColumnType
	SortColumns    []string
	U256Reps       map[string][]U256Representation // per-column requested representations
	BinaryEncoding BinaryEncoding
}

// HasColumn reports whether col is selected by this schema.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// OutputColumns returns the final list of columns this schema emits to a
// dataframe/file, after U256 expansion (spec.md §3: "each chosen
// U256Representation emits one output column named <col><suffix>").
func (t Table) OutputColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if t.Types[c] == ColUInt256 {
			out = append(out, ExpandU256Column(c, t.U256Reps[c])...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// SchemaRequest is the user's column selection input for one datatype.
type SchemaRequest struct {
	IncludeColumns []string // nil means "use the datatype's default subset"
	ExcludeColumns []string
	U256Reps       []U256Representation // applies to every UInt256 column; defaults to [U256Binary] when empty
	BinaryEncoding BinaryEncoding
}

// BuildSchema resolves one Datatype's Table for a run (spec.md §4.2):
// start from the datatype's full column set, intersect with
// IncludeColumns if provided (else take the default subset), then subtract
// ExcludeColumns.
func BuildSchema(d Datatype, req SchemaRequest) (Table, error) {
	specs := d.Columns()
	byName := make(map[string]ColumnSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}

	var base []string
	if req.IncludeColumns != nil {
		for _, name := range req.IncludeColumns {
			if _, ok := byName[name]; !ok {
				return Table{}, BadSchemaf("datatype %s has no column %q", d.Name(), name)
			}
			base = append(base, name)
		}
	} else {
		for _, s := range specs {
			if s.Default {
				base = append(base, s.Name)
			}
		}
	}

	excluded := make(map[string]bool, len(req.ExcludeColumns))
	for _, name := range req.ExcludeColumns {
		excluded[name] = true
	}

	var cols []string
	types := make(map[string]ColumnType)
	u256reps := make(map[string][]U256Representation)
	reps := req.U256Reps
	if len(reps) == 0 {
		reps = []U256Representation{U256Binary}
	}
	for _, name := range base {
		if excluded[name] {
			continue
		}
		cols = append(cols, name)
		spec := byName[name]
		types[name] = spec.Type
		if spec.Type == ColUInt256 {
			u256reps[name] = reps
		}
	}

	sortCols := d.DefaultSort()

	return Table{
		Datatype:       d,
		Columns:        cols,
		Types:          types,
		SortColumns:    sortCols,
		U256Reps:       u256reps,
		BinaryEncoding: req.BinaryEncoding,
	}, nil
}

// Schemas is a frozen mapping of Datatype -> Table for a run.
type Schemas map[Datatype]Table

// BuildSchemas resolves schemas for every requested datatype. customSort
// overrides each table's SortColumns, but only when exactly one datatype is
// selected (spec.md §4.2: "Reject custom sort with multiple datatypes").
func BuildSchemas(datatypes []Datatype, req SchemaRequest, customSort []string) (Schemas, error) {
	if len(customSort) > 0 && len(datatypes) > 1 {
		return nil, BadSchema("custom --sort is only valid with exactly one datatype")
	}
	out := make(Schemas, len(datatypes))
	for _, d := range datatypes {
		t, err := BuildSchema(d, req)
		if err != nil {
			return nil, err
		}
		if len(customSort) > 0 {
			for _, c := range customSort {
				if !t.HasColumn(c) {
					return nil, BadSchemaf("sort column %q is not selected for datatype %s", c, d.Name())
				}
			}
			t.SortColumns = append([]string(nil), customSort...)
		}
		out[d] = t
	}
	return out, nil
}
