package core

import "testing"

func TestBuildSchemaDefaultSubset(t *testing.T) {
	table, err := BuildSchema(Blocks, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	if len(table.Columns) == 0 {
		t.Fatal("BuildSchema with no request should select the datatype's default column subset")
	}
	for _, c := range table.Columns {
		if !table.HasColumn(c) {
			t.Fatalf("HasColumn(%q) = false, want true", c)
		}
	}
}

func TestBuildSchemaIncludeUnknownColumn(t *testing.T) {
	_, err := BuildSchema(Blocks, SchemaRequest{IncludeColumns: []string{"not_a_real_column"}})
	if err == nil {
		t.Fatal("BuildSchema should reject an unknown --include-columns entry")
	}
}

func TestBuildSchemaExcludeNarrowsSelection(t *testing.T) {
	base, err := BuildSchema(Blocks, SchemaRequest{})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	if len(base.Columns) == 0 {
		t.Fatal("expected at least one default column to exclude")
	}
	excluded := base.Columns[0]
	narrowed, err := BuildSchema(Blocks, SchemaRequest{ExcludeColumns: []string{excluded}})
	if err != nil {
		t.Fatalf("BuildSchema err = %v", err)
	}
	if narrowed.HasColumn(excluded) {
		t.Fatalf("excluded column %q still present after --exclude-columns", excluded)
	}
	if len(narrowed.Columns) != len(base.Columns)-1 {
		t.Fatalf("narrowed column count = %d, want %d", len(narrowed.Columns), len(base.Columns)-1)
	}
}

func TestBuildSchemasRejectsCustomSortWithMultipleDatatypes(t *testing.T) {
	_, err := BuildSchemas([]Datatype{Blocks, Transactions}, SchemaRequest{}, []string{"block_number"})
	if err == nil {
		t.Fatal("BuildSchemas should reject --sort with more than one datatype")
	}
}

func TestBuildSchemasCustomSortMustBeSelected(t *testing.T) {
	_, err := BuildSchemas([]Datatype{Blocks}, SchemaRequest{}, []string{"definitely_not_a_column"})
	if err == nil {
		t.Fatal("BuildSchemas should reject a --sort column that isn't selected")
	}
}
