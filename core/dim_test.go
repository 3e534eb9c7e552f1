package core

import "testing"

func TestDimStringAndPlural(t *testing.T) {
	if DimCallData.String() != "call_data" {
		t.Fatalf("DimCallData.String() = %q, want %q", DimCallData.String(), "call_data")
	}
	if DimCallData.Plural() != "call_datas" {
		t.Fatalf("DimCallData.Plural() = %q, want %q", DimCallData.Plural(), "call_datas")
	}
}

func TestDimValid(t *testing.T) {
	if !DimAddress.Valid() {
		t.Fatal("DimAddress should be valid")
	}
	if Dim(-1).Valid() {
		t.Fatal("Dim(-1) should be invalid")
	}
	if Dim(1000).Valid() {
		t.Fatal("Dim(1000) should be invalid")
	}
}

func TestAllDimsIncludesCallData(t *testing.T) {
	found := false
	for _, d := range AllDims() {
		if d == DimCallData {
			found = true
		}
	}
	if !found {
		t.Fatal("AllDims() should include DimCallData")
	}
}
