package core

import "testing"

func u64p(v uint64) *uint64 { return &v }

func TestCalibrateDefaults(t *testing.T) {
	chunks, blocks, err := Calibrate(nil, nil, nil)
	if err != nil {
		t.Fatalf("Calibrate(nil,nil,nil) err = %v", err)
	}
	if chunks != 32 || blocks != 3 {
		t.Fatalf("Calibrate(nil,nil,nil) = (%d,%d), want (32,3)", chunks, blocks)
	}
}

func TestCalibrateRequestsOnly(t *testing.T) {
	chunks, blocks, err := Calibrate(u64p(90), nil, nil)
	if err != nil {
		t.Fatalf("Calibrate err = %v", err)
	}
	if chunks != 30 || blocks != 3 {
		t.Fatalf("Calibrate(90,nil,nil) = (%d,%d), want (30,3)", chunks, blocks)
	}
}

func TestCalibrateAllThreeConsistent(t *testing.T) {
	chunks, blocks, err := Calibrate(u64p(12), u64p(4), u64p(3))
	if err != nil {
		t.Fatalf("Calibrate err = %v", err)
	}
	if chunks != 4 || blocks != 3 {
		t.Fatalf("Calibrate(12,4,3) = (%d,%d), want (4,3)", chunks, blocks)
	}
}

func TestCalibrateAllThreeInconsistent(t *testing.T) {
	if _, _, err := Calibrate(u64p(10), u64p(4), u64p(3)); err == nil {
		t.Fatal("Calibrate should reject r != c*b")
	}
}

func TestCalibrateRejectsZero(t *testing.T) {
	if _, _, err := Calibrate(u64p(0), nil, nil); err == nil {
		t.Fatal("Calibrate should reject a supplied zero cap")
	}
}
