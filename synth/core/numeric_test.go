package core

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
		// Swapped bounds are reordered.
		{5, 10, 0, 5},
		{-1, 10, 0, 0},
	}

	for _, c := range cases {
		got := Clamp(c.value, c.min, c.max)
		if got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Error("values within eps reported unequal")
	}

	if NearlyEqual(1.0, 1.1, 1e-12) {
		t.Error("distinct values reported equal")
	}

	// Relative comparison for large magnitudes.
	if !NearlyEqual(1e12, 1e12+1, 1e-9) {
		t.Error("relatively close large values reported unequal")
	}

	if !NearlyEqual(0, 0, 1e-12) {
		t.Error("zeros reported unequal")
	}
}

func TestDBToLinear_RoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -20, -6, 0, 6, 20} {
		lin := DBToLinear(db)
		back := LinearToDB(lin)
		if !almostEqual(back, db, 1e-9) {
			t.Errorf("round trip of %v dB gives %v", db, back)
		}
	}

	if DBToLinear(0) != 1 {
		t.Errorf("0 dB should be unity, got %v", DBToLinear(0))
	}

	if !almostEqual(DBToLinear(-20), 0.1, 1e-12) {
		t.Errorf("-20 dB should be 0.1, got %v", DBToLinear(-20))
	}
}

func TestLinearToDB_Boundaries(t *testing.T) {
	if !math.IsInf(LinearToDB(0), -1) {
		t.Errorf("LinearToDB(0) = %v, want -Inf", LinearToDB(0))
	}

	if !math.IsNaN(LinearToDB(-1)) {
		t.Errorf("LinearToDB(-1) = %v, want NaN", LinearToDB(-1))
	}
}

func TestCentsRatio(t *testing.T) {
	cases := []struct {
		cents, want float64
	}{
		{0, 1},
		{1200, 2},
		{-1200, 0.5},
		{700, math.Pow(2, 700.0/1200)},
	}

	for _, c := range cases {
		got := CentsRatio(c.cents)
		if !almostEqual(got, c.want, 1e-12) {
			t.Errorf("CentsRatio(%v) = %v, want %v", c.cents, got, c.want)
		}
	}
}

func TestRatioCents_InverseOfCentsRatio(t *testing.T) {
	for _, cents := range []float64{-2400, -100, 0, 50, 1200, 1901.955} {
		back := RatioCents(CentsRatio(cents))
		if !almostEqual(back, cents, 1e-9) {
			t.Errorf("round trip of %v cents gives %v", cents, back)
		}
	}

	if RatioCents(0) != 0 {
		t.Errorf("RatioCents(0) = %v, want 0", RatioCents(0))
	}

	if RatioCents(-1) != 0 {
		t.Errorf("RatioCents(-1) = %v, want 0", RatioCents(-1))
	}
}

func TestNextPowerOf2(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{255, 256},
		{256, 256},
		{257, 512},
	}

	for _, c := range cases {
		if got := NextPowerOf2(c.n); got != c.want {
			t.Errorf("NextPowerOf2(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
