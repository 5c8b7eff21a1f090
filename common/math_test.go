package common

import (
	"math"
	"testing"
)

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Fatalf("Lerp(0,10,0.5) = %v", got)
	}
	if got := Lerp(2, 2, 0.75); got != 2 {
		t.Fatalf("Lerp between equal endpoints = %v", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want float64 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v,%v,%v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestDampConvergesAndIsStable(t *testing.T) {
	// After exactly one half-life the gap halves.
	got := Damp(0, 100, 0.5, 0.5)
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("one half-life = %v, want 50", got)
	}
	// Zero half-life snaps.
	if got := Damp(0, 100, 0, 0.016); got != 100 {
		t.Fatalf("zero half-life = %v, want snap to 100", got)
	}
}
