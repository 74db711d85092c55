package orderkey

import (
	"testing"

	"github.com/fitz/taskflow/internal/models"
)

func TestAt(t *testing.T) {
	tests := []struct {
		position, offset int
		expected         float64
	}{
		{0, 0, 0},
		{1, 0, 1000},
		{3, 2, 3002},
	}
	for _, tc := range tests {
		if got := At(tc.position, tc.offset); got != tc.expected {
			t.Errorf("At(%d, %d) = %v, expected %v", tc.position, tc.offset, got, tc.expected)
		}
	}
}

func TestNeighbours(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   *float64
		expected float64
	}{
		{"both sides", models.Float(1000), models.Float(2000), 1500},
		{"only before", models.Float(3000), nil, 4000},
		{"only after", nil, models.Float(1000), 0},
		{"empty", nil, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Neighbours(tc.lo, tc.hi); got != tc.expected {
				t.Errorf("Neighbours() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestSpread(t *testing.T) {
	tests := []struct {
		name          string
		after, before float64
		count         int
		expected      []float64
	}{
		{"no count", 1000, 2000, 0, nil},
		{"empty list", 0, 0, 3, []float64{1000, 2000, 3000}},
		{"append", 3000, 0, 2, []float64{4000, 5000}},
		{"prepend", 0, 900, 2, []float64{300, 600}},
		{"between", 1000, 2000, 3, []float64{1250, 1500, 1750}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Spread(tc.after, tc.before, tc.count)
			if len(got) != len(tc.expected) {
				t.Fatalf("Spread() returned %d keys, expected %d", len(got), len(tc.expected))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("key %d = %v, expected %v", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestExhaustedAfterRepeatedMidpoints(t *testing.T) {
	lo, hi := 1000.0, 2000.0
	if Exhausted(lo, hi) {
		t.Fatal("fresh gap must not be exhausted")
	}

	steps := 0
	for !Exhausted(lo, hi) {
		hi = Between(lo, hi)
		steps++
		if steps > 200 {
			t.Fatal("gap never exhausted")
		}
	}
	if steps < 30 {
		t.Errorf("exhausted after only %d midpoint insertions", steps)
	}
}

func TestExhaustedEqualBounds(t *testing.T) {
	if !Exhausted(5, 5) {
		t.Error("equal bounds leave no room")
	}
}
