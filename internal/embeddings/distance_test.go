package embeddings

import (
	"math"
	"testing"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 0},
		{"scaled copy", []float32{1, 2, 3}, []float32{2, 4, 6}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineDistance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineDistance failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineDistance_DimensionMismatch(t *testing.T) {
	if _, err := CosineDistance([]float32{1, 2}, []float32{1, 2, 3}); err == nil {
		t.Fatal("expected error on dimension mismatch")
	}
}

func TestTopK(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1},      // distance 1
		{1, 0.1},    // near 0
		{-1, 0},     // distance 2
		{1, 0},      // distance 0
		{1, 2, 3},   // wrong dimension, skipped
	}

	got := TopK(query, candidates, 3)
	if len(got) != 3 {
		t.Fatalf("TopK returned %d neighbors, want 3", len(got))
	}

	// Nearest first: exact match, then the near-match, then the orthogonal one.
	wantOrder := []int{3, 1, 0}
	for i, want := range wantOrder {
		if got[i].Index != want {
			t.Errorf("neighbor %d has index %d, want %d", i, got[i].Index, want)
		}
	}

	// Distances must be non-decreasing.
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("distances not non-decreasing: %v", got)
		}
	}
}

func TestTopK_Bounds(t *testing.T) {
	candidates := [][]float32{{1, 0}, {0, 1}}

	if got := TopK([]float32{1, 0}, candidates, 10); len(got) != 2 {
		t.Errorf("k larger than candidates: got %d, want 2", len(got))
	}
	if got := TopK([]float32{1, 0}, candidates, 0); got != nil {
		t.Errorf("k=0 should return nil, got %v", got)
	}
}

func TestTopK_TiesKeepInsertionOrder(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1},  // tie at distance 1
		{0, -1}, // tie at distance 1
	}

	got := TopK(query, candidates, 2)
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("ties must keep insertion order, got %v", got)
	}
}
