package embeddings

import (
	"fmt"
	"math"
	"sort"
)

// CosineDistance returns 1 - cosine similarity of a and b, so identical
// directions score 0 and opposite directions score 2. Vectors must have the
// same length; a zero vector has maximal distance to everything.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("CosineDistance: dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2, nil
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}

// Neighbor is one ranked candidate from TopK. Index refers back to the
// candidate slice passed in.
type Neighbor struct {
	Index    int
	Distance float64
}

// TopK ranks candidates by cosine distance to query and returns at most k
// neighbors, nearest first. Ties keep insertion order. Candidates whose
// dimension does not match the query are skipped.
func TopK(query []float32, candidates [][]float32, k int) []Neighbor {
	if k <= 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(candidates))
	for i, c := range candidates {
		d, err := CosineDistance(query, c)
		if err != nil {
			continue
		}
		neighbors = append(neighbors, Neighbor{Index: i, Distance: d})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
