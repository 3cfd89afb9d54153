package core

import (
	"fmt"
	"math"
	"strings"
)

// DistanceType names the metric used to compare vectors.
type DistanceType int

const (
	DistanceL2 DistanceType = iota
	DistanceCosine
	DistanceDot
)

// String returns the wire name of the distance type.
func (d DistanceType) String() string {
	switch d {
	case DistanceL2:
		return "l2"
	case DistanceCosine:
		return "cosine"
	case DistanceDot:
		return "dot"
	default:
		return "unknown"
	}
}

// ParseDistanceType parses a wire name into a distance type.
func ParseDistanceType(s string) (DistanceType, error) {
	switch strings.ToLower(s) {
	case "l2", "euclidean":
		return DistanceL2, nil
	case "cosine":
		return DistanceCosine, nil
	case "dot":
		return DistanceDot, nil
	default:
		return 0, fmt.Errorf("unknown distance type %q", s)
	}
}

// SimilarityFunc calculates similarity between two vectors; higher means
// more similar.
type SimilarityFunc func(a, b []float32) float64

// Similarity returns the similarity function for the distance type.
func (d DistanceType) Similarity() SimilarityFunc {
	switch d {
	case DistanceCosine:
		return CosineSimilarity
	case DistanceDot:
		return DotProduct
	default:
		return EuclideanDist
	}
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	// Handle zero vectors
	if normA == 0.0 || normB == 0.0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// DotProduct calculates the dot product between two vectors.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var result float64
	for i := 0; i < len(a); i++ {
		result += float64(a[i]) * float64(b[i])
	}
	return result
}

// EuclideanDist calculates negative Euclidean distance for similarity
// ranking. Returns negative distance so higher values indicate more
// similarity.
func EuclideanDist(a, b []float32) float64 {
	if len(a) != len(b) {
		return -math.Inf(1)
	}

	var sum float64
	for i := 0; i < len(a); i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return -math.Sqrt(sum)
}
