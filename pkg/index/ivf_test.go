package index

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

func generateVectors(n, dim int) [][]float32 {
	rng := rand.New(rand.NewSource(1))
	vectors := make([][]float32, n)
	for i := range vectors {
		v := make([]float32, dim)
		for d := range v {
			v[d] = rng.Float32()
		}
		vectors[i] = v
	}
	return vectors
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestIVFIndexTrain(t *testing.T) {
	dim, parts := 16, 5
	ivf := NewIVFIndex(dim, parts)

	if err := ivf.Train(generateVectors(3, dim), 10); err == nil {
		t.Error("Train succeeded with insufficient data")
	}

	if err := ivf.Train(generateVectors(100, dim), 10); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if !ivf.Trained {
		t.Error("index not marked trained")
	}
	if len(ivf.Centroids) != parts {
		t.Errorf("got %d centroids, want %d", len(ivf.Centroids), parts)
	}
	for i, c := range ivf.Centroids {
		if len(c) != dim {
			t.Errorf("centroid %d has dimension %d, want %d", i, len(c), dim)
		}
	}
}

func TestIVFIndexAddAndSearch(t *testing.T) {
	dim, parts := 8, 4
	ivf := NewIVFIndex(dim, parts)

	if err := ivf.Add("x", make([]float32, dim)); err == nil {
		t.Error("Add succeeded on untrained index")
	}

	vectors := generateVectors(80, dim)
	if err := ivf.Train(vectors, 15); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	for i, v := range vectors {
		if err := ivf.Add(fmt.Sprintf("v%d", i), v); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if ivf.Len() != 80 {
		t.Errorf("Len = %d, want 80", ivf.Len())
	}

	ids, scores, err := ivf.Search(vectors[3], 5, 2, cosine)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 5 || len(scores) != 5 {
		t.Fatalf("got %d ids and %d scores, want 5", len(ids), len(scores))
	}
	// The query vector itself lives in some partition; probing every
	// partition must surface it first.
	ids, _, err = ivf.Search(vectors[3], 5, parts, cosine)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if ids[0] != "v3" {
		t.Errorf("best match = %s, want v3", ids[0])
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[i-1] {
			t.Error("scores not descending")
			break
		}
	}
}

func TestIVFIndexDimensionChecks(t *testing.T) {
	ivf := NewIVFIndex(4, 2)
	if err := ivf.Train(generateVectors(10, 4), 5); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := ivf.Add("bad", make([]float32, 3)); err == nil {
		t.Error("Add accepted wrong dimension")
	}
	if _, _, err := ivf.Search(make([]float32, 3), 1, 1, cosine); err == nil {
		t.Error("Search accepted wrong dimension")
	}
}
