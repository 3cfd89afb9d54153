// Package index provides the indexing structures behind approximate vector
// search.
package index

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// SimilarityFunc scores two vectors; higher means more similar.
type SimilarityFunc func(a, b []float32) float64

// IVFIndex implements an inverted-file index: vectors are partitioned by
// nearest centroid and search probes only the closest partitions.
type IVFIndex struct {
	NPartitions int         // Number of cluster centroids
	Dimension   int         // Vector dimension
	Centroids   [][]float32 // Cluster centroids
	Trained     bool

	invlists [][]int // Vector positions per partition
	ids      []string
	vectors  [][]float32
	mu       sync.RWMutex
}

// NewIVFIndex creates an untrained IVF index.
func NewIVFIndex(dimension, nPartitions int) *IVFIndex {
	return &IVFIndex{
		NPartitions: nPartitions,
		Dimension:   dimension,
		invlists:    make([][]int, nPartitions),
	}
}

// Train learns partition centroids from training data with at most
// maxIterations rounds of k-means.
func (ivf *IVFIndex) Train(vectors [][]float32, maxIterations int) error {
	if len(vectors) < ivf.NPartitions {
		return fmt.Errorf("need at least %d vectors for training, got %d", ivf.NPartitions, len(vectors))
	}

	centroids, err := kMeans(vectors, ivf.NPartitions, maxIterations)
	if err != nil {
		return fmt.Errorf("k-means training failed: %w", err)
	}

	ivf.mu.Lock()
	defer ivf.mu.Unlock()
	ivf.Centroids = centroids
	ivf.Trained = true
	for i := range ivf.invlists {
		ivf.invlists[i] = nil
	}
	ivf.ids = nil
	ivf.vectors = nil
	return nil
}

// Add places a vector in the partition of its nearest centroid.
func (ivf *IVFIndex) Add(id string, vector []float32) error {
	ivf.mu.Lock()
	defer ivf.mu.Unlock()

	if !ivf.Trained {
		return fmt.Errorf("index not trained")
	}
	if len(vector) != ivf.Dimension {
		return fmt.Errorf("vector dimension %d doesn't match index dimension %d", len(vector), ivf.Dimension)
	}

	part := ivf.nearestCentroid(vector)
	pos := len(ivf.vectors)
	ivf.invlists[part] = append(ivf.invlists[part], pos)
	ivf.vectors = append(ivf.vectors, vector)
	ivf.ids = append(ivf.ids, id)
	return nil
}

// Len returns the number of indexed vectors.
func (ivf *IVFIndex) Len() int {
	ivf.mu.RLock()
	defer ivf.mu.RUnlock()
	return len(ivf.vectors)
}

// Search returns up to n candidate ids from the nprobe partitions nearest
// the query, ranked by sim. Candidates preserve ranking order.
func (ivf *IVFIndex) Search(query []float32, n, nprobe int, sim SimilarityFunc) ([]string, []float64, error) {
	ivf.mu.RLock()
	defer ivf.mu.RUnlock()

	if !ivf.Trained {
		return nil, nil, fmt.Errorf("index not trained")
	}
	if len(query) != ivf.Dimension {
		return nil, nil, fmt.Errorf("query dimension %d doesn't match index dimension %d", len(query), ivf.Dimension)
	}
	if nprobe <= 0 || nprobe > ivf.NPartitions {
		nprobe = ivf.NPartitions
	}

	// Rank partitions by centroid similarity.
	type scored struct {
		idx   int
		score float64
	}
	parts := make([]scored, len(ivf.Centroids))
	for i, c := range ivf.Centroids {
		parts[i] = scored{idx: i, score: sim(query, c)}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].score > parts[j].score })

	var candidates []scored
	for _, p := range parts[:nprobe] {
		for _, pos := range ivf.invlists[p.idx] {
			candidates = append(candidates, scored{idx: pos, score: sim(query, ivf.vectors[pos])})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	ids := make([]string, len(candidates))
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		ids[i] = ivf.ids[c.idx]
		scores[i] = c.score
	}
	return ids, scores, nil
}

func (ivf *IVFIndex) nearestCentroid(vector []float32) int {
	best, bestDist := 0, float64(-1)
	for i, c := range ivf.Centroids {
		d := negSquaredL2(vector, c)
		if bestDist == -1 || d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// kMeans clusters vectors into k centroids, stopping after maxIterations
// rounds or on convergence.
func kMeans(vectors [][]float32, k, maxIterations int) ([][]float32, error) {
	if len(vectors) == 0 || k <= 0 {
		return nil, fmt.Errorf("invalid k-means input: %d vectors, k=%d", len(vectors), k)
	}
	dim := len(vectors[0])

	// Seed centroids from distinct random vectors.
	rng := rand.New(rand.NewSource(42))
	perm := rng.Perm(len(vectors))
	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float32(nil), vectors[perm[i]]...)
	}

	assign := make([]int, len(vectors))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for vi, v := range vectors {
			best, bestDist := 0, float64(-1)
			for ci, c := range centroids {
				d := negSquaredL2(v, c)
				if bestDist == -1 || d > bestDist {
					best, bestDist = ci, d
				}
			}
			if assign[vi] != best {
				assign[vi] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for vi, v := range vectors {
			c := assign[vi]
			counts[c]++
			for d := 0; d < dim; d++ {
				sums[c][d] += float64(v[d])
			}
		}
		for ci := range centroids {
			if counts[ci] == 0 {
				// Re-seed an empty cluster.
				centroids[ci] = append([]float32(nil), vectors[rng.Intn(len(vectors))]...)
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[ci][d] = float32(sums[ci][d] / float64(counts[ci]))
			}
		}
	}
	return centroids, nil
}

func negSquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return -sum
}
