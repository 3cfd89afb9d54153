// Package quantization provides vector compression for index storage.
package quantization

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ProductQuantizer implements product quantization: vectors are split into
// M subspaces and each sub-vector is replaced by the id of its nearest
// codebook centroid.
type ProductQuantizer struct {
	M         int           // Number of subspaces
	Bits      int           // Code width per subspace
	K         int           // Centroids per subspace (1 << Bits)
	D         int           // Original dimension
	SubDim    int           // Dimension per subspace (D/M)
	Codebooks [][][]float32 // M codebooks, each K x SubDim
	Trained   bool
}

// NewProductQuantizer creates an untrained PQ instance.
func NewProductQuantizer(dimension, numSubVectors, bits int) (*ProductQuantizer, error) {
	if numSubVectors <= 0 {
		return nil, errors.New("numSubVectors must be positive")
	}
	if dimension%numSubVectors != 0 {
		return nil, fmt.Errorf("dimension %d must be divisible by numSubVectors %d", dimension, numSubVectors)
	}
	if bits < 1 || bits > 16 {
		return nil, fmt.Errorf("bits must be in [1,16], got %d", bits)
	}

	return &ProductQuantizer{
		M:         numSubVectors,
		Bits:      bits,
		K:         1 << bits,
		D:         dimension,
		SubDim:    dimension / numSubVectors,
		Codebooks: make([][][]float32, numSubVectors),
	}, nil
}

// Train learns the codebooks from training data with at most maxIterations
// k-means rounds per subspace.
func (pq *ProductQuantizer) Train(vectors [][]float32, maxIterations int) error {
	if len(vectors) < pq.K {
		return fmt.Errorf("need at least %d vectors for training, got %d", pq.K, len(vectors))
	}

	for m := 0; m < pq.M; m++ {
		subs := make([][]float32, len(vectors))
		for i, v := range vectors {
			if len(v) != pq.D {
				return fmt.Errorf("vector dimension %d doesn't match quantizer dimension %d", len(v), pq.D)
			}
			subs[i] = v[m*pq.SubDim : (m+1)*pq.SubDim]
		}
		codebook, err := subKMeans(subs, pq.K, maxIterations)
		if err != nil {
			return fmt.Errorf("subspace %d training failed: %w", m, err)
		}
		pq.Codebooks[m] = codebook
	}
	pq.Trained = true
	return nil
}

// Encode quantizes a vector into M codes.
func (pq *ProductQuantizer) Encode(vector []float32) ([]uint16, error) {
	if !pq.Trained {
		return nil, errors.New("quantizer not trained")
	}
	if len(vector) != pq.D {
		return nil, fmt.Errorf("vector dimension %d doesn't match quantizer dimension %d", len(vector), pq.D)
	}

	codes := make([]uint16, pq.M)
	for m := 0; m < pq.M; m++ {
		sub := vector[m*pq.SubDim : (m+1)*pq.SubDim]
		best, bestDist := 0, math.Inf(1)
		for k, c := range pq.Codebooks[m] {
			d := squaredL2(sub, c)
			if d < bestDist {
				best, bestDist = k, d
			}
		}
		codes[m] = uint16(best)
	}
	return codes, nil
}

// Decode reconstructs an approximate vector from codes.
func (pq *ProductQuantizer) Decode(codes []uint16) ([]float32, error) {
	if !pq.Trained {
		return nil, errors.New("quantizer not trained")
	}
	if len(codes) != pq.M {
		return nil, fmt.Errorf("got %d codes, want %d", len(codes), pq.M)
	}

	out := make([]float32, 0, pq.D)
	for m, code := range codes {
		if int(code) >= pq.K {
			return nil, fmt.Errorf("code %d out of range for %d centroids", code, pq.K)
		}
		out = append(out, pq.Codebooks[m][code]...)
	}
	return out, nil
}

// CompressionRatio returns the storage reduction from quantization.
func (pq *ProductQuantizer) CompressionRatio() float64 {
	raw := float64(pq.D * 32)
	compressed := float64(pq.M * pq.Bits)
	return raw / compressed
}

// subKMeans clusters sub-vectors into k centroids.
func subKMeans(vectors [][]float32, k, maxIterations int) ([][]float32, error) {
	if len(vectors) < k {
		return nil, fmt.Errorf("need at least %d vectors, got %d", k, len(vectors))
	}
	dim := len(vectors[0])

	rng := rand.New(rand.NewSource(7))
	perm := rng.Perm(len(vectors))
	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float32(nil), vectors[perm[i]]...)
	}

	assign := make([]int, len(vectors))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for vi, v := range vectors {
			best, bestDist := 0, math.Inf(1)
			for ci, c := range centroids {
				d := squaredL2(v, c)
				if d < bestDist {
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

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
