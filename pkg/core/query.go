package core

import "fmt"

// SearchQuery is the native search request the boundary layer decodes
// hosted query descriptors into.
type SearchQuery struct {
	Column       string       // Vector column to search
	Key          []float32    // Query vector
	TopK         int          // Number of results to return
	NProbes      int          // Partitions to probe when an IVF index is used
	EF           *int         // Optional candidate pool size during refine
	RefineFactor *uint32      // Optional candidate multiplier before reranking
	DistanceType DistanceType // Metric for scoring
	UseIndex     bool         // Prefer the trained index over a flat scan
}

// Validate checks the query against store expectations.
func (q *SearchQuery) Validate(dim int) error {
	if len(q.Key) == 0 {
		return ErrEmptyQuery
	}
	if dim > 0 && len(q.Key) != dim {
		return fmt.Errorf("%w: query has %d, store has %d", ErrInvalidDimension, len(q.Key), dim)
	}
	if q.TopK <= 0 {
		return fmt.Errorf("topK must be positive, got %d", q.TopK)
	}
	if q.NProbes < 0 {
		return fmt.Errorf("nprobes must be non-negative, got %d", q.NProbes)
	}
	return nil
}

// IndexParams are the native index build parameters the boundary layer
// decodes hosted index-params descriptors into. Nil tuning fields take
// engine defaults.
type IndexParams struct {
	MetricType    DistanceType
	NumPartitions *int32 // IVF partition count
	NumSubVectors *int32 // PQ sub-vector count
	NumBits       *int32 // PQ bits per code
	MaxIterations *int32 // k-means iteration cap
	SampleRate    *int32 // Training sample rate
}

// Defaults mirrors the engine's fallback choices for absent fields.
const (
	DefaultNumPartitions = 32
	DefaultNumSubVectors = 8
	DefaultNumBits       = 8
	DefaultMaxIterations = 20
	DefaultSampleRate    = 256
)

// Partitions returns the effective partition count.
func (p *IndexParams) Partitions() int {
	if p.NumPartitions != nil {
		return int(*p.NumPartitions)
	}
	return DefaultNumPartitions
}

// SubVectors returns the effective PQ sub-vector count.
func (p *IndexParams) SubVectors() int {
	if p.NumSubVectors != nil {
		return int(*p.NumSubVectors)
	}
	return DefaultNumSubVectors
}

// Bits returns the effective PQ code width.
func (p *IndexParams) Bits() int {
	if p.NumBits != nil {
		return int(*p.NumBits)
	}
	return DefaultNumBits
}

// Iterations returns the effective k-means iteration cap.
func (p *IndexParams) Iterations() int {
	if p.MaxIterations != nil {
		return int(*p.MaxIterations)
	}
	return DefaultMaxIterations
}

// Samples returns the effective training sample rate.
func (p *IndexParams) Samples() int {
	if p.SampleRate != nil {
		return int(*p.SampleRate)
	}
	return DefaultSampleRate
}

// Validate checks the parameters for values the engine cannot honor.
func (p *IndexParams) Validate() error {
	if p.NumPartitions != nil && *p.NumPartitions <= 0 {
		return fmt.Errorf("numPartitions must be positive, got %d", *p.NumPartitions)
	}
	if p.NumSubVectors != nil && *p.NumSubVectors <= 0 {
		return fmt.Errorf("numSubVectors must be positive, got %d", *p.NumSubVectors)
	}
	if p.NumBits != nil && (*p.NumBits < 1 || *p.NumBits > 16) {
		return fmt.Errorf("numBits must be in [1,16], got %d", *p.NumBits)
	}
	if p.MaxIterations != nil && *p.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations must be positive, got %d", *p.MaxIterations)
	}
	if p.SampleRate != nil && *p.SampleRate <= 0 {
		return fmt.Errorf("sampleRate must be positive, got %d", *p.SampleRate)
	}
	return nil
}
