package core

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vexdb/vex/internal/encoding"
	"github.com/vexdb/vex/pkg/index"
	"github.com/vexdb/vex/pkg/quantization"

	_ "modernc.org/sqlite" // SQLite driver
)

// Embedding represents a vector with associated payload
type Embedding struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Content string    `json:"content"`
}

// ScoredEmbedding represents an embedding with similarity score
type ScoredEmbedding struct {
	Embedding
	Score float64 `json:"score"`
}

// VectorStore is the native engine the boundary layer feeds decoded values
// into. It stores vectors in SQLite and serves searches either by flat scan
// or through a trained IVF index.
type VectorStore struct {
	db        *sql.DB
	config    Config
	mu        sync.RWMutex
	closed    bool
	ivfIndex  *index.IVFIndex
	quantizer *quantization.ProductQuantizer
	logger    Logger
}

// New creates a new vector store at path with the given dimension.
func New(path string, vectorDim int) (*VectorStore, error) {
	config := DefaultConfig()
	config.Path = path
	config.VectorDim = vectorDim
	return NewWithConfig(config)
}

// NewWithConfig creates a new vector store with custom configuration
func NewWithConfig(config Config) (*VectorStore, error) {
	if config.Path == "" {
		return nil, wrapError("init", fmt.Errorf("%w: database path cannot be empty", ErrInvalidConfig))
	}
	if config.VectorDim < 0 {
		return nil, wrapError("init", fmt.Errorf("%w: vector dimension must be non-negative", ErrInvalidConfig))
	}
	if config.Column == "" {
		config.Column = DefaultColumn
	}
	if config.Logger == nil {
		config.Logger = NopLogger()
	}
	return &VectorStore{config: config, logger: config.Logger}, nil
}

// Init opens the database and creates necessary tables
func (s *VectorStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("init", ErrStoreClosed)
	}

	// WAL for concurrency, NORMAL sync for balance, busy timeout instead
	// of immediate lock failures.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", s.config.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return wrapError("init", fmt.Errorf("failed to open database: %w", err))
	}

	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		id      TEXT PRIMARY KEY,
		vector  BLOB NOT NULL,
		content TEXT
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return wrapError("init", fmt.Errorf("failed to create schema: %w", err))
	}

	s.db = db
	s.logger.Info("store initialized", "path", s.config.Path, "dim", s.config.VectorDim)
	return nil
}

// Close closes the store
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Upsert inserts or updates a single embedding. An empty ID gets a fresh
// one assigned.
func (s *VectorStore) Upsert(ctx context.Context, emb *Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("upsert", ErrStoreClosed)
	}
	if len(emb.Vector) == 0 {
		return wrapError("upsert", ErrInvalidDimension)
	}

	// Auto-detect dimension on first insert.
	if s.config.VectorDim == 0 {
		s.config.VectorDim = len(emb.Vector)
	}
	if len(emb.Vector) != s.config.VectorDim {
		return wrapError("upsert", fmt.Errorf("%w: vector has %d, store has %d",
			ErrInvalidDimension, len(emb.Vector), s.config.VectorDim))
	}

	if emb.ID == "" {
		emb.ID = uuid.NewString()
	}

	blob, err := encoding.EncodeVector(emb.Vector)
	if err != nil {
		return wrapError("upsert", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embeddings (id, vector, content) VALUES (?, ?, ?)",
		emb.ID, blob, emb.Content,
	)
	if err != nil {
		return wrapError("upsert", err)
	}

	// A trained index keeps serving but no longer covers this vector.
	if s.ivfIndex != nil && s.ivfIndex.Trained {
		if err := s.ivfIndex.Add(emb.ID, emb.Vector); err != nil {
			s.logger.Warn("failed to index upserted vector", "id", emb.ID, "error", err)
		}
	}
	return nil
}

// Count returns the number of stored embeddings.
func (s *VectorStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, wrapError("count", ErrStoreClosed)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, wrapError("count", err)
	}
	return n, nil
}

// Search executes a decoded query. With UseIndex set and a trained IVF
// index available it probes NProbes partitions, over-fetches by
// RefineFactor, and reranks on raw vectors; otherwise it scans flat.
func (s *VectorStore) Search(ctx context.Context, q *SearchQuery) ([]ScoredEmbedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("search", ErrStoreClosed)
	}
	if q.Column != "" && q.Column != s.config.Column {
		return nil, wrapError("search", fmt.Errorf("%w: %q", ErrUnknownColumn, q.Column))
	}
	if err := q.Validate(s.config.VectorDim); err != nil {
		return nil, wrapError("search", err)
	}

	sim := q.DistanceType.Similarity()

	if q.UseIndex && s.ivfIndex != nil && s.ivfIndex.Trained {
		return s.searchWithIVF(ctx, q, sim)
	}
	return s.searchFlat(ctx, q, sim)
}

func (s *VectorStore) searchFlat(ctx context.Context, q *SearchQuery, sim SimilarityFunc) ([]ScoredEmbedding, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, vector, content FROM embeddings")
	if err != nil {
		return nil, wrapError("search", err)
	}
	defer rows.Close()

	var results []ScoredEmbedding
	for rows.Next() {
		var emb Embedding
		var blob []byte
		if err := rows.Scan(&emb.ID, &blob, &emb.Content); err != nil {
			return nil, wrapError("search", err)
		}
		vec, err := encoding.DecodeVector(blob)
		if err != nil {
			return nil, wrapError("search", err)
		}
		emb.Vector = vec
		results = append(results, ScoredEmbedding{Embedding: emb, Score: sim(q.Key, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("search", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > q.TopK {
		results = results[:q.TopK]
	}
	return results, nil
}

func (s *VectorStore) searchWithIVF(ctx context.Context, q *SearchQuery, sim SimilarityFunc) ([]ScoredEmbedding, error) {
	// Over-fetch candidates when a refine factor is given, then rerank on
	// the stored raw vectors.
	n := q.TopK
	if q.RefineFactor != nil {
		n = q.TopK * int(*q.RefineFactor)
	}
	if q.EF != nil && *q.EF > n {
		n = *q.EF
	}

	ids, _, err := s.ivfIndex.Search(q.Key, n, q.NProbes, index.SimilarityFunc(sim))
	if err != nil {
		return nil, wrapError("search", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	results := make([]ScoredEmbedding, 0, len(ids))
	for _, id := range ids {
		var emb Embedding
		var blob []byte
		err := s.db.QueryRowContext(ctx,
			"SELECT id, vector, content FROM embeddings WHERE id = ?", id,
		).Scan(&emb.ID, &blob, &emb.Content)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, wrapError("search", err)
		}
		vec, err := encoding.DecodeVector(blob)
		if err != nil {
			return nil, wrapError("search", err)
		}
		emb.Vector = vec
		results = append(results, ScoredEmbedding{Embedding: emb, Score: sim(q.Key, vec)})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > q.TopK {
		results = results[:q.TopK]
	}
	return results, nil
}

// BuildIndex trains an IVF index (and a product quantizer when sub-vector
// parameters are present) over the stored vectors.
func (s *VectorStore) BuildIndex(ctx context.Context, params *IndexParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("build_index", ErrStoreClosed)
	}
	if err := params.Validate(); err != nil {
		return wrapError("build_index", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, vector FROM embeddings")
	if err != nil {
		return wrapError("build_index", err)
	}
	defer rows.Close()

	var ids []string
	var vectors [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return wrapError("build_index", err)
		}
		vec, err := encoding.DecodeVector(blob)
		if err != nil {
			return wrapError("build_index", err)
		}
		ids = append(ids, id)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return wrapError("build_index", err)
	}
	if len(vectors) == 0 {
		return wrapError("build_index", fmt.Errorf("no vectors to index"))
	}
	if s.config.VectorDim == 0 {
		s.config.VectorDim = len(vectors[0])
	}

	partitions := params.Partitions()
	if partitions > len(vectors) {
		partitions = len(vectors)
	}

	// Cap the training set: sample rate bounds samples per partition.
	training := vectors
	if maxTrain := partitions * params.Samples(); len(training) > maxTrain {
		training = training[:maxTrain]
	}

	ivf := index.NewIVFIndex(s.config.VectorDim, partitions)
	if err := ivf.Train(training, params.Iterations()); err != nil {
		return wrapError("build_index", err)
	}
	for i, id := range ids {
		if err := ivf.Add(id, vectors[i]); err != nil {
			return wrapError("build_index", err)
		}
	}

	if params.NumSubVectors != nil {
		pq, err := quantization.NewProductQuantizer(s.config.VectorDim, params.SubVectors(), params.Bits())
		if err != nil {
			return wrapError("build_index", err)
		}
		if err := pq.Train(training, params.Iterations()); err != nil {
			return wrapError("build_index", err)
		}
		s.quantizer = pq
		s.logger.Info("product quantizer trained",
			"subVectors", pq.M, "bits", pq.Bits, "compression", pq.CompressionRatio())
	}

	s.ivfIndex = ivf
	s.logger.Info("ivf index built",
		"partitions", partitions, "vectors", ivf.Len(), "metric", params.MetricType.String())
	return nil
}

// Quantizer exposes the trained product quantizer, if any.
func (s *VectorStore) Quantizer() *quantization.ProductQuantizer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quantizer
}

// HasIndex reports whether a trained IVF index is serving searches.
func (s *VectorStore) HasIndex() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ivfIndex != nil && s.ivfIndex.Trained
}
