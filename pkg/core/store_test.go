package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T, dim int) *VectorStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"), dim)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewWithConfig(t *testing.T) {
	if _, err := NewWithConfig(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty path error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewWithConfig(Config{Path: "x.db", VectorDim: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative dim error = %v, want ErrInvalidConfig", err)
	}
}

func TestUpsertAndCount(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)

	emb := &Embedding{Vector: []float32{1, 2, 3}, Content: "hello"}
	if err := store.Upsert(ctx, emb); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if emb.ID == "" {
		t.Error("Upsert did not assign an ID")
	}

	if err := store.Upsert(ctx, &Embedding{Vector: []float32{1, 2}}); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("dimension mismatch error = %v, want ErrInvalidDimension", err)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v, want 1", n, err)
	}
}

func TestAutoDetectDimension(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 0)

	if err := store.Upsert(ctx, &Embedding{Vector: []float32{1, 2, 3, 4}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Second insert must match the detected dimension.
	if err := store.Upsert(ctx, &Embedding{Vector: []float32{1}}); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("error = %v, want ErrInvalidDimension", err)
	}
}

func TestSearchFlat(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2)

	vectors := [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}, {-1, 0}}
	for i, v := range vectors {
		emb := &Embedding{ID: fmt.Sprintf("v%d", i), Vector: v}
		if err := store.Upsert(ctx, emb); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	q := &SearchQuery{
		Key:          []float32{1, 0},
		TopK:         2,
		DistanceType: DistanceCosine,
	}
	results, err := store.Search(ctx, q)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "v0" {
		t.Errorf("best match = %s, want v0", results[0].ID)
	}
	if results[1].ID != "v2" {
		t.Errorf("second match = %s, want v2", results[1].ID)
	}
}

func TestSearchValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2)
	if err := store.Upsert(ctx, &Embedding{Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	tests := []struct {
		name string
		q    *SearchQuery
		want error
	}{
		{"empty key", &SearchQuery{TopK: 1}, ErrEmptyQuery},
		{"wrong dim", &SearchQuery{Key: []float32{1}, TopK: 1}, ErrInvalidDimension},
		{"unknown column", &SearchQuery{Column: "other", Key: []float32{1, 0}, TopK: 1}, ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Search(ctx, tt.q); !errors.Is(err, tt.want) {
				t.Errorf("Search error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := store.Search(ctx, &SearchQuery{Key: []float32{1, 0}, TopK: 0}); err == nil {
		t.Error("Search accepted non-positive topK")
	}
}

func TestBuildIndexAndIndexedSearch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2)

	for i := 0; i < 60; i++ {
		v := []float32{float32(i%10) / 10, float32(i%6) / 6}
		emb := &Embedding{ID: fmt.Sprintf("v%d", i), Vector: v}
		if err := store.Upsert(ctx, emb); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	partitions := int32(4)
	if err := store.BuildIndex(ctx, &IndexParams{
		MetricType:    DistanceL2,
		NumPartitions: &partitions,
	}); err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if !store.HasIndex() {
		t.Fatal("HasIndex = false after build")
	}

	rf := uint32(2)
	q := &SearchQuery{
		Key:          []float32{0.5, 0.5},
		TopK:         5,
		NProbes:      2,
		RefineFactor: &rf,
		DistanceType: DistanceL2,
		UseIndex:     true,
	}
	results, err := store.Search(ctx, q)
	if err != nil {
		t.Fatalf("indexed Search failed: %v", err)
	}
	if len(results) == 0 || len(results) > 5 {
		t.Errorf("got %d results, want 1..5", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Error("results not sorted by score")
			break
		}
	}
}

func TestBuildIndexValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2)

	if err := store.BuildIndex(ctx, &IndexParams{}); err == nil {
		t.Error("BuildIndex on empty store succeeded")
	}

	bad := int32(-1)
	if err := store.BuildIndex(ctx, &IndexParams{NumPartitions: &bad}); err == nil {
		t.Error("BuildIndex accepted negative partitions")
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 2)
	store.Close()

	if err := store.Upsert(ctx, &Embedding{Vector: []float32{1, 0}}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Upsert error = %v, want ErrStoreClosed", err)
	}
	if _, err := store.Search(ctx, &SearchQuery{Key: []float32{1, 0}, TopK: 1}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Search error = %v, want ErrStoreClosed", err)
	}
}

func TestParseDistanceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DistanceType
		wantErr bool
	}{
		{"l2", DistanceL2, false},
		{"euclidean", DistanceL2, false},
		{"Cosine", DistanceCosine, false},
		{"dot", DistanceDot, false},
		{"manhattan", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDistanceType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDistanceType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDistanceType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
