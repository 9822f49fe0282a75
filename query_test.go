package brp

import (
	"context"
	"testing"
)

func TestKNNTrivialSingleHyperplane(t *testing.T) {
	store, b := newTestBuilder(t, 1)
	ctx := context.Background()

	points := map[string]Vector{
		"A": {0, 0},
		"B": {0.2, 0.1},
		"C": {10, 10},
	}
	for raw, v := range points {
		if _, err := store.Create(ctx, &Data{Raw: raw, Embedding: v}); err != nil {
			t.Fatalf("Create(data) error = %v", err)
		}
	}

	if err := b.Build(ctx, 1, 1.0); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var hyperplanes []Vector
	for h, err := range store.FetchAllHyperplanes(ctx) {
		if err != nil {
			t.Fatalf("FetchAllHyperplanes() error = %v", err)
		}
		hyperplanes = append(hyperplanes, h.Vector)
	}

	qe := &queryEngine{store: store}
	neighbors, err := qe.KNN(ctx, Vector{0, 0}, hyperplanes, 1.0, 2)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(neighbors) == 0 {
		t.Fatal("expected at least one neighbor")
	}
	if neighbors[0].Data.Raw != "A" {
		t.Errorf("nearest neighbor = %q, want %q", neighbors[0].Data.Raw, "A")
	}
}

func TestKNNDimensionMismatch(t *testing.T) {
	qe := &queryEngine{store: newTestStore(t)}
	_, err := qe.KNN(context.Background(), Vector{1, 2, 3}, []Vector{{1, 0}}, 1.0, 5)
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestKNNEmptyBucketReturnsNoNeighbors(t *testing.T) {
	store, b := newTestBuilder(t, 1)
	ctx := context.Background()

	if _, err := store.Create(ctx, &Data{Raw: "A", Embedding: Vector{0, 0}}); err != nil {
		t.Fatalf("Create(data) error = %v", err)
	}
	if err := b.Build(ctx, 1, 1.0); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var hyperplanes []Vector
	for h, err := range store.FetchAllHyperplanes(ctx) {
		if err != nil {
			t.Fatalf("FetchAllHyperplanes() error = %v", err)
		}
		hyperplanes = append(hyperplanes, h.Vector)
	}

	qe := &queryEngine{store: store}
	neighbors, err := qe.KNN(ctx, Vector{1000, 1000}, hyperplanes, 1.0, 5)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(neighbors) != 0 {
		t.Errorf("expected no neighbors far from all data, got %d", len(neighbors))
	}
}

func TestKNNZeroKReturnsNil(t *testing.T) {
	qe := &queryEngine{store: newTestStore(t)}
	neighbors, err := qe.KNN(context.Background(), Vector{1}, []Vector{{1}}, 1.0, 0)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if neighbors != nil {
		t.Errorf("KNN(k=0) = %v, want nil", neighbors)
	}
}

func TestKNNOrdersByDistanceAscending(t *testing.T) {
	store, b := newTestBuilder(t, 5)
	ctx := context.Background()

	points := map[string]Vector{
		"near": {0.5, 0},
		"mid":  {1.5, 0},
		"far":  {3, 0},
	}
	for raw, v := range points {
		if _, err := store.Create(ctx, &Data{Raw: raw, Embedding: v}); err != nil {
			t.Fatalf("Create(data) error = %v", err)
		}
	}
	if err := b.Build(ctx, 1, 10.0); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var hyperplanes []Vector
	for h, err := range store.FetchAllHyperplanes(ctx) {
		if err != nil {
			t.Fatalf("FetchAllHyperplanes() error = %v", err)
		}
		hyperplanes = append(hyperplanes, h.Vector)
	}

	qe := &queryEngine{store: store}
	// The query sits on the same side of the origin as every point, so all
	// four project into the same bin whatever the hyperplane's sign.
	neighbors, err := qe.KNN(ctx, Vector{0.1, 0}, hyperplanes, 10.0, 3)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(neighbors) != 3 {
		t.Fatalf("expected 3 neighbors in one bucket, got %d", len(neighbors))
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i-1].Distance > neighbors[i].Distance {
			t.Errorf("neighbors not sorted ascending at index %d", i)
		}
	}
}
