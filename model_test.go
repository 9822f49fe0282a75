package brp

import (
	"context"
	"path/filepath"
	"testing"
)

func TestModelPopulateBuildKNN(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "model.db")

	cfg := DefaultConfig(dbPath)
	cfg.NumHyperplanes = 1
	cfg.BucketSize = 5.0
	cfg.Seed = 42
	cfg.Logger = discardLogger()

	model, err := Open(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer model.Close()

	points := map[string]Vector{
		"A": {0, 0},
		"B": {0.3, 0.2},
		"C": {50, 50},
	}
	for raw, v := range points {
		if _, err := model.Populate(ctx, raw, v); err != nil {
			t.Fatalf("Populate(%q) error = %v", raw, err)
		}
	}

	if err := model.Build(ctx); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	neighbors, err := model.KNN(ctx, Vector{0, 0}, 2)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(neighbors) == 0 {
		t.Fatal("expected at least one neighbor")
	}
	if neighbors[0].Data.Raw != "A" {
		t.Errorf("nearest = %q, want %q", neighbors[0].Data.Raw, "A")
	}
}

func TestModelKNNBeforeBuildFails(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "model.db")

	cfg := DefaultConfig(dbPath)
	cfg.Logger = discardLogger()

	model, err := Open(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer model.Close()

	if _, err := model.KNN(ctx, Vector{1, 2}, 1); err == nil {
		t.Fatal("expected error querying before Build")
	}
}

func TestModelLoadHydratesHyperplanes(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "model.db")

	cfg := DefaultConfig(dbPath)
	cfg.NumHyperplanes = 2
	cfg.BucketSize = 1.0
	cfg.Seed = 7
	cfg.Logger = discardLogger()

	model, err := Open(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := model.Populate(ctx, "A", Vector{1, 2}); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if err := model.Build(ctx); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := model.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reloaded, err := Load(ctx, cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reloaded.Close()

	if len(reloaded.hyperplanes) != 2 {
		t.Errorf("len(hyperplanes) = %d, want 2", len(reloaded.hyperplanes))
	}

	neighbors, err := reloaded.KNN(ctx, Vector{1, 2}, 1)
	if err != nil {
		t.Fatalf("KNN() after Load error = %v", err)
	}
	if len(neighbors) != 1 || neighbors[0].Data.Raw != "A" {
		t.Errorf("KNN() after Load = %v, want [A]", neighbors)
	}
}

func TestModelFetchDataMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "model.db")

	cfg := DefaultConfig(dbPath)
	cfg.Logger = discardLogger()

	model, err := Open(ctx, cfg, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer model.Close()

	d, err := model.FetchData(ctx, "missing")
	if err != nil {
		t.Fatalf("FetchData() error = %v", err)
	}
	if d != nil {
		t.Errorf("FetchData(missing) = %v, want nil", d)
	}
}
