package brp

import (
	"context"
	"math/rand"
)

// Model is the facade over Store, builder, and queryEngine: the one type
// client code is meant to hold. Open returns a ready-to-use handle, and
// every index operation hangs off it as a method.
type Model struct {
	cfg Config
	rng *rand.Rand

	store   *Store
	builder *builder
	query   *queryEngine

	hyperplanes []Vector
}

// Open creates (or truncates, if forceInit is true) the backing SQLite
// file at cfg.DatabasePath and returns a Model ready to Populate and
// Build.
func Open(ctx context.Context, cfg Config, forceInit bool) (*Model, error) {
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}

	store, err := NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx, forceInit); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		store: store,
		query: &queryEngine{store: store},
	}
	m.builder = &builder{store: store, rng: m.rng, log: cfg.Logger}
	return m, nil
}

// Load opens an existing index file without touching its contents, and
// hydrates the in-memory hyperplane set from whatever was last persisted
// by Build. It is an error to call KNN before either Build or Load has
// populated the hyperplane set.
func Load(ctx context.Context, cfg Config) (*Model, error) {
	m, err := Open(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	for h, err := range m.store.FetchAllHyperplanes(ctx) {
		if err != nil {
			return nil, err
		}
		m.hyperplanes = append(m.hyperplanes, h.Vector)
	}
	return m, nil
}

// Populate inserts one Data row per (raw, embedding) pair, unassigned to
// any bucket until the next Build.
func (m *Model) Populate(ctx context.Context, raw string, embedding Vector) (*Data, error) {
	d := &Data{Raw: raw, Embedding: embedding}
	if _, err := m.store.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Build samples a fresh hyperplane set and re-buckets every currently
// populated Data row. It must be called at least once before KNN.
func (m *Model) Build(ctx context.Context) error {
	m.rng.Seed(m.cfg.Seed)
	if err := m.builder.Build(ctx, m.cfg.NumHyperplanes, m.cfg.BucketSize); err != nil {
		return err
	}

	m.hyperplanes = m.hyperplanes[:0]
	for h, err := range m.store.FetchAllHyperplanes(ctx) {
		if err != nil {
			return err
		}
		m.hyperplanes = append(m.hyperplanes, h.Vector)
	}
	return nil
}

// KNN returns up to k nearest neighbors of query under the model's
// current hyperplane set.
func (m *Model) KNN(ctx context.Context, query Vector, k int) ([]Neighbor, error) {
	if len(m.hyperplanes) == 0 {
		return nil, wrapError("knn", ErrEmptyDataset)
	}
	return m.query.KNN(ctx, query, m.hyperplanes, m.cfg.BucketSize, k)
}

// FetchData looks up a previously populated Data row by its raw
// identifier.
func (m *Model) FetchData(ctx context.Context, raw string) (*Data, error) {
	return m.store.FetchData(ctx, raw)
}

// Close releases the backing database connection.
func (m *Model) Close() error {
	return m.store.Close()
}
