package brp

import (
	"context"
	"fmt"
	"math/rand"
)

// builder drives the Build protocol: sample H hyperplanes once, then
// assign every Data row to a Bucket computed from its embedding. It holds
// no state of its own beyond the store and rng it was handed by the
// owning Model, keeping the index-building logic separate from the
// store's own CRUD surface.
type builder struct {
	store *Store
	rng   *rand.Rand
	log   logger
}

// Build truncates any prior Hyperplane and Bucket rows, clears every
// Data row's bucket reference, samples numHyperplanes fresh unit-norm
// hyperplanes from the builder's rng, persists them, and then re-buckets
// every existing Data row against the new hyperplane set.
//
// Rebuilding with the same Config.Seed over the same Data rows (inserted
// in the same order) reproduces the same hyperplanes, the same bucket
// hashes, and the same Data-to-Bucket assignments, since rng draws and
// Data iteration order are both deterministic.
func (b *builder) Build(ctx context.Context, numHyperplanes int, bucketSize float64) error {
	if numHyperplanes <= 0 {
		return wrapError("build", fmt.Errorf("numHyperplanes must be positive, got %d", numHyperplanes))
	}
	if bucketSize <= 0 {
		return wrapError("build", fmt.Errorf("bucketSize must be positive, got %g", bucketSize))
	}

	b.log.Info("build: resetting index", "num_hyperplanes", numHyperplanes, "bucket_size", bucketSize)

	if err := b.store.ClearDataBucketRefs(ctx); err != nil {
		return wrapError("build", err)
	}
	if err := b.store.Clean(ctx, KindBucket, KindHyperplane); err != nil {
		return wrapError("build", err)
	}

	dim, err := b.firstEmbeddingDim(ctx)
	if err != nil {
		return wrapError("build", err)
	}
	if dim == 0 {
		return wrapError("build", ErrEmptyDataset)
	}

	hyperplanes, err := b.sampleHyperplanes(ctx, numHyperplanes, dim)
	if err != nil {
		return wrapError("build", err)
	}

	b.log.Info("build: bucketing data")

	// Collect every row before writing: FetchAllData holds the store's
	// read lock while it yields, and Create/Update take the write lock.
	var rows []*Data
	for d, err := range b.store.FetchAllData(ctx) {
		if err != nil {
			return wrapError("build", err)
		}
		rows = append(rows, d)
	}

	count := 0
	for _, d := range rows {
		key := BucketKey(d.Embedding, hyperplanes, bucketSize)
		bucket := &Bucket{Hash: key.String()}
		if _, err := b.store.Create(ctx, bucket); err != nil {
			return wrapError("build", err)
		}

		d.BucketID = &bucket.ID
		if err := b.store.Update(ctx, d); err != nil {
			return wrapError("build", err)
		}
		count++
	}

	b.log.Info("build: done", "data_bucketed", count, "hyperplanes", len(hyperplanes))
	return nil
}

func (b *builder) firstEmbeddingDim(ctx context.Context) (int, error) {
	for d, err := range b.store.FetchAllData(ctx) {
		if err != nil {
			return 0, err
		}
		return len(d.Embedding), nil
	}
	return 0, nil
}

func (b *builder) sampleHyperplanes(ctx context.Context, n, dim int) ([]Vector, error) {
	vectors := make([]Vector, n)
	for i := 0; i < n; i++ {
		raw := SampleStandardNormal(b.rng, dim)
		unit, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("sampling hyperplane %d: %w", i, err)
		}
		vectors[i] = unit

		h := &Hyperplane{Vector: unit}
		if _, err := b.store.Create(ctx, h); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// logger is the minimal subset of *slog.Logger the builder uses, so tests can substitute a no-op implementation without
// wiring a real slog.Logger.
type logger interface {
	Info(msg string, args ...any)
}
