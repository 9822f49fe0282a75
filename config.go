package brp

import (
	"log/slog"
	"os"
)

// Config holds the knobs needed to open and build a BRP index, so the
// library and its CLI share one source of truth instead of drifting
// apart.
type Config struct {
	// DatabasePath is the path to the backing SQLite file.
	DatabasePath string

	// NumHyperplanes is the number of random hyperplanes used to build the
	// index. Ignored by Load when hydrating from an existing store (the
	// stored hyperplane count wins).
	NumHyperplanes int

	// BucketSize is the bucket width r used to quantize projections onto
	// each hyperplane. Must be positive.
	BucketSize float64

	// Seed seeds the Gaussian sampler used to generate hyperplanes. Two
	// builds over the same dataset with the same Seed produce identical
	// hyperplanes, bucket hashes, and Data-to-Bucket assignments.
	Seed int64

	// Logger receives structured progress logs from Build. A nil Logger
	// defaults to a text handler on stderr at Info level.
	Logger *slog.Logger
}

// DefaultConfig returns a Config pointed at path with one hyperplane, a
// unit bucket width, and a fixed seed — sane defaults for experimentation,
// not meant to be tuned for recall.
func DefaultConfig(path string) Config {
	return Config{
		DatabasePath:   path,
		NumHyperplanes: 1,
		BucketSize:     1.0,
		Seed:           1,
		Logger:         defaultLogger(),
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
