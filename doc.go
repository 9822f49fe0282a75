// Package brp implements Bucketed Random Projection, a locality-sensitive
// hashing scheme for approximate nearest-neighbor search over dense
// real-valued embeddings under Euclidean distance.
//
// A set of random unit hyperplanes partitions the embedding space into
// buckets: each vector is assigned a signed bin index per hyperplane, and
// the per-hyperplane bins are flattened into a single bucket key. Vectors
// sharing a bucket key are candidates for each other's nearest neighbors,
// so a query only has to rank the (typically small) set of data points
// that fall into its own bucket instead of the whole corpus.
//
// # Quick start
//
//	cfg := brp.DefaultConfig("index.sqlite3")
//	cfg.NumHyperplanes = 4
//	cfg.BucketSize = 1.0
//
//	ctx := context.Background()
//	model, err := brp.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer model.Close()
//
//	for _, rec := range dataset {
//	    if _, err := model.Populate(ctx, rec.Raw, rec.Embedding); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := model.Build(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := model.KNN(ctx, query, 5)
//
// The store persists to a single SQLite file (via modernc.org/sqlite, no
// cgo required) with three tables: hyperplane, bucket, and data.
package brp
