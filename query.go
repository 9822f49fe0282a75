package brp

import (
	"context"
	"sort"
)

// Neighbor pairs a Data row with its Euclidean distance from a query
// vector, in ascending-distance order.
type Neighbor struct {
	Data     *Data
	Distance float64
}

// queryEngine answers k-nearest-neighbor lookups against an already built
// index: find the query vector's bucket, fetch every Data row assigned to
// it, and rank by exact Euclidean distance. Candidates come only from the
// one bucket the query hashes into, so recall is bounded by how well the
// hyperplane set separates the dataset.
type queryEngine struct {
	store *Store
}

// KNN returns up to k nearest neighbors of query among the Data assigned
// to query's bucket, ordered by ascending Euclidean distance. It returns
// ErrDimensionMismatch if query's dimension does not match the
// hyperplanes' dimension, and an empty, nil-error result if the query's
// bucket does not exist or holds no Data.
func (q *queryEngine) KNN(ctx context.Context, query Vector, hyperplanes []Vector, bucketSize float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(hyperplanes) == 0 {
		return nil, wrapError("knn", ErrEmptyDataset)
	}
	if len(query) != len(hyperplanes[0]) {
		return nil, wrapError("knn", ErrDimensionMismatch)
	}

	key := BucketKey(query, hyperplanes, bucketSize)
	bucket, err := q.store.FetchBucket(ctx, key.String())
	if err != nil {
		return nil, wrapError("knn", err)
	}
	if bucket == nil {
		return nil, nil
	}

	var neighbors []Neighbor
	for d, err := range q.store.FetchBucketData(ctx, bucket) {
		if err != nil {
			return nil, wrapError("knn", err)
		}
		if len(d.Embedding) != len(query) {
			return nil, wrapError("knn", ErrDimensionMismatch)
		}
		neighbors = append(neighbors, Neighbor{Data: d, Distance: L2Dist(query, d.Embedding)})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}
