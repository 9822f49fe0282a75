package brp

// Hyperplane is a unit-norm D-dimensional normal vector. Hyperplanes are
// created once per index build and are never mutated afterward.
type Hyperplane struct {
	ID     int64
	Vector Vector
}

// Bucket groups Data whose embeddings flatten to the same hash key. Hash
// is unique across buckets within one index.
type Bucket struct {
	ID   int64
	Hash string // decimal text form of the flattened big.Int key
}

// Data is one indexed record: an opaque raw identifier, its embedding, and
// an optional reference to the Bucket it has been assigned to. BucketID is
// nil until the builder assigns it.
type Data struct {
	ID        int64
	Raw       string
	Embedding Vector
	BucketID  *int64
}

// entity is the closed tagged union the store's Create/Update dispatch on,
// in place of the source's runtime-type polymorphic dispatch: a small Go
// interface implemented by the three pointer types above, with the store
// doing an exhaustive type switch rather than reflection.
type entity interface {
	isEntity()
}

func (*Hyperplane) isEntity() {}
func (*Bucket) isEntity()     {}
func (*Data) isEntity()       {}
