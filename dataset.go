package brp

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// datasetRecord is one entry of the generated dataset file: a raw
// identifier paired with its embedding, serialized as a JSON array to
// match the source generator's rand_dataset.json output shape.
type datasetRecord struct {
	Raw       string    `json:"raw"`
	Embedding []float64 `json:"embedding"`
}

// GenerateDataset writes a JSON array of {raw, embedding} records to
// outputPath: n points of dims dimensions, grouped into numClusters
// Gaussian clusters whose centers are drawn uniformly from [a, b] per
// axis. Points are assigned to clusters in round-robin blocks of
// n/numClusters, and each point's embedding is drawn from
// Normal(center[i], sigma) per axis with sigma = (|a|+|b|)/10 — the same
// clustering scheme as the source generator's _generate_random_embedding,
// reseeded here through an explicit *rand.Rand for reproducibility
// instead of the source's process-global numpy RNG.
//
// Identifiers are base-26 uppercase-letter strings of length
// ceil(log_26(n)), produced by the same lexicographic odometer the
// source's itertools.product(letters, repeat=n) walks, reimplemented as
// an explicit counter since Go has no itertools equivalent.
func GenerateDataset(outputPath string, n, dims int, a, b float64, numClusters int, seed int64) error {
	if n <= 0 {
		return wrapError("generate_dataset", fmt.Errorf("n must be positive, got %d", n))
	}
	if dims <= 0 {
		return wrapError("generate_dataset", fmt.Errorf("dims must be positive, got %d", dims))
	}
	if numClusters <= 0 {
		return wrapError("generate_dataset", fmt.Errorf("numClusters must be positive, got %d", numClusters))
	}
	if a >= b {
		return wrapError("generate_dataset", fmt.Errorf("a must be less than b, got a=%g b=%g", a, b))
	}

	rng := rand.New(rand.NewSource(seed))
	sigma := (math.Abs(a) + math.Abs(b)) / 10

	pointsPerCluster := n / numClusters
	if pointsPerCluster == 0 {
		pointsPerCluster = 1
	}

	idLen := identifierLength(n)
	ids := newIdentifierSequence(idLen)

	dataset := make([]datasetRecord, 0, n)
	var center []float64

	for i := 0; i < n; i++ {
		if i%pointsPerCluster == 0 || center == nil {
			center = sampleUniform(rng, dims, a, b)
		}

		embedding := make([]float64, dims)
		for j := 0; j < dims; j++ {
			embedding[j] = rng.NormFloat64()*sigma + center[j]
		}

		dataset = append(dataset, datasetRecord{Raw: ids.next(), Embedding: embedding})
	}

	body, err := json.Marshal(dataset)
	if err != nil {
		return wrapError("generate_dataset", err)
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return wrapError("generate_dataset", err)
	}
	return nil
}

// identifierLength returns ceil(log_26(n)), the number of base-26
// uppercase letters needed to produce at least n distinct identifiers.
func identifierLength(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log(float64(n)) / math.Log(26)))
}

func sampleUniform(rng *rand.Rand, dims int, a, b float64) []float64 {
	v := make([]float64, dims)
	for i := range v {
		v[i] = a + rng.Float64()*(b-a)
	}
	return v
}

// identifierSequence walks base-26 uppercase-letter strings of a fixed
// length in lexicographic order, starting from "AAA...A", the same order
// itertools.product(letters, repeat=n) yields.
type identifierSequence struct {
	digits []byte
}

func newIdentifierSequence(length int) *identifierSequence {
	digits := make([]byte, length)
	for i := range digits {
		digits[i] = 'A'
	}
	return &identifierSequence{digits: digits}
}

func (s *identifierSequence) next() string {
	id := string(s.digits)
	for i := len(s.digits) - 1; i >= 0; i-- {
		if s.digits[i] < 'Z' {
			s.digits[i]++
			break
		}
		s.digits[i] = 'A'
	}
	return id
}
