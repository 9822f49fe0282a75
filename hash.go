package brp

import "math/big"

// HashSet computes the ordered list of signed per-hyperplane bin indices
// for v: h_i(v) = floor(dot(v, w_i) / r). Bin indices may be negative.
//
// Each hyperplane contributes one signed bucket-width quantization of its
// projection rather than a sign bit, so bucketing stays distance-
// preserving along every hyperplane's normal.
func HashSet(v Vector, hyperplanes []Vector, bucketSize float64) []int64 {
	bins := make([]int64, len(hyperplanes))
	for i, w := range hyperplanes {
		bins[i] = floorDiv(Dot(v, w), bucketSize)
	}
	return bins
}

// floorDiv returns floor(a / b) as an int64.
func floorDiv(a, b float64) int64 {
	q := a / b
	f := int64(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

// FlattenHashSet collapses an H-vector of signed bin indices into a single
// bucket key, following the formula preserved verbatim from the source:
//
//	key = h_H + sum over i in [1..H-1] of (h_i * 2) ** (H - i)
//
// The last bin contributes linearly; every earlier bin is doubled and
// raised to a power that decreases toward 1 as i approaches H-1. This is
// not a collision-free encoding — even powers lose the sign of negative
// bins — but the index is defined by this formula rather than a
// "corrected" one.
//
// The computation is carried out with arbitrary-precision integers
// (math/big) because (h_i * 2) ** (H - i) overflows any fixed-width
// integer for large H or large bin magnitudes; the key is treated as an
// unbounded integer rather than truncated to a fixed width.
func FlattenHashSet(bins []int64) *big.Int {
	key := big.NewInt(0)
	if len(bins) == 0 {
		return key
	}

	two := big.NewInt(2)
	h := len(bins)

	for i := 0; i < h-1; i++ {
		hi := big.NewInt(bins[i])
		hi.Mul(hi, two)

		exp := h - (i + 1)
		term := new(big.Int).Exp(hi, big.NewInt(int64(exp)), nil)
		key.Add(key, term)
	}

	key.Add(key, big.NewInt(bins[h-1]))
	return key
}

// BucketKey computes the flattened bucket key for v under the given
// hyperplanes and bucket width in one step.
func BucketKey(v Vector, hyperplanes []Vector, bucketSize float64) *big.Int {
	return FlattenHashSet(HashSet(v, hyperplanes, bucketSize))
}
