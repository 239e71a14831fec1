package filters

import (
	"math"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
)

// maxFilterBitSize caps the parameter search before the bit array
// would outgrow any reasonable allocation.
const maxFilterBitSize = 200_000_000_000

const (
	initialBitsPerItem = 4
	bitGrowthFactor    = 1.01
)

// falsePositiveRate is the analytic false positive rate of a bloom
// filter with bitSize bits, capacity items and numHashes hash
// functions.
func falsePositiveRate(bitSize, capacity, numHashes float64) float64 {
	return math.Pow(1.0-math.Exp(-numHashes*(capacity+0.5)/(bitSize-1.0)), numHashes)
}

// optimizeParameters picks the bit size and hash function count for a
// bloom filter of the given capacity and target error rate. The
// closed-form optimum can overshoot the realized rate once both values
// are rounded to integers, so instead of trusting it the search grows
// the bit size geometrically and verifies the achieved rate at every
// step, keeping the hash count near (bitSize/capacity)*ln2 as it goes.
func optimizeParameters(capacity uint, targetErrRate float64) (uint, uint, float64, error) {
	n := float64(capacity)
	bits := n * initialBitsPerItem
	numHashes := 2.0
	for falsePositiveRate(bits, n, numHashes) >= targetErrRate {
		bits = math.Ceil(bits * bitGrowthFactor)
		if math.IsInf(bits, 0) || bits > maxFilterBitSize {
			return 0, 0, 0, errors.Wrapf(probkit.ErrFilterTooLarge,
				"capacity %d with target error rate %v needs more than %d bits", capacity, targetErrRate, uint64(maxFilterBitSize))
		}
		numHashes = math.Round(bits / n * math.Ln2)
		if numHashes < 1 {
			numHashes = 1
		}
	}
	bitSize, err := probkit.FloatToUint(bits, "bit size")
	if err != nil {
		return 0, 0, 0, err
	}
	hashCount, err := probkit.FloatToUint(numHashes, "hash function count")
	if err != nil {
		return 0, 0, 0, err
	}
	return bitSize, hashCount, falsePositiveRate(bits, n, numHashes), nil
}

// approximateCount estimates the number of distinct insertions from
// the number of set bits: -(m/k) * ln(1 - x/m).
func approximateCount(bitSize, numHashes, setBits uint) float64 {
	m := float64(bitSize)
	k := float64(numHashes)
	x := float64(setBits)
	return -1.0 * (m * math.Log(1.0-x/m)) / k
}
