package filters

import (
	"math"

	"github.com/probkit/probkit"
	"github.com/probkit/probkit/buckets"
	"github.com/probkit/probkit/hash"
)

const cuckooBucketSize = 4

// defaultRetries bounds the relocation chain of a single insert.
// Exhausting it signals the filter is effectively full, not a
// corrupted state.
const defaultRetries = 500

type BaseCuckooFilter interface {
	Size() uint64
	Length() uint64
	BucketSize() uint64
	CellSize() uint64
	Retries() uint64
	ErrorRate() float64
}

// AbstractCuckooFilter carries the dimensions and the index math
// shared by the in-memory and redis-backed cuckoo filters. The bucket
// count is always a power of two so that the XOR partner index is
// involutive under the modulo.
type AbstractCuckooFilter struct {
	size       uint64
	bucketSize uint64
	length     uint64
	retries    uint64
}

func makeAbstractCuckooFilter(size, bucketSize, retries uint64) *AbstractCuckooFilter {
	return &AbstractCuckooFilter{size, bucketSize, 0, retries}
}

// Size is the number of buckets.
func (cuckooFilter *AbstractCuckooFilter) Size() uint64 {
	return cuckooFilter.size
}

// Length is the number of fingerprints currently stored.
func (cuckooFilter *AbstractCuckooFilter) Length() uint64 {
	return cuckooFilter.length
}

func (cuckooFilter *AbstractCuckooFilter) BucketSize() uint64 {
	return cuckooFilter.bucketSize
}

// CellSize is the total slot capacity of the filter.
func (cuckooFilter *AbstractCuckooFilter) CellSize() uint64 {
	return cuckooFilter.size * cuckooFilter.bucketSize
}

func (cuckooFilter *AbstractCuckooFilter) Retries() uint64 {
	return cuckooFilter.retries
}

// getPositions derives the fingerprint and both candidate bucket
// indexes for data.
func (cuckooFilter *AbstractCuckooFilter) getPositions(data []byte) (buckets.Fingerprint, uint64, uint64) {
	h := hash.Sum64(data)
	fingerprint := buckets.NewFingerprint(h)
	firstIndex := h % cuckooFilter.size
	secondIndex := cuckooFilter.altIndex(fingerprint, firstIndex)
	return fingerprint, firstIndex, secondIndex
}

// altIndex computes the partner bucket of index from the fingerprint
// alone. The XOR form lets a stored fingerprint be relocated without
// the original item, and applied twice it returns to index.
func (cuckooFilter *AbstractCuckooFilter) altIndex(fingerprint buckets.Fingerprint, index uint64) uint64 {
	fpHash := hash.Sum64([]byte{fingerprint.Value()})
	return (index ^ fpHash) % cuckooFilter.size
}

// ErrorRate approximates the false positive rate: two candidate
// buckets of bucketSize slots can each hold a colliding fingerprint
// out of 2^FingerprintBits possible values.
func (cuckooFilter *AbstractCuckooFilter) ErrorRate() float64 {
	return float64(2*cuckooFilter.bucketSize) / math.Exp2(buckets.FingerprintBits)
}

func numBucketsForCapacity(capacity uint64) uint64 {
	numBuckets := probkit.NextPowerOfTwo(capacity) / cuckooBucketSize
	if numBuckets < 1 {
		numBuckets = 1
	}
	return numBuckets
}
