package filters

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
	"github.com/probkit/probkit/buckets"
)

// CuckooFilter holds item fingerprints in an array of fixed-capacity
// buckets. Each item maps to two candidate buckets; collisions are
// resolved by relocating a resident fingerprint to its own partner
// bucket, up to a bounded chain length. Unlike the bloom filter it
// supports deletion.
type CuckooFilter struct {
	buckets []*buckets.BucketMem
	*AbstractCuckooFilter
}

var _ BaseFilter[[]byte] = (*CuckooFilter)(nil)
var _ DynFilter = (*CuckooFilter)(nil)

// NewCuckooFilter sizes the bucket array to hold capacity items:
// max(1, nextPowerOfTwo(capacity) / bucketSize) buckets.
func NewCuckooFilter(capacity uint64) *CuckooFilter {
	return NewCuckooFilterWithRetries(capacity, defaultRetries)
}

func NewCuckooFilterWithRetries(capacity, retries uint64) *CuckooFilter {
	numBuckets := numBucketsForCapacity(capacity)
	filter := make([]*buckets.BucketMem, numBuckets)
	for i := range filter {
		filter[i] = buckets.NewBucketMem(cuckooBucketSize)
	}
	baseFilter := makeAbstractCuckooFilter(numBuckets, cuckooBucketSize, retries)
	return &CuckooFilter{filter, baseFilter}
}

type displacedEntry struct {
	fingerprint buckets.Fingerprint
	index       uint64
	slot        uint64
}

// Insert stores the fingerprint of data in one of its two candidate
// buckets. When both are full it evicts a random resident and chases
// the displacement chain up to the retry bound; if the chain doesn't
// terminate, every displacement is rolled back and ErrBucketFull is
// returned, leaving the filter in its prior state.
func (cuckooFilter *CuckooFilter) Insert(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	if err := cuckooFilter.buckets[firstIndex].TryInsert(fingerprint); err == nil {
		cuckooFilter.length++
		return true, nil
	}
	if err := cuckooFilter.buckets[secondIndex].TryInsert(fingerprint); err == nil {
		cuckooFilter.length++
		return true, nil
	}
	index := firstIndex
	if rand.Intn(2) == 1 {
		index = secondIndex
	}
	current := fingerprint
	var displaced []displacedEntry
	for i := uint64(0); i < cuckooFilter.retries; i++ {
		slot := uint64(rand.Intn(int(cuckooFilter.bucketSize)))
		evicted := cuckooFilter.buckets[index].At(slot)
		cuckooFilter.buckets[index].Set(slot, current)
		displaced = append(displaced, displacedEntry{evicted, index, slot})
		index = cuckooFilter.altIndex(evicted, index)
		if err := cuckooFilter.buckets[index].TryInsert(evicted); err == nil {
			cuckooFilter.length++
			return true, nil
		}
		current = evicted
	}
	for i := len(displaced) - 1; i >= 0; i-- {
		item := displaced[i]
		cuckooFilter.buckets[item.index].Set(item.slot, item.fingerprint)
	}
	return false, errors.Wrapf(probkit.ErrBucketFull, "couldn't insert element within %d relocations", cuckooFilter.retries)
}

func (cuckooFilter *CuckooFilter) InsertString(data string) (bool, error) {
	return cuckooFilter.Insert([]byte(data))
}

// Lookup reports whether the fingerprint of data sits in either
// candidate bucket. Items inserted and never removed always report
// true; a colliding fingerprint from another item can report a false
// positive.
func (cuckooFilter *CuckooFilter) Lookup(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	return cuckooFilter.buckets[firstIndex].Contains(fingerprint) ||
		cuckooFilter.buckets[secondIndex].Contains(fingerprint), nil
}

func (cuckooFilter *CuckooFilter) LookupString(data string) (bool, error) {
	return cuckooFilter.Lookup([]byte(data))
}

// Remove deletes one matching fingerprint, preferring the first
// candidate bucket. The removed slot may have belonged to a different
// item sharing the fingerprint; that ambiguity is inherent to storing
// digests instead of items.
func (cuckooFilter *CuckooFilter) Remove(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	if err := cuckooFilter.buckets[firstIndex].TryDelete(fingerprint); err == nil {
		cuckooFilter.length--
		return true, nil
	}
	if err := cuckooFilter.buckets[secondIndex].TryDelete(fingerprint); err == nil {
		cuckooFilter.length--
		return true, nil
	}
	return false, errors.Wrapf(probkit.ErrFingerprintNotFound,
		"fingerprint %d absent from buckets %d and %d", fingerprint.Value(), firstIndex, secondIndex)
}

func (cuckooFilter *CuckooFilter) RemoveString(data string) (bool, error) {
	return cuckooFilter.Remove([]byte(data))
}

// InsertHashable is the type-erased entry point over Insert.
func (cuckooFilter *CuckooFilter) InsertHashable(item Hashable) (bool, error) {
	return cuckooFilter.Insert(item.HashBytes())
}

// LookupHashable is the type-erased entry point over Lookup.
func (cuckooFilter *CuckooFilter) LookupHashable(item Hashable) (bool, error) {
	return cuckooFilter.Lookup(item.HashBytes())
}

// Reset clears every bucket.
func (cuckooFilter *CuckooFilter) Reset() error {
	for i := range cuckooFilter.buckets {
		cuckooFilter.buckets[i].Reset()
	}
	cuckooFilter.length = 0
	return nil
}

func (aFilter *CuckooFilter) Equals(bFilter *CuckooFilter) bool {
	if aFilter.size != bFilter.size || aFilter.bucketSize != bFilter.bucketSize {
		return false
	}
	for i := range aFilter.buckets {
		if !aFilter.buckets[i].Equals(bFilter.buckets[i]) {
			return false
		}
	}
	return true
}
