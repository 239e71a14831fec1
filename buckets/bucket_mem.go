package buckets

import (
	"github.com/pkg/errors"

	"github.com/probkit/probkit"
)

// BucketMem is a fixed-capacity in-memory slot array. Slot order
// carries no meaning for membership.
type BucketMem struct {
	slots []Fingerprint
	*AbstractBucket
}

func NewBucketMem(size uint64) *BucketMem {
	bucket := &AbstractBucket{}
	bucket.size = size
	bucket.length = 0
	return &BucketMem{make([]Fingerprint, size), bucket}
}

func (bucket *BucketMem) At(index uint64) Fingerprint {
	return bucket.slots[index]
}

// TryInsert places fp in the first empty slot. It does not
// deduplicate: the same fingerprint inserted twice occupies two slots,
// since the filter can't tell "same item twice" from two colliding
// items.
func (bucket *BucketMem) TryInsert(fp Fingerprint) error {
	if fp.IsEmpty() {
		return errors.Wrap(probkit.ErrInvalidParameter, "can't insert the empty fingerprint")
	}
	for i := range bucket.slots {
		if bucket.slots[i].IsEmpty() {
			bucket.slots[i] = fp
			bucket.length++
			return nil
		}
	}
	return errors.Wrapf(probkit.ErrBucketFull, "couldn't insert fingerprint %d", fp.Value())
}

// TryDelete removes the first slot equal to fp.
func (bucket *BucketMem) TryDelete(fp Fingerprint) error {
	for i := range bucket.slots {
		if bucket.slots[i] == fp {
			bucket.slots[i] = EmptyFingerprint
			bucket.length--
			return nil
		}
	}
	return errors.Wrapf(probkit.ErrFingerprintNotFound, "bucket doesn't contain fingerprint %d", fp.Value())
}

func (bucket *BucketMem) Contains(fp Fingerprint) bool {
	for i := range bucket.slots {
		if bucket.slots[i] == fp {
			return true
		}
	}
	return false
}

// Set overwrites the slot at index, used by the relocation loop to
// swap fingerprints in place. Occupancy is unchanged: the slot being
// overwritten is expected to be occupied.
func (bucket *BucketMem) Set(index uint64, fp Fingerprint) {
	bucket.slots[index] = fp
}

// Reset clears all slots to empty.
func (bucket *BucketMem) Reset() {
	for i := range bucket.slots {
		bucket.slots[i] = EmptyFingerprint
	}
	bucket.length = 0
}

func (bucket *BucketMem) Equals(otherBucket *BucketMem) bool {
	if bucket.size != otherBucket.size || bucket.length != otherBucket.length {
		return false
	}
	for index, fp := range bucket.slots {
		if otherBucket.slots[index] != fp {
			return false
		}
	}
	return true
}
