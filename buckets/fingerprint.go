// Package buckets provides the fingerprint and fixed-capacity bucket
// primitives underneath the cuckoo filter.
package buckets

// FingerprintBits is the width of a stored fingerprint. With two
// candidate buckets per item this bounds the filter's false positive
// rate at 2*bucketSize/2^FingerprintBits.
const FingerprintBits = 8

// Fingerprint is an 8-bit digest standing in for an item. Zero is
// reserved as the empty-slot sentinel, so a derived fingerprint is
// always in [1, 255]. Two distinct items may share a fingerprint;
// that collision is the sole source of cuckoo-filter false positives.
type Fingerprint uint8

const EmptyFingerprint Fingerprint = 0

// NewFingerprint reduces a 64-bit hash to a non-zero fingerprint.
func NewFingerprint(hash uint64) Fingerprint {
	return Fingerprint(hash%255 + 1)
}

func (fp Fingerprint) IsEmpty() bool {
	return fp == EmptyFingerprint
}

func (fp Fingerprint) Value() uint8 {
	return uint8(fp)
}
