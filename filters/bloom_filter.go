package filters

import (
	"math"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
	"github.com/probkit/probkit/bitset"
	"github.com/probkit/probkit/hash"
)

// BloomFilter is a fixed-size bit array indexed by double hashing.
// Bits are only ever set, never cleared, except by Reset; there is no
// per-item deletion. The structural parameters (size, numHashes,
// errorRate) are fixed at construction.
type BloomFilter struct {
	capacity  uint
	size      uint
	numHashes uint
	errorRate float64
	scheme    hash.Scheme
	filter    bitset.IBitSet
}

var _ BaseFilter[[]byte] = (*BloomFilter)(nil)
var _ DynFilter = (*BloomFilter)(nil)

// NewMemBloomFilter builds an in-memory bloom filter sized to hold
// capacity items at a false positive rate below targetErrRate.
func NewMemBloomFilter(capacity uint, targetErrRate float64) (*BloomFilter, error) {
	return NewMemBloomFilterWithScheme(capacity, targetErrRate, hash.New())
}

// NewMemBloomFilterWithScheme is NewMemBloomFilter with an injected
// hashing scheme, letting callers pin the seed.
func NewMemBloomFilterWithScheme(capacity uint, targetErrRate float64, scheme hash.Scheme) (*BloomFilter, error) {
	size, numHashes, errorRate, err := newFilterParameters(capacity, targetErrRate)
	if err != nil {
		return nil, err
	}
	return &BloomFilter{capacity, size, numHashes, errorRate, scheme, bitset.NewBitSetMem(size)}, nil
}

// NewRedisBloomFilter builds a bloom filter whose bit array lives in
// redis, sharing the process-wide client.
func NewRedisBloomFilter(capacity uint, targetErrRate float64) (*BloomFilter, error) {
	return NewRedisBloomFilterWithScheme(capacity, targetErrRate, hash.New())
}

func NewRedisBloomFilterWithScheme(capacity uint, targetErrRate float64, scheme hash.Scheme) (*BloomFilter, error) {
	size, numHashes, errorRate, err := newFilterParameters(capacity, targetErrRate)
	if err != nil {
		return nil, err
	}
	return &BloomFilter{capacity, size, numHashes, errorRate, scheme, bitset.NewBitSetRedis(size)}, nil
}

func newFilterParameters(capacity uint, targetErrRate float64) (uint, uint, float64, error) {
	if capacity < 1 {
		return 0, 0, 0, errors.Wrapf(probkit.ErrInvalidParameter, "expected 1 <= capacity, found %d", capacity)
	}
	if targetErrRate <= 0.0 || 1.0 <= targetErrRate {
		return 0, 0, 0, errors.Wrapf(probkit.ErrInvalidParameter, "expected 0.0 < error rate < 1.0, found %v", targetErrRate)
	}
	return optimizeParameters(capacity, targetErrRate)
}

// Insert sets the k index bits derived from data.
func (bloomFilter *BloomFilter) Insert(data []byte) (bool, error) {
	indexes := bloomFilter.scheme.Indexes(data, bloomFilter.numHashes, bloomFilter.size)
	if _, err := bloomFilter.filter.InsertMulti(indexes); err != nil {
		return false, err
	}
	return true, nil
}

func (bloomFilter *BloomFilter) InsertString(data string) (bool, error) {
	return bloomFilter.Insert([]byte(data))
}

// Lookup reports whether data might be in the filter, returning false
// as soon as any derived index bit is clear. An item that was inserted
// always reports true.
func (bloomFilter *BloomFilter) Lookup(data []byte) (bool, error) {
	indexes := bloomFilter.scheme.Indexes(data, bloomFilter.numHashes, bloomFilter.size)
	for _, index := range indexes {
		ok, err := bloomFilter.filter.Has(index)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (bloomFilter *BloomFilter) LookupString(data string) (bool, error) {
	return bloomFilter.Lookup([]byte(data))
}

// InsertHashable is the type-erased entry point over Insert.
func (bloomFilter *BloomFilter) InsertHashable(item Hashable) (bool, error) {
	return bloomFilter.Insert(item.HashBytes())
}

// LookupHashable is the type-erased entry point over Lookup.
func (bloomFilter *BloomFilter) LookupHashable(item Hashable) (bool, error) {
	return bloomFilter.Lookup(item.HashBytes())
}

// Reset clears the bit array in place. The structural parameters are
// data-independent and survive the reset.
func (bloomFilter *BloomFilter) Reset() error {
	return bloomFilter.filter.Reset()
}

// CountApprox estimates the number of distinct items inserted from the
// bit population. The estimate degrades as the filter saturates and
// fails with ErrConversion once every bit is set.
func (bloomFilter *BloomFilter) CountApprox() (uint, error) {
	setBits, err := bloomFilter.filter.BitCount()
	if err != nil {
		return 0, err
	}
	estimate := approximateCount(bloomFilter.size, bloomFilter.numHashes, setBits)
	return probkit.FloatToUint(math.Round(estimate), "approximate count")
}

func (bloomFilter *BloomFilter) Capacity() uint {
	return bloomFilter.capacity
}

// BitSize is the length of the underlying bit array.
func (bloomFilter *BloomFilter) BitSize() uint {
	return bloomFilter.size
}

func (bloomFilter *BloomFilter) NumHashes() uint {
	return bloomFilter.numHashes
}

// ErrorRate is the realized false positive rate computed at
// construction for the chosen parameters; it is a cached statistic,
// not derived from live state.
func (bloomFilter *BloomFilter) ErrorRate() float64 {
	return bloomFilter.errorRate
}

func (aFilter *BloomFilter) Equals(bFilter *BloomFilter) (bool, error) {
	if aFilter.size != bFilter.size || aFilter.numHashes != bFilter.numHashes {
		return false, nil
	}
	return aFilter.filter.Equals(bFilter.filter)
}
