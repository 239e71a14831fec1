package filters

import (
	"math/rand"
	"strconv"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
	"github.com/probkit/probkit/buckets"
)

// CuckooFilterRedis runs the same bucketized cuckoo hashing as
// CuckooFilter over redis-backed buckets, one list per bucket keyed by
// bucket index under a random filter key.
type CuckooFilterRedis struct {
	buckets map[string]*buckets.BucketRedis
	key     string
	*AbstractCuckooFilter
}

var _ BaseFilter[[]byte] = (*CuckooFilterRedis)(nil)
var _ DynFilter = (*CuckooFilterRedis)(nil)

func NewRedisCuckooFilter(capacity uint64) (*CuckooFilterRedis, error) {
	return NewRedisCuckooFilterWithRetries(capacity, defaultRetries)
}

func NewRedisCuckooFilterWithRetries(capacity, retries uint64) (*CuckooFilterRedis, error) {
	numBuckets := numBucketsForCapacity(capacity)
	filterKey := probkit.GenerateRandomString(16)
	baseFilter := makeAbstractCuckooFilter(numBuckets, cuckooBucketSize, retries)
	filter := &CuckooFilterRedis{make(map[string]*buckets.BucketRedis, numBuckets), filterKey, baseFilter}
	if err := filter.initBuckets(); err != nil {
		return nil, errors.Wrap(err, "error while creating redis cuckoo filter")
	}
	return filter, nil
}

// Key is the filter key prefixing every bucket key in redis.
func (cuckooFilter *CuckooFilterRedis) Key() string {
	return cuckooFilter.key
}

func (cuckooFilter *CuckooFilterRedis) getIndexKey(index uint64) string {
	return "cuckoo_" + cuckooFilter.key + "_bucket_" + strconv.FormatUint(index, 10)
}

func (cuckooFilter *CuckooFilterRedis) initBuckets() error {
	for i := uint64(0); i < cuckooFilter.size; i++ {
		bucketKey := cuckooFilter.getIndexKey(i)
		bucket := buckets.NewBucketRedis(bucketKey, cuckooFilter.bucketSize)
		if err := bucket.Init(); err != nil {
			return err
		}
		cuckooFilter.buckets[bucketKey] = bucket
	}
	return nil
}

// Insert mirrors CuckooFilter.Insert over redis buckets. Relocations
// that exhaust the retry bound are rolled back before ErrBucketFull is
// returned; an infrastructure error aborts mid-flight.
func (cuckooFilter *CuckooFilterRedis) Insert(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	firstBucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(firstIndex)]
	secondBucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(secondIndex)]
	if firstBucket.IsFree() {
		if err := firstBucket.TryInsert(fingerprint); err != nil {
			return false, err
		}
		cuckooFilter.length++
		return true, nil
	}
	if secondBucket.IsFree() {
		if err := secondBucket.TryInsert(fingerprint); err != nil {
			return false, err
		}
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
		bucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(index)]
		slot := uint64(rand.Intn(int(cuckooFilter.bucketSize)))
		evicted, err := bucket.At(slot)
		if err != nil {
			return false, err
		}
		if err := bucket.Set(slot, current); err != nil {
			return false, err
		}
		displaced = append(displaced, displacedEntry{evicted, index, slot})
		index = cuckooFilter.altIndex(evicted, index)
		nextBucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(index)]
		if nextBucket.IsFree() {
			if err := nextBucket.TryInsert(evicted); err != nil {
				return false, err
			}
			cuckooFilter.length++
			return true, nil
		}
		current = evicted
	}
	for i := len(displaced) - 1; i >= 0; i-- {
		item := displaced[i]
		bucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(item.index)]
		if err := bucket.Set(item.slot, item.fingerprint); err != nil {
			return false, err
		}
	}
	return false, errors.Wrapf(probkit.ErrBucketFull, "couldn't insert element within %d relocations", cuckooFilter.retries)
}

func (cuckooFilter *CuckooFilterRedis) InsertString(data string) (bool, error) {
	return cuckooFilter.Insert([]byte(data))
}

func (cuckooFilter *CuckooFilterRedis) Lookup(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	inFirst, err := cuckooFilter.buckets[cuckooFilter.getIndexKey(firstIndex)].Contains(fingerprint)
	if err != nil {
		return false, err
	}
	if inFirst {
		return true, nil
	}
	return cuckooFilter.buckets[cuckooFilter.getIndexKey(secondIndex)].Contains(fingerprint)
}

func (cuckooFilter *CuckooFilterRedis) LookupString(data string) (bool, error) {
	return cuckooFilter.Lookup([]byte(data))
}

// Remove deletes one matching fingerprint, preferring the first
// candidate bucket.
func (cuckooFilter *CuckooFilterRedis) Remove(data []byte) (bool, error) {
	fingerprint, firstIndex, secondIndex := cuckooFilter.getPositions(data)
	firstBucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(firstIndex)]
	inFirst, err := firstBucket.Contains(fingerprint)
	if err != nil {
		return false, err
	}
	if inFirst {
		if err := firstBucket.TryDelete(fingerprint); err != nil {
			return false, err
		}
		cuckooFilter.length--
		return true, nil
	}
	secondBucket := cuckooFilter.buckets[cuckooFilter.getIndexKey(secondIndex)]
	inSecond, err := secondBucket.Contains(fingerprint)
	if err != nil {
		return false, err
	}
	if inSecond {
		if err := secondBucket.TryDelete(fingerprint); err != nil {
			return false, err
		}
		cuckooFilter.length--
		return true, nil
	}
	return false, errors.Wrapf(probkit.ErrFingerprintNotFound,
		"fingerprint %d absent from buckets %d and %d", fingerprint.Value(), firstIndex, secondIndex)
}

func (cuckooFilter *CuckooFilterRedis) RemoveString(data string) (bool, error) {
	return cuckooFilter.Remove([]byte(data))
}

// InsertHashable is the type-erased entry point over Insert.
func (cuckooFilter *CuckooFilterRedis) InsertHashable(item Hashable) (bool, error) {
	return cuckooFilter.Insert(item.HashBytes())
}

// LookupHashable is the type-erased entry point over Lookup.
func (cuckooFilter *CuckooFilterRedis) LookupHashable(item Hashable) (bool, error) {
	return cuckooFilter.Lookup(item.HashBytes())
}

// Reset clears every bucket.
func (cuckooFilter *CuckooFilterRedis) Reset() error {
	for _, bucket := range cuckooFilter.buckets {
		if err := bucket.Reset(); err != nil {
			return err
		}
	}
	cuckooFilter.length = 0
	return nil
}
