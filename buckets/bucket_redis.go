package buckets

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/probkit/probkit"
)

// BucketRedis keeps the slots as a fixed-length redis list under key,
// with the empty string as the empty-slot sentinel and fingerprints
// stored as their decimal value. Slot occupancy is tracked locally;
// the filter owning the bucket serializes access.
type BucketRedis struct {
	key string
	*AbstractBucket
}

func NewBucketRedis(key string, size uint64) *BucketRedis {
	bucket := &AbstractBucket{}
	bucket.size = size
	bucket.length = 0
	return &BucketRedis{key, bucket}
}

func (bucket *BucketRedis) Key() string {
	return bucket.key
}

// Init creates the backing list filled with empty sentinels. It must
// run once before any slot operation.
func (bucket *BucketRedis) Init() error {
	initBucket := redis.NewScript(`
		local key = KEYS[1]
		local size = tonumber(ARGV[1])
		redis.call("DEL", key)
		for i=1, size do
			redis.call("RPUSH", key, "")
		end
		return true
	`)
	_, err := initBucket.Run(context.Background(), probkit.GetRedisClient(), []string{bucket.key}, bucket.size).Result()
	if err != nil {
		return errors.Wrapf(err, "error while initializing bucket %s", bucket.key)
	}
	bucket.length = 0
	return nil
}

func (bucket *BucketRedis) At(index uint64) (Fingerprint, error) {
	val, err := probkit.GetRedisClient().LIndex(context.Background(), bucket.key, int64(index)).Result()
	if err != nil {
		return EmptyFingerprint, errors.Wrapf(err, "error while reading slot %d of %s", index, bucket.key)
	}
	return parseFingerprint(val)
}

// TryInsert places fp in the first empty slot.
func (bucket *BucketRedis) TryInsert(fp Fingerprint) error {
	if fp.IsEmpty() {
		return errors.Wrap(probkit.ErrInvalidParameter, "can't insert the empty fingerprint")
	}
	if !bucket.IsFree() {
		return errors.Wrapf(probkit.ErrBucketFull, "couldn't insert fingerprint %d", fp.Value())
	}
	addFingerprint := redis.NewScript(`
		local key = KEYS[1]
		local fp = ARGV[1]
		local pos = redis.call('LPOS', key, '')
		if pos == false then
			return false
		end
		redis.call('LSET', key, tonumber(pos), fp)
		return true
	`)
	// a Lua false comes back as redis.Nil
	ok, err := addFingerprint.Run(context.Background(), probkit.GetRedisClient(), []string{bucket.key}, formatFingerprint(fp)).Bool()
	if err != nil && err != redis.Nil {
		return errors.Wrapf(err, "error while inserting fingerprint %d into %s", fp.Value(), bucket.key)
	}
	if !ok {
		return errors.Wrapf(probkit.ErrBucketFull, "couldn't insert fingerprint %d", fp.Value())
	}
	bucket.length++
	return nil
}

// TryDelete removes the first slot equal to fp.
func (bucket *BucketRedis) TryDelete(fp Fingerprint) error {
	removeFingerprint := redis.NewScript(`
		local key = KEYS[1]
		local fp = ARGV[1]
		local pos = redis.call('LPOS', key, fp)
		if pos == false then
			return false
		end
		redis.call('LSET', key, tonumber(pos), '')
		return true
	`)
	ok, err := removeFingerprint.Run(context.Background(), probkit.GetRedisClient(), []string{bucket.key}, formatFingerprint(fp)).Bool()
	if err != nil && err != redis.Nil {
		return errors.Wrapf(err, "error while deleting fingerprint %d from %s", fp.Value(), bucket.key)
	}
	if !ok {
		return errors.Wrapf(probkit.ErrFingerprintNotFound, "bucket %s doesn't contain fingerprint %d", bucket.key, fp.Value())
	}
	bucket.length--
	return nil
}

func (bucket *BucketRedis) Contains(fp Fingerprint) (bool, error) {
	lPosArgs := redis.LPosArgs{Rank: 1, MaxLen: 0}
	pos, err := probkit.GetRedisClient().LPos(context.Background(), bucket.key, formatFingerprint(fp), lPosArgs).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "error while searching fingerprint %d in %s", fp.Value(), bucket.key)
	}
	return pos > -1, nil
}

// Set overwrites the slot at index without touching occupancy, used by
// the relocation loop.
func (bucket *BucketRedis) Set(index uint64, fp Fingerprint) error {
	err := probkit.GetRedisClient().LSet(context.Background(), bucket.key, int64(index), formatFingerprint(fp)).Err()
	if err != nil {
		return errors.Wrapf(err, "error while setting slot %d of %s", index, bucket.key)
	}
	return nil
}

// Reset clears all slots to empty.
func (bucket *BucketRedis) Reset() error {
	return bucket.Init()
}

func (bucket *BucketRedis) Equals(otherBucket *BucketRedis) (bool, error) {
	if bucket.size != otherBucket.size || bucket.length != otherBucket.length {
		return false, nil
	}
	equals := redis.NewScript(`
		local key1 = KEYS[1]
		local key2 = KEYS[2]
		local size = tonumber(ARGV[1])
		for i=1, size do
			local val1 = redis.call("LINDEX", key1, i-1)
			local val2 = redis.call("LINDEX", key2, i-1)
			if val1 ~= val2 then
				return false
			end
		end
		return true
	`)
	ok, err := equals.Run(context.Background(), probkit.GetRedisClient(), []string{bucket.key, otherBucket.key}, bucket.size).Bool()
	if err != nil && err != redis.Nil {
		return false, errors.Wrapf(err, "error while comparing %s with %s", bucket.key, otherBucket.key)
	}
	return ok, nil
}

func formatFingerprint(fp Fingerprint) string {
	return strconv.FormatUint(uint64(fp.Value()), 10)
}

func parseFingerprint(val string) (Fingerprint, error) {
	if val == "" {
		return EmptyFingerprint, nil
	}
	parsed, err := strconv.ParseUint(val, 10, FingerprintBits)
	if err != nil {
		return EmptyFingerprint, errors.Wrapf(err, "malformed fingerprint %q", val)
	}
	return Fingerprint(parsed), nil
}
