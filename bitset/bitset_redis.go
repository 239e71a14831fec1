package bitset

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/probkit/probkit"
)

// BitSetRedis stores the bit array as a redis string value and drives
// it with SETBIT/GETBIT/BITCOUNT. All instances share the process-wide
// client configured through probkit.MakeRedisClient.
type BitSetRedis struct {
	size uint
	key  string
}

func NewBitSetRedis(size uint) *BitSetRedis {
	key := "bloom_" + probkit.GenerateRandomString(16)
	bitSet := &BitSetRedis{size, key}
	_ = bitSet.Reset()
	return bitSet
}

func (bitSet *BitSetRedis) Size() uint {
	return bitSet.size
}

func (bitSet *BitSetRedis) Key() string {
	return bitSet.key
}

func (bitSet *BitSetRedis) Has(index uint) (bool, error) {
	val, err := probkit.GetRedisClient().GetBit(context.Background(), bitSet.key, int64(index)).Result()
	if err != nil {
		return false, errors.Wrapf(err, "error while reading bit %d of %s", index, bitSet.key)
	}
	return val != 0, nil
}

func (bitSet *BitSetRedis) Insert(index uint) (bool, error) {
	err := probkit.GetRedisClient().SetBit(context.Background(), bitSet.key, int64(index), 1).Err()
	if err != nil {
		return false, errors.Wrapf(err, "error while setting bit %d of %s", index, bitSet.key)
	}
	return true, nil
}

func (bitSet *BitSetRedis) InsertMulti(indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, errors.New("at least 1 index is required")
	}
	pipe := probkit.GetRedisClient().Pipeline()
	ctx := context.Background()
	for i := range indexes {
		pipe.SetBit(ctx, bitSet.key, int64(indexes[i]), 1)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "error while setting bits of %s", bitSet.key)
	}
	return true, nil
}

func (bitSet *BitSetRedis) BitCount() (uint, error) {
	bitRange := &redis.BitCount{Start: 0, End: -1}
	val, err := probkit.GetRedisClient().BitCount(context.Background(), bitSet.key, bitRange).Result()
	if err != nil {
		return 0, errors.Wrapf(err, "error while counting bits of %s", bitSet.key)
	}
	return uint(val), nil
}

// Reset overwrites the value with all-zero bytes sized to hold the
// whole bit array.
func (bitSet *BitSetRedis) Reset() error {
	zeroes := make([]byte, (bitSet.size+7)/8)
	err := probkit.GetRedisClient().Set(context.Background(), bitSet.key, string(zeroes), 0).Err()
	if err != nil {
		return errors.Wrapf(err, "error while clearing %s", bitSet.key)
	}
	return nil
}

func (aSet *BitSetRedis) Equals(otherBitSet IBitSet) (bool, error) {
	bSet, ok := otherBitSet.(*BitSetRedis)
	if !ok {
		return false, errors.New("invalid bitset type, should be BitSetRedis")
	}
	aSetVal, err := probkit.GetRedisClient().Get(context.Background(), aSet.key).Result()
	if err != nil {
		return false, errors.Wrapf(err, "error while reading %s", aSet.key)
	}
	bSetVal, err := probkit.GetRedisClient().Get(context.Background(), bSet.key).Result()
	if err != nil {
		return false, errors.Wrapf(err, "error while reading %s", bSet.key)
	}
	return aSetVal == bSetVal, nil
}
