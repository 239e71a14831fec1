package bitset

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// BitSetMem is the in-memory bit array, backed by bits-and-blooms.
type BitSetMem struct {
	set  *bitset.BitSet
	size uint
}

func NewBitSetMem(size uint) *BitSetMem {
	return &BitSetMem{bitset.New(size), size}
}

func (bitSet *BitSetMem) Size() uint {
	return bitSet.size
}

func (bitSet *BitSetMem) Has(index uint) (bool, error) {
	return bitSet.set.Test(index), nil
}

func (bitSet *BitSetMem) Insert(index uint) (bool, error) {
	bitSet.set.Set(index)
	return true, nil
}

func (bitSet *BitSetMem) InsertMulti(indexes []uint) (bool, error) {
	for _, index := range indexes {
		bitSet.set.Set(index)
	}
	return true, nil
}

func (bitSet *BitSetMem) BitCount() (uint, error) {
	return bitSet.set.Count(), nil
}

// Reset clears every bit in place; the size is unchanged.
func (bitSet *BitSetMem) Reset() error {
	bitSet.set.ClearAll()
	return nil
}

func (firstBitSet *BitSetMem) Equals(otherBitSet IBitSet) (bool, error) {
	secondBitSet, ok := otherBitSet.(*BitSetMem)
	if !ok {
		return false, errors.New("invalid bitset type, should be BitSetMem")
	}
	return firstBitSet.set.Equal(secondBitSet.set), nil
}
