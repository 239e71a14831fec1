// Package bitset provides the bit-array storage behind the bloom
// filter, with an in-memory and a redis-backed implementation.
package bitset

type IBitSet interface {
	Size() uint
	Has(index uint) (bool, error)
	Insert(index uint) (bool, error)
	InsertMulti(indexes []uint) (bool, error)
	BitCount() (uint, error)
	Reset() error
	Equals(otherBitSet IBitSet) (bool, error)
}
