package bitset

import (
	"testing"
)

func TestBitSetMemHas(t *testing.T) {
	bitset := NewBitSetMem(8)
	bitset.Insert(2)
	bitset.Insert(3)
	bitset.Insert(7)
	if ok, _ := bitset.Has(3); !ok {
		t.Fatalf("should be true at index 3, got %v", ok)
	}
	if ok, _ := bitset.Has(4); ok {
		t.Fatalf("should be false at index 4, got %v", ok)
	}
}

func TestBitSetMemInsertMulti(t *testing.T) {
	bitset := NewBitSetMem(16)
	bitset.InsertMulti([]uint{1, 5, 8})
	for _, index := range []uint{1, 5, 8} {
		if ok, _ := bitset.Has(index); !ok {
			t.Fatalf("should be true at index %v, got %v", index, ok)
		}
	}
	if ok, _ := bitset.Has(2); ok {
		t.Fatalf("should be false at index 2, got %v", ok)
	}
}

func TestBitSetMemBitCount(t *testing.T) {
	bitset := NewBitSetMem(16)
	bitset.InsertMulti([]uint{0, 1, 9, 10})
	setBits, _ := bitset.BitCount()
	if setBits != 4 {
		t.Fatalf("count of set bits should be 4, got %v", setBits)
	}
}

func TestBitSetMemReset(t *testing.T) {
	bitset := NewBitSetMem(16)
	bitset.InsertMulti([]uint{0, 7, 15})
	if err := bitset.Reset(); err != nil {
		t.Fatalf("reset shouldn't error, got %v", err)
	}
	setBits, _ := bitset.BitCount()
	if setBits != 0 {
		t.Fatalf("count of set bits should be 0 after reset, got %v", setBits)
	}
	if bitset.Size() != 16 {
		t.Fatalf("size should survive reset, got %v", bitset.Size())
	}
}

func TestBitSetMemNotEqual(t *testing.T) {
	aBitset := NewBitSetMem(4)
	bBitset := &BitSetRedis{4, "k"}
	if _, err := aBitset.Equals(bBitset); err == nil {
		t.Fatal("comparing different bitset types should error")
	}
}

func TestBitSetMemEqual(t *testing.T) {
	aBitset := NewBitSetMem(3)
	aBitset.Insert(0)
	aBitset.Insert(1)
	bBitset := NewBitSetMem(3)
	bBitset.Insert(0)
	bBitset.Insert(1)
	ok, err := aBitset.Equals(bBitset)
	if err != nil {
		t.Fatalf("error while comparing bitsets: %v", err)
	}
	if !ok {
		t.Fatal("aBitset and bBitset should be equal")
	}
}
