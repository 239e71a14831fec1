package filters

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
	"github.com/probkit/probkit/buckets"
)

func TestCuckooFilterBasic(t *testing.T) {
	filter := NewCuckooFilter(20)
	filter.Insert([]byte("john"))
	filter.Insert([]byte("jane"))
	if filter.Length() != 2 {
		t.Errorf("filter length should be 2, instead found %v", filter.Length())
	}
	ok, _ := filter.Lookup([]byte("john"))
	if !ok {
		t.Error("john should be present in filter")
	}
	ok, _ = filter.Lookup([]byte("joe"))
	if ok {
		t.Error("joe shouldn't be present in filter")
	}
}

func TestCuckooFilterSizing(t *testing.T) {
	cases := []struct {
		capacity   uint64
		numBuckets uint64
	}{
		{0, 1},
		{1, 1},
		{4, 1},
		{5, 2},
		{100, 32},
		{128, 32},
	}
	for _, c := range cases {
		filter := NewCuckooFilter(c.capacity)
		if filter.Size() != c.numBuckets {
			t.Errorf("capacity %v should make %v buckets, instead found %v", c.capacity, c.numBuckets, filter.Size())
		}
	}
}

func TestCuckooFilterErrorRate(t *testing.T) {
	filter := NewCuckooFilter(100)
	if filter.ErrorRate() != 0.03125 {
		t.Errorf("error rate should be 0.03125, instead found %v", filter.ErrorRate())
	}
	if filter.BucketSize() != 4 {
		t.Errorf("bucket size should be 4, instead found %v", filter.BucketSize())
	}
	if filter.CellSize() != filter.Size()*4 {
		t.Errorf("cell size should be %v, instead found %v", filter.Size()*4, filter.CellSize())
	}
}

func TestCuckooFilterAltIndexInvolution(t *testing.T) {
	filter := NewCuckooFilter(1024)
	for i := uint64(0); i < 200; i++ {
		fp := buckets.NewFingerprint(i * 2654435761)
		index := i % filter.Size()
		alt := filter.altIndex(fp, index)
		if filter.altIndex(fp, alt) != index {
			t.Fatalf("alt index of fingerprint %v should map back to %v", fp.Value(), index)
		}
	}
}

func TestCuckooFilterNoDedup(t *testing.T) {
	filter := NewCuckooFilter(20)
	e := []byte("foo")
	filter.Insert(e)
	filter.Insert(e)
	filter.Insert(e)
	if filter.Length() != 3 {
		t.Errorf("filter length should be 3, instead found %v", filter.Length())
	}
}

func TestCuckooFilterNoFalseNegatives(t *testing.T) {
	filter := NewCuckooFilter(1000)
	var inserted []uint32
	for i := uint32(0); i < 1000; i++ {
		if ok, _ := filter.Insert(uint32Bytes(i)); ok {
			inserted = append(inserted, i)
		}
	}
	for _, i := range inserted {
		ok, _ := filter.Lookup(uint32Bytes(i))
		if !ok {
			t.Fatalf("%v should be in filter", i)
		}
	}
}

func TestCuckooFilterFull(t *testing.T) {
	filter := NewCuckooFilter(4)
	sawBucketFull := false
	var inserted [][]byte
	for i := uint32(0); i < 100; i++ {
		e := uint32Bytes(i)
		ok, err := filter.Insert(e)
		if ok {
			inserted = append(inserted, e)
			continue
		}
		if !errors.Is(err, probkit.ErrBucketFull) {
			t.Fatalf("failed insert should return ErrBucketFull, got %v", err)
		}
		sawBucketFull = true
	}
	if !sawBucketFull {
		t.Fatal("inserting far beyond capacity should eventually return ErrBucketFull")
	}
	if filter.Length() > filter.CellSize() {
		t.Errorf("length %v can't exceed the %v slots", filter.Length(), filter.CellSize())
	}
	// a failed insert must not lose anything previously stored
	for _, e := range inserted {
		ok, _ := filter.Lookup(e)
		if !ok {
			t.Fatalf("%v should still be in filter after failed inserts", e)
		}
	}
}

func TestCuckooFilterRemove(t *testing.T) {
	filter := NewCuckooFilter(20)
	filter.Insert([]byte("alice"))
	filter.Insert([]byte("bob"))
	ok, err := filter.Remove([]byte("alice"))
	if err != nil || !ok {
		t.Fatalf("remove shouldn't fail, got %v", err)
	}
	if filter.Length() != 1 {
		t.Errorf("filter length should be 1, instead found %v", filter.Length())
	}
	_, err = filter.Remove([]byte("alice"))
	if !errors.Is(err, probkit.ErrFingerprintNotFound) {
		t.Errorf("second remove should return ErrFingerprintNotFound, got %v", err)
	}
	ok, _ = filter.Lookup([]byte("bob"))
	if !ok {
		t.Error("bob should still be in filter")
	}
}

func TestCuckooFilterReset(t *testing.T) {
	filter := NewCuckooFilter(20)
	filter.InsertString("alice")
	filter.InsertString("bob")
	if err := filter.Reset(); err != nil {
		t.Fatalf("reset shouldn't fail, got %v", err)
	}
	if filter.Length() != 0 {
		t.Errorf("filter length should be 0 after reset, instead found %v", filter.Length())
	}
	if ok, _ := filter.LookupString("alice"); ok {
		t.Error("alice shouldn't be in filter after reset")
	}
}

func TestCuckooFilterHashable(t *testing.T) {
	filter := NewCuckooFilter(100)
	for i := uint32(0); i < 10; i++ {
		if _, err := filter.InsertHashable(hashableID(i)); err != nil {
			t.Fatalf("insert shouldn't fail, got %v", err)
		}
	}
	for i := uint32(0); i < 10; i++ {
		ok, _ := filter.LookupHashable(hashableID(i))
		if !ok {
			t.Fatalf("%v should be in filter", i)
		}
	}
	if ok, _ := filter.Lookup(uint32Bytes(3)); !ok {
		t.Error("item inserted through the hashable path should be visible to the byte path")
	}
}

func TestCuckooFilterStrings(t *testing.T) {
	filter := NewCuckooFilter(20)
	filter.InsertString("sam")
	if ok, _ := filter.LookupString("sam"); !ok {
		t.Error("sam should be present in filter")
	}
	ok, err := filter.RemoveString("sam")
	if err != nil || !ok {
		t.Fatalf("remove shouldn't fail, got %v", err)
	}
	if ok, _ := filter.LookupString("sam"); ok {
		t.Error("sam shouldn't be present in filter anymore")
	}
}

func TestCuckooFilterErrorRateMatchesWidth(t *testing.T) {
	filter := NewCuckooFilter(100)
	expected := float64(2*filter.BucketSize()) / math.Exp2(buckets.FingerprintBits)
	if filter.ErrorRate() != expected {
		t.Errorf("error rate should be %v, instead found %v", expected, filter.ErrorRate())
	}
}
