package filters

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/probkit/probkit"
)

func TestFalsePositiveRate(t *testing.T) {
	rate := falsePositiveRate(127, 10, 12)
	expected := 0.0040700428771982405
	if math.Abs(rate-expected) > 1e-12 {
		t.Errorf("rate should be %v, instead found %v", expected, rate)
	}
}

func TestOptimizeParameters(t *testing.T) {
	bitSize, numHashes, rate, err := optimizeParameters(100, 0.001)
	if err != nil {
		t.Fatalf("optimization shouldn't fail, got %v", err)
	}
	if bitSize != 1449 {
		t.Errorf("bit size should be 1449, instead found %v", bitSize)
	}
	if numHashes != 10 {
		t.Errorf("hash function count should be 10, instead found %v", numHashes)
	}
	if math.Abs(rate-0.0009855169665896925) > 1e-9 {
		t.Errorf("realized rate should be about 0.00098551, instead found %v", rate)
	}
	if rate >= 0.001 {
		t.Errorf("realized rate %v should beat the target", rate)
	}
}

func TestOptimizeParametersAcceptsStartingPoint(t *testing.T) {
	bitSize, numHashes, rate, err := optimizeParameters(1, 0.5)
	if err != nil {
		t.Fatalf("optimization shouldn't fail, got %v", err)
	}
	if bitSize != 4 || numHashes != 2 {
		t.Errorf("lax targets should accept the 4 bits/item start, found (%v, %v)", bitSize, numHashes)
	}
	if rate >= 0.5 {
		t.Errorf("realized rate %v should beat the target", rate)
	}
}

func TestOptimizeParametersTooLarge(t *testing.T) {
	_, _, _, err := optimizeParameters(10_000_000_000, 1e-9)
	if !errors.Is(err, probkit.ErrFilterTooLarge) {
		t.Errorf("search outgrowing the cap should return ErrFilterTooLarge, got %v", err)
	}
}

func TestApproximateCount(t *testing.T) {
	estimate := approximateCount(100, 9, 50)
	expected := 7.701635339554948
	if math.Abs(estimate-expected) > 1e-12 {
		t.Errorf("estimate should be %v, instead found %v", expected, estimate)
	}
	if approximateCount(1000, 5, 0) != 0 {
		t.Error("estimate for an empty filter should be 0")
	}
}
