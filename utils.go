package probkit

import (
	"math"
	"math/rand"
	"time"
	"unsafe"

	"github.com/pkg/errors"
)

func Max(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// FloatToUint converts a floating-point intermediate to an index-sized
// integer, failing with ErrConversion instead of truncating or wrapping
// when the value is negative, non-finite or out of range.
func FloatToUint(number float64, what string) (uint, error) {
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, errors.Wrapf(ErrConversion, "%s is not finite: %v", what, number)
	}
	floored := math.Floor(number)
	if floored < 0 {
		return 0, errors.Wrapf(ErrConversion, "%s is negative: %v", what, floored)
	}
	if floored > float64(math.MaxInt) {
		return 0, errors.Wrapf(ErrConversion, "%s overflows the index range: %v", what, floored)
	}
	return uint(floored), nil
}

var src = rand.NewSource(time.Now().UnixNano())

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// GenerateRandomString returns a random alphabetic string of length n,
// used to key redis-backed structures.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}
