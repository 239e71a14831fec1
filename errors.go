package probkit

import "github.com/pkg/errors"

// Error kinds returned by the filter packages. Callers discriminate
// with errors.Is; messages at the call site carry the offending values.
var (
	// ErrInvalidParameter signals an out-of-range constructor argument.
	ErrInvalidParameter = errors.New("probkit: invalid parameter")

	// ErrConversion signals a floating-point intermediate that can't be
	// mapped to an index-sized integer.
	ErrConversion = errors.New("probkit: conversion error")

	// ErrFilterTooLarge signals that the parameter search outgrew the
	// maximum supported bit size.
	ErrFilterTooLarge = errors.New("probkit: filter too large")

	// ErrBucketFull signals that a bucket, or the whole cuckoo filter
	// after exhausting relocations, has no free slot.
	ErrBucketFull = errors.New("probkit: bucket full")

	// ErrFingerprintNotFound signals a delete for a fingerprint absent
	// from both candidate buckets.
	ErrFingerprintNotFound = errors.New("probkit: fingerprint not found")
)
