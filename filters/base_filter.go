// Package filters implements probabilistic set-membership filters: a
// bloom filter with analytically tuned parameters and a cuckoo filter
// with bounded-relocation bucketized cuckoo hashing. Both answer
// "might contain" with a bounded false positive rate and never yield
// false negatives for items they hold.
package filters

type BaseFilter[T any] interface {
	Insert(element T) (bool, error)
	Lookup(element T) (bool, error)
}

// Hashable is the capability consumed by the type-erased entry points:
// anything exposing a stable byte representation can be filtered. The
// bytes must not change across calls within one process run.
type Hashable interface {
	HashBytes() []byte
}

// DynFilter is the runtime-polymorphic surface over the same core
// paths as the statically typed []byte operations, for callers holding
// heterogeneous collections of hashable values.
type DynFilter interface {
	InsertHashable(item Hashable) (bool, error)
	LookupHashable(item Hashable) (bool, error)
}
