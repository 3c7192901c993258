package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// CompareOrderedKey is the ascending OrderedKeyComparator.
// NaN sorts before every other float and equals itself, so a tree keyed by
// floats still has a total order.
func CompareOrderedKey[K OrderedKey](i, j K) int64 {
	iNaN, jNaN := i != i, j != j
	switch {
	case iNaN && jNaN:
		return 0
	case iNaN:
		return -1
	case jNaN:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

// Reverse flips cmp, the smallest key walks to the right.
func (cmp OrderedKeyComparator[K]) Reverse() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return -cmp(i, j)
	}
}
