package tree

import "github.com/benz9527/xrbtree/lib/infra"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

// RBDirection names a child slot. Root is the slot held by the tree itself.
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

// Entry is satisfied by any *T whose T embeds Node[T].
// The method is unexported, so embedding is the only way in.
type Entry[T any] interface {
	*T
	links() *Node[T]
}

type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V, ifNotPresent ...bool) error
	Get(key K) (V, bool)
	Min() RBNode[K, V]
	Max() RBNode[K, V]
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}
