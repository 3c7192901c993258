package tree

import (
	"errors"

	"github.com/benz9527/xrbtree/lib/infra"
)

var (
	ErrRBTreeEmpty           = errors.New("[rbtree] empty element to remove")
	ErrRBTreeKeyNotFound     = errors.New("[rbtree] key not found")
	ErrRBTreeReplaceDisabled = errors.New("[rbtree] replace disabled")
)

var _ RBNode[int, struct{}] = (*rbNode[int, struct{}])(nil)

type rbNode[K infra.OrderedKey, V any] struct {
	Node[rbNode[K, V]]
	key K
	val V
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.Node.Left() == nil {
		return nil
	}
	return node.Node.Left()
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.Node.Right() == nil {
		return nil
	}
	return node.Node.Right()
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.Node.Parent() == nil {
		return nil
	}
	return node.Node.Parent()
}

var _ RBTree[int, struct{}] = (*rbTree[int, struct{}])(nil)

// rbTree is not safe for concurrent use, like the Tree under it. count
// is a plain field, callers serialize every call.
type rbTree[K infra.OrderedKey, V any] struct {
	tree       Tree[rbNode[K, V], *rbNode[K, V]]
	count      int64
	isDesc     bool
	keyCompare infra.OrderedKeyComparator[K]
}

func (tree *rbTree[K, V]) search(key K) (found, parent *rbNode[K, V], dir RBDirection) {
	return tree.tree.Search(func(node *rbNode[K, V]) int64 {
		return tree.keyCompare(key, node.key)
	})
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if root := tree.tree.Root(); root != nil {
		return root
	}
	return nil
}

// Insert adds key with val. An existing key gets a fresh node carrying the
// new value in the same position, unless ifNotPresent is set.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	found, parent, dir := tree.search(key)
	if found != nil {
		if /* disabled */ len(ifNotPresent) > 0 && ifNotPresent[0] {
			return ErrRBTreeReplaceDisabled
		}
		tree.tree.Replace(found, &rbNode[K, V]{key: key, val: val})
		return nil
	}

	tree.tree.Insert(&rbNode[K, V]{key: key, val: val}, parent, dir)
	tree.count++
	return nil
}

func (tree *rbTree[K, V]) Get(key K) (V, bool) {
	if found, _, _ := tree.search(key); found != nil {
		return found.val, true
	}
	return *new(V), false
}

func (tree *rbTree[K, V]) Min() RBNode[K, V] {
	if x := tree.tree.First(); x != nil {
		return x
	}
	return nil
}

func (tree *rbTree[K, V]) Max() RBNode[K, V] {
	if x := tree.tree.Last(); x != nil {
		return x
	}
	return nil
}

func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) RBNode[K, V] {
	tree.tree.Remove(z)
	tree.count--
	return z
}

// Remove detaches the node holding key and returns it.
func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrRBTreeEmpty
	}
	z, _, _ := tree.search(key)
	if z == nil {
		return nil, ErrRBTreeKeyNotFound
	}
	return tree.removeNode(z), nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrRBTreeKeyNotFound
	}
	_min := tree.tree.First()
	if _min == nil {
		return nil, ErrRBTreeKeyNotFound
	}
	return tree.removeNode(_min), nil
}

// Foreach visits the nodes in tree order until action returns false.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	idx := int64(0)
	for aux := range tree.tree.All() {
		if !action(idx, aux.Color(), aux.key, aux.val) {
			return
		}
		idx++
	}
}

// Release detaches every node in postorder.
func (tree *rbTree[K, V]) Release() {
	tree.tree.Release(func(*rbNode[K, V]) {
		tree.count--
	})
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := &rbTree[K, V]{
		count:  0,
		isDesc: false,
	}

	for _, o := range opts {
		o(tree)
	}
	tree.keyCompare = infra.CompareOrderedKey[K]
	if tree.isDesc {
		tree.keyCompare = tree.keyCompare.Reverse()
	}
	return tree
}
