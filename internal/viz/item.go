package viz

import (
	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
)

// Item is an integer key threaded into a KeyTree.
type Item struct {
	tree.Node[Item]
	Key int
}

// KeyTree is an ordered set of integer keys. The Items belong to the
// KeyTree, a caller must not relink them elsewhere.
type KeyTree struct {
	tree  tree.Tree[Item, *Item]
	count int
}

func NewKeyTree() *KeyTree {
	return &KeyTree{}
}

func (kt *KeyTree) search(key int) (found, parent *Item, dir tree.RBDirection) {
	return kt.tree.Search(func(x *Item) int64 {
		return infra.CompareOrderedKey(key, x.Key)
	})
}

// Insert adds key and reports whether it was new. Duplicates are ignored.
func (kt *KeyTree) Insert(key int) bool {
	found, parent, dir := kt.search(key)
	if found != nil {
		return false
	}
	kt.tree.Insert(&Item{Key: key}, parent, dir)
	kt.count++
	return true
}

// Delete removes key and reports whether it was present.
func (kt *KeyTree) Delete(key int) bool {
	found, _, _ := kt.search(key)
	if found == nil {
		return false
	}
	kt.tree.Remove(found)
	kt.count--
	return true
}

func (kt *KeyTree) Contains(key int) bool {
	found, _, _ := kt.search(key)
	return found != nil
}

// Keys returns every key in ascending order.
func (kt *KeyTree) Keys() []int {
	keys := make([]int, 0, kt.count)
	for x := range kt.tree.All() {
		keys = append(keys, x.Key)
	}
	return keys
}

func (kt *KeyTree) Len() int {
	return kt.count
}

func (kt *KeyTree) Root() *Item {
	return kt.tree.Root()
}

// Depth is the depth of the deepest key, the root being at 0 and an empty
// tree at -1.
func (kt *KeyTree) Depth() int {
	return tree.MaxDepth(&kt.tree)
}

func (kt *KeyTree) BlackHeight() (int, error) {
	return tree.BlackHeight(&kt.tree)
}

// Validate reports every broken red-black rule.
func (kt *KeyTree) Validate() error {
	return tree.Validate(&kt.tree)
}

// Release empties the tree and detaches every Item.
func (kt *KeyTree) Release() {
	kt.tree.Release(nil)
	kt.count = 0
}
