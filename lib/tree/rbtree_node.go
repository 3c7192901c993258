package tree

// Node is the link block of an intrusive red-black tree.
// A record joins a tree by embedding it:
//
//	type item struct {
//		tree.Node[item]
//		key int
//	}
//
// The zero value is a detached node. All links point at the embedding
// records, so walking the tree hands back records directly.
type Node[T any] struct {
	parent *T
	left   *T
	right  *T
	color  RBColor
	// Distinguishes a detached node from a root, both have no parent.
	linked bool
}

func (node *Node[T]) links() *Node[T] {
	return node
}

func (node *Node[T]) Color() RBColor {
	return node.color
}

func (node *Node[T]) IsRed() bool {
	return node.linked && node.color == Red
}

func (node *Node[T]) IsBlack() bool {
	return !node.IsRed()
}

func (node *Node[T]) Parent() *T {
	return node.parent
}

func (node *Node[T]) Left() *T {
	return node.left
}

func (node *Node[T]) Right() *T {
	return node.right
}

// Linked reports whether the node currently belongs to a tree.
func (node *Node[T]) Linked() bool {
	return node.linked
}

func (node *Node[T]) isLeaf() bool {
	return node.left == nil && node.right == nil
}

func (node *Node[T]) reset() {
	*node = Node[T]{}
}
