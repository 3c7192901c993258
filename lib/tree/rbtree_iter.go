package tree

import "iter"

func (tree *Tree[T, E]) minimum(x *T) *T {
	aux := x
	for ; aux != nil && tree.node(aux).left != nil; aux = tree.node(aux).left {
	}
	return aux
}

func (tree *Tree[T, E]) maximum(x *T) *T {
	aux := x
	for ; aux != nil && tree.node(aux).right != nil; aux = tree.node(aux).right {
	}
	return aux
}

// First returns the leftmost record, nil if the tree is empty.
func (tree *Tree[T, E]) First() *T {
	return tree.minimum(tree.root)
}

// Last returns the rightmost record, nil if the tree is empty.
func (tree *Tree[T, E]) Last() *T {
	return tree.maximum(tree.root)
}

// Next returns the in-order successor of x, nil if x is the last one.
func (tree *Tree[T, E]) Next(x *T) *T {
	if x == nil {
		return nil
	}
	if r := tree.node(x).right; r != nil {
		return tree.minimum(r)
	}

	aux := tree.node(x).parent
	// Backtrack until x is in a left subtree.
	for aux != nil && x == tree.node(aux).right {
		x = aux
		aux = tree.node(aux).parent
	}
	return aux
}

// Prev returns the in-order predecessor of x, nil if x is the first one.
func (tree *Tree[T, E]) Prev(x *T) *T {
	if x == nil {
		return nil
	}
	if l := tree.node(x).left; l != nil {
		return tree.maximum(l)
	}

	aux := tree.node(x).parent
	// Backtrack until x is in a right subtree.
	for aux != nil && x == tree.node(aux).left {
		x = aux
		aux = tree.node(aux).parent
	}
	return aux
}

// deepestLeft descends from x preferring left links, then right links,
// until it reaches a node without children.
func (tree *Tree[T, E]) deepestLeft(x *T) *T {
	for {
		xn := tree.node(x)
		if xn.left != nil {
			x = xn.left
		} else if xn.right != nil {
			x = xn.right
		} else {
			return x
		}
	}
}

// FirstPostorder returns the first record in postorder, nil if the tree
// is empty.
func (tree *Tree[T, E]) FirstPostorder() *T {
	if tree.root == nil {
		return nil
	}
	return tree.deepestLeft(tree.root)
}

// NextPostorder returns the record visited after x in postorder. Both
// children of a record are always visited before it.
func (tree *Tree[T, E]) NextPostorder(x *T) *T {
	if x == nil {
		return nil
	}
	p := tree.node(x).parent
	if p == nil {
		return nil
	}
	if pn := tree.node(p); x == pn.left && pn.right != nil {
		return tree.deepestLeft(pn.right)
	}
	return p
}

// All yields the records in ascending order.
func (tree *Tree[T, E]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for x := tree.First(); x != nil; x = tree.Next(x) {
			if !yield(x) {
				return
			}
		}
	}
}

// Backward yields the records in descending order.
func (tree *Tree[T, E]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for x := tree.Last(); x != nil; x = tree.Prev(x) {
			if !yield(x) {
				return
			}
		}
	}
}

// Postorder yields every record after both of its children. The next
// record is looked up before the current one is yielded, so the consumer
// may detach or drop the yielded record.
func (tree *Tree[T, E]) Postorder() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for x := tree.FirstPostorder(); x != nil; {
			next := tree.NextPostorder(x)
			if !yield(x) {
				return
			}
			x = next
		}
	}
}
