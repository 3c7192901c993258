package tree

import (
	"errors"

	"go.uber.org/multierr"
)

var (
	ErrRBTreeRedViolation   = errors.New("[rbtree] red violation")
	ErrRBTreeBlackViolation = errors.New("[rbtree] black violation")
	ErrRBTreeLinkViolation  = errors.New("[rbtree] link violation")
)

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

type preorderFrame[T any] struct {
	x          *T
	blackDepth int
}

// preorder walks the tree through child links only, so it terminates
// even when parent back-references are broken. blackDepth counts the black
// nodes from the root down to x, x included.
func preorder[T any, E Entry[T]](tree *Tree[T, E], action func(x *T, blackDepth int) bool) {
	if tree.root == nil {
		return
	}

	stack := make([]preorderFrame[T], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, preorderFrame[T]{x: tree.root})

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		n := tree.node(aux.x)
		depth := aux.blackDepth
		if n.color == Black {
			depth++
		}
		if !action(aux.x, depth) {
			return
		}
		if n.right != nil {
			stack = append(stack, preorderFrame[T]{x: n.right, blackDepth: depth})
		}
		if n.left != nil {
			stack = append(stack, preorderFrame[T]{x: n.left, blackDepth: depth})
		}
	}
}

// RedViolationValidate checks that the root is not red and no red node
// has a red child or parent.
func RedViolationValidate[T any, E Entry[T]](tree *Tree[T, E]) (err error) {
	preorder(tree, func(aux *T, _ int) bool {
		n := tree.node(aux)
		if n.color != Red {
			return true
		}
		if aux == tree.root || tree.isRed(n.parent) ||
			tree.isRed(n.left) || tree.isRed(n.right) {
			err = ErrRBTreeRedViolation
			return false
		}
		return true
	})
	return
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Every NIL link must sit at the same black depth from the root.
*/
func BlackViolationValidate[T any, E Entry[T]](tree *Tree[T, E]) (err error) {
	blackDepth := -1
	preorder(tree, func(aux *T, depth int) bool {
		if n := tree.node(aux); n.left != nil && n.right != nil {
			return true
		}
		if blackDepth < 0 {
			blackDepth = depth
		} else if depth != blackDepth {
			err = ErrRBTreeBlackViolation
			return false
		}
		return true
	})
	return
}

// LinkViolationValidate checks the root is black and parentless, and
// every child points back at its parent.
func LinkViolationValidate[T any, E Entry[T]](tree *Tree[T, E]) (err error) {
	if tree.root == nil {
		return nil
	}
	if rn := tree.node(tree.root); rn.parent != nil || rn.color != Black || !rn.linked {
		return ErrRBTreeLinkViolation
	}
	preorder(tree, func(aux *T, _ int) bool {
		n := tree.node(aux)
		if !n.linked ||
			(n.left != nil && tree.node(n.left).parent != aux) ||
			(n.right != nil && tree.node(n.right).parent != aux) {
			err = ErrRBTreeLinkViolation
			return false
		}
		return true
	})
	return
}

// Validate runs every rule check and reports all violations at once.
func Validate[T any, E Entry[T]](tree *Tree[T, E]) error {
	var err error
	err = multierr.Append(err, LinkViolationValidate(tree))
	err = multierr.Append(err, RedViolationValidate(tree))
	err = multierr.Append(err, BlackViolationValidate(tree))
	return err
}

// BlackHeight returns the number of black nodes on every path from the
// root down to a NIL link, NIL excluded.
func BlackHeight[T any, E Entry[T]](tree *Tree[T, E]) (int, error) {
	h := blackHeight(tree, tree.root)
	if h < 0 {
		return 0, ErrRBTreeBlackViolation
	}
	return h, nil
}

func blackHeight[T any, E Entry[T]](tree *Tree[T, E], x *T) int {
	if x == nil {
		return 0
	}
	n := tree.node(x)
	l, r := blackHeight(tree, n.left), blackHeight(tree, n.right)
	if l < 0 || r < 0 || l != r {
		return -1
	}
	if n.color == Black {
		l++
	}
	return l
}

// MaxDepth returns the depth of the deepest node, the root being at 0.
// An empty tree has depth -1.
func MaxDepth[T any, E Entry[T]](tree *Tree[T, E]) int {
	return maxDepth(tree, tree.root)
}

func maxDepth[T any, E Entry[T]](tree *Tree[T, E], x *T) int {
	if x == nil {
		return -1
	}
	n := tree.node(x)
	return max(maxDepth(tree, n.left), maxDepth(tree, n.right)) + 1
}
