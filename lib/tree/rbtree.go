package tree

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
//
// Tree never compares keys. The caller walks the tree with its own
// comparator (see Search), links the new record into the empty slot it
// found and then asks Tree to rebalance. The caller owns every record, Tree
// only rewires links.
//
// Tree is not safe for concurrent use. Mutations must be serialized against
// each other and against traversals.

// Tree is the root of an intrusive red-black tree whose nodes are records
// of type T embedding Node[T]. The zero value is an empty tree.
type Tree[T any, E Entry[T]] struct {
	root *T
}

func (tree *Tree[T, E]) node(x *T) *Node[T] {
	return E(x).links()
}

func (tree *Tree[T, E]) Root() *T {
	return tree.root
}

func (tree *Tree[T, E]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *Tree[T, E]) isRed(x *T) bool {
	return x != nil && tree.node(x).color == Red
}

func (tree *Tree[T, E]) isBlack(x *T) bool {
	return x == nil || tree.node(x).color == Black
}

func (tree *Tree[T, E]) direction(x *T) RBDirection {
	p := tree.node(x).parent
	if p == nil {
		return Root
	}
	if tree.node(p).left == x {
		return Left
	}
	return Right
}

// changeChild points the slot that held from (a child link of parent, or
// the root link when parent is nil) at to.
func (tree *Tree[T, E]) changeChild(from, to, parent *T) {
	if parent == nil {
		tree.root = to
		return
	}
	pn := tree.node(parent)
	if pn.left == from {
		pn.left = to
	} else {
		pn.right = to
	}
}

// Link attaches a detached record x as a red leaf into the empty slot named
// by parent and dir. A nil parent with dir Root names the root slot of an
// empty tree. Link does not rebalance; follow it with InsertRebalance.
func (tree *Tree[T, E]) Link(x, parent *T, dir RBDirection) {
	if x == nil {
		panic( /* debug assertion */ "[rbtree] link a nil node")
	}
	xn := tree.node(x)
	if xn.linked {
		panic( /* debug assertion */ "[rbtree] link a node which is already in a tree")
	}

	switch dir {
	case Root:
		if parent != nil || tree.root != nil {
			panic( /* debug assertion */ "[rbtree] link into an occupied root slot")
		}
		tree.root = x
	case Left, Right:
		if parent == nil || !tree.node(parent).linked {
			panic( /* debug assertion */ "[rbtree] link under a parent which is not in a tree")
		}
		pn := tree.node(parent)
		if dir == Left {
			if pn.left != nil {
				panic( /* debug assertion */ "[rbtree] link into an occupied left slot")
			}
			pn.left = x
		} else {
			if pn.right != nil {
				panic( /* debug assertion */ "[rbtree] link into an occupied right slot")
			}
			pn.right = x
		}
	default:
		panic( /* debug assertion */ "[rbtree] link with unknown direction")
	}

	xn.parent, xn.left, xn.right = parent, nil, nil
	xn.color = Red
	xn.linked = true
}

// Insert links x into the slot named by parent and dir and rebalances.
func (tree *Tree[T, E]) Insert(x, parent *T, dir RBDirection) {
	tree.Link(x, parent, dir)
	tree.InsertRebalance(x)
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *Tree[T, E]) leftRotate(x *T) {
	xn := tree.node(x)
	y := xn.right
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x.right is nil")
	}
	yn := tree.node(y)
	p := xn.parent

	xn.right = yn.left
	if yn.left != nil {
		tree.node(yn.left).parent = x
	}
	yn.left = x
	xn.parent = y
	yn.parent = p
	tree.changeChild(x, y, p)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *Tree[T, E]) rightRotate(x *T) {
	xn := tree.node(x)
	y := xn.left
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x.left is nil")
	}
	yn := tree.node(y)
	p := xn.parent

	xn.left = yn.right
	if yn.right != nil {
		tree.node(yn.right).parent = x
	}
	yn.right = x
	xn.parent = y
	yn.parent = p
	tree.changeChild(x, y, p)
}

/*
InsertRebalance restores the rbtree properties after x was linked as a red
leaf. The root may change.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: The parent P is black (or X is the root). Nothing to fix.

im2: Both the parent P and the uncle U are red, so the grandpa G is black.
Repaint P and U into black and G into red. G may now be in a red-violation
with its own parent, continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: The parent P is red but the uncle U is black. X is the inner
grandchild. Rotate P away from X so that P becomes the outer grandchild,
then fix it as im4.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: X is the outer grandchild. Rotate G towards U and repaint.
No red-violation is left above.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *Tree[T, E]) InsertRebalance(x *T) {
	if x == nil {
		panic( /* debug assertion */ "[rbtree] rebalance a nil node")
	}
	if xn := tree.node(x); !xn.linked || xn.color != Red || !xn.isLeaf() {
		panic( /* debug assertion */ "[rbtree] rebalance a node which is not a freshly linked leaf")
	}

	for {
		p := tree.node(x).parent
		if /* im1 */ p == nil || tree.isBlack(p) {
			break
		}
		pn := tree.node(p)
		g := pn.parent
		if g == nil {
			// Red root, the final repaint below absorbs it.
			break
		}
		gn := tree.node(g)

		if p == gn.left {
			if u := gn.right; /* im2 */ tree.isRed(u) {
				pn.color = Black
				tree.node(u).color = Black
				gn.color = Red
				x = g
				continue
			}
			if /* im3 */ x == pn.right {
				tree.leftRotate(p)
				x, p = p, x
				pn = tree.node(p)
			}
			/* im4 */
			pn.color = Black
			gn.color = Red
			tree.rightRotate(g)
			break
		}

		if u := gn.left; /* im2 */ tree.isRed(u) {
			pn.color = Black
			tree.node(u).color = Black
			gn.color = Red
			x = g
			continue
		}
		if /* im3 */ x == pn.left {
			tree.rightRotate(p)
			x, p = p, x
			pn = tree.node(p)
		}
		/* im4 */
		pn.color = Black
		gn.color = Red
		tree.leftRotate(g)
		break
	}
	tree.node(tree.root).color = Black
}

/*
Remove detaches z from the tree and rebalances. Afterwards z is a zero
Node again and the caller may reuse or drop it.

r1: z has at most one child. The child (or an empty slot) takes z's place.

r2: z has two children. Its successor S (the minimum of the right subtree)
has no left child. S is spliced out of its own position and moved into
z's position, taking z's color. The position S vacated is where the
black-height may be short.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   move(S, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..
	   \
	    X

r3: The removed (or moved) node was red. Nothing to fix.

r4: It was black. The node now in the vacated slot carries a black
deficiency, fix it with removeRebalance.
*/
func (tree *Tree[T, E]) Remove(z *T) {
	if z == nil || !tree.node(z).linked {
		panic( /* debug assertion */ "[rbtree] remove a node which is not in a tree")
	}

	zn := tree.node(z)
	var (
		child, parent *T
		removedColor  RBColor
	)
	if /* r1 */ zn.left == nil || zn.right == nil {
		child = zn.left
		if child == nil {
			child = zn.right
		}
		parent = zn.parent
		removedColor = zn.color
		tree.changeChild(z, child, parent)
		if child != nil {
			tree.node(child).parent = parent
		}
	} else /* r2 */ {
		s := tree.minimum(zn.right)
		sn := tree.node(s)
		removedColor = sn.color
		child = sn.right
		if sn.parent == z {
			parent = s
		} else {
			parent = sn.parent
			tree.node(parent).left = child
			if child != nil {
				tree.node(child).parent = parent
			}
			sn.right = zn.right
			tree.node(zn.right).parent = s
		}
		sn.left = zn.left
		tree.node(zn.left).parent = s
		sn.parent = zn.parent
		sn.color = zn.color
		tree.changeChild(z, s, zn.parent)
	}
	zn.reset()

	if /* r4 */ removedColor == Black {
		tree.removeRebalance(child, parent)
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is one black short. X may be nil, so its parent P is passed along.
Sc is the sibling's child on X's side, Sd the one on the opposite side.

rm1: The sibling S is red, so P, Sc and Sd are black.
Rotate P towards X, swap the colors of P and S. X gets a black sibling
(the old Sc), continue with the cases below.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black. Repaint S into red. The deficiency moves up
to P. A red P absorbs it (repainted black below), a black P continues.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Rotate S away from X and swap the colors of S and Sc, then fix it as rm4.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
Rotate P towards X, S takes P's color, P and Sd are repainted black.
The deficiency is resolved.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *Tree[T, E]) removeRebalance(x, parent *T) {
	for x != tree.root && tree.isBlack(x) {
		pn := tree.node(parent)
		if x == pn.left {
			s := pn.right
			sn := tree.node(s)
			if /* rm1 */ sn.color == Red {
				sn.color = Black
				pn.color = Red
				tree.leftRotate(parent)
				s = pn.right
				sn = tree.node(s)
			}
			if /* rm2 */ tree.isBlack(sn.left) && tree.isBlack(sn.right) {
				sn.color = Red
				x = parent
				parent = pn.parent
				continue
			}
			if /* rm3 */ tree.isBlack(sn.right) {
				tree.node(sn.left).color = Black
				sn.color = Red
				tree.rightRotate(s)
				s = pn.right
				sn = tree.node(s)
			}
			/* rm4 */
			sn.color = pn.color
			pn.color = Black
			tree.node(sn.right).color = Black
			tree.leftRotate(parent)
			x = tree.root
			break
		}

		s := pn.left
		sn := tree.node(s)
		if /* rm1 */ sn.color == Red {
			sn.color = Black
			pn.color = Red
			tree.rightRotate(parent)
			s = pn.left
			sn = tree.node(s)
		}
		if /* rm2 */ tree.isBlack(sn.left) && tree.isBlack(sn.right) {
			sn.color = Red
			x = parent
			parent = pn.parent
			continue
		}
		if /* rm3 */ tree.isBlack(sn.left) {
			tree.node(sn.right).color = Black
			sn.color = Red
			tree.leftRotate(s)
			s = pn.left
			sn = tree.node(s)
		}
		/* rm4 */
		sn.color = pn.color
		pn.color = Black
		tree.node(sn.left).color = Black
		tree.rightRotate(parent)
		x = tree.root
		break
	}
	if x != nil {
		tree.node(x).color = Black
	}
}

// Replace puts the detached record replacement into the exact position of
// victim: same parent, children and color. No comparison and no
// rebalancing happen, the caller guarantees both sort to the same place.
// victim is detached afterwards.
func (tree *Tree[T, E]) Replace(victim, replacement *T) {
	if victim == nil || !tree.node(victim).linked {
		panic( /* debug assertion */ "[rbtree] replace a node which is not in a tree")
	}
	if replacement == nil || tree.node(replacement).linked {
		panic( /* debug assertion */ "[rbtree] replace with a node which is nil or already in a tree")
	}

	vn, rn := tree.node(victim), tree.node(replacement)
	*rn = *vn
	if vn.left != nil {
		tree.node(vn.left).parent = replacement
	}
	if vn.right != nil {
		tree.node(vn.right).parent = replacement
	}
	tree.changeChild(victim, replacement, vn.parent)
	vn.reset()
}

// Search descends from the root with fn, which compares the wanted key
// against a record: 0 on a match, negative to go left, positive to go
// right. On a match found is the record and parent/dir name its slot.
// Otherwise found is nil and parent/dir name the empty slot where the key
// belongs, ready for Link.
func (tree *Tree[T, E]) Search(fn func(*T) int64) (found, parent *T, dir RBDirection) {
	dir = Root
	for aux := tree.root; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux, tree.node(aux).parent, tree.direction(aux)
		}
		parent = aux
		if res < 0 {
			dir, aux = Left, tree.node(aux).left
		} else {
			dir, aux = Right, tree.node(aux).right
		}
	}
	return nil, parent, dir
}

// Release detaches every record, children before their parent, and hands
// each one to fn once it no longer takes part in the walk. The tree is
// empty afterwards.
func (tree *Tree[T, E]) Release(fn func(*T)) {
	for x := range tree.Postorder() {
		tree.node(x).reset()
		if fn != nil {
			fn(x)
		}
	}
	tree.root = nil
}
