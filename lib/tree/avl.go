package tree

import (
	"sync/atomic"

	"github.com/benz9527/xtree/lib/infra"
)

type avlNode[K infra.OrderedKey] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int64
}

func (node *avlNode[K]) Key() K {
	return node.key
}

func (node *avlNode[K]) Height() int64 {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) Left() AVLNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K]) Right() AVLNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// balanceFactor is height(left) - height(right).
// Positive means left-heavy, negative means right-heavy.
func (node *avlNode[K]) balanceFactor() int64 {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}

func (node *avlNode[K]) fixHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

func (node *avlNode[K]) minimum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *avlNode[K]) maximum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

type avlTree[K infra.OrderedKey] struct {
	root  *avlNode[K]
	count int64
}

func (tree *avlTree[K]) keyCompare(k1, k2 K) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		return -1
	}
	return 1
}

func (tree *avlTree[K]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *avlTree[K]) Root() AVLNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// avltree properties:
// p1. BST order invariant, no duplicate keys.
// p2. Every node's balance factor is -1, 0 or +1.
// p3. node.height = 1 + max(height(left), height(right)),
//   an absent subtree has height 0.
// A violated p2 after one insert or delete is always repaired by a
// single or double rotation at the lowest unbalanced ancestor, so the
// tree height stays bounded by ~1.44*log2(n+2).

/*
		 |                         |
		 X                         R
		/ \     leftRotate(X)     / \
	   L   R    ============>    X   Rr
		  / \                   / \
		Rl   Rr                L   Rl
*/
func (tree *avlTree[K]) leftRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	x.right, y.left = y.left, x

	x.fixHeight()
	y.fixHeight()
	return y
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   R    =============>   Ll   X
	  / \                            / \
	Ll   Lr                        Lr   R
*/
func (tree *avlTree[K]) rightRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] right rotate node x is nil or x.left is nil")
	}

	y := x.left
	x.left, y.right = y.right, x

	x.fixHeight()
	y.fixHeight()
	return y
}

/*
b1: Left-left, the left child leans left (or is even).
One right rotation at X.

	    X              L
	   /              / \
	  L     ====>   Ll   X
	 /
	Ll

b2: Left-right, the left child leans right.
Left rotation at L first, then enter b1.

	  X            X            Lr
	 /            /            /  \
	L    ====>   Lr   ====>   L    X
	 \          /
	  Lr       L

b3: Right-right, mirror of b1, one left rotation at X.

b4: Right-left, mirror of b2, right rotation at R then enter b3.
*/
func (tree *avlTree[K]) rebalance(x *avlNode[K]) *avlNode[K] {
	x.fixHeight()
	bf := x.balanceFactor()
	if /* b1, b2 */ bf > 1 {
		if /* b2 */ x.left.balanceFactor() < 0 {
			x.left = tree.leftRotate(x.left)
		}
		return tree.rightRotate(x)
	} else /* b3, b4 */ if bf < -1 {
		if /* b4 */ x.right.balanceFactor() > 0 {
			x.right = tree.rightRotate(x.right)
		}
		return tree.leftRotate(x)
	}
	return x
}

// Insert attaches a new key by recursive descent and rebalances every
// ancestor on the return path. Inserting a present key is a no-op.
// It reports whether the key was newly inserted.
func (tree *avlTree[K]) Insert(key K) bool {
	root, inserted := tree.insertAt(tree.root, key)
	tree.root = root
	if inserted {
		atomic.AddInt64(&tree.count, 1)
	}
	return inserted
}

func (tree *avlTree[K]) insertAt(x *avlNode[K], key K) (*avlNode[K], bool) {
	if x == nil {
		return &avlNode[K]{key: key, height: 1}, true
	}

	res := tree.keyCompare(key, x.key)
	if /* equal */ res == 0 {
		return x, false
	}

	var inserted bool
	if /* less */ res < 0 {
		x.left, inserted = tree.insertAt(x.left, key)
	} else /* greater */ {
		x.right, inserted = tree.insertAt(x.right, key)
	}
	if !inserted {
		return x, false
	}
	return tree.rebalance(x), true
}

/*
r1: Leaf node, unlink directly.

r2: One child only, splice that child into the parent slot. The kept
branch must be the present one, left or right alike.

r3: Two children, borrow the in-order successor (minimum of the right
subtree): overwrite the key, then remove the successor key from the
right subtree. The successor holds at most a right child, so its
removal terminates in r1 or r2.
*/
func (tree *avlTree[K]) removeAt(x *avlNode[K], key K) (*avlNode[K], bool) {
	if x == nil {
		return nil, false
	}

	res := tree.keyCompare(key, x.key)
	removed := true
	if /* less */ res < 0 {
		x.left, removed = tree.removeAt(x.left, key)
	} else /* greater */ if res > 0 {
		x.right, removed = tree.removeAt(x.right, key)
	} else /* equal */ {
		if /* r1 */ x.left == nil && x.right == nil {
			return nil, true
		} else /* r2 */ if x.left == nil {
			return x.right, true
		} else /* r2 */ if x.right == nil {
			return x.left, true
		}
		/* r3 */
		succ := x.right.minimum()
		x.key = succ.key
		x.right, _ = tree.removeAt(x.right, succ.key)
	}

	if !removed {
		return x, false
	}
	return tree.rebalance(x), true
}

// Delete removes a key per the three cases above and rebalances every
// ancestor on the return path. Deleting an absent key is a no-op.
// It reports whether a node was removed.
func (tree *avlTree[K]) Delete(key K) bool {
	root, removed := tree.removeAt(tree.root, key)
	tree.root = root
	if removed {
		atomic.AddInt64(&tree.count, -1)
	}
	return removed
}

// Search reports whether key is present, by iterative descent.
func (tree *avlTree[K]) Search(key K) bool {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return true
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return false
}

func (tree *avlTree[K]) Min() (K, error) {
	if tree.root == nil {
		var zero K
		return zero, ErrEmptyTree
	}
	return tree.root.minimum().key, nil
}

func (tree *avlTree[K]) Max() (K, error) {
	if tree.root == nil {
		var zero K
		return zero, ErrEmptyTree
	}
	return tree.root.maximum().key, nil
}

func (tree *avlTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*avlNode[K], 0, aux.height)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right = nil, nil
		atomic.AddInt64(&tree.count, -1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func NewAVLTree[K infra.OrderedKey]() AVLTree[K] {
	return &avlTree[K]{}
}

// NewAVLTreeFromKeys inserts keys one at a time in the given order.
// The result satisfies the balance invariant for any input order.
func NewAVLTreeFromKeys[K infra.OrderedKey](keys []K) AVLTree[K] {
	tree := &avlTree[K]{}
	for _, key := range keys {
		tree.Insert(key)
	}
	return tree
}
