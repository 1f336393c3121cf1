package tree

import (
	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
)

// Traversals are pure functions over the read-only node view, so they
// serve foreign decoded trees as well as this engine's output. Each
// one materializes the whole key sequence and walks with an explicit
// stack, never with call-stack recursion. A decoded foreign tree may
// be fully skewed and recursion depth would degrade to O(n) there.

// Inorder produces left-self-right order, i.e. ascending keys for any
// tree holding the BST order invariant.
func Inorder[K infra.OrderedKey](root AVLNode[K]) []K {
	keys := make([]K, 0, 8)
	if root == nil {
		return keys
	}

	stack := make([]AVLNode[K], 0, root.Height())
	defer func() {
		clear(stack)
	}()

	for aux := root; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		keys = append(keys, aux.Key())
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return keys
}

// Preorder produces self-left-right order, the structural fingerprint
// used by the token codec.
func Preorder[K infra.OrderedKey](root AVLNode[K]) []K {
	keys := make([]K, 0, 8)
	if root == nil {
		return keys
	}

	stack := make([]AVLNode[K], 0, root.Height())
	defer func() {
		clear(stack)
	}()
	stack = append(stack, root)

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		keys = append(keys, aux.Key())
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
	}
	return keys
}

// Postorder produces left-right-self order. Implemented as the
// reversed self-right-left walk to keep a single explicit stack.
func Postorder[K infra.OrderedKey](root AVLNode[K]) []K {
	keys := make([]K, 0, 8)
	if root == nil {
		return keys
	}

	stack := make([]AVLNode[K], 0, root.Height())
	defer func() {
		clear(stack)
	}()
	stack = append(stack, root)

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		keys = append(keys, aux.Key())
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
	}
	return lo.Reverse(keys)
}

// LevelOrder produces the breadth-first key groups, depth 0 at the
// root. Each inner slice holds one depth level in left-to-right order.
func LevelOrder[K infra.OrderedKey](root AVLNode[K]) [][]K {
	levels := make([][]K, 0, 4)
	if root == nil {
		return levels
	}

	queue := make([]AVLNode[K], 0, 8)
	queue = append(queue, root)

	for len(queue) > 0 {
		width := len(queue)
		level := make([]K, 0, width)
		for i := 0; i < width; i++ {
			aux := queue[0]
			queue = queue[1:]
			level = append(level, aux.Key())
			if l := aux.Left(); l != nil {
				queue = append(queue, l)
			}
			if r := aux.Right(); r != nil {
				queue = append(queue, r)
			}
		}
		levels = append(levels, level)
	}
	return levels
}
