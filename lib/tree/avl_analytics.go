package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// Analytics defend against foreign trees: none of them trust the
// stored node heights and none of them mutate anything. Depths are
// recomputed bottom-up from a postorder node list built with an
// explicit stack.

// postorderNodes loads every node reachable from root in left-right-
// self order.
func postorderNodes[K infra.OrderedKey](root AVLNode[K]) []AVLNode[K] {
	nodes := make([]AVLNode[K], 0, 8)
	if root == nil {
		return nodes
	}

	stack := make([]AVLNode[K], 0, 8)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, root)

	// Self-right-left order, reversed in place.
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		nodes = append(nodes, aux)
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}

// subtreeDepths recomputes each node's subtree depth (node count on
// the longest downward path, absent subtree is 0).
func subtreeDepths[K infra.OrderedKey](nodes []AVLNode[K]) map[AVLNode[K]]int64 {
	depths := make(map[AVLNode[K]]int64, len(nodes))
	// Postorder guarantees both children are resolved before the node.
	for _, aux := range nodes {
		var ld, rd int64
		if l := aux.Left(); l != nil {
			ld = depths[l]
		}
		if r := aux.Right(); r != nil {
			rd = depths[r]
		}
		depths[aux] = 1 + max(ld, rd)
	}
	return depths
}

// IsValidBST checks every node's key lies strictly within the open
// bound inherited from its ancestors, starting at (-inf, +inf). It
// holds for any tree built through this engine and defends against
// foreign trees.
func IsValidBST[K infra.OrderedKey](root AVLNode[K]) bool {
	if root == nil {
		return true
	}

	type boundedNode struct {
		node         AVLNode[K]
		lower, upper *K
	}
	stack := make([]boundedNode, 0, 8)
	stack = append(stack, boundedNode{node: root})

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		key := aux.node.Key()
		if (aux.lower != nil && key <= *aux.lower) ||
			(aux.upper != nil && key >= *aux.upper) {
			return false
		}
		bound := key
		if l := aux.node.Left(); l != nil {
			stack = append(stack, boundedNode{node: l, lower: aux.lower, upper: &bound})
		}
		if r := aux.node.Right(); r != nil {
			stack = append(stack, boundedNode{node: r, lower: &bound, upper: aux.upper})
		}
	}
	return true
}

func bstContains[K infra.OrderedKey](root AVLNode[K], key K) bool {
	for aux := root; aux != nil; {
		if key == aux.Key() {
			return true
		} else if key < aux.Key() {
			aux = aux.Left()
		} else {
			aux = aux.Right()
		}
	}
	return false
}

// LowestCommonAncestor answers the BST single-descent LCA of p and q.
// A key is an ancestor of itself. Both operands must be present;
// an absent operand yields ErrKeyNotFound instead of a silently wrong
// ancestor.
func LowestCommonAncestor[K infra.OrderedKey](root AVLNode[K], p, q K) (K, error) {
	var zero K
	if root == nil {
		return zero, ErrEmptyTree
	}
	if !bstContains(root, p) {
		return zero, fmt.Errorf("%w: lca operand %v", ErrKeyNotFound, p)
	}
	if !bstContains(root, q) {
		return zero, fmt.Errorf("%w: lca operand %v", ErrKeyNotFound, q)
	}

	aux := root
	for {
		key := aux.Key()
		if p < key && q < key {
			aux = aux.Left()
		} else if p > key && q > key {
			aux = aux.Right()
		} else {
			return key, nil
		}
	}
}

// Diameter is the maximum number of edges between any two nodes,
// i.e. the best left-depth + right-depth found across all nodes.
// Distinct from the tree height; 0 for an empty or single-node tree.
func Diameter[K infra.OrderedKey](root AVLNode[K]) int64 {
	nodes := postorderNodes(root)
	depths := subtreeDepths(nodes)

	res := int64(0)
	for _, aux := range nodes {
		var ld, rd int64
		if l := aux.Left(); l != nil {
			ld = depths[l]
		}
		if r := aux.Right(); r != nil {
			rd = depths[r]
		}
		res = max(res, ld+rd)
	}
	return res
}

// MaxDepth is the node count on the longest root-to-leaf path,
// 0 for the empty tree.
func MaxDepth[K infra.OrderedKey](root AVLNode[K]) int64 {
	if root == nil {
		return 0
	}
	return subtreeDepths(postorderNodes(root))[root]
}

// IsBalanced checks |leftDepth - rightDepth| <= 1 on every node in a
// single bottom-up pass, short-circuiting on the first violation: the
// depths above a violating node are never computed.
func IsBalanced[K infra.OrderedKey](root AVLNode[K]) bool {
	nodes := postorderNodes(root)
	depths := make(map[AVLNode[K]]int64, len(nodes))
	// Postorder guarantees both children are resolved before the node.
	for _, aux := range nodes {
		var ld, rd int64
		if l := aux.Left(); l != nil {
			ld = depths[l]
		}
		if r := aux.Right(); r != nil {
			rd = depths[r]
		}
		if ld-rd > 1 || rd-ld > 1 {
			return false
		}
		depths[aux] = 1 + max(ld, rd)
	}
	return true
}

// GoodNodeCount counts the nodes whose key is >= every key on the
// path from the root down to them. The running path maximum is
// threaded through the walk frames, never shared between branches.
func GoodNodeCount[K infra.OrderedKey](root AVLNode[K]) int64 {
	if root == nil {
		return 0
	}

	type trackedNode struct {
		node    AVLNode[K]
		pathMax K
	}
	stack := make([]trackedNode, 0, 8)
	stack = append(stack, trackedNode{node: root, pathMax: root.Key()})

	res := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		key := aux.node.Key()
		if key >= aux.pathMax {
			res++
		}
		pathMax := max(aux.pathMax, key)
		if l := aux.node.Left(); l != nil {
			stack = append(stack, trackedNode{node: l, pathMax: pathMax})
		}
		if r := aux.node.Right(); r != nil {
			stack = append(stack, trackedNode{node: r, pathMax: pathMax})
		}
	}
	return res
}

// SameTree reports structural and value equality: both absent, or
// both present with equal keys and recursively equal subtrees.
func SameTree[K infra.OrderedKey](p, q AVLNode[K]) bool {
	type nodePair struct {
		p, q AVLNode[K]
	}
	stack := make([]nodePair, 0, 8)
	stack = append(stack, nodePair{p: p, q: q})

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux.p == nil && aux.q == nil {
			continue
		}
		if aux.p == nil || aux.q == nil || aux.p.Key() != aux.q.Key() {
			return false
		}
		stack = append(stack,
			nodePair{p: aux.p.Left(), q: aux.q.Left()},
			nodePair{p: aux.p.Right(), q: aux.q.Right()},
		)
	}
	return true
}

// IsSubtree reports whether candidate equals root or any subtree of
// root, by trying SameTree at every node. The empty candidate is a
// subtree of anything.
func IsSubtree[K infra.OrderedKey](root, candidate AVLNode[K]) bool {
	if candidate == nil {
		return true
	}
	for _, aux := range postorderNodes(root) {
		if SameTree(aux, candidate) {
			return true
		}
	}
	return false
}

// RightSideView produces one key per depth level: the rightmost node
// visible at that depth. Depth-first, right before left, recording
// the first key seen at each new depth.
func RightSideView[K infra.OrderedKey](root AVLNode[K]) []K {
	keys := make([]K, 0, 8)
	if root == nil {
		return keys
	}

	type leveledNode struct {
		node  AVLNode[K]
		depth int
	}
	stack := make([]leveledNode, 0, 8)
	stack = append(stack, leveledNode{node: root})

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux.depth == len(keys) {
			keys = append(keys, aux.node.Key())
		}
		// Left pushed first so the right branch pops first.
		if l := aux.node.Left(); l != nil {
			stack = append(stack, leveledNode{node: l, depth: aux.depth + 1})
		}
		if r := aux.node.Right(); r != nil {
			stack = append(stack, leveledNode{node: r, depth: aux.depth + 1})
		}
	}
	return keys
}

// KthSmallest answers the k-th smallest key, 1-based, by an early-exit
// in-order walk.
func KthSmallest[K infra.OrderedKey](root AVLNode[K], k int64) (K, error) {
	var zero K
	if k < 1 {
		return zero, fmt.Errorf("%w: rank %d out of range", ErrKeyNotFound, k)
	}

	stack := make([]AVLNode[K], 0, 8)
	for aux := root; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	seen := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if seen++; seen == k {
			return aux.Key(), nil
		}
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return zero, fmt.Errorf("%w: rank %d out of range", ErrKeyNotFound, k)
}
