package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// avltree rule validation utilities.

// OrderViolationValidate checks the BST order invariant: the in-order
// key sequence must be strictly ascending (strictness also rules out
// stored duplicates).
func OrderViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	keys := Inorder(tree.Root())
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return fmt.Errorf("[avl] order violation: %v before %v in-order", keys[i-1], keys[i])
		}
	}
	return nil
}

// BalanceViolationValidate checks the AVL balance invariant on every
// node against recomputed subtree depths, ignoring the stored heights.
func BalanceViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	nodes := postorderNodes(tree.Root())
	depths := subtreeDepths(nodes)
	for _, aux := range nodes {
		var ld, rd int64
		if l := aux.Left(); l != nil {
			ld = depths[l]
		}
		if r := aux.Right(); r != nil {
			rd = depths[r]
		}
		if ld-rd > 1 || rd-ld > 1 {
			return fmt.Errorf("[avl] balance violation: key %v balance factor %d", aux.Key(), ld-rd)
		}
	}
	return nil
}

// HeightViolationValidate checks each stored node height equals
// 1 + max(height(left), height(right)) recomputed bottom-up.
func HeightViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	nodes := postorderNodes(tree.Root())
	depths := subtreeDepths(nodes)
	for _, aux := range nodes {
		if aux.Height() != depths[aux] {
			return fmt.Errorf("[avl] height violation: key %v stored %d, computed %d",
				aux.Key(), aux.Height(), depths[aux])
		}
	}
	return nil
}

// SizeViolationValidate checks the element count equals the number of
// nodes reachable from the root.
func SizeViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	if reachable := int64(len(postorderNodes(tree.Root()))); reachable != tree.Len() {
		return fmt.Errorf("[avl] size violation: len %d, reachable %d", tree.Len(), reachable)
	}
	return nil
}

// InvariantValidate aggregates every invariant check into one report.
func InvariantValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	return multierr.Combine(
		OrderViolationValidate(tree),
		BalanceViolationValidate(tree),
		HeightViolationValidate(tree),
		SizeViolationValidate(tree),
	)
}
