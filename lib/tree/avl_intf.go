package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	// ErrEmptyTree reports an operation that requires at least one node.
	ErrEmptyTree = errors.New("[avl] empty tree")
	// ErrKeyNotFound reports a violated key membership precondition.
	ErrKeyNotFound = errors.New("[avl] key not found")
	// ErrMalformedTokens reports an undecodable serialized token stream.
	ErrMalformedTokens = errors.New("[avl] malformed token stream")
	// ErrInconsistentTraversals reports preorder/inorder sequences that
	// describe no single binary tree.
	ErrInconsistentTraversals = errors.New("[avl] inconsistent traversal sequences")
	// ErrReservedToken reports a key whose encoded form collides with
	// the nil-child sentinel token.
	ErrReservedToken = errors.New("[avl] key encodes to reserved sentinel token")
)

// AVLNode is a read-only view of one tree node. The subtrees below a
// node are exclusively owned by it; there is no parent back-reference,
// ancestor relationships are always computed structurally.
type AVLNode[K infra.OrderedKey] interface {
	Key() K
	Height() int64
	Left() AVLNode[K]
	Right() AVLNode[K]
}

// AVLTree is an ordered-key index. It keeps two invariants after every
// operation:
// p1. BST order: left subtree keys < node key < right subtree keys,
//   duplicate keys are never stored.
// p2. AVL balance: |height(left) - height(right)| <= 1 for every node,
//   where an absent subtree has height 0.
// All operations run in O(log n) under p2.
//
// The tree is a single mutable resource. Concurrent Insert/Delete
// calls require external mutual exclusion; read-only calls are safe
// on a tree that is not being mutated.
type AVLTree[K infra.OrderedKey] interface {
	Len() int64
	Root() AVLNode[K]
	Insert(key K) bool
	Delete(key K) bool
	Search(key K) bool
	Min() (K, error)
	Max() (K, error)
	Release()
}
