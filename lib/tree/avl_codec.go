package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

// Token codec for any binary tree, not only this engine's balanced
// output. A tree serializes to a flat, order-dependent token sequence:
// preorder walk, each present node emits its key token then its left
// and right subtrees, each absent child emits the sentinel token.
// The decoded result keeps the exact source shape, so the round-trip
// law holds for degenerate and unbalanced trees alike.

// NilNodeToken marks an absent child in the serialized form. It is
// reserved: no valid key may encode to it.
const NilNodeToken = "N"

const tokenSeparator = ","

// KeyEncoder renders one key as a token.
type KeyEncoder[K infra.OrderedKey] func(K) string

// KeyDecoder parses one token back into a key.
type KeyDecoder[K infra.OrderedKey] func(string) (K, error)

// SignedKeyDecoder decodes base-10 signed integer key tokens.
func SignedKeyDecoder[K infra.Signed]() KeyDecoder[K] {
	return func(token string) (K, error) {
		num, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			var zero K
			return zero, err
		}
		return K(num), nil
	}
}

// UnsignedKeyDecoder decodes base-10 unsigned integer key tokens.
func UnsignedKeyDecoder[K infra.Unsigned]() KeyDecoder[K] {
	return func(token string) (K, error) {
		num, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			var zero K
			return zero, err
		}
		return K(num), nil
	}
}

// FloatKeyDecoder decodes floating-point key tokens.
func FloatKeyDecoder[K infra.Float]() KeyDecoder[K] {
	return func(token string) (K, error) {
		num, err := strconv.ParseFloat(token, 64)
		if err != nil {
			var zero K
			return zero, err
		}
		return K(num), nil
	}
}

// StringKeyDecoder passes tokens through as string keys. The key
// domain must not contain the sentinel literal; Serialize rejects the
// collision on the way out.
func StringKeyDecoder[K infra.String]() KeyDecoder[K] {
	return func(token string) (K, error) {
		return K(token), nil
	}
}

// Serialize encodes the tree below root into a flat token sequence.
// A nil enc falls back to the fmt representation of the key. The only
// error case is a key whose token collides with the reserved sentinel.
func Serialize[K infra.OrderedKey](root AVLNode[K], enc KeyEncoder[K]) ([]string, error) {
	if enc == nil {
		enc = func(key K) string {
			return fmt.Sprint(key)
		}
	}

	tokens := make([]string, 0, 8)
	stack := make([]AVLNode[K], 0, 8)
	stack = append(stack, root)

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux == nil {
			tokens = append(tokens, NilNodeToken)
			continue
		}
		token := enc(aux.Key())
		if token == NilNodeToken {
			return nil, fmt.Errorf("%w: key %v", ErrReservedToken, aux.Key())
		}
		tokens = append(tokens, token)
		// Right below left so the left subtree pops first.
		stack = append(stack, aux.Right(), aux.Left())
	}
	return tokens, nil
}

type avlDirection int8

const (
	dirLeft avlDirection = -1 + iota
	dirRoot
	dirRight
)

// Deserialize reconstructs a tree from tokens in the order Serialize
// produced them. The token stream is consumed with an explicit slot
// stack, so an adversarial fully-skewed stream cannot exhaust the
// call stack. Node heights are recomputed bottom-up; the result is
// NOT required to satisfy the balance invariant.
// Malformed streams (wrong arity, undecodable key, trailing or
// missing tokens) yield ErrMalformedTokens.
func Deserialize[K infra.OrderedKey](tokens []string, dec KeyDecoder[K]) (AVLNode[K], error) {
	if dec == nil {
		return nil, fmt.Errorf("%w: nil key decoder", ErrMalformedTokens)
	}

	type childSlot struct {
		parent *avlNode[K]
		dir    avlDirection
	}
	var root *avlNode[K]
	slots := make([]childSlot, 0, 8)
	slots = append(slots, childSlot{dir: dirRoot})

	attach := func(slot childSlot, node *avlNode[K]) {
		switch slot.dir {
		case dirRoot:
			root = node
		case dirLeft:
			slot.parent.left = node
		case dirRight:
			slot.parent.right = node
		default:
			// impossible run to here
			panic( /* debug assertion */ "[avl] unknown child slot direction to attach")
		}
	}

	for i := 0; i < len(tokens); i++ {
		size := len(slots)
		if size == 0 {
			return nil, fmt.Errorf("%w: trailing token %q at offset %d", ErrMalformedTokens, tokens[i], i)
		}
		slot := slots[size-1]
		slots = slots[:size-1]

		if tokens[i] == NilNodeToken {
			attach(slot, nil)
			continue
		}
		key, err := dec(tokens[i])
		if err != nil {
			return nil, fmt.Errorf("%w: token %q at offset %d: %s", ErrMalformedTokens, tokens[i], i, err.Error())
		}
		node := &avlNode[K]{key: key, height: 1}
		attach(slot, node)
		// Right below left so the left subtree fills first.
		slots = append(slots,
			childSlot{parent: node, dir: dirRight},
			childSlot{parent: node, dir: dirLeft},
		)
	}
	if len(slots) > 0 {
		return nil, fmt.Errorf("%w: %d unfilled node slots", ErrMalformedTokens, len(slots))
	}

	if root == nil {
		return nil, nil
	}
	for _, aux := range postorderNodes[K](root) {
		aux.(*avlNode[K]).fixHeight()
	}
	return root, nil
}

// BuildFromTraversals reconstructs the unique binary tree holding the
// given preorder and inorder key sequences, the sentinel-free sibling
// of Deserialize. Keys must be distinct; the two sequences must be
// permutations of each other and describe one consistent shape, else
// ErrInconsistentTraversals. Node heights are recomputed bottom-up and
// the result is NOT required to satisfy the balance invariant.
// The walk consumes preorder left to right with an explicit slot
// stack carrying each pending subtree's inorder range.
func BuildFromTraversals[K infra.OrderedKey](preorder, inorder []K) (AVLNode[K], error) {
	if len(preorder) != len(inorder) {
		return nil, fmt.Errorf("%w: preorder len %d, inorder len %d",
			ErrInconsistentTraversals, len(preorder), len(inorder))
	}
	if len(inorder) == 0 {
		return nil, nil
	}

	indices := make(map[K]int, len(inorder))
	for i, key := range inorder {
		if _, ok := indices[key]; ok {
			return nil, fmt.Errorf("%w: duplicate key %v in-order", ErrInconsistentTraversals, key)
		}
		indices[key] = i
	}

	type rangedSlot struct {
		parent *avlNode[K]
		dir    avlDirection
		l, r   int
	}
	var root *avlNode[K]
	slots := make([]rangedSlot, 0, 8)
	slots = append(slots, rangedSlot{dir: dirRoot, l: 0, r: len(inorder) - 1})

	pre := 0
	for size := len(slots); size > 0; size = len(slots) {
		slot := slots[size-1]
		slots = slots[:size-1]
		if slot.l > slot.r {
			continue
		}

		key := preorder[pre]
		pre++
		mid, ok := indices[key]
		if !ok || mid < slot.l || mid > slot.r {
			return nil, fmt.Errorf("%w: preorder key %v outside its in-order range",
				ErrInconsistentTraversals, key)
		}

		node := &avlNode[K]{key: key, height: 1}
		switch slot.dir {
		case dirRoot:
			root = node
		case dirLeft:
			slot.parent.left = node
		case dirRight:
			slot.parent.right = node
		default:
			// impossible run to here
			panic( /* debug assertion */ "[avl] unknown child slot direction to attach")
		}
		// Right below left so the left subtree consumes the next
		// preorder keys first.
		slots = append(slots,
			rangedSlot{parent: node, dir: dirRight, l: mid + 1, r: slot.r},
			rangedSlot{parent: node, dir: dirLeft, l: slot.l, r: mid - 1},
		)
	}

	for _, aux := range postorderNodes[K](root) {
		aux.(*avlNode[K]).fixHeight()
	}
	return root, nil
}

// MarshalString renders the serialized form as one separator-joined
// string. The empty tree marshals to the bare sentinel token.
func MarshalString[K infra.OrderedKey](root AVLNode[K], enc KeyEncoder[K]) (string, error) {
	tokens, err := Serialize(root, enc)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, tokenSeparator), nil
}

// UnmarshalString is the inverse of MarshalString.
func UnmarshalString[K infra.OrderedKey](data string, dec KeyDecoder[K]) (AVLNode[K], error) {
	if data == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedTokens)
	}
	return Deserialize(strings.Split(data, tokenSeparator), dec)
}
