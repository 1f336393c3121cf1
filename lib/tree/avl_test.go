package tree

import (
	"math"
	randv2 "math/rand"
	"sort"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNilAVLNode(t *testing.T) {
	var nilNode AVLNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *avlNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.Equal(t, int64(0), nilNode2.Height())
}

func TestAVLTreeInsertThenDelete(t *testing.T) {
	tree := NewAVLTreeFromKeys([]int{20, 15, 10, 17, 18, 16, 25, 23, 30})
	require.Equal(t, int64(9), tree.Len())
	require.NoError(t, InvariantValidate(tree))
	require.Equal(t, []int{10, 15, 16, 17, 18, 20, 23, 25, 30}, Inorder(tree.Root()))

	require.True(t, tree.Delete(16))
	require.False(t, tree.Search(16))
	require.Equal(t, int64(8), tree.Len())
	require.NoError(t, InvariantValidate(tree))
	require.Equal(t, []int{10, 15, 17, 18, 20, 23, 25, 30}, Inorder(tree.Root()))

	// Root carries two children here, the successor-borrow case.
	require.True(t, tree.Delete(17))
	require.False(t, tree.Search(17))
	require.NoError(t, InvariantValidate(tree))
	require.Equal(t, []int{10, 15, 18, 20, 23, 25, 30}, Inorder(tree.Root()))
}

func TestAVLTreeDeleteSingleChildSplice(t *testing.T) {
	type testcase struct {
		name    string
		keys    []int
		rm      int
		inorder []int
	}
	testcases := []testcase{
		{
			name:    "left child only",
			keys:    []int{5, 3, 8, 2},
			rm:      3,
			inorder: []int{2, 5, 8},
		},
		{
			name:    "right child only",
			keys:    []int{5, 3, 8, 4},
			rm:      3,
			inorder: []int{4, 5, 8},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTreeFromKeys(tc.keys)
			require.True(tt, tree.Delete(tc.rm))
			require.False(tt, tree.Search(tc.rm))
			require.NoError(tt, InvariantValidate(tree))
			require.Equal(tt, tc.inorder, Inorder(tree.Root()))
		})
	}
}

func TestAVLTreeIdempotentInsert(t *testing.T) {
	tree := NewAVLTreeFromKeys([]int{15, 12, 20, 8, 13, 17, 27})
	before := lo.Must(MarshalString(tree.Root(), nil))

	require.False(t, tree.Insert(13))
	require.False(t, tree.Insert(15))
	require.Equal(t, int64(7), tree.Len())
	require.Equal(t, before, lo.Must(MarshalString(tree.Root(), nil)))
	require.NoError(t, InvariantValidate(tree))
}

func TestAVLTreeDeleteAbsentNoop(t *testing.T) {
	tree := NewAVLTreeFromKeys([]int{15, 12, 20})
	before := lo.Must(MarshalString(tree.Root(), nil))

	require.False(t, tree.Delete(42))
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, before, lo.Must(MarshalString(tree.Root(), nil)))

	empty := NewAVLTree[int]()
	require.False(t, empty.Delete(1))
	require.Equal(t, int64(0), empty.Len())
}

func TestAVLTreeMinMax(t *testing.T) {
	empty := NewAVLTree[uint64]()
	_, err := empty.Min()
	require.ErrorIs(t, err, ErrEmptyTree)
	_, err = empty.Max()
	require.ErrorIs(t, err, ErrEmptyTree)

	tree := NewAVLTreeFromKeys([]uint64{52, 47, 3, 35, 24})
	res, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, uint64(3), res)
	res, err = tree.Max()
	require.NoError(t, err)
	require.Equal(t, uint64(52), res)
}

func TestAVLTreeChainedInsertStaysBalanced(t *testing.T) {
	// A plain BST degrades to a right chain on this input. The engine
	// must stay balanced after every single insert.
	tree := NewAVLTree[int]()
	for _, key := range []int{1, 2, 3, 4, 5} {
		require.True(t, tree.Insert(key))
		require.True(t, IsBalanced(tree.Root()))
		require.NoError(t, InvariantValidate(tree))
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, Inorder(tree.Root()))
}

func TestAVLTreeHeightBound(t *testing.T) {
	type testcase struct {
		name string
		keys []uint64
	}
	sequential := make([]uint64, 0, 1<<10)
	for i := uint64(0); i < 1<<10; i++ {
		sequential = append(sequential, i)
	}
	shuffled := make([]uint64, len(sequential))
	copy(shuffled, sequential)
	randv2.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	testcases := []testcase{
		{name: "sequential", keys: sequential},
		{name: "shuffled", keys: shuffled},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTreeFromKeys(tc.keys)
			n := float64(tree.Len())
			bound := int64(math.Floor(1.44 * math.Log2(n+2)))
			require.LessOrEqual(tt, tree.Root().Height(), bound)
		})
	}
}

func avlRandomInsertAndDeleteRunCore(t *testing.T, total uint64, violationCheck bool) {
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	keys := make([]uint64, 0, insertTotal+removeTotal)
	for i := uint64(0); i < insertTotal+removeTotal; i++ {
		keys = append(keys, i)
	}
	randv2.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	insertElements := keys[:insertTotal]
	removeElements := keys[insertTotal:]

	tree := NewAVLTree[uint64]()
	for i := uint64(0); i < insertTotal; i++ {
		require.True(t, tree.Insert(insertElements[i]))
		if violationCheck {
			require.NoError(t, InvariantValidate(tree))
		}
	}
	require.Equal(t, int64(insertTotal), tree.Len())

	for i := uint64(0); i < removeTotal; i++ {
		require.True(t, tree.Insert(removeElements[i]))
		if violationCheck {
			require.NoError(t, InvariantValidate(tree))
		}
	}
	require.NoError(t, InvariantValidate(tree))

	for i := uint64(0); i < removeTotal; i++ {
		require.True(t, tree.Delete(removeElements[i]))
		require.False(t, tree.Search(removeElements[i]))
		if violationCheck {
			require.NoError(t, InvariantValidate(tree))
		}
	}
	require.Equal(t, int64(insertTotal), tree.Len())

	sort.Slice(insertElements, func(i, j int) bool {
		return insertElements[i] < insertElements[j]
	})
	require.Equal(t, insertElements, Inorder(tree.Root()))
}

func TestAVLTreeRandomInsertAndDelete(t *testing.T) {
	type testcase struct {
		name           string
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "no violation check 100000",
			total: 100000,
		},
		{
			name:           "violation check 2000",
			total:          2000,
			violationCheck: true,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			avlRandomInsertAndDeleteRunCore(tt, tc.total, tc.violationCheck)
		})
	}
}

func TestAVLTreeRelease(t *testing.T) {
	tree := NewAVLTree[uint64]()
	for i := uint64(0); i < 10_000; i++ {
		tree.Insert(i)
	}
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())

	// Release on an already empty tree stays a no-op.
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
}

func BenchmarkAVLTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()
	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i])
	}
}

func BenchmarkAVLTree_Serial(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i)
	}
}
