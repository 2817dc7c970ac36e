package Lists

import (
	"bytes"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/g-m-twostay/sortedmaps"
	"github.com/g-m-twostay/sortedmaps/Invariants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rg = *rand.New(rand.NewSource(0))

type pair struct {
	k int32
	v int
}

func keyOf(p pair) int32 {
	return p.k
}

var _ sortedmaps.Map[pair, uint32] = (*SkipList[pair, uint32])(nil)

func newList(t *testing.T) *SkipList[pair, uint32] {
	t.Helper()
	sl, err := NewSkipList[pair, uint32](keyOf, 42)
	require.NoError(t, err)
	return sl
}

func TestSkipList_NilKey(t *testing.T) {
	sl, err := NewSkipList[pair, uint32](nil, 0)
	assert.Nil(t, sl)
	assert.ErrorIs(t, err, sortedmaps.NilKeyError{})
}

func TestSkipList_Empty(t *testing.T) {
	sl := newList(t)
	_, has := sl.Minimum()
	assert.False(t, has)
	_, has = sl.Get(1)
	assert.False(t, has)
	assert.False(t, sl.Delete(1))
	assert.Zero(t, sl.Size())
	assert.NoError(t, sl.Verify())
}

func TestSkipList_HeadSwap(t *testing.T) {
	sl := newList(t)
	for k := int32(100); k > 0; k-- {
		require.True(t, sl.Insert(pair{k, int(k)}))
		minV, has := sl.Minimum()
		require.True(t, has)
		require.Equal(t, k, minV.k)
		require.NoError(t, sl.Verify())
	}
	for k := int32(1); k <= 100; k++ {
		v, has := sl.Get(k)
		require.True(t, has)
		require.Equal(t, int(k), v.v)
	}
}

func TestSkipList_DeleteHead(t *testing.T) {
	sl := newList(t)
	for _, k := range []int32{5, 3, 9, 1} {
		sl.Insert(pair{k: k})
	}
	head := sl.head
	require.True(t, sl.Delete(1))
	assert.Same(t, head, sl.head)
	minV, _ := sl.Minimum()
	assert.Equal(t, int32(3), minV.k)
	require.NoError(t, sl.Verify())
	require.True(t, sl.Delete(3))
	require.True(t, sl.Delete(5))
	require.True(t, sl.Delete(9))
	assert.Nil(t, sl.head)
	assert.Zero(t, sl.Size())
	assert.Zero(t, sl.Level())
	assert.NoError(t, sl.Verify())
}

func TestSkipList_Overwrite(t *testing.T) {
	sl := newList(t)
	require.True(t, sl.Insert(pair{4, 1}))
	require.True(t, sl.Insert(pair{2, 1}))
	require.True(t, sl.Insert(pair{4, 2}))
	require.True(t, sl.Insert(pair{2, 2}))
	assert.Equal(t, uint32(2), sl.Size())
	v, _ := sl.Get(4)
	assert.Equal(t, 2, v.v)
	v, _ = sl.Minimum()
	assert.Equal(t, pair{2, 2}, v)
}

// TestSkipList_Checked compares the list with a gods red-black tree after
// every mutation.
func TestSkipList_Checked(t *testing.T) {
	sl := newList(t)
	oracle := redblacktree.NewWith(utils.Int32Comparator)
	var inserted, deleted int
	for i := range 5000 {
		k := int32(rg.Intn(1000)) - 500
		if rg.Intn(3) == 0 {
			_, in := oracle.Get(k)
			require.Equal(t, in, sl.Delete(k), "delete %d", k)
			if in {
				deleted++
			}
			oracle.Remove(k)
		} else {
			if _, in := oracle.Get(k); !in {
				inserted++
			}
			require.True(t, sl.Insert(pair{k, i}))
			oracle.Put(k, i)
		}
		require.NoError(t, sl.Verify())
		require.Equal(t, uint32(inserted-deleted), sl.Size())
		if oracle.Empty() {
			_, has := sl.Minimum()
			require.False(t, has)
		} else {
			minV, _ := sl.Minimum()
			require.Equal(t, oracle.Left().Key, minV.k)
		}
	}
	var got []pair
	sl.Range(func(p pair) bool {
		got = append(got, p)
		return true
	})
	keys, values := oracle.Keys(), oracle.Values()
	require.Len(t, got, len(keys))
	for i, p := range got {
		require.Equal(t, keys[i], p.k)
		require.Equal(t, values[i], p.v)
	}
}

// TestSkipList_Strided inserts 0..99999 with stride 10 in 10 passes, then
// inserts every key again.
func TestSkipList_Strided(t *testing.T) {
	sl := newList(t)
	const n = 100000
	for pass := int32(0); pass < 10; pass++ {
		for k := pass; k < n; k += 10 {
			before := sl.Size()
			require.True(t, sl.Insert(pair{k, int(k)}))
			require.Equal(t, before+1, sl.Size())
		}
	}
	require.NoError(t, sl.Verify())
	for k := int32(0); k < n; k++ {
		require.True(t, sl.Insert(pair{k, -int(k)}))
	}
	assert.Equal(t, uint32(n), sl.Size())
	for k := int32(0); k < n; k++ {
		v, has := sl.Get(k)
		require.True(t, has)
		require.Equal(t, -int(k), v.v)
	}
	assert.Greater(t, sl.Level(), 10)
}

func TestSkipList_RoundTrip(t *testing.T) {
	sl := newList(t)
	perm := rg.Perm(20000)
	for _, k := range perm {
		require.True(t, sl.Insert(pair{int32(k), k}))
	}
	rg.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	for _, k := range perm {
		require.True(t, sl.Delete(int32(k)))
	}
	assert.Zero(t, sl.Size())
	assert.NoError(t, sl.Verify())
	for _, k := range perm {
		require.False(t, sl.Has(int32(k)))
	}
}

// TestSkipList_DeleteSteps deletes every key of a large list in random order
// and bounds the forward steps the deletions walk by O(n log n).
func TestSkipList_DeleteSteps(t *testing.T) {
	const n = 1 << 16
	sl := newList(t)
	perm := rg.Perm(n)
	for _, k := range perm {
		sl.Insert(pair{k: int32(k)})
	}
	rg.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	var update [MaxLevel]*node[pair]
	steps := 0
	for _, k := range perm {
		if int32(k) != sl.head.k {
			target, st := sl.locate(int32(k), &update)
			require.Equal(t, int32(k), target.k)
			steps += st
		}
		require.True(t, sl.Delete(int32(k)))
	}
	assert.Zero(t, sl.Size())
	assert.Less(t, steps, 4*n*bits.Len(n), "deleting %d keys took %d steps", n, steps)
}

func TestSkipList_RemoveSearch(t *testing.T) {
	sl := newList(t)
	for _, k := range []int32{8, 2, 5} {
		sl.Insert(pair{k, int(k) * 10})
	}
	v, has := sl.Search(pair{k: 5})
	assert.True(t, has)
	assert.Equal(t, 50, v.v)
	assert.True(t, sl.Remove(pair{k: 2}))
	assert.False(t, sl.Remove(pair{k: 2}))
	_, has = sl.Search(pair{k: 2})
	assert.False(t, has)
	minV, _ := sl.Minimum()
	assert.Equal(t, int32(5), minV.k)
	assert.Equal(t, uint32(2), sl.Size())
	require.NoError(t, sl.Verify())
}

func TestSkipList_Full(t *testing.T) {
	sl, _ := NewSkipList[pair, uint8](keyOf, 1)
	for i := range 255 {
		require.True(t, sl.Insert(pair{int32(i), i}))
	}
	require.True(t, sl.Full())
	assert.False(t, sl.Insert(pair{-1, 0}))
	minV, _ := sl.Minimum()
	assert.Equal(t, int32(0), minV.k)
	assert.True(t, sl.Insert(pair{7, 0}))
	assert.Equal(t, uint8(255), sl.Size())
	require.NoError(t, sl.Verify())
}

func TestSkipList_Seeded(t *testing.T) {
	a, _ := NewSkipList[pair, uint32](keyOf, 7)
	b, _ := NewSkipList[pair, uint32](keyOf, 7)
	for _, k := range rg.Perm(1000) {
		a.Insert(pair{k: int32(k)})
		b.Insert(pair{k: int32(k)})
	}
	var da, db bytes.Buffer
	a.Dump(&da)
	b.Dump(&db)
	assert.Equal(t, da.String(), db.String())
}

func TestSkipList_Clear(t *testing.T) {
	sl := newList(t)
	for i := range 100 {
		sl.Insert(pair{int32(i), i})
	}
	sl.Clear()
	assert.Zero(t, sl.Size())
	assert.NoError(t, sl.Verify())
	sl.Insert(pair{k: 3})
	minV, _ := sl.Minimum()
	assert.Equal(t, int32(3), minV.k)
}

func TestSkipList_Print(t *testing.T) {
	sl := newList(t)
	for _, k := range rg.Perm(64) {
		sl.Insert(pair{int32(k), k})
	}
	var got []int
	sl.Print(func(p pair) { got = append(got, p.v) })
	require.Len(t, got, 64)
	for i, v := range got {
		require.Equal(t, i, v)
	}

	sl.size++
	defer func() {
		v, ok := recover().(*Invariants.Violation)
		require.True(t, ok)
		assert.Equal(t, "skiplist", v.Module)
		assert.Equal(t, "size", v.Type)
	}()
	sl.Print(func(pair) {})
}
