package Trees

import (
	"testing"
)

var (
	bAddN uint32 = 1000000
	bQryN uint32 = bAddN / 2
)

func benchInsert(b *testing.B, create func() Tree[pair, uint32]) {
	for range b.N {
		tree := create()
		for range bAddN {
			tree.Insert(pair{k: rg.Int31()})
		}
	}
}

func benchDelete(b *testing.B, create func() Tree[pair, uint32]) {
	all := make([]int32, bAddN)
	b.ResetTimer()
	for range b.N {
		b.StopTimer()
		tree := create()
		for i := range all {
			all[i] = rg.Int31()
			tree.Insert(pair{k: all[i]})
		}
		b.StartTimer()
		for _, k := range all {
			tree.Delete(k)
		}
	}
}

var sideEff bool

func benchQuery(b *testing.B, create func() Tree[pair, uint32]) {
	all := make([]int32, bAddN)
	tree := create()
	for i := range all {
		all[i] = rg.Int31()
		tree.Insert(pair{k: all[i]})
	}
	b.ResetTimer()
	for range b.N {
		for _, k := range all[:bQryN] {
			sideEff = tree.Has(k)
		}
		for range bAddN - bQryN {
			sideEff = tree.Has(rg.Int31())
		}
	}
}

func newAVL() Tree[pair, uint32] {
	t, _ := NewAVLTree[pair, uint32](keyOf, bAddN)
	return t
}

func newRB() Tree[pair, uint32] {
	t, _ := NewRBTree[pair, uint32](keyOf, bAddN)
	return t
}

func BenchmarkAVLTree_Insert(b *testing.B) { benchInsert(b, newAVL) }
func BenchmarkRBTree_Insert(b *testing.B)  { benchInsert(b, newRB) }
func BenchmarkAVLTree_Delete(b *testing.B) { benchDelete(b, newAVL) }
func BenchmarkRBTree_Delete(b *testing.B)  { benchDelete(b, newRB) }
func BenchmarkAVLTree_Query(b *testing.B)  { benchQuery(b, newAVL) }
func BenchmarkRBTree_Query(b *testing.B)   { benchQuery(b, newRB) }
