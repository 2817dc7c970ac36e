package Lists

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/g-m-twostay/sortedmaps"
	"github.com/g-m-twostay/sortedmaps/Invariants"
	"golang.org/x/exp/constraints"
)

// MaxLevel is the number of levels of the head, levels are numbered from 0.
const MaxLevel = 32

type node[V any] struct {
	k    int32
	v    V
	next []*node[V] // next[i] is the following node on level i; len(next) is the level of the node plus 1.
}

// SkipList is an ordered map keyed by int32 made of sorted linked lists of
// increasing sparsity. The level of a node is drawn from a geometric
// distribution with p=1/2 when it's inserted, so operations take expected
// O(log n) time.
// There's no sentinel: the head is a real node that always holds the smallest
// key. It is allocated with MaxLevel levels by the first insert and is never
// reallocated, so Minimum is O(1).
// V is the type of values it will hold, S bounds the size: the list holds at
// most ^S(0) values.
// The levels come from a PCG generator seeded by the caller. Level sequences
// are reproducible, which also means that anyone who knows the seed and
// controls the keys can make every node the same level and degrade the list
// to O(n). Don't use it for untrusted input.
type SkipList[V any, S constraints.Unsigned] struct {
	head  *node[V] // nil iff the list is empty.
	level int      // the highest level that head links to, 0 when head is alone.
	size  S
	rnd   *rand.Rand
	key   sortedmaps.KeyFunc[V]
}

// NewSkipList returns an empty SkipList ordering values by key, with levels
// drawn from a generator seeded with seed.
// Returns sortedmaps.NilKeyError if key is nil.
func NewSkipList[V any, S constraints.Unsigned](key sortedmaps.KeyFunc[V], seed uint64) (*SkipList[V, S], error) {
	if key == nil {
		return nil, sortedmaps.NilKeyError{}
	}
	return &SkipList[V, S]{rnd: rand.New(rand.NewPCG(seed, seed+1)), key: key}, nil
}

// randomLevel counts the coin flips that came up heads before the first tail,
// capped at MaxLevel-1.
func (u *SkipList[V, S]) randomLevel() int {
	return min(bits.TrailingZeros64(u.rnd.Uint64()), MaxLevel-1)
}

// Size [sortedmaps.Map.Size]
func (u *SkipList[V, S]) Size() S {
	return u.size
}

// Full [sortedmaps.Map.Full]
func (u *SkipList[V, S]) Full() bool {
	return u.size == sortedmaps.Capacity[S]()
}

// Level is the highest level in use, 0 when the list has at most one value.
func (u *SkipList[V, S]) Level() int {
	return u.level
}

// find the node with key k, nil if there's none.
// Time: O(log n) expected
func (u *SkipList[V, S]) find(k int32) *node[V] {
	x := u.head
	if x == nil || k < x.k {
		return nil
	} else if k == x.k {
		return x
	}
	for i := u.level; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].k < k {
			x = x.next[i]
		}
	}
	if x = x.next[0]; x != nil && x.k == k {
		return x
	}
	return nil
}

// Insert [sortedmaps.Map.Insert]
// A key smaller than the head's swaps places with the head's content, so the
// node of the new level carries the old minimum.
// Time: O(log n) expected
func (u *SkipList[V, S]) Insert(v V) bool {
	k := u.key(v)
	if u.head == nil {
		u.head = &node[V]{k, v, make([]*node[V], MaxLevel)}
		u.size++
		return true
	}
	if n := u.find(k); n != nil {
		n.v = v
		return true
	}
	if u.Full() {
		return false
	}
	n := &node[V]{k, v, make([]*node[V], u.randomLevel()+1)}
	if h := u.head; k < h.k {
		n.k, h.k = h.k, n.k
		n.v, h.v = h.v, n.v
	}
	top := len(n.next) - 1
	x := u.head
	for i := max(u.level, top); i >= 0; i-- {
		for x.next[i] != nil && x.next[i].k < n.k {
			x = x.next[i]
		}
		if i <= top {
			n.next[i] = x.next[i]
			x.next[i] = n
		}
	}
	u.level = max(u.level, top)
	u.size++
	return true
}

// locate the last node with a key less than k on every level from u.level
// down to 0, storing it in update. k must be greater than the head's key.
// Returns the node following update[0] and the number of forward steps taken.
// Time: O(log n) expected
func (u *SkipList[V, S]) locate(k int32, update *[MaxLevel]*node[V]) (*node[V], int) {
	steps := 0
	x := u.head
	for i := u.level; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].k < k {
			x = x.next[i]
			steps++
		}
		update[i] = x
	}
	return x.next[0], steps
}

// Delete [sortedmaps.Map.Delete]
// Deleting the head moves its successor's content into the head and unlinks
// the successor instead. The successor is the first node after the head on
// every level it's on, so the head is its predecessor on all of them.
// Time: O(log n) expected
func (u *SkipList[V, S]) Delete(k int32) bool {
	h := u.head
	if h == nil || k < h.k {
		return false
	}
	var update [MaxLevel]*node[V]
	var target *node[V]
	if k == h.k {
		if target = h.next[0]; target == nil {
			u.head, u.level, u.size = nil, 0, 0
			return true
		}
		h.k, h.v = target.k, target.v
		for i := range target.next {
			update[i] = h
		}
	} else if target, _ = u.locate(k, &update); target == nil || target.k != k {
		return false
	}
	for i, p := range update[:len(target.next)] {
		p.next[i] = target.next[i]
	}
	clear(target.next)
	for u.level > 0 && h.next[u.level] == nil {
		u.level--
	}
	u.size--
	return true
}

// Remove the value with the key of v.
func (u *SkipList[V, S]) Remove(v V) bool {
	return u.Delete(u.key(v))
}

// Get [sortedmaps.Map.Get]
func (u *SkipList[V, S]) Get(k int32) (v V, has bool) {
	if n := u.find(k); n != nil {
		return n.v, true
	}
	return
}

// Search is Get using the key of v.
func (u *SkipList[V, S]) Search(v V) (V, bool) {
	return u.Get(u.key(v))
}

// Has [sortedmaps.Map.Has]
func (u *SkipList[V, S]) Has(k int32) bool {
	return u.find(k) != nil
}

// Minimum [sortedmaps.Map.Minimum]
// Time: O(1)
func (u *SkipList[V, S]) Minimum() (v V, has bool) {
	if u.head != nil {
		return u.head.v, true
	}
	return
}

// Range [sortedmaps.Map.Range]
func (u *SkipList[V, S]) Range(f func(V) bool) {
	for n := u.head; n != nil && f(n.v); n = n.next[0] {
	}
}

// Clear [sortedmaps.Map.Clear]
// Every node is unlinked once, walking level 0.
// Time: O(n)
func (u *SkipList[V, S]) Clear() {
	for n := u.head; n != nil; {
		next := n.next[0]
		clear(n.next)
		n = next
	}
	u.head, u.level, u.size = nil, 0, 0
}

// Verify [sortedmaps.Map.Verify]
// Time: O(n)
func (u *SkipList[V, S]) Verify() error {
	h := u.head
	if h == nil {
		if u.size != 0 || u.level != 0 {
			return &sortedmaps.CorruptError{Rule: "size", Detail: fmt.Sprintf("empty list with size %d and level %d", u.size, u.level)}
		}
		return nil
	}
	if len(h.next) != MaxLevel {
		return &sortedmaps.CorruptError{Rule: "head", Key: h.k, Detail: fmt.Sprintf("head has %d levels", len(h.next))}
	}
	for i := 0; i < MaxLevel; i++ {
		if want := u.size > 1 && i <= u.level; (h.next[i] != nil) != want {
			return &sortedmaps.CorruptError{Rule: "level", Key: h.k, Detail: fmt.Sprintf("level is %d but head link %d is %v", u.level, i, h.next[i] != nil)}
		}
	}
	var count S = 1
	for n := h; n.next[0] != nil; n = n.next[0] {
		if next := n.next[0]; next.k <= n.k {
			return &sortedmaps.CorruptError{Rule: "order", Key: next.k, Detail: fmt.Sprintf("follows key %d on level 0", n.k)}
		} else if len(next.next) == 0 || len(next.next) > MaxLevel {
			return &sortedmaps.CorruptError{Rule: "level", Key: next.k, Detail: fmt.Sprintf("node has %d levels", len(next.next))}
		}
		if count++; count == 0 || count > u.size {
			return &sortedmaps.CorruptError{Rule: "size", Key: n.k, Detail: fmt.Sprintf("more than %d nodes on level 0", u.size)}
		}
	}
	if count != u.size {
		return &sortedmaps.CorruptError{Rule: "size", Key: h.k, Detail: fmt.Sprintf("size is %d but level 0 has %d nodes", u.size, count)}
	}
	for i := 1; i <= u.level; i++ {
		// every node of level i must appear on level i-1, in the same order.
		below := h
		for n := h.next[i]; n != nil; n = n.next[i] {
			if len(n.next) <= i {
				return &sortedmaps.CorruptError{Rule: "level", Key: n.k, Detail: fmt.Sprintf("node of %d levels linked on level %d", len(n.next), i)}
			}
			for below != nil && below != n {
				below = below.next[i-1]
			}
			if below == nil {
				return &sortedmaps.CorruptError{Rule: "order", Key: n.k, Detail: fmt.Sprintf("node on level %d is out of order on level %d", i, i-1)}
			}
		}
	}
	return nil
}

// Dump writes every level from the top, one line per level.
func (u *SkipList[V, S]) Dump(w io.Writer) {
	if u.head == nil {
		fmt.Fprintln(w, "empty")
		return
	}
	for i := u.level; i >= 0; i-- {
		fmt.Fprintf(w, "level %d:", i)
		for n := u.head; n != nil; n = n.next[i] {
			fmt.Fprintf(w, " %d", n.k)
		}
		fmt.Fprintln(w)
	}
}

// Print calls printVal on every value in ascending key order, then verifies
// the list. A violation is fatal, see Invariants.Raise. This is a debugging
// aid.
func (u *SkipList[V, S]) Print(printVal func(V)) {
	u.Range(func(v V) bool {
		printVal(v)
		return true
	})
	if err := u.Verify(); err != nil {
		var sb strings.Builder
		u.Dump(&sb)
		rule := "unknown"
		var ce *sortedmaps.CorruptError
		if errors.As(err, &ce) {
			rule = ce.Rule
		}
		Invariants.Raise("skiplist", rule, err, "size", uint64(u.size), "levels", sb.String())
	}
}
