package Trees

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/g-m-twostay/sortedmaps"
	"github.com/g-m-twostay/sortedmaps/Invariants"
	"github.com/g-m-twostay/sortedmaps/Queues"
	"github.com/g-m-twostay/sortedmaps/Stacks"
	"golang.org/x/exp/constraints"
)

// base is the arena shared by the trees. Nodes are addressed by index; index 0
// is the nil sentinel, so a node is "nil" iff its index is 0.
type base[V any, S constraints.Unsigned] struct {
	root, free, size S // free is the beginning of the linked list that contains all the free indexes; info[S]::l represents next.
	ifs              []info[S]
	vs               []V // vs[i] is the value of ifs[i]; vs[0] stays the zero value.
	key              sortedmaps.KeyFunc[V]
}

func makeBase[V any, S constraints.Unsigned](key sortedmaps.KeyFunc[V], hint S) base[V, S] {
	return base[V, S]{ifs: make([]info[S], 1, int(hint)+1), vs: make([]V, 1, int(hint)+1), key: key}
}

// Size [sortedmaps.Map.Size]
// Time: O(1)
func (u *base[V, S]) Size() S {
	return u.size
}

// Full [sortedmaps.Map.Full]
func (u *base[V, S]) Full() bool {
	return u.size == sortedmaps.Capacity[S]()
}

// alloc a node holding k and v, reusing a free index if there's one. The caller
// makes sure the tree isn't full.
func (u *base[V, S]) alloc(k int32, v V) S {
	i := u.free
	if i != 0 {
		u.free = u.ifs[i].l
		u.ifs[i] = info[S]{k: k}
		u.vs[i] = v
	} else {
		i = S(len(u.ifs))
		u.ifs = append(u.ifs, info[S]{k: k})
		u.vs = append(u.vs, v)
	}
	u.size++
	return i
}

// release index i once. Nothing may still link to i.
func (u *base[V, S]) release(i S) {
	u.vs[i] = *new(V)
	u.ifs[i] = info[S]{l: u.free}
	u.free = i
	u.size--
}

// Clear [sortedmaps.Map.Clear]. Keeps the arena's memory.
// Time: O(n)
func (u *base[V, S]) Clear() {
	clear(u.vs)
	u.ifs, u.vs = u.ifs[:1], u.vs[:1]
	u.ifs[0] = info[S]{}
	u.root, u.free, u.size = 0, 0, 0
}

func (u *base[V, S]) search(k int32) S {
	cur := u.root
	for cur != 0 {
		if k < u.ifs[cur].k {
			cur = u.ifs[cur].l
		} else if k > u.ifs[cur].k {
			cur = u.ifs[cur].r
		} else {
			break
		}
	}
	return cur
}

func (u *base[V, S]) minimum(cur S) S {
	if cur != 0 {
		for u.ifs[cur].l != 0 {
			cur = u.ifs[cur].l
		}
	}
	return cur
}

func (u *base[V, S]) maximum(cur S) S {
	if cur != 0 {
		for u.ifs[cur].r != 0 {
			cur = u.ifs[cur].r
		}
	}
	return cur
}

// Get [sortedmaps.Map.Get]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Get(k int32) (V, bool) {
	i := u.search(k)
	return u.vs[i], i != 0
}

// Has [sortedmaps.Map.Has]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Has(k int32) bool {
	return u.search(k) != 0
}

// Search is Get using the key of v.
func (u *base[V, S]) Search(v V) (V, bool) {
	return u.Get(u.key(v))
}

// Minimum [sortedmaps.Map.Minimum]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Minimum() (V, bool) {
	i := u.minimum(u.root)
	return u.vs[i], i != 0
}

// Maximum [Tree.Maximum]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Maximum() (V, bool) {
	i := u.maximum(u.root)
	return u.vs[i], i != 0
}

// Predecessor [Tree.Predecessor]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Predecessor(k int32) (V, bool) {
	cur, p := u.root, S(0)
	for cur != 0 {
		if k <= u.ifs[cur].k {
			cur = u.ifs[cur].l
		} else {
			p = cur
			cur = u.ifs[cur].r
		}
	}
	return u.vs[p], p != 0
}

// Successor [Tree.Successor]
// Time: O(log n); Space: O(1)
func (u *base[V, S]) Successor(k int32) (V, bool) {
	cur, p := u.root, S(0)
	for cur != 0 {
		if k < u.ifs[cur].k {
			p = cur
			cur = u.ifs[cur].l
		} else {
			cur = u.ifs[cur].r
		}
	}
	return u.vs[p], p != 0
}

// inOrder calls f on every index in ascending key order until f returns false.
// It uses an explicit stack instead of recursion.
func (u *base[V, S]) inOrder(f func(S) bool) {
	var st Stacks.ArrayStack[S]
	for cur := u.root; cur != 0; cur = u.ifs[cur].l {
		st.Push(cur)
	}
	for !st.Empty() {
		cur, _ := st.Pop()
		if !f(cur) {
			return
		}
		for cur = u.ifs[cur].r; cur != 0; cur = u.ifs[cur].l {
			st.Push(cur)
		}
	}
}

// Range [sortedmaps.Map.Range]
// Time: O(n); Space: O(log n)
func (u *base[V, S]) Range(f func(V) bool) {
	u.inOrder(func(i S) bool {
		return f(u.vs[i])
	})
}

// verify the parts shared by both trees: sentinel, parent links, strict key
// order and size. check is called on every node for the tree specific rules.
func (u *base[V, S]) verify(check func(S) error) (err error) {
	if s := u.ifs[0]; s.l != 0 || s.r != 0 {
		return &sortedmaps.CorruptError{Rule: "sentinel", Detail: "nil sentinel has children"}
	}
	if u.root != 0 && u.ifs[u.root].p != 0 {
		return &sortedmaps.CorruptError{Rule: "parent", Key: u.ifs[u.root].k, Detail: "root has a parent"}
	}
	var count S
	var prev int32
	u.inOrder(func(i S) bool {
		n := u.ifs[i]
		if count > 0 && n.k <= prev {
			err = &sortedmaps.CorruptError{Rule: "order", Key: n.k, Detail: fmt.Sprintf("follows key %d in order", prev)}
		} else if n.l != 0 && u.ifs[n.l].p != i {
			err = &sortedmaps.CorruptError{Rule: "parent", Key: n.k, Detail: "left child links to another parent"}
		} else if n.r != 0 && u.ifs[n.r].p != i {
			err = &sortedmaps.CorruptError{Rule: "parent", Key: n.k, Detail: "right child links to another parent"}
		} else {
			err = check(i)
		}
		prev = n.k
		count++
		return err == nil && count <= u.size
	})
	if err == nil && count != u.size {
		err = &sortedmaps.CorruptError{Rule: "size", Key: prev, Detail: fmt.Sprintf("size is %d but %d nodes are reachable", u.size, count)}
	}
	return
}

// dump the tree breadth first, one node per line, note adds tree specific
// details of a node.
func (u *base[V, S]) dump(w io.Writer, note func(S) string) {
	type item struct {
		i S
		d uint
	}
	if u.root == 0 {
		fmt.Fprintln(w, "empty")
		return
	}
	q := Queues.MakeArrayQueue[item](16)
	q.Push(item{u.root, 0})
	for !q.Empty() {
		top, _ := q.Pop()
		n := u.ifs[top.i]
		fmt.Fprintf(w, "node %d depth %d %s\n", n.k, top.d, note(top.i))
		if n.l != 0 {
			q.Push(item{n.l, top.d + 1})
		}
		if n.r != 0 {
			q.Push(item{n.r, top.d + 1})
		}
	}
}

// print every value in order, then verify the tree and raise the violation
// found, if any.
func (u *base[V, S]) print(module string, printVal func(V), verify func() error, note func(S) string) {
	u.Range(func(v V) bool {
		printVal(v)
		return true
	})
	if err := verify(); err != nil {
		rule := "unknown"
		var ce *sortedmaps.CorruptError
		if errors.As(err, &ce) {
			rule = ce.Rule
		}
		var sb strings.Builder
		u.dump(&sb, note)
		Invariants.Raise(module, rule, err, "size", uint64(u.size), "tree", sb.String())
	}
}
