package Trees

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/g-m-twostay/sortedmaps"
	"golang.org/x/exp/constraints"
)

// RBTree is a red-black binary search tree keyed by int32 with no repeated
// keys, following CLRS. The root is black, a red node has only black children
// and every path from a node down to the nil sentinel passes the same number
// of black nodes, so the height is at most 2*log2(n+1).
// V is the type of values it will hold, S is the type of the node indexes,
// so the tree holds at most ^S(0) values.
// The sentinel at index 0 is black and terminates every leaf edge; it is also
// the parent of the root. Deletion temporarily gives it a parent.
type RBTree[V any, S constraints.Unsigned] struct {
	base[V, S]
	colors *bitset.BitSet // bit i is set iff ifs[i] is red. Bit 0 is never set.
}

// NewRBTree returns an empty RBTree ordering values by key. hint is the
// number of values to reserve memory for.
// Returns sortedmaps.NilKeyError if key is nil.
func NewRBTree[V any, S constraints.Unsigned](key sortedmaps.KeyFunc[V], hint S) (*RBTree[V, S], error) {
	if key == nil {
		return nil, sortedmaps.NilKeyError{}
	}
	return &RBTree[V, S]{makeBase(key, hint), bitset.New(uint(hint) + 1)}, nil
}

func (u *RBTree[V, S]) red(i S) bool {
	return u.colors.Test(uint(i))
}

func (u *RBTree[V, S]) paint(i S, red bool) {
	if red {
		u.colors.Set(uint(i))
	} else {
		u.colors.Clear(uint(i))
	}
}

// Insert [sortedmaps.Map.Insert]
// Time: O(log n); Space: O(1) amortized
func (u *RBTree[V, S]) Insert(v V) bool {
	k := u.key(v)
	y := S(0)
	for x := u.root; x != 0; {
		y = x
		if k < u.ifs[x].k {
			x = u.ifs[x].l
		} else if k > u.ifs[x].k {
			x = u.ifs[x].r
		} else {
			u.vs[x] = v
			return true
		}
	}
	if u.Full() {
		return false
	}
	z := u.alloc(k, v)
	u.ifs[z].p = y
	if y == 0 {
		u.root = z
	} else if k < u.ifs[y].k {
		u.ifs[y].l = z
	} else {
		u.ifs[y].r = z
	}
	u.paint(z, true)
	u.insertFixup(z)
	return true
}

// insertFixup removes the red-red edge z may have with its parent.
func (u *RBTree[V, S]) insertFixup(z S) {
	for u.red(u.ifs[z].p) {
		p := u.ifs[z].p
		g := u.ifs[p].p
		if p == u.ifs[g].l {
			if y := u.ifs[g].r; u.red(y) {
				u.paint(p, false)
				u.paint(y, false)
				u.paint(g, true)
				z = g
			} else {
				if z == u.ifs[p].r {
					z = p
					u.rotateLeft(z)
					p = u.ifs[z].p
				}
				u.paint(p, false)
				u.paint(g, true)
				u.rotateRight(g)
			}
		} else {
			if y := u.ifs[g].l; u.red(y) {
				u.paint(p, false)
				u.paint(y, false)
				u.paint(g, true)
				z = g
			} else {
				if z == u.ifs[p].l {
					z = p
					u.rotateRight(z)
					p = u.ifs[z].p
				}
				u.paint(p, false)
				u.paint(g, true)
				u.rotateLeft(g)
			}
		}
	}
	u.paint(u.root, false)
}

// Delete [sortedmaps.Map.Delete]
// The node z holding k stays in place when it has two children: it takes the
// key and value of its in-order successor y, and y is spliced out instead.
// z keeps its own color, so only the color of y decides the fixup.
// Time: O(log n); Space: O(1)
func (u *RBTree[V, S]) Delete(k int32) bool {
	z := u.search(k)
	if z == 0 {
		return false
	}
	y := z
	if u.ifs[z].l != 0 && u.ifs[z].r != 0 {
		y = u.minimum(u.ifs[z].r)
	}
	yRed := u.red(y)
	x := u.ifs[y].l
	if x == 0 {
		x = u.ifs[y].r
	}
	u.transplant(y, x)
	if y != z {
		u.ifs[z].k, u.vs[z] = u.ifs[y].k, u.vs[y]
	}
	u.paint(y, false)
	u.release(y)
	if !yRed {
		u.deleteFixup(x)
	}
	u.ifs[0].p = 0
	return true
}

// deleteFixup gives x, which carries an extra black, back its black height.
func (u *RBTree[V, S]) deleteFixup(x S) {
	for x != u.root && !u.red(x) {
		p := u.ifs[x].p
		if x == u.ifs[p].l {
			w := u.ifs[p].r
			if u.red(w) {
				u.paint(w, false)
				u.paint(p, true)
				u.rotateLeft(p)
				w = u.ifs[p].r
			}
			if !u.red(u.ifs[w].l) && !u.red(u.ifs[w].r) {
				u.paint(w, true)
				x = p
			} else {
				if !u.red(u.ifs[w].r) {
					u.paint(u.ifs[w].l, false)
					u.paint(w, true)
					u.rotateRight(w)
					w = u.ifs[p].r
				}
				u.paint(w, u.red(p))
				u.paint(p, false)
				u.paint(u.ifs[w].r, false)
				u.rotateLeft(p)
				x = u.root
			}
		} else {
			w := u.ifs[p].l
			if u.red(w) {
				u.paint(w, false)
				u.paint(p, true)
				u.rotateRight(p)
				w = u.ifs[p].l
			}
			if !u.red(u.ifs[w].r) && !u.red(u.ifs[w].l) {
				u.paint(w, true)
				x = p
			} else {
				if !u.red(u.ifs[w].l) {
					u.paint(u.ifs[w].r, false)
					u.paint(w, true)
					u.rotateLeft(w)
					w = u.ifs[p].l
				}
				u.paint(w, u.red(p))
				u.paint(p, false)
				u.paint(u.ifs[w].l, false)
				u.rotateRight(p)
				x = u.root
			}
		}
	}
	u.paint(x, false)
}

// Remove [Tree.Remove]
func (u *RBTree[V, S]) Remove(v V) bool {
	return u.Delete(u.key(v))
}

// Clear [sortedmaps.Map.Clear]
func (u *RBTree[V, S]) Clear() {
	u.base.Clear()
	u.colors.ClearAll()
}

// BlackHeight of the tree: the number of black nodes on any path from the root
// to the sentinel, the sentinel excluded.
// Time: O(log n)
func (u *RBTree[V, S]) BlackHeight() uint {
	var h uint
	for cur := u.root; cur != 0; cur = u.ifs[cur].l {
		if !u.red(cur) {
			h++
		}
	}
	return h
}

// Verify [sortedmaps.Map.Verify]
// Time: O(n log n)
func (u *RBTree[V, S]) Verify() error {
	if u.red(0) {
		return &sortedmaps.CorruptError{Rule: "color", Detail: "nil sentinel is red"}
	}
	if u.red(u.root) {
		return &sortedmaps.CorruptError{Rule: "color", Key: u.ifs[u.root].k, Detail: "root is red"}
	}
	bh := u.BlackHeight()
	return u.verify(func(i S) error {
		n := u.ifs[i]
		if u.red(i) && (u.red(n.l) || u.red(n.r)) {
			return &sortedmaps.CorruptError{Rule: "color", Key: n.k, Detail: "red node has a red child"}
		}
		if n.l != 0 && n.r != 0 {
			return nil
		}
		var h uint
		for cur := i; cur != 0; cur = u.ifs[cur].p {
			if !u.red(cur) {
				h++
			}
		}
		if h != bh {
			return &sortedmaps.CorruptError{Rule: "black-height", Key: n.k, Detail: fmt.Sprintf("path to the sentinel has %d black nodes, want %d", h, bh)}
		}
		return nil
	})
}

func (u *RBTree[V, S]) note(i S) string {
	if u.red(i) {
		return "red"
	}
	return "black"
}

// Print [Tree.Print]
func (u *RBTree[V, S]) Print(printVal func(V)) {
	u.print("rb", printVal, u.Verify, u.note)
}

// Dump [Tree.Dump]
func (u *RBTree[V, S]) Dump(w io.Writer) {
	u.dump(w, u.note)
}
