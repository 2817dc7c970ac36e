package Trees

import (
	"fmt"
	"io"
	"strconv"

	"github.com/g-m-twostay/sortedmaps"
	"golang.org/x/exp/constraints"
)

// AVLTree is a binary search tree keyed by int32 with no repeated keys. It
// maintains balance through rotations by checking the heights of subtrees:
// the heights of the two children of any node differ by at most 1.
// V is the type of values it will hold, S is the type of the node indexes,
// so the tree holds at most ^S(0) values.
// A node starts at height 1; the nil sentinel has height 0.
// The worst case height of the tree is less than 1.44*log2(n+2).
type AVLTree[V any, S constraints.Unsigned] struct {
	base[V, S]
	hs []uint8 // hs[i] is the height of ifs[i].
}

// NewAVLTree returns an empty AVLTree ordering values by key. hint is the
// number of values to reserve memory for.
// Returns sortedmaps.NilKeyError if key is nil.
func NewAVLTree[V any, S constraints.Unsigned](key sortedmaps.KeyFunc[V], hint S) (*AVLTree[V, S], error) {
	if key == nil {
		return nil, sortedmaps.NilKeyError{}
	}
	return &AVLTree[V, S]{makeBase(key, hint), make([]uint8, 1, int(hint)+1)}, nil
}

// fix the height of i from its children.
func (u *AVLTree[V, S]) fix(i S) {
	u.hs[i] = 1 + max(u.hs[u.ifs[i].l], u.hs[u.ifs[i].r])
}

func (u *AVLTree[V, S]) rotateLeft(x S) S {
	y := u.base.rotateLeft(x)
	u.fix(x)
	u.fix(y)
	return y
}

func (u *AVLTree[V, S]) rotateRight(x S) S {
	y := u.base.rotateRight(x)
	u.fix(x)
	u.fix(y)
	return y
}

// balance restores the height difference at n, whose children are balanced,
// and returns the root of the subtree.
func (u *AVLTree[V, S]) balance(n S) S {
	u.fix(n)
	l, r := u.ifs[n].l, u.ifs[n].r
	if hl, hr := u.hs[l], u.hs[r]; hl > hr+1 {
		if u.hs[u.ifs[l].l] < u.hs[u.ifs[l].r] {
			u.rotateLeft(l)
		}
		return u.rotateRight(n)
	} else if hr > hl+1 {
		if u.hs[u.ifs[r].r] < u.hs[u.ifs[r].l] {
			u.rotateRight(r)
		}
		return u.rotateLeft(n)
	}
	return n
}

// rebalance every node on the path from n to the root.
// Time: O(log n)
func (u *AVLTree[V, S]) rebalance(n S) {
	for n != 0 {
		n = u.ifs[u.balance(n)].p
	}
}

// Insert [sortedmaps.Map.Insert]
// Time: O(log n); Space: O(1) amortized
func (u *AVLTree[V, S]) Insert(v V) bool {
	k := u.key(v)
	p := S(0)
	for cur := u.root; cur != 0; {
		p = cur
		if k < u.ifs[cur].k {
			cur = u.ifs[cur].l
		} else if k > u.ifs[cur].k {
			cur = u.ifs[cur].r
		} else {
			u.vs[cur] = v
			return true
		}
	}
	if u.Full() {
		return false
	}
	n := u.alloc(k, v)
	if int(n) == len(u.hs) {
		u.hs = append(u.hs, 1)
	} else {
		u.hs[n] = 1
	}
	u.ifs[n].p = p
	if p == 0 {
		u.root = n
	} else if k < u.ifs[p].k {
		u.ifs[p].l = n
	} else {
		u.ifs[p].r = n
	}
	u.rebalance(p)
	return true
}

// Delete [sortedmaps.Map.Delete]
// A node with two children takes the key and value of its in-order successor,
// and the successor is spliced out instead.
// Time: O(log n); Space: O(1)
func (u *AVLTree[V, S]) Delete(k int32) bool {
	z := u.search(k)
	if z == 0 {
		return false
	}
	if u.ifs[z].l != 0 && u.ifs[z].r != 0 {
		y := u.minimum(u.ifs[z].r)
		u.ifs[z].k, u.vs[z] = u.ifs[y].k, u.vs[y]
		z = y
	}
	c := u.ifs[z].l
	if c == 0 {
		c = u.ifs[z].r
	}
	p := u.ifs[z].p
	u.replaceChild(p, z, c)
	if c != 0 {
		u.ifs[c].p = p
	}
	u.release(z)
	u.hs[z] = 0
	u.rebalance(p)
	return true
}

// Remove [Tree.Remove]
func (u *AVLTree[V, S]) Remove(v V) bool {
	return u.Delete(u.key(v))
}

// Clear [sortedmaps.Map.Clear]
func (u *AVLTree[V, S]) Clear() {
	u.base.Clear()
	u.hs = u.hs[:1]
}

// Height of the tree, 0 when empty.
func (u *AVLTree[V, S]) Height() uint8 {
	return u.hs[u.root]
}

// Verify [sortedmaps.Map.Verify]
// Time: O(n)
func (u *AVLTree[V, S]) Verify() error {
	if u.hs[0] != 0 {
		return &sortedmaps.CorruptError{Rule: "height", Detail: "nil sentinel has a height"}
	}
	return u.verify(func(i S) error {
		hl, hr := u.hs[u.ifs[i].l], u.hs[u.ifs[i].r]
		if u.hs[i] != 1+max(hl, hr) {
			return &sortedmaps.CorruptError{Rule: "height", Key: u.ifs[i].k, Detail: fmt.Sprintf("height %d with children of heights %d and %d", u.hs[i], hl, hr)}
		}
		if hl > hr+1 || hr > hl+1 {
			return &sortedmaps.CorruptError{Rule: "balance", Key: u.ifs[i].k, Detail: fmt.Sprintf("children of heights %d and %d", hl, hr)}
		}
		return nil
	})
}

func (u *AVLTree[V, S]) note(i S) string {
	return "height " + strconv.Itoa(int(u.hs[i]))
}

// Print [Tree.Print]
func (u *AVLTree[V, S]) Print(printVal func(V)) {
	u.print("avl", printVal, u.Verify, u.note)
}

// Dump [Tree.Dump]
func (u *AVLTree[V, S]) Dump(w io.Writer) {
	u.dump(w, u.note)
}
