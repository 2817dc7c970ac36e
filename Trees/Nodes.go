package Trees

import "golang.org/x/exp/constraints"

// info is the link part of a node in the arena.
// The zero value is the nil sentinel: both children and the parent are index 0.
type info[S constraints.Unsigned] struct {
	l, r, p S
	k       int32
}

// rotateLeft x with its right child, which becomes the root of the subtree and
// is returned. The three parent links involved are rewritten; the sentinel's
// parent is never touched.
// Time: O(1); Space: O(1)
func (u *base[V, S]) rotateLeft(x S) S {
	ifs := u.ifs
	y := ifs[x].r
	ifs[x].r = ifs[y].l
	if ifs[y].l != 0 {
		ifs[ifs[y].l].p = x
	}
	ifs[y].p = ifs[x].p
	u.replaceChild(ifs[x].p, x, y)
	ifs[y].l = x
	ifs[x].p = y
	return y
}

// rotateRight x with its left child, which becomes the root of the subtree and
// is returned.
// Time: O(1); Space: O(1)
func (u *base[V, S]) rotateRight(x S) S {
	ifs := u.ifs
	y := ifs[x].l
	ifs[x].l = ifs[y].r
	if ifs[y].r != 0 {
		ifs[ifs[y].r].p = x
	}
	ifs[y].p = ifs[x].p
	u.replaceChild(ifs[x].p, x, y)
	ifs[y].r = x
	ifs[x].p = y
	return y
}

// replaceChild old of p with n. p==0 means old is the root.
func (u *base[V, S]) replaceChild(p, old, n S) {
	if p == 0 {
		u.root = n
	} else if u.ifs[p].l == old {
		u.ifs[p].l = n
	} else {
		u.ifs[p].r = n
	}
}

// transplant puts the subtree v in the place of o. The parent of v is set even
// if v is the sentinel.
func (u *base[V, S]) transplant(o, v S) {
	p := u.ifs[o].p
	u.replaceChild(p, o, v)
	u.ifs[v].p = p
}
