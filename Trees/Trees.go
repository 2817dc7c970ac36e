package Trees

import (
	"io"

	"github.com/g-m-twostay/sortedmaps"
	"golang.org/x/exp/constraints"
)

// Tree is an ordered map implemented as a balanced binary search tree over an
// arena of nodes.
// If an implementation didn't specify anything special, then the implemented
// receivers follow the behaviors defined here and in sortedmaps.Map.
// All methods are implemented iteratively, so deep trees can't exhaust the
// goroutine stack.
type Tree[V any, S constraints.Unsigned] interface {
	sortedmaps.Map[V, S]
	//Remove the value with the key of v. Returning true if successful, false
	//if there's no such key.
	Remove(v V) bool
	//Search the value with the key of v.
	Search(v V) (V, bool)
	//Maximum element of the tree.
	Maximum() (V, bool)
	//Predecessor returns the value with the greatest key less than k.
	Predecessor(k int32) (V, bool)
	//Successor returns the value with the smallest key greater than k.
	Successor(k int32) (V, bool)
	//Print calls printVal on every value in ascending key order, then verifies
	//the tree. A violation is fatal: it's logged, counted and panics through
	//Invariants.Raise. This is a debugging aid.
	Print(printVal func(V))
	//Dump writes the shape of the tree breadth first.
	Dump(w io.Writer)
}
