package sortedmaps

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// KeyFunc extracts the ordering key of a stored value. It must be pure: the same
// value always maps to the same key for the whole lifetime of a structure.
type KeyFunc[V any] func(V) int32

// Map is an ordered map keyed by the int32 returned from a KeyFunc.
// Receivers that have a bool as a second return value indicate whether
// the first return value is defined; when it is false the first value is the
// zero value of V and shouldn't be used.
// S is the index type of the implementation, a structure is full once it holds
// ^S(0) elements.
type Map[V any, S constraints.Unsigned] interface {
	//Insert v. A value with the same key is replaced. Returns false only when
	//the key is new and the structure is full, in which case nothing changes.
	Insert(v V) bool
	//Delete the value with key k. Returns false if there's no such value.
	Delete(k int32) bool
	//Get the value with key k.
	Get(k int32) (V, bool)
	//Has a value with key k.
	Has(k int32) bool
	//Minimum value by key.
	Minimum() (V, bool)
	//Size is the number of values held.
	Size() S
	//Full reports whether inserting a new key would fail.
	Full() bool
	//Range calls f on every value in ascending key order until f returns false.
	//The structure must not be modified during the iteration.
	Range(f func(V) bool)
	//Clear drops every value.
	Clear()
	//Verify checks the structural invariants of the implementation and returns
	//the first violation found.
	Verify() error
}

// NilKeyError is returned by constructors given a nil KeyFunc.
type NilKeyError struct{}

func (NilKeyError) Error() string {
	return "sortedmaps: key function is nil"
}

// Capacity is the number of values a structure indexed by S can hold.
func Capacity[S constraints.Unsigned]() S {
	return ^S(0)
}

// CorruptError is returned by Verify. Rule names the broken invariant and Key
// is the key of the offending element.
type CorruptError struct {
	Rule   string
	Key    int32
	Detail string
}

func (e *CorruptError) Error() string {
	return "sortedmaps: element " + strconv.FormatInt(int64(e.Key), 10) + " breaks " + e.Rule + ": " + e.Detail
}
