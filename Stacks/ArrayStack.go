package Stacks

// ArrayStack is a last in first out container backed by a growable slice. It's
// what the iterative traversals use in place of recursion, so its depth is
// bounded by memory rather than by the goroutine stack.
// The zero value is an empty stack.
type ArrayStack[T any] struct {
	vs []T
}

// MakeArrayStack with room for initCap elements before growing.
func MakeArrayStack[T any](initCap uint) *ArrayStack[T] {
	return &ArrayStack[T]{make([]T, 0, initCap)}
}

func (u *ArrayStack[T]) Push(v T) {
	u.vs = append(u.vs, v)
}

// Pop the top element. (zero, false) when empty.
func (u *ArrayStack[T]) Pop() (v T, has bool) {
	if len(u.vs) == 0 {
		return
	}
	v, u.vs[len(u.vs)-1] = u.vs[len(u.vs)-1], *new(T)
	u.vs = u.vs[:len(u.vs)-1]
	return v, true
}

// Peek the top element without removing it.
func (u *ArrayStack[T]) Peek() (v T, has bool) {
	if len(u.vs) == 0 {
		return
	}
	return u.vs[len(u.vs)-1], true
}

func (u *ArrayStack[T]) Size() uint {
	return uint(len(u.vs))
}

func (u *ArrayStack[T]) Empty() bool {
	return len(u.vs) == 0
}

// Clear the stack, keeping the backing array.
func (u *ArrayStack[T]) Clear() {
	clear(u.vs)
	u.vs = u.vs[:0]
}
