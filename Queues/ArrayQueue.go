package Queues

// ArrayQueue is a Queue backed by a circular buffer that grows by half of its
// length whenever it's pushed full. The zero value is an empty queue.
type ArrayQueue[T any] struct {
	sz, head, tail uint
	content        []T
}

func MakeArrayQueue[T any](initCap uint) *ArrayQueue[T] {
	return &ArrayQueue[T]{content: make([]T, initCap)}
}

func (u *ArrayQueue[T]) Empty() bool {
	return u.sz == 0
}

// resize the buffer to newLen>=sz, unrolling the content to start at 0.
func (u *ArrayQueue[T]) resize(newLen uint) {
	nc := make([]T, newLen)
	if u.head < u.tail {
		copy(nc, u.content[u.head:u.tail])
	} else if u.sz > 0 {
		n := copy(nc, u.content[u.head:])
		copy(nc[n:], u.content[:u.tail])
	}
	u.content = nc
	u.head, u.tail = 0, u.sz
	if u.tail == newLen {
		u.tail = 0
	}
}

// Shrink the buffer to fit the current content.
func (u *ArrayQueue[T]) Shrink() {
	u.resize(u.sz | 1)
}

// Clear the queue, keeping the buffer.
func (u *ArrayQueue[T]) Clear() {
	clear(u.content)
	u.tail, u.head, u.sz = 0, 0, 0
}

func (u *ArrayQueue[T]) Size() uint {
	return u.sz
}

func (u *ArrayQueue[T]) Push(item T) {
	if l := uint(len(u.content)); u.sz == l {
		u.resize(l + l>>1 + 1)
	}
	u.content[u.tail] = item
	u.tail = (u.tail + 1) % uint(len(u.content))
	u.sz++
}

func (u *ArrayQueue[T]) Pop() (item T, e error) {
	if u.Empty() {
		return item, &EmptyQueueError{}
	}
	item = u.content[u.head]
	u.content[u.head] = *new(T)
	u.head = (u.head + 1) % uint(len(u.content))
	u.sz--
	return item, nil
}

func (u *ArrayQueue[T]) Peek() (item T, has bool) {
	if u.Empty() {
		return
	}
	return u.content[u.head], true
}
