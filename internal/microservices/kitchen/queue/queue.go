// Package queue holds the shared FIFO of pending tickets drained by the
// kitchen workers.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned once the queue is closed and has nothing left.
var ErrClosed = errors.New("queue closed")

type node[T any] struct {
	val  T
	next *node[T]
}

// Queue is a mutex-guarded FIFO safe for any number of producers and
// consumers. Items leave the queue in exactly the order they entered it.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	head   *node[T]
	tail   *node[T]
	count  int
	closed bool
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends v to the tail.
func (q *Queue[T]) Enqueue(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	n := &node[T]{val: v}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.count++
	q.cond.Signal()
	return nil
}

// TryDequeue pops the head without waiting.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Dequeue pops the head, waiting until an item is available, the queue is
// closed and empty, or ctx is done.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if v, ok := q.popLocked(); ok {
			return v, nil
		}
		if q.closed {
			var zero T
			return zero, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		q.cond.Wait()
	}
}

func (q *Queue[T]) popLocked() (T, bool) {
	n := q.head
	if n == nil {
		var zero T
		return zero, false
	}
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.count--
	n.next = nil
	return n.val, true
}

// Len is a snapshot of the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Close rejects further enqueues and wakes every blocked Dequeue. Items
// already queued can still be taken.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
