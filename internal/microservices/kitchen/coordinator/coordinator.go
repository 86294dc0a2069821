// Package coordinator tracks one customer's submission from the moment its
// tickets are queued until the last item is prepared and the result is
// handed back.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"walkup-counter/internal/domain"
)

// Delimiter separates item names in a result.
const Delimiter = ", "

var (
	ErrAbandoned       = errors.New("submission abandoned")
	ErrAlreadyConsumed = errors.New("result already consumed")
	ErrOverCompleted   = errors.New("completion recorded past zero remaining")
)

// Ticket is the queued unit of work for one item of one submission. It is
// never mutated after Submit returns.
type Ticket struct {
	CustomerID  int64
	Item        domain.Item
	Seq         int
	Coordinator *Coordinator
}

// Enqueuer is the part of the work queue Submit needs.
type Enqueuer interface {
	Enqueue(*Ticket) error
}

// Coordinator is the shared state of one submission. Every ticket of the
// submission points at the same Coordinator.
type Coordinator struct {
	customerID int64
	total      int

	mu        sync.Mutex
	remaining int
	result    []string
	completed bool
	abandoned bool
	consumed  bool
	signals   int
	done      chan struct{}
}

func newCoordinator(customerID int64, n int) *Coordinator {
	c := &Coordinator{
		customerID: customerID,
		total:      n,
		remaining:  n,
		result:     make([]string, 0, n),
		done:       make(chan struct{}),
	}
	if n == 0 {
		c.completeLocked()
	}
	return c
}

// Submit creates the coordinator and one ticket per item and queues the
// tickets in item order.
func Submit(q Enqueuer, customerID int64, items []domain.Item) (*Coordinator, []*Ticket, error) {
	c := newCoordinator(customerID, len(items))
	tickets := make([]*Ticket, len(items))
	for i, it := range items {
		tickets[i] = &Ticket{CustomerID: customerID, Item: it, Seq: i, Coordinator: c}
	}
	for i, t := range tickets {
		if err := q.Enqueue(t); err != nil {
			c.abandon()
			return nil, nil, fmt.Errorf("enqueue ticket %d of %d for customer %d: %w", i+1, len(tickets), customerID, err)
		}
	}
	return c, tickets, nil
}

// RecordCompletion folds one prepared item into the submission. The call
// that brings remaining to zero wakes the waiting session.
func (c *Coordinator) RecordCompletion(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining == 0 {
		return ErrOverCompleted
	}
	if !c.abandoned {
		c.result = append(c.result, name)
	}
	c.remaining--
	if c.remaining == 0 {
		c.completeLocked()
	}
	return nil
}

func (c *Coordinator) completeLocked() {
	if c.completed {
		return
	}
	c.completed = true
	c.signals++
	close(c.done)
}

// AwaitCompletion blocks until every ticket has been recorded or ctx is
// done. A ctx expiry marks the submission abandoned; late completions are
// still counted but their names are dropped.
func (c *Coordinator) AwaitCompletion(ctx context.Context) (string, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		c.mu.Lock()
		if !c.completed {
			c.abandoned = true
			c.mu.Unlock()
			return "", fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err())
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abandoned {
		return "", ErrAbandoned
	}
	if c.consumed {
		return "", ErrAlreadyConsumed
	}
	c.consumed = true
	return strings.Join(c.result, Delimiter), nil
}

func (c *Coordinator) abandon() {
	c.mu.Lock()
	c.abandoned = true
	c.mu.Unlock()
}

// Done is closed once the last item has been recorded.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

func (c *Coordinator) CustomerID() int64 { return c.customerID }

func (c *Coordinator) Total() int { return c.total }

func (c *Coordinator) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Signals is the number of times the waiter has been woken; 0 or 1.
func (c *Coordinator) Signals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signals
}

func (c *Coordinator) Abandoned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.abandoned
}

// Names returns a copy of the names recorded so far, in completion order.
func (c *Coordinator) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.result...)
}
