package coordinator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkup-counter/internal/domain"
	"walkup-counter/internal/microservices/kitchen/coordinator"
	"walkup-counter/internal/microservices/kitchen/queue"
)

type failingQueue struct{ after int }

func (f *failingQueue) Enqueue(*coordinator.Ticket) error {
	if f.after == 0 {
		return errors.New("out of room")
	}
	f.after--
	return nil
}

func drain(q *queue.Queue[*coordinator.Ticket]) []*coordinator.Ticket {
	var out []*coordinator.Ticket
	for {
		t, ok := q.TryDequeue()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

func TestSubmit_QueuesOneTicketPerItem(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	items := []domain.Item{domain.BigMac, domain.Cheese, domain.BigMac}

	c, tickets, err := coordinator.Submit(q, 7, items)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, int64(7), c.CustomerID())

	queued := drain(q)
	require.Len(t, queued, 3)
	for i, tk := range queued {
		assert.Same(t, tickets[i], tk, "tickets must be queued in item order")
		assert.Same(t, c, tk.Coordinator)
		assert.Equal(t, items[i], tk.Item)
		assert.Equal(t, i, tk.Seq)
	}
}

func TestSubmit_EmptyOrderIsCompleteImmediately(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, tickets, err := coordinator.Submit(q, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Equal(t, 0, q.Len())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res, err := c.AwaitCompletion(ctx)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, 1, c.Signals())
}

func TestSubmit_EnqueueFailure(t *testing.T) {
	_, _, err := coordinator.Submit(&failingQueue{after: 1}, 3, []domain.Item{domain.Chicken, domain.Bulgogi})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket 2 of 2")

	q := queue.New[*coordinator.Ticket]()
	q.Close()
	_, _, err = coordinator.Submit(q, 4, []domain.Item{domain.Chicken})
	assert.ErrorIs(t, err, queue.ErrClosed)
}

func TestRecordCompletion_SingleItem(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, _, err := coordinator.Submit(q, 1, []domain.Item{domain.BigMac})
	require.NoError(t, err)

	tk, ok := q.TryDequeue()
	require.True(t, ok)
	require.NoError(t, tk.Coordinator.RecordCompletion(tk.Item.String()))

	res, err := c.AwaitCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bigmac", res)
	assert.Equal(t, 0, c.Remaining())
}

func TestRecordCompletion_ConcurrentWorkersSignalOnce(t *testing.T) {
	const n = 64
	q := queue.New[*coordinator.Ticket]()
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Items[i%len(domain.Items)]
	}
	c, _, err := coordinator.Submit(q, 9, items)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, tk := range drain(q) {
		wg.Add(1)
		go func(tk *coordinator.Ticket) {
			defer wg.Done()
			assert.NoError(t, tk.Coordinator.RecordCompletion(tk.Item.String()))
			r := tk.Coordinator.Remaining()
			assert.GreaterOrEqual(t, r, 0)
			assert.LessOrEqual(t, r, n)
		}(tk)
	}
	wg.Wait()

	res, err := c.AwaitCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Signals())

	got := strings.Split(res, coordinator.Delimiter)
	want := make([]string, n)
	for i, it := range items {
		want[i] = it.String()
	}
	assert.ElementsMatch(t, want, got)
}

func TestRecordCompletion_PastZeroIsRejected(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, _, err := coordinator.Submit(q, 1, []domain.Item{domain.Cheese})
	require.NoError(t, err)

	require.NoError(t, c.RecordCompletion("cheese"))
	assert.ErrorIs(t, c.RecordCompletion("cheese"), coordinator.ErrOverCompleted)
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 1, c.Signals())
	assert.Equal(t, []string{"cheese"}, c.Names())
}

func TestAwaitCompletion_ResultConsumedOnce(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, _, err := coordinator.Submit(q, 1, []domain.Item{domain.Chicken})
	require.NoError(t, err)
	require.NoError(t, c.RecordCompletion("chicken"))

	_, err = c.AwaitCompletion(context.Background())
	require.NoError(t, err)
	_, err = c.AwaitCompletion(context.Background())
	assert.ErrorIs(t, err, coordinator.ErrAlreadyConsumed)
}

func TestAwaitCompletion_BlocksUntilLastItem(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, _, err := coordinator.Submit(q, 2, []domain.Item{domain.BigMac, domain.Cheese})
	require.NoError(t, err)

	done := make(chan string, 1)
	go func() {
		res, err := c.AwaitCompletion(context.Background())
		if err == nil {
			done <- res
		}
	}()

	require.NoError(t, c.RecordCompletion("cheese"))
	select {
	case <-done:
		t.Fatal("woken before the second item was recorded")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, c.RecordCompletion("bigmac"))
	select {
	case res := <-done:
		assert.Equal(t, "cheese, bigmac", res, "result follows completion order")
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestAwaitCompletion_TimeoutAbandons(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	c, _, err := coordinator.Submit(q, 5, []domain.Item{domain.Bulgogi})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	_, err = c.AwaitCompletion(ctx)
	assert.ErrorIs(t, err, coordinator.ErrAbandoned)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, c.Abandoned())

	require.NoError(t, c.RecordCompletion("bulgogi"), "late completion must not fail")
	assert.Equal(t, 0, c.Remaining())
	assert.Empty(t, c.Names())

	_, err = c.AwaitCompletion(context.Background())
	assert.ErrorIs(t, err, coordinator.ErrAbandoned)
}

func TestCoordinators_AreIsolated(t *testing.T) {
	q := queue.New[*coordinator.Ticket]()
	a, _, err := coordinator.Submit(q, 1, []domain.Item{domain.Chicken})
	require.NoError(t, err)
	b, _, err := coordinator.Submit(q, 2, []domain.Item{domain.Bulgogi})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, tk := range drain(q) {
		wg.Add(1)
		go func(tk *coordinator.Ticket) {
			defer wg.Done()
			_ = tk.Coordinator.RecordCompletion(tk.Item.String())
		}(tk)
	}
	wg.Wait()

	ra, err := a.AwaitCompletion(context.Background())
	require.NoError(t, err)
	rb, err := b.AwaitCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "chicken", ra)
	assert.Equal(t, "bulgogi", rb)
}
