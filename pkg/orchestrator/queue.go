package orchestrator

import (
	"sync"

	"github.com/go-mesh/meshkit/pkg/permission"
)

// eventQueue is the unbounded queue the orchestrator owns between the
// adapter's change stream and its own pump goroutine. The adapter-side
// callback never blocks on slow subscribers.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []permission.Change
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a change. Changes arriving after close are dropped.
func (q *eventQueue) push(c permission.Change) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, c)
	q.cond.Signal()
}

// next blocks until a change is available or the queue is closed and
// drained. The second return is false only when no more changes will come.
func (q *eventQueue) next() (permission.Change, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return permission.Change{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// close stops accepting changes and wakes the pump so it can drain and exit.
func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
