package orchestrator

import (
	"sync"

	"github.com/go-mesh/meshkit/pkg/permission"
)

// feed is the broadcast side of the orchestrator's change stream. Handlers
// receive every change in delivery order; subscribing after close is a no-op.
type feed struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(permission.Change)
	closed   bool
}

func newFeed() *feed {
	return &feed{handlers: make(map[int]func(permission.Change))}
}

// listen registers a handler and returns its unsubscribe function.
func (f *feed) listen(handler func(permission.Change)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return func() {}
	}
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// emit delivers a change to every registered handler.
func (f *feed) emit(c permission.Change) {
	f.mu.Lock()
	handlers := make([]func(permission.Change), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(c)
	}
}

// close drops all handlers; later listen calls return no-op unsubscribes.
func (f *feed) close() {
	f.mu.Lock()
	f.closed = true
	f.handlers = make(map[int]func(permission.Change))
	f.mu.Unlock()
}
