package bridge

import (
	"sync"
)

// MethodFunc handles a decoded method call on a MemoryTransport channel.
type MethodFunc func(method string, args any) (any, error)

// Call records one method invocation seen by a MemoryTransport.
type Call struct {
	Channel string
	Method  string
	Args    any
}

// MemoryTransport is an in-process Transport backed by scriptable handlers.
// It powers tests and the meshctl host simulation: register per-channel
// method handlers with Handle, bind a Bridge with Bind, and inject native
// events with Emit. Channels without a handler answer every method with a
// nil payload.
type MemoryTransport struct {
	mu       sync.Mutex
	codec    MessageCodec
	bridge   *Bridge
	handlers map[string]MethodFunc
	streams  map[string]bool
	calls    []Call
}

// NewMemoryTransport creates a MemoryTransport using the JSON codec. Bind
// aligns the codec with the bridge's.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		codec:    JSONCodec{},
		handlers: make(map[string]MethodFunc),
		streams:  make(map[string]bool),
	}
}

// Bind attaches the transport to a bridge so Emit can deliver events, and
// adopts the bridge's codec for frame encoding.
func (t *MemoryTransport) Bind(b *Bridge) {
	t.mu.Lock()
	t.bridge = b
	t.codec = b.codec
	t.mu.Unlock()
}

// Handle registers the method handler for a channel, replacing any previous
// handler.
func (t *MemoryTransport) Handle(channel string, fn MethodFunc) {
	t.mu.Lock()
	t.handlers[channel] = fn
	t.mu.Unlock()
}

// InvokeMethod decodes the call, records it, and runs the channel handler.
func (t *MemoryTransport) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	t.mu.Lock()
	codec := t.codec
	fn := t.handlers[channel]
	t.mu.Unlock()

	decoded, err := codec.Decode(args)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.calls = append(t.calls, Call{Channel: channel, Method: method, Args: decoded})
	t.mu.Unlock()

	if fn == nil {
		return codec.Encode(nil)
	}
	result, err := fn(method, decoded)
	if err != nil {
		return nil, err
	}
	return codec.Encode(result)
}

// StartEventStream records that the named stream is live.
func (t *MemoryTransport) StartEventStream(channel string) error {
	t.mu.Lock()
	t.streams[channel] = true
	t.mu.Unlock()
	return nil
}

// StopEventStream records that the named stream has stopped.
func (t *MemoryTransport) StopEventStream(channel string) error {
	t.mu.Lock()
	t.streams[channel] = false
	t.mu.Unlock()
	return nil
}

// StreamActive reports whether the named stream has been started and not
// stopped.
func (t *MemoryTransport) StreamActive(channel string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streams[channel]
}

// Emit encodes an event payload and delivers it to the bound bridge's
// channel subscribers.
func (t *MemoryTransport) Emit(channel string, event any) error {
	t.mu.Lock()
	b := t.bridge
	codec := t.codec
	t.mu.Unlock()

	if b == nil {
		return ErrTransportUnavailable
	}
	data, err := codec.Encode(event)
	if err != nil {
		return err
	}
	return b.DispatchEvent(channel, data)
}

// CallCount returns how many times a method was invoked on a channel.
func (t *MemoryTransport) CallCount(channel, method string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, c := range t.calls {
		if c.Channel == channel && c.Method == method {
			count++
		}
	}
	return count
}

// Calls returns a copy of every recorded invocation in order.
func (t *MemoryTransport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}
