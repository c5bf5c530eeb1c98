package bridge

import (
	"sync"
	"sync/atomic"
)

// MethodChannel provides method-call communication with native code.
type MethodChannel struct {
	name   string
	bridge *Bridge
}

// Name returns the channel name.
func (c *MethodChannel) Name() string {
	return c.name
}

// Invoke calls a method on the native side and returns the decoded result.
// Blocks until the native side responds or an error occurs.
func (c *MethodChannel) Invoke(method string, args any) (any, error) {
	return c.bridge.invoke(c.name, method, args)
}

// EventHandler receives events from an EventChannel.
type EventHandler struct {
	OnEvent func(data any)
	OnError func(err error)
	OnDone  func()
}

// Subscription represents an active event subscription.
type Subscription struct {
	channel  *EventChannel
	handler  *EventHandler
	canceled atomic.Bool
}

// Cancel stops receiving events on this subscription.
func (s *Subscription) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.channel.removeSubscription(s)
	}
}

// IsCanceled returns true if this subscription has been canceled.
func (s *Subscription) IsCanceled() bool {
	return s.canceled.Load()
}

// EventChannel provides stream-based event delivery from native to Go.
// Events are dispatched to every live subscriber in arrival order; late
// subscribers miss earlier events (no replay buffer).
type EventChannel struct {
	name          string
	bridge        *Bridge
	mu            sync.Mutex
	subscriptions []*Subscription
	started       bool
	closed        bool
}

// Name returns the channel name.
func (c *EventChannel) Name() string {
	return c.name
}

// Listen subscribes to events on this channel. The first subscriber starts
// the native event stream; a startup error is delivered to the handler's
// OnError but does not prevent the subscription from being created. On a
// closed channel the subscription is returned already canceled after OnDone.
func (c *EventChannel) Listen(handler EventHandler) *Subscription {
	sub := &Subscription{
		channel: c,
		handler: &handler,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.canceled.Store(true)
		if handler.OnDone != nil {
			handler.OnDone()
		}
		return sub
	}
	c.subscriptions = append(c.subscriptions, sub)
	shouldStart := !c.started
	if shouldStart {
		c.started = true
	}
	c.mu.Unlock()

	if shouldStart {
		if err := c.bridge.startEventStream(c.name); err != nil {
			c.mu.Lock()
			c.started = false
			c.mu.Unlock()
			if handler.OnError != nil {
				handler.OnError(err)
			}
		}
	}

	return sub
}

// Close ends the stream locally: subscribers receive OnDone, the native
// stream is stopped, and later Listen calls return canceled subscriptions.
// Idempotent.
func (c *EventChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	wasStarted := c.started
	c.started = false
	c.mu.Unlock()

	c.dispatchDone()
	if wasStarted {
		// Teardown errors are reported by stopEventStream; nothing to do here.
		_ = c.bridge.stopEventStream(c.name)
	}
}

// removeSubscription removes a subscription from the channel and stops the
// native stream when no subscribers remain.
func (c *EventChannel) removeSubscription(sub *Subscription) {
	c.mu.Lock()
	for i, s := range c.subscriptions {
		if s == sub {
			c.subscriptions = append(c.subscriptions[:i], c.subscriptions[i+1:]...)
			break
		}
	}
	stop := len(c.subscriptions) == 0 && c.started && !c.closed
	if stop {
		c.started = false
	}
	c.mu.Unlock()

	if stop {
		_ = c.bridge.stopEventStream(c.name)
	}
}

// dispatchEvent sends an event to all subscribers.
func (c *EventChannel) dispatchEvent(data any) {
	for _, sub := range c.snapshot() {
		if !sub.IsCanceled() && sub.handler.OnEvent != nil {
			sub.handler.OnEvent(data)
		}
	}
}

// dispatchError sends an error to all subscribers.
func (c *EventChannel) dispatchError(err error) {
	for _, sub := range c.snapshot() {
		if !sub.IsCanceled() && sub.handler.OnError != nil {
			sub.handler.OnError(err)
		}
	}
}

// dispatchDone notifies all subscribers that the stream has ended and
// cancels them.
func (c *EventChannel) dispatchDone() {
	c.mu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.canceled.Store(true)
		if sub.handler.OnDone != nil {
			sub.handler.OnDone()
		}
	}
}

func (c *EventChannel) snapshot() []*Subscription {
	c.mu.Lock()
	subs := make([]*Subscription, len(c.subscriptions))
	copy(subs, c.subscriptions)
	c.mu.Unlock()
	return subs
}
