package bridge

import (
	"fmt"
	"sync"

	"github.com/go-mesh/meshkit/pkg/errors"
)

// Transport is the narrow interface to native host code. Implementations
// carry encoded frames across the language boundary; all typing happens on
// the Go side of the bridge.
type Transport interface {
	// InvokeMethod calls a method on the native side and returns the encoded
	// result.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)

	// StartEventStream tells native to start sending events for a channel.
	StartEventStream(channel string) error

	// StopEventStream tells native to stop sending events for a channel.
	StopEventStream(channel string) error
}

// Bridge owns the transport, the message codec, and all channels created
// from it. Construct one per native host connection and pass it explicitly
// to the components that need channels.
type Bridge struct {
	transport Transport
	codec     MessageCodec

	mu      sync.RWMutex
	methods map[string]*MethodChannel
	events  map[string]*EventChannel
}

// New creates a Bridge over the given transport using the JSON codec.
func New(transport Transport) *Bridge {
	return NewWithCodec(transport, JSONCodec{})
}

// NewWithCodec creates a Bridge with an explicit codec. The transport must
// encode and decode frames with the same codec.
func NewWithCodec(transport Transport, codec MessageCodec) *Bridge {
	return &Bridge{
		transport: transport,
		codec:     codec,
		methods:   make(map[string]*MethodChannel),
		events:    make(map[string]*EventChannel),
	}
}

// Method returns the method channel with the given name, creating it on
// first use.
func (b *Bridge) Method(name string) *MethodChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.methods[name]; ok {
		return ch
	}
	ch := &MethodChannel{name: name, bridge: b}
	b.methods[name] = ch
	return ch
}

// Events returns the event channel with the given name, creating it on
// first use.
func (b *Bridge) Events(name string) *EventChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.events[name]; ok {
		return ch
	}
	ch := &EventChannel{name: name, bridge: b}
	b.events[name] = ch
	return ch
}

// invoke calls a native method and decodes the reply.
func (b *Bridge) invoke(channel, method string, args any) (any, error) {
	if b.transport == nil {
		return nil, ErrTransportUnavailable
	}

	argsData, err := b.codec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := b.transport.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	return b.codec.Decode(resultData)
}

// startEventStream notifies native to start sending events.
func (b *Bridge) startEventStream(channel string) error {
	if b.transport == nil {
		return ErrTransportUnavailable
	}
	if err := b.transport.StartEventStream(channel); err != nil {
		errors.Report(&errors.MeshError{
			Op:      "bridge.startEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// stopEventStream notifies native to stop sending events.
func (b *Bridge) stopEventStream(channel string) error {
	if b.transport == nil {
		return ErrTransportUnavailable
	}
	if err := b.transport.StopEventStream(channel); err != nil {
		errors.Report(&errors.MeshError{
			Op:      "bridge.stopEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// DispatchEvent delivers an encoded native event to the named channel's
// subscribers. Called by the transport when the host emits an event.
func (b *Bridge) DispatchEvent(channel string, eventData []byte) error {
	ch := b.eventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
		errors.Report(&errors.MeshError{
			Op:      "bridge.DispatchEvent",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	data, err := b.codec.Decode(eventData)
	if err != nil {
		ch.dispatchError(err)
		return err
	}

	ch.dispatchEvent(data)
	return nil
}

// DispatchEventError delivers a native stream error to subscribers.
func (b *Bridge) DispatchEventError(channel, code, message string) error {
	ch := b.eventChannel(channel)
	if ch == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
	}
	ch.dispatchError(NewChannelError(code, message))
	return nil
}

// DispatchEventDone signals that a native stream has ended. Subscribers are
// canceled after their OnDone handlers run.
func (b *Bridge) DispatchEventDone(channel string) error {
	ch := b.eventChannel(channel)
	if ch == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
	}
	ch.dispatchDone()
	return nil
}

func (b *Bridge) eventChannel(name string) *EventChannel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.events[name]
}
