package bridge

import "github.com/go-mesh/meshkit/pkg/errors"

// Stream provides a multi-subscriber broadcast of typed platform events.
// Each subscriber receives every event independently; use Listen to subscribe
// and the returned function to unsubscribe.
type Stream[T any] struct {
	eventChannel *EventChannel
	parser       func(data any) (T, error)
}

// NewStream wraps an EventChannel with a typed parser. The parser converts
// raw decoded payloads to the typed value, returning an error on malformed
// data.
func NewStream[T any](channel *EventChannel, parser func(data any) (T, error)) *Stream[T] {
	return &Stream[T]{
		eventChannel: channel,
		parser:       parser,
	}
}

// Listen subscribes to events and returns an unsubscribe function. The
// handler is called for each parsed event; parse and stream errors are
// reported via errors.Report and never reach the handler.
func (s *Stream[T]) Listen(handler func(T)) (unsubscribe func()) {
	sub := s.eventChannel.Listen(EventHandler{
		OnEvent: func(data any) {
			val, err := s.parser(data)
			if err != nil {
				errors.Report(&errors.MeshError{
					Op:      "stream.parse",
					Kind:    errors.KindParsing,
					Channel: s.eventChannel.Name(),
					Err:     err,
				})
				return
			}
			handler(val)
		},
		OnError: func(err error) {
			errors.Report(&errors.MeshError{
				Op:      "stream.error",
				Kind:    errors.KindBridge,
				Channel: s.eventChannel.Name(),
				Err:     err,
			})
		},
	})
	return sub.Cancel
}
