package bridge

import "errors"

// Standard errors for platform channel operations.
var (
	// ErrClosed is returned when operating on a closed channel or bridge.
	ErrClosed = errors.New("bridge: channel closed")

	// ErrChannelNotFound indicates the named channel does not exist.
	ErrChannelNotFound = errors.New("bridge: channel not found")

	// ErrMethodNotFound indicates the method is not implemented on the
	// native side.
	ErrMethodNotFound = errors.New("bridge: method not implemented")

	// ErrTransportUnavailable indicates the native transport is not
	// connected.
	ErrTransportUnavailable = errors.New("bridge: transport unavailable")
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
