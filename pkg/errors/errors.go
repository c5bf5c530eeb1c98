// Package errors provides structured error reporting for meshkit. Internal
// anomalies (bridge failures, event parse errors, recovered panics) are
// reported through a pluggable global handler instead of being propagated to
// callers, matching the subsystem's degrade-don't-crash policy.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindBridge indicates a platform channel or native transport error.
	KindBridge
	// KindParsing indicates an event or payload parsing failure.
	KindParsing
	// KindPermission indicates a permission flow error.
	KindPermission
	// KindInit indicates an initialization error.
	KindInit
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindBridge:
		return "bridge"
	case KindParsing:
		return "parsing"
	case KindPermission:
		return "permission"
	case KindInit:
		return "init"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// MeshError represents a structured error inside meshkit.
type MeshError struct {
	// Op is the operation that failed (e.g., "orchestrator.request").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Channel is the platform channel name, if applicable.
	Channel string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *MeshError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *MeshError) Unwrap() error {
	return e.Err
}

// ParseError represents a failure to parse payload or event data.
type ParseError struct {
	// Channel is the platform channel that produced the data.
	Channel string
	// DataType is the expected type name.
	DataType string
	// Got is the actual data received.
	Got any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from channel %s: got %T", e.DataType, e.Channel, e.Got)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by meshkit.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *MeshError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
