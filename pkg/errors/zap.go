package errors

import "go.uber.org/zap"

// ZapHandler is an ErrorHandler backed by a zap logger. Use it to route
// meshkit's internal error reports into an application's structured logs.
type ZapHandler struct {
	logger *zap.Logger
}

// NewZapHandler wraps a zap logger as an ErrorHandler. A nil logger falls
// back to zap.NewNop.
func NewZapHandler(logger *zap.Logger) *ZapHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHandler{logger: logger}
}

// HandleError logs a MeshError at error level with structured fields.
func (h *ZapHandler) HandleError(err *MeshError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Channel != "" {
		fields = append(fields, zap.String("channel", err.Channel))
	}
	h.logger.Error("meshkit error", fields...)
}

// HandlePanic logs a recovered panic at error level.
func (h *ZapHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	h.logger.Error("meshkit panic",
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	)
}
