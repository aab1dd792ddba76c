package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/toolforge-dev/toolforge/application/validation"
)

// Middleware wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps outermost).
type Middleware func(next ByteHandler) ByteHandler

// PanicRecoveryMiddleware converts panics into INTERNAL_ERROR responses.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs each invocation with its duration and result.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := OperationNameFrom(ctx)
			start := time.Now()
			logger.DebugContext(ctx, "invoking operation", "operation", name)

			resp, err := next(ctx, payload)

			attrs := []any{"operation", name, "duration", time.Since(start)}
			switch {
			case err != nil:
				logger.ErrorContext(ctx, "operation failed", append(attrs, "error", err)...)
			default:
				if e, ok := AsErrorResponse(resp); ok {
					logger.WarnContext(ctx, "operation rejected", append(attrs, "error", e.Error, "message", e.Message)...)
				} else {
					logger.InfoContext(ctx, "operation completed", attrs...)
				}
			}
			return resp, err
		}
	}
}

// SchemaValidationMiddleware rejects payloads that do not match the operation's
// registered input schema with a VALIDATION_ERROR response.
func SchemaValidationMiddleware(v *validation.RequestValidator) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := OperationNameFrom(ctx)
			if !v.Has(name) {
				return next(ctx, payload)
			}
			if res := v.Validate(name, payload); !res.Valid {
				return NewValidationError(res.Error()).ToJSON(), nil
			}
			return next(ctx, payload)
		}
	}
}
