package operations

import (
	"context"
	"encoding/json"
)

// OperationFunc is a typed operation implementation.
type OperationFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler accepts a JSON request and returns a JSON response.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed OperationFunc into a ByteHandler.
// A payload that does not decode into Req yields a VALIDATION_ERROR response.
// An empty payload decodes as an empty object.
func NewJSONHandler[Req any, Resp any](fn OperationFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError("failed to unmarshal request: " + err.Error()).ToJSON(), nil
			}
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to marshal response: " + err.Error()).ToJSON(), nil
		}
		return respBytes, nil
	}
}
