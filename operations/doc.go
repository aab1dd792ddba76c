// Package operations exposes the toolchain adapters as named operations that
// take a JSON payload and return a JSON response.
//
// A Registry is built once from functional options and is immutable afterwards,
// so lookups need no locking. Every operation carries a description and a JSON
// schema for its input, which transports publish to their clients.
//
// Failures never escape as Go errors from Invoke: unknown operations, invalid
// payloads and recovered panics are returned as ErrorResponse JSON.
package operations
