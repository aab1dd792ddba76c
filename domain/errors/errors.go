// Package errors provides the error taxonomy of the execution pipeline.
// All error types support unwrapping via errors.As() and errors.Is(), and map to a
// structured ErrorDetail so the engine can turn any failure into outcome data.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// Error categories reported in ErrorDetail.Type and ExecutionOutcome.ErrorKind.
const (
	KindConfig     = "config"
	KindValidation = "validation"
	KindExec       = "exec"
	KindInternal   = "internal"
)

// DetailedError is implemented by error types that can describe themselves as an
// ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
// Unknown errors are categorized as internal.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    KindInternal,
	}
}

// ExecutableNotFoundError means the configured directory does not contain the executable.
type ExecutableNotFoundError struct {
	Tool string
	Path string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("%s executable not found at %s. "+
		"Please update the configuration with the correct path or leave path empty to use PATH.",
		e.Tool, e.Path)
}

// ToErrorDetail implements DetailedError.
func (e *ExecutableNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindConfig, Code: "executable_not_found", IsNotFound: true}
}

// PreflightError is returned by a toolchain's pre-flight check before any process starts.
type PreflightError struct {
	Tool    string
	Message string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// ToErrorDetail implements DetailedError.
func (e *PreflightError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindValidation, Code: "preflight"}
}

// LaunchError represents a failure to start or wait for a process.
type LaunchError struct {
	Err        error
	Executable string
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to execute '%s': %v", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *LaunchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindExec, Code: "launch_failed"}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindConfig, Code: e.Field}
}

// SchemaError represents a failure to generate or compile an operation input schema.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindValidation, Code: "schema"}
}

// PanicError wraps a value recovered from a panic inside the pipeline.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	switch v := e.Value.(type) {
	case error:
		return "panic: " + v.Error()
	case string:
		return "panic: " + v
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// ToErrorDetail implements DetailedError.
func (e *PanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: KindInternal, Code: "panic"}
}
