package engine

import (
	"context"
	"runtime"
	"strings"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// Call carries the per-call inputs visible to the hooks.
type Call struct {
	// Settings is the snapshot taken at the start of the call.
	Settings *entities.Settings

	// Location is the configured location of the tool for this call.
	Location entities.ToolLocation

	// Command is the raw argument string supplied by the caller.
	Command string

	// WorkingDirectory is the resolved working directory.
	WorkingDirectory string
}

// Toolchain binds the engine to one external tool.
// Values are built per call, so hooks may close over call-specific state.
type Toolchain struct {
	// Name identifies the tool in logs, metrics and error messages.
	Name string

	// Location derives the executable location from a settings snapshot.
	Location func(*entities.Settings) entities.ToolLocation

	// ResolveExecutable overrides the default "bare name or existing file" lookup.
	ResolveExecutable func(ctx context.Context, call Call) (string, error)

	// PreFlight validates inputs before any process is spawned.
	PreFlight func(ctx context.Context, call Call) error

	// FormatArguments rewrites the command string. Default: unchanged.
	FormatArguments func(command string) string

	// MutateEnvironment adjusts the KEY=VALUE environment inherited from this process.
	MutateEnvironment func(call Call, env []string) ([]string, error)

	// PostProcess may inspect or replace the outcome. Default: unchanged.
	PostProcess func(outcome *entities.ExecutionOutcome) *entities.ExecutionOutcome
}

// SetEnv returns env with key set to value, replacing any existing entry.
// Keys compare case-insensitively on Windows.
func SetEnv(env []string, key, value string) []string {
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		if sameEnvKey(k, key) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+"="+value)
}

// LookupEnv returns the value of key in env.
func LookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, _ := strings.Cut(env[i], "=")
		if sameEnvKey(k, key) {
			return v, true
		}
	}
	return "", false
}

func sameEnvKey(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
