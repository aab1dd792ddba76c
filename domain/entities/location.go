package entities

import (
	"path/filepath"
	"strings"
)

// ToolLocation identifies where an executable lives.
// An empty Directory means the executable is looked up on the system PATH.
type ToolLocation struct {
	// Directory is the configured install directory. Empty means "search PATH".
	Directory string `json:"directory,omitempty"`

	// ExecutableName is the binary name, e.g. "dotnet" or "dcc32.exe".
	ExecutableName string `json:"executable_name"`
}

// NewToolLocation builds a location from tool configuration.
// defaultExecutable is used when the configuration leaves the executable name blank,
// which keeps ResolvedPath non-empty.
func NewToolLocation(cfg ToolConfig, defaultExecutable string) ToolLocation {
	name := strings.TrimSpace(cfg.ExecutableName)
	if name == "" {
		name = defaultExecutable
	}
	return ToolLocation{
		Directory:      strings.TrimSpace(cfg.Path),
		ExecutableName: name,
	}
}

// UsesSearchPath reports whether the executable is resolved through PATH.
func (l ToolLocation) UsesSearchPath() bool {
	return l.Directory == ""
}

// ResolvedPath returns Directory/ExecutableName, or just ExecutableName when the
// directory is empty.
func (l ToolLocation) ResolvedPath() string {
	if l.UsesSearchPath() {
		return l.ExecutableName
	}
	return filepath.Join(l.Directory, l.ExecutableName)
}
