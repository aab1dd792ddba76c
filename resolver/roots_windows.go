//go:build windows

package resolver

import (
	"os"
	"path/filepath"
)

// StandardRoots returns the directories Embarcadero installers use for versioned
// installations.
func StandardRoots() []string {
	var roots []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if base := os.Getenv(env); base != "" {
			roots = append(roots, filepath.Join(base, "Embarcadero", "Studio"))
		}
	}
	return roots
}
