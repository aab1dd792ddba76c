// Command toolforge serves build toolchains (dotnet, cargo, python, MSBuild and the
// Delphi compilers) as MCP tools over stdio, and runs them one-shot from the shell.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Version information (set at build time)
var (
	Version = "dev"
	Build   = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errUnsuccessful) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
