package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// SkipOnWindows skips tests that rely on POSIX shell scripts.
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// WriteScript writes an executable /bin/sh script named name into dir and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	SkipOnWindows(t)

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// WriteFile writes content to dir/rel, creating parent directories, and returns the path.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// MakeInstallation creates root/label/bin/<binary> and returns root/label.
func MakeInstallation(t *testing.T, root, label, binary string) string {
	t.Helper()

	dir := filepath.Join(root, label)
	WriteFile(t, dir, filepath.Join("bin", binary), "")
	return dir
}
