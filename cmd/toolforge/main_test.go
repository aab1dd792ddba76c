package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toolforge-dev/toolforge/internal/testutil"
	"github.com/toolforge-dev/toolforge/operations"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a config.json pointing the python tool at a fake interpreter.
func writeConfig(t *testing.T, dir, pythonDir string) string {
	t.Helper()
	cfg := fmt.Sprintf(`{
  "tools": {"python": {"path": %q, "executableName": "fakepy"}},
  "features": {"defaultTimeout": 10, "maxOutputSize": 1048576, "enableLogging": true},
  "logging": {"level": "error", "format": "text"}
}`, pythonDir)
	return testutil.WriteFile(t, dir, "config.json", cfg)
}

func TestList_JSON(t *testing.T) {
	stdout, _, err := execute(t, "", "list", "--format", "json")
	require.NoError(t, err)

	var listed []listedOperation
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))

	names := make([]string, 0, len(listed))
	for _, op := range listed {
		names = append(names, op.Name)
		assert.NotEmpty(t, op.Description, op.Name)
		assert.Equal(t, "object", op.InputSchema["type"], op.Name)
	}
	assert.ElementsMatch(t, []string{
		operations.OpDotnet, operations.OpCargo, operations.OpPython,
		operations.OpBuildProject, operations.OpBuildDelphiProject, operations.OpCompileDelphiDpr,
	}, names)
}

func TestList_YAML(t *testing.T) {
	stdout, _, err := execute(t, "", "list")
	require.NoError(t, err)

	var listed []listedOperation
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &listed))
	assert.Len(t, listed, 6)
}

func TestList_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "", "list", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	testutil.WriteScript(t, bin, "fakepy", `echo "args:$*"`)
	cfg := writeConfig(t, dir, bin)

	stdout, _, err := execute(t, "", "--config", cfg, "run", operations.OpPython,
		"--arg", "command=-c hi", "--arg", "workingDirectory="+dir)
	require.NoError(t, err)
	assert.Equal(t, "Exit Code: 0\n\n=== Output ===\nargs:-c hi\n", stdout)
}

func TestRun_Payload(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	testutil.WriteScript(t, bin, "fakepy", `echo "args:$*"`)
	cfg := writeConfig(t, dir, bin)

	stdout, _, err := execute(t, "", "--config", cfg, "run", operations.OpPython,
		"--payload", `{"command":"script.py --fast"}`)
	require.NoError(t, err)
	assert.Contains(t, stdout, "args:script.py --fast")
}

func TestRun_Unsuccessful(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	testutil.WriteScript(t, bin, "fakepy", `echo "broken" >&2; exit 3`)
	cfg := writeConfig(t, dir, bin)

	stdout, _, err := execute(t, "", "--config", cfg, "run", operations.OpPython, "--arg", "command=x")
	assert.ErrorIs(t, err, errUnsuccessful)
	assert.Equal(t, "Exit Code: 3\n\n=== Errors/Warnings ===\nbroken\n", stdout)
}

func TestRun_InvalidPayload(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, dir)

	stdout, _, err := execute(t, "", "--config", cfg, "run", operations.OpPython, "--arg", "cmd=x")
	assert.ErrorIs(t, err, errUnsuccessful)
	assert.True(t, strings.HasPrefix(stdout, "Error: "), stdout)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown operation", args: []string{"run", "format_disk"}, want: "unknown operation"},
		{name: "malformed arg", args: []string{"run", operations.OpPython, "--arg", "command"}, want: "expected key=value"},
		{name: "malformed payload", args: []string{"run", operations.OpPython, "--payload", "{"}, want: "not valid JSON"},
		{name: "missing config", args: []string{"--config", filepath.Join(dir, "nope.json"), "run", operations.OpPython}, want: "nope.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if args[0] != "--config" {
				args = append([]string{"--config", cfg}, args...)
			}
			_, _, err := execute(t, "", args...)
			require.Error(t, err)
			assert.NotErrorIs(t, err, errUnsuccessful)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, dir)
	roots := filepath.Join(dir, "Studio")
	testutil.MakeInstallation(t, roots, "20.0", "bds.exe")
	want := testutil.MakeInstallation(t, roots, "22.0", "bds.exe")

	stdout, _, err := execute(t, "", "--config", cfg, "resolve", "--version", "22.0", "--root", roots, "--no-standard-roots")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", stdout)

	stdout, _, err = execute(t, "", "--config", cfg, "resolve", "--version", "21.0", "--path", want)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", stdout)
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, dir)

	_, _, err := execute(t, "", "--config", cfg, "resolve", "--version", "22.0", "--root", filepath.Join(dir, "none"), "--no-standard-roots")
	assert.ErrorContains(t, err, `no Delphi installation found for version "22.0"`)

	_, _, err = execute(t, "", "--config", cfg, "resolve")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings", "toolforge.yaml")

	stdout, _, err := execute(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", stdout)

	_, _, err = execute(t, "", "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	stdout, _, err = execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)

	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	features, ok := shown["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 30.0, features["defaultTimeout"])

	stdout, _, err = execute(t, "", "--config", path, "config", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "defaultTimeout: 30")
}

func TestServe_StdioSession(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	testutil.WriteScript(t, bin, "fakepy", `echo "ran $1"`)
	cfg := writeConfig(t, dir, bin)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	cmd := newRootCmd()
	cmd.SetIn(inR)
	cmd.SetOut(outW)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", cfg, "serve", "--no-watch"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(context.Background())
		_ = outW.Close()
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(outR)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	roundTrip := func(request string) map[string]any {
		t.Helper()
		_, err := io.WriteString(inW, request+"\n")
		require.NoError(t, err)
		select {
		case line, ok := <-lines:
			require.True(t, ok, "server closed stdout")
			var msg map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &msg), line)
			require.Nil(t, msg["error"], line)
			return msg["result"].(map[string]any)
		case <-time.After(10 * time.Second):
			t.Fatalf("no reply to %s", request)
			return nil
		}
	}

	initialized := roundTrip(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
	info := initialized["serverInfo"].(map[string]any)
	assert.Equal(t, "toolforge", info["name"])

	_, err := io.WriteString(inW, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n")
	require.NoError(t, err)

	listed := roundTrip(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Len(t, listed["tools"], 6)

	call := roundTrip(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"execute_python_command","arguments":{"command":"main.py"}}}`)
	assert.Equal(t, false, call["isError"])
	content := call["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "Exit Code: 0\n\n=== Output ===\nran main.py\n", content["text"])

	require.NoError(t, inW.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after stdin closed")
	}
}
