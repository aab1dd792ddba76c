package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/operations"
)

type echoRequest struct {
	Text string `json:"text"`
	Exit int    `json:"exit,omitempty"`
}

func newTestRegistry(t *testing.T) *operations.Registry {
	t.Helper()
	reg, err := operations.NewRegistry(
		operations.WithMiddleware(operations.PanicRecoveryMiddleware()),
		operations.WithSchemaValidation(),
		operations.WithTypedOperation("echo", "Echo text as command output",
			func(_ context.Context, req echoRequest) *entities.ExecutionOutcome {
				return entities.NewExitedOutcome(req.Exit, req.Text+"\n", "")
			}),
		operations.WithTypedOperation("explode", "Always panics",
			func(_ context.Context, _ struct{}) *entities.ExecutionOutcome {
				panic("boom")
			}),
	)
	require.NoError(t, err)
	return reg
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcReply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// session drives a running server through a pair of pipes.
type session struct {
	t         *testing.T
	in        *io.PipeWriter
	lines     chan []byte
	pending   map[string]rpcReply
	nextID    int
	initReply rpcReply
}

func startSession(t *testing.T) *session {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewServer(newTestRegistry(t), WithServerInfo("toolforge-test", "1.2.3")).Serve(ctx, inR, outW)
	}()

	s := &session{t: t, in: inW, lines: make(chan []byte, 16), pending: make(map[string]rpcReply)}
	go func() {
		scanner := bufio.NewScanner(outR)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			s.lines <- append([]byte(nil), scanner.Bytes()...)
		}
	}()

	t.Cleanup(func() {
		cancel()
		_ = inW.Close()
		_ = outR.Close()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	s.initReply = s.call("initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	s.notify("notifications/initialized")
	return s
}

func (s *session) send(msg map[string]any) {
	s.t.Helper()
	msg["jsonrpc"] = "2.0"
	b, err := json.Marshal(msg)
	require.NoError(s.t, err)
	_, err = s.in.Write(append(b, '\n'))
	require.NoError(s.t, err)
}

func (s *session) notify(method string) {
	s.send(map[string]any{"method": method})
}

// call sends a request and waits for the reply with the same id.
func (s *session) call(method string, params any) rpcReply {
	s.t.Helper()
	s.nextID++
	id := fmt.Sprint(s.nextID)
	msg := map[string]any{"id": s.nextID, "method": method}
	if params != nil {
		msg["params"] = params
	}
	s.send(msg)

	for {
		if r, ok := s.pending[id]; ok {
			delete(s.pending, id)
			return r
		}
		select {
		case line := <-s.lines:
			var r rpcReply
			require.NoError(s.t, json.Unmarshal(line, &r), string(line))
			if len(r.ID) > 0 {
				s.pending[string(r.ID)] = r
			}
		case <-time.After(10 * time.Second):
			s.t.Fatalf("no reply to %s", method)
		}
	}
}

func (s *session) callTool(name string, args any) toolResult {
	s.t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	reply := s.call("tools/call", params)
	require.Nil(s.t, reply.Error, "tools/call %s", name)

	var r toolResult
	require.NoError(s.t, json.Unmarshal(reply.Result, &r))
	require.Len(s.t, r.Content, 1)
	assert.Equal(s.t, "text", r.Content[0].Type)
	return r
}

func TestServe_Initialize(t *testing.T) {
	reply := startSession(t).initReply
	require.Nil(t, reply.Error)

	var result struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
		Capabilities map[string]any `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &result))
	assert.Equal(t, "toolforge-test", result.ServerInfo.Name)
	assert.Equal(t, "1.2.3", result.ServerInfo.Version)
	assert.Contains(t, result.Capabilities, "tools")
}

func TestServe_Ping(t *testing.T) {
	reply := startSession(t).call("ping", nil)
	assert.Nil(t, reply.Error)
}

func TestServe_ToolsList(t *testing.T) {
	reply := startSession(t).call("tools/list", nil)
	require.Nil(t, reply.Error)

	var result struct {
		Tools []struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &result))
	require.Len(t, result.Tools, 2)

	byName := make(map[string]int)
	for i, tool := range result.Tools {
		byName[tool.Name] = i
	}
	require.Contains(t, byName, "echo")
	require.Contains(t, byName, "explode")

	echo := result.Tools[byName["echo"]]
	assert.Equal(t, "Echo text as command output", echo.Description)
	assert.Contains(t, string(echo.InputSchema), `"text"`)
}

func TestServe_ToolsCall(t *testing.T) {
	s := startSession(t)

	ok := s.callTool("echo", map[string]any{"text": "hello"})
	assert.False(t, ok.IsError)
	assert.Equal(t, "Exit Code: 0\n\n=== Output ===\nhello\n", ok.Content[0].Text)

	failed := s.callTool("echo", map[string]any{"text": "bad", "exit": 3})
	assert.True(t, failed.IsError)
	assert.Contains(t, failed.Content[0].Text, "Exit Code: 3")

	invalid := s.callTool("echo", map[string]any{"txt": "typo"})
	assert.True(t, invalid.IsError)
	assert.Contains(t, invalid.Content[0].Text, "Error: ")

	panicked := s.callTool("explode", nil)
	assert.True(t, panicked.IsError)
	assert.Contains(t, panicked.Content[0].Text, "boom")
}

func TestServe_UnknownTool(t *testing.T) {
	reply := startSession(t).call("tools/call", map[string]any{"name": "format_disk"})
	assert.NotNil(t, reply.Error)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServer(newTestRegistry(t)).Serve(ctx, pr, io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantText  string
		wantError bool
	}{
		{
			name:      "error response",
			payload:   `{"error":"NOT_FOUND","message":"operation not found","code":404}`,
			wantText:  "Error: operation not found",
			wantError: true,
		},
		{
			name:     "successful outcome",
			payload:  `{"report":"Exit Code: 0\n","success":true}`,
			wantText: "Exit Code: 0\n",
		},
		{
			name:      "unsuccessful outcome",
			payload:   `{"report":"Error: missing\n","success":false}`,
			wantText:  "Error: missing\n",
			wantError: true,
		},
		{
			name:     "other payload",
			payload:  `{"value":42}`,
			wantText: `{"value":42}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := Render([]byte(tt.payload))
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantError, isError)

			result := CallResultFrom([]byte(tt.payload))
			assert.Equal(t, tt.wantError, result.IsError)
			require.Len(t, result.Content, 1)
		})
	}
}
