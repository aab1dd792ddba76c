package stdio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toolforge-dev/toolforge/operations"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object"}`)

// Dispatcher is the operation surface served by the Server.
type Dispatcher interface {
	Describe() []operations.Descriptor
	Invoke(ctx context.Context, name string, payload []byte) []byte
}

// Server publishes a Dispatcher's operations as MCP tools.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	name       string
	version    string
	mcp        *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Logs must not share the response writer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerInfo sets the name and version reported by initialize.
func WithServerInfo(name, version string) Option {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}

// NewServer creates a Server with one tool per operation of d.
func NewServer(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:       "toolforge",
		version:    "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(s.name, s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, desc := range d.Describe() {
		schema := desc.InputSchema
		if len(schema) == 0 {
			schema = emptyObjectSchema
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(desc.Name, desc.Description, schema), s.callTool(desc.Name))
	}
	return s
}

// Serve answers requests read from r on w until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	transport := server.NewStdioServer(s.mcp)
	transport.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	err := transport.Listen(ctx, r, w)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		s.logger.DebugContext(ctx, "stdio server stopped")
		return nil
	}
	return err
}

func (s *Server) callTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var payload []byte
		if req.Params.Arguments != nil {
			b, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return nil, err
			}
			payload = b
		}

		s.logger.DebugContext(ctx, "tool call", "tool", name)
		return CallResultFrom(s.dispatcher.Invoke(ctx, name, payload)), nil
	}
}

// CallResultFrom converts an operation response into a tool result.
func CallResultFrom(payload []byte) *mcp.CallToolResult {
	text, isError := Render(payload)
	result := mcp.NewToolResultText(text)
	result.IsError = isError
	return result
}

// Render returns the text shown for an operation response and whether it
// reports a failure. Error responses render as "Error: <message>", outcomes as
// their report, anything else as the raw JSON.
func Render(payload []byte) (string, bool) {
	if errResp, ok := operations.AsErrorResponse(payload); ok {
		return "Error: " + errResp.Message, true
	}

	var outcome struct {
		Report  *string `json:"report"`
		Success bool    `json:"success"`
	}
	if err := json.Unmarshal(payload, &outcome); err == nil && outcome.Report != nil {
		return *outcome.Report, !outcome.Success
	}
	return string(payload), false
}
