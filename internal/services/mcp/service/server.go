package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/sadari/internal/services/mcp/domain"
	"github.com/louisbranch/sadari/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "sadari"
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// ParseTransportKind validates a transport name.
func ParseTransportKind(value string) (TransportKind, error) {
	switch kind := TransportKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case "":
		return TransportStdio, nil
	case TransportStdio, TransportHTTP:
		return kind, nil
	default:
		return "", fmt.Errorf("transport %q is not supported", value)
	}
}

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr defaults to localhost:8085 for the HTTP transport.
	HTTPAddr string
	// AllowedHosts extends the loopback hosts accepted in Host headers.
	AllowedHosts []string
}

// Server hosts the ladder MCP server.
type Server struct {
	mcpServer *mcp.Server
}

type registrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
}

type serverRegistrationAdapter struct {
	server *mcp.Server
}

func (r serverRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r serverRegistrationAdapter) AddResourceTemplate(template *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(template, handler)
}

type toolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newToolRegistrar[I any, O any]() toolRegistrar {
	return toolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var toolRegistrars = []toolRegistrar{
	newToolRegistrar[domain.LadderSetupInput, domain.LadderStateResult](),
	newToolRegistrar[domain.LadderSelectInput, domain.LadderSelectResult](),
	newToolRegistrar[domain.LadderSelectInput, domain.LadderRevealResult](),
	newToolRegistrar[domain.LadderSessionInput, domain.LadderSelectResult](),
	newToolRegistrar[domain.LadderSessionInput, domain.LadderStateResult](),
	newToolRegistrar[domain.LadderResultsInput, domain.LadderResultsResult](),
	newToolRegistrar[domain.LadderResultInput, domain.LadderResultEntry](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range toolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

// New creates an MCP server exposing the ladder tools over sessions and the
// result history in store.
func New(sessions domain.Sessions, store storage.ResultStore) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if store == nil {
		return nil, fmt.Errorf("result store is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{})
	if err := registerLadder(serverRegistrationAdapter{server: mcpServer}, sessions, store); err != nil {
		return nil, err
	}
	return &Server{mcpServer: mcpServer}, nil
}

func registerLadder(registrar registrationTarget, sessions domain.Sessions, store storage.ResultStore) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.LadderSetupTool(), handler: domain.LadderSetupHandler(sessions)},
		{tool: domain.LadderSelectTool(), handler: domain.LadderSelectHandler(sessions)},
		{tool: domain.LadderBeginRevealTool(), handler: domain.LadderBeginRevealHandler(sessions)},
		{tool: domain.LadderCommitRevealTool(), handler: domain.LadderCommitRevealHandler(sessions)},
		{tool: domain.LadderResetTool(), handler: domain.LadderResetHandler(sessions)},
		{tool: domain.LadderStateTool(), handler: domain.LadderStateHandler(sessions)},
		{tool: domain.LadderEndTool(), handler: domain.LadderEndHandler(sessions)},
		{tool: domain.LadderResultsTool(), handler: domain.LadderResultsHandler(store)},
		{tool: domain.LadderResultTool(), handler: domain.LadderResultHandler(store)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	registrar.AddResourceTemplate(domain.LadderSessionResourceTemplate(), domain.LadderSessionResourceHandler(sessions))
	return nil
}

func registerTool(registrar registrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// Serve runs the server on the configured transport until ctx ends.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return s.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.serveHTTP(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
