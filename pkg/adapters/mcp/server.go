// Package mcp exposes the intake engine as Model Context Protocol tools, so an
// agent host can run the intake dialogue on a client's behalf.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServicesURI is the resource listing the registered services.
const ServicesURI = "intake://services"

// Engine defines the operations the MCP server needs from the intake engine.
type Engine interface {
	Handle(ctx context.Context, turn intake.Turn) (*intake.Reply, error)
	Services() []string
	Graph(service string) (*domain.Graph, error)
	CleanupProposal(text string) string
}

// Server wraps the intake Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger disables logging.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer("intake-mcp", intake.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCP returns the underlying server, mainly for tests.
func (s *Server) MCP() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("intake_turn",
		mcp.WithDescription("Send one client message to the intake dialogue. Omit conversation_id to start a new conversation for a service. The reply carries the next question, its suggestions, and the proposal once done."),
		mcp.WithString("message", mcp.Description("The client's message (may be empty on first contact)")),
		mcp.WithString("conversation_id", mcp.Description("Conversation to continue")),
		mcp.WithString("service", mcp.Description("Service to start a conversation for, e.g. 'Website Development'")),
		mcp.WithString("sender_id", mcp.Description("Stable client identifier, used to share answers across conversations")),
		mcp.WithString("shared_context_id", mcp.Description("Client session token, preferred over sender_id for shared answers")),
	), s.handleTurn)

	s.mcpServer.AddTool(mcp.NewTool("list_services",
		mcp.WithDescription("List the services a conversation can be started for."),
	), s.handleListServices)

	s.mcpServer.AddTool(mcp.NewTool("describe_service",
		mcp.WithDescription("Get the question graph of a service."),
		mcp.WithString("service", mcp.Required(), mcp.Description("Service name")),
	), s.handleDescribeService)

	s.mcpServer.AddTool(mcp.NewTool("cleanup_proposal",
		mcp.WithDescription("Strip separators, placeholders and missing-value lines from a proposal text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Proposal markdown")),
	), s.handleCleanup)
}

func (s *Server) handleTurn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := s.engine.Handle(ctx, intake.Turn{
		ConversationID:  req.GetString("conversation_id", ""),
		Service:         req.GetString("service", ""),
		Message:         req.GetString("message", ""),
		SenderID:        req.GetString("sender_id", ""),
		SharedContextID: req.GetString("shared_context_id", ""),
	})
	if err != nil {
		if intake.IsClientError(err) {
			s.logger.Warn("MCP turn rejected", "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("turn failed: %w", err)
	}
	return jsonResult(reply)
}

func (s *Server) handleListServices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.engine.Services())
}

func (s *Server) handleDescribeService(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("service")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.engine.Graph(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(g)
}

func (s *Server) handleCleanup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.engine.CleanupProposal(text)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ServicesURI, "Registered services",
		mcp.WithResourceDescription("Names of the services with an intake question graph"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Services())
		if err != nil {
			return nil, fmt.Errorf("failed to encode services: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ServicesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
