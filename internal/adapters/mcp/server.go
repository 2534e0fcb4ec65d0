// Package mcp exposes the studio to language-model tooling over the
// Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/domain"
)

// Studio is the slice of the runtime the MCP layer consumes.
type Studio interface {
	Document(ctx context.Context) (string, uint64, error)
	SetDocument(ctx context.Context, text string, expected uint64) (uint64, error)
	Graph(ctx context.Context) (domain.PositionedGraph, error)
	Validate(text string) domain.ValidationResult
}

// Server wraps the studio and exposes it as an MCP server.
type Server struct {
	studio    Studio
	compiler  *compiler.Compiler
	log       *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server for the given studio.
func NewServer(studio Studio, version string, log *slog.Logger) *Server {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Server{
		studio:    studio,
		compiler:  compiler.New(log),
		log:       log,
		mcpServer: server.NewMCPServer("canopy-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.log.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_workflow
	compileTool := mcp.NewTool("compile_workflow",
		mcp.WithDescription("Compile a workflow document into a positioned graph. Unusable documents yield the built-in example graph."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Workflow document text (YAML)")),
		mcp.WithOutputSchema[domain.PositionedGraph](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: validate_workflow
	validateTool := mcp.NewTool("validate_workflow",
		mcp.WithDescription("Validate a workflow document and report errors and warnings."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Workflow document text (YAML)")),
		mcp.WithOutputSchema[domain.ValidationResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the positioned graph compiled from the currently stored workflow document."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		graph, err := s.studio.Graph(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("loading graph failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(graph)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: set_workflow
	s.mcpServer.AddTool(mcp.NewTool("set_workflow",
		mcp.WithDescription("Replace the stored workflow document. Pass the revision from a prior read to detect concurrent edits, or 0 to overwrite."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Workflow document text (YAML)")),
		mcp.WithNumber("revision", mcp.Description("Expected current revision; 0 skips the check")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		expected := request.GetFloat("revision", 0)
		rev, err := s.studio.SetDocument(ctx, content, uint64(expected))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving document failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(`{"revision":%d}`, rev)), nil
	})
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.PositionedGraph, error) {
	content, _ := args["content"].(string)
	return s.compiler.Compile(content), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.ValidationResult, error) {
	content, _ := args["content"].(string)
	return s.studio.Validate(content), nil
}

func (s *Server) registerResources() {
	// EXPOSE: canopy://document
	s.mcpServer.AddResource(mcp.NewResource("canopy://document", "Current Workflow Document",
		mcp.WithMIMEType("text/yaml"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, _, err := s.studio.Document(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load document: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "canopy://document",
				MIMEType: "text/yaml",
				Text:     text,
			},
		}, nil
	})

	// EXPOSE: canopy://graph
	s.mcpServer.AddResource(mcp.NewResource("canopy://graph", "Current Positioned Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		graph, err := s.studio.Graph(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compile graph: %w", err)
		}
		jsonBytes, _ := json.Marshal(graph)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "canopy://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
