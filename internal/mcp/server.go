package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"pixelia/internal/canvas"
	"pixelia/internal/service"
	"pixelia/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for Pixelia.
// It exposes tools, resources, and prompts so AI agents can draw on the canvas.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine

	// mu is the host lock. The editor and session are single-threaded, so
	// every handler holds it while it touches them.
	mu sync.Locker

	projects *service.ProjectService
	session  *service.Session
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter  EventEmitter
	Projects *service.ProjectService
	Session  *service.Session
	// Lock is shared with the host's own input handling. A private mutex
	// is used when nil.
	Lock sync.Locker
	// ApprovalKV, when set, routes approvals through the shared store so
	// the desktop app can answer them (standalone mode).
	ApprovalKV storage.KV
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalKV != nil {
		approval.SetKV(deps.ApprovalKV)
	}
	lock := deps.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	s := &Server{
		emitter:  deps.Emitter,
		approval: approval,
		layout:   NewLayoutEngine(),
		mu:       lock,
		projects: deps.Projects,
		session:  deps.Session,
	}

	s.mcp = server.NewMCPServer(
		"pixelia-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	s.registerProjectTools()
	s.registerPageTools()
	s.registerPointerTools()
	s.registerEditTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

func (s *Server) editor() *canvas.Editor { return s.session.Editor() }

// requireProject fails tool calls that need an open project.
func (s *Server) requireProject() error {
	if s.session.Project() == nil {
		return fmt.Errorf("no project is open (use open_project first)")
	}
	return nil
}

// canvasChanged saves what the call changed and tells the frontend to
// redraw. Saving after each call lets a desktop app sharing the database
// pick up edits from a standalone server. Must be called with mu held.
func (s *Server) canvasChanged(ctx context.Context) {
	if err := s.session.Flush(); err != nil {
		log.Printf("[MCP] flush: %v", err)
	}
	s.emitter.Emit(ctx, service.EventCanvasChange, nil)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
