package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pixelia/internal/service"
)

func (s *Server) registerProjectTools() {
	// ── list_projects ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List whiteboard projects, most recent first"),
		mcp.WithString("filter",
			mcp.Description("Which projects to list"),
			mcp.Enum(string(service.FilterAll), string(service.FilterStarred)),
		),
		mcp.WithString("search", mcp.Description("Case-insensitive title search")),
	), s.handleListProjects)

	// ── create_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a new whiteboard project and open it"),
		mcp.WithString("title", mcp.Description("Title (optional)")),
	), s.handleCreateProject)

	// ── open_project ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_project",
		mcp.WithDescription("Open a project. Subsequent page and canvas tools act on it."),
		mcp.WithString("projectId",
			mcp.Description("ID of the project"),
			mcp.Required(),
		),
	), s.handleOpenProject)

	// ── delete_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project and all of its pages. Requires user approval."),
		mcp.WithString("projectId",
			mcp.Description("ID of the project"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteProject)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := service.ProjectFilter(req.GetString("filter", string(service.FilterAll)))
	return jsonResult(s.projects.List(filter, req.GetString("search", "")))
}

func (s *Server) handleCreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projects.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if title := req.GetString("title", ""); title != "" {
		if err := s.projects.Rename(ctx, p.ID, title); err != nil {
			return nil, fmt.Errorf("rename project: %w", err)
		}
		p.Title = title
	}
	if err := s.session.Open(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	s.canvasChanged(ctx)
	return jsonResult(p)
}

func (s *Server) handleOpenProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("projectId", "")
	if id == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Open(ctx, id); err != nil {
		return nil, err
	}
	s.canvasChanged(ctx)
	return jsonResult(map[string]any{
		"project": s.session.Project(),
		"pages":   s.session.Summaries(),
	})
}

func (s *Server) handleDeleteProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("projectId", "")
	p, ok := s.projects.Get(id)
	if !ok {
		return nil, fmt.Errorf("project %q not found", id)
	}

	desc := fmt.Sprintf("Delete project %q and all of its pages", p.Title)
	meta := fmt.Sprintf(`{"projectId":%q}`, id)
	if approved, err := s.approval.Request("delete_project", desc, meta); !approved {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if open := s.session.Project(); open != nil && open.ID == id {
		if err := s.session.Close(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted project %q", p.Title)), nil
}
