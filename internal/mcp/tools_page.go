package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pixelia/internal/domain"
	"pixelia/internal/service"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of the open project"),
	), s.handleListPages)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append a blank page and make it active"),
	), s.handleAddPage)

	// ── select_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_page",
		mcp.WithDescription("Make a page active. Clears undo history."),
		mcp.WithNumber("index",
			mcp.Description("Zero-based page index"),
			mcp.Required(),
		),
	), s.handleSelectPage)

	// ── duplicate_page ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_page",
		mcp.WithDescription("Copy a page, inserting the copy right after it"),
		mcp.WithNumber("index",
			mcp.Description("Zero-based page index"),
			mcp.Required(),
		),
	), s.handleDuplicatePage)

	// ── move_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_page",
		mcp.WithDescription("Swap a page with its neighbour"),
		mcp.WithNumber("index",
			mcp.Description("Zero-based page index"),
			mcp.Required(),
		),
		mcp.WithString("direction",
			mcp.Description("Direction to move"),
			mcp.Enum(string(service.Up), string(service.Down)),
			mcp.Required(),
		),
	), s.handleMovePage)

	// ── delete_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page. The last page cannot be deleted. Requires user approval."),
		mcp.WithNumber("index",
			mcp.Description("Zero-based page index"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	// ── set_background ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_background",
		mcp.WithDescription("Change the active page's background"),
		mcp.WithString("color", mcp.Description("CSS color, e.g. #fef3c7")),
		mcp.WithString("pattern",
			mcp.Description("Background pattern"),
			mcp.Enum(string(domain.PatternNone), string(domain.PatternGrid),
				string(domain.PatternDots), string(domain.PatternLines)),
		),
	), s.handleSetBackground)
}

// pageIndex reads and validates the index argument. Must be called with
// mu held.
func (s *Server) pageIndex(req mcp.CallToolRequest) (int, error) {
	i := req.GetInt("index", -1)
	if n := len(s.session.Pages()); i < 0 || i >= n {
		return 0, fmt.Errorf("page index %d out of range (project has %d pages)", i, n)
	}
	return i, nil
}

func (s *Server) pagesResult() (*mcp.CallToolResult, error) {
	return jsonResult(s.session.Summaries())
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	return s.pagesResult()
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	s.session.AddPage(ctx)
	s.canvasChanged(ctx)
	return s.pagesResult()
}

func (s *Server) handleSelectPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	i, err := s.pageIndex(req)
	if err != nil {
		return nil, err
	}
	s.session.SelectPage(ctx, i)
	s.canvasChanged(ctx)
	return s.pagesResult()
}

func (s *Server) handleDuplicatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	i, err := s.pageIndex(req)
	if err != nil {
		return nil, err
	}
	s.session.DuplicatePage(ctx, i)
	s.canvasChanged(ctx)
	return s.pagesResult()
}

func (s *Server) handleMovePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := service.Direction(req.GetString("direction", ""))
	if dir != service.Up && dir != service.Down {
		return nil, fmt.Errorf("direction must be %q or %q", service.Up, service.Down)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	i, err := s.pageIndex(req)
	if err != nil {
		return nil, err
	}
	s.session.MovePage(ctx, i, dir)
	s.canvasChanged(ctx)
	return s.pagesResult()
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	if err := s.requireProject(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i, err := s.pageIndex(req)
	if err == nil && len(s.session.Pages()) == 1 {
		err = fmt.Errorf("cannot delete the only page")
	}
	var id string
	var count int
	if err == nil {
		id = s.session.Pages()[i].ID
		count = len(s.session.Pages()[i].Elements)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// The lock is released while the user decides.
	desc := fmt.Sprintf("Delete page %d (%d elements)", i+1, count)
	meta := fmt.Sprintf(`{"pageId":%q,"index":%d}`, id, i)
	if approved, err := s.approval.Request("delete_page", desc, meta); !approved {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	// The page list may have changed while waiting; delete by id.
	for j, p := range s.session.Pages() {
		if p.ID == id {
			s.session.DeletePage(ctx, j)
			s.canvasChanged(ctx)
			return s.pagesResult()
		}
	}
	return nil, fmt.Errorf("page %d no longer exists", i+1)
}

func (s *Server) handleSetBackground(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color := req.GetString("color", "")
	pattern := domain.BackgroundPattern(req.GetString("pattern", ""))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	if color != "" {
		s.session.SetBackgroundColor(color)
	}
	if pattern != "" {
		switch pattern {
		case domain.PatternNone, domain.PatternGrid, domain.PatternDots, domain.PatternLines:
			s.session.SetBackgroundPattern(pattern)
		default:
			return nil, fmt.Errorf("unknown pattern %q", pattern)
		}
	}
	s.canvasChanged(ctx)
	page := s.session.ActivePage()
	return jsonResult(map[string]any{
		"backgroundColor":   page.BackgroundColor,
		"backgroundPattern": page.BackgroundPattern,
	})
}
