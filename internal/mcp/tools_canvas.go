package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pixelia/internal/canvas"
	"pixelia/internal/domain"
	"pixelia/internal/render"
)

// Pointer tools replay the same input the desktop frontend sends, in
// client coordinates of the canvas window.
func (s *Server) registerPointerTools() {
	point := []mcp.ToolOption{
		mcp.WithNumber("x", mcp.Description("Client X in pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Client Y in pixels"), mcp.Required()),
	}
	withPoint := func(opts ...mcp.ToolOption) []mcp.ToolOption {
		return append(opts, point...)
	}

	// ── set_tool ───────────────────────────────────────
	tools := make([]string, 0, 15)
	for _, t := range []canvas.Tool{
		canvas.ToolSelect, canvas.ToolHand, canvas.ToolPen, canvas.ToolHighlighter,
		canvas.ToolEraser, canvas.ToolNote, canvas.ToolText, canvas.ToolShape,
		canvas.ToolTable, canvas.ToolChart, canvas.ToolImage, canvas.ToolLine,
		canvas.ToolCode, canvas.ToolCheckbox, canvas.ToolSticker,
	} {
		tools = append(tools, string(t))
	}
	s.mcp.AddTool(mcp.NewTool("set_tool",
		mcp.WithDescription("Pick the active tool and optionally its color, size and shape"),
		mcp.WithString("tool", mcp.Description("Tool name"), mcp.Enum(tools...), mcp.Required()),
		mcp.WithString("color", mcp.Description("Pen or fill color")),
		mcp.WithNumber("strokeWidth", mcp.Description("Pen width in pixels")),
		mcp.WithNumber("fontSize", mcp.Description("Text size in pixels")),
		mcp.WithString("shapeType", mcp.Description("Shape for the SHAPE tool, e.g. CIRCLE, STAR, ARROW")),
		mcp.WithString("sticker", mcp.Description("Sticker emoji; arms the STICKER tool")),
	), s.handleSetTool)

	// ── pointer_down / pointer_move / pointer_up ───────
	s.mcp.AddTool(mcp.NewTool("pointer_down", withPoint(
		mcp.WithDescription("Press on the canvas: starts a stroke, marquee or pan, or places the armed element"),
		mcp.WithNumber("button", mcp.Description("0 primary (default), 1 middle")),
		mcp.WithBoolean("onCanvas", mcp.Description("False when pressing on overlay chrome (default true)")),
	)...), s.handlePointerDown)

	s.mcp.AddTool(mcp.NewTool("pointer_move", withPoint(
		mcp.WithDescription("Move the pointer, extending the gesture in progress"),
	)...), s.handlePointerMove)

	s.mcp.AddTool(mcp.NewTool("pointer_up", withPoint(
		mcp.WithDescription("Release the pointer, committing the gesture in progress"),
	)...), s.handlePointerUp)

	// ── element gestures ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("element_pointer_down", withPoint(
		mcp.WithDescription("Press on an element's body to select and start dragging it (SELECT tool only)"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
	)...), s.handleElementPointerDown)

	s.mcp.AddTool(mcp.NewTool("resize_pointer_down", withPoint(
		mcp.WithDescription("Press on one of an element's resize handles"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("handle",
			mcp.Description("Handle"),
			mcp.Enum("n", "s", "e", "w", "nw", "ne", "sw", "se"),
			mcp.Required(),
		),
	)...), s.handleResizePointerDown)

	s.mcp.AddTool(mcp.NewTool("rotate_pointer_down", withPoint(
		mcp.WithDescription("Press on an element's rotation handle"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
	)...), s.handleRotatePointerDown)

	// ── zoom ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("zoom",
		mcp.WithDescription("Zoom by a scale delta (e.g. 0.1 in, -0.1 out), anchored at a client point or the window center"),
		mcp.WithNumber("delta", mcp.Description("Scale delta"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Anchor client X (optional)")),
		mcp.WithNumber("y", mcp.Description("Anchor client Y (optional)")),
	), s.handleZoom)
}

func (s *Server) registerEditTools() {
	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List the elements on the active page, bottom to top"),
	), s.handleListElements)

	s.mcp.AddTool(mcp.NewTool("set_text",
		mcp.WithDescription("Replace the text of a note, text, code or sticker element"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text"), mcp.Required()),
	), s.handleSetText)

	s.mcp.AddTool(mcp.NewTool("undo", mcp.WithDescription("Undo the last change")),
		s.editHandler(func(e *canvas.Editor) { e.Undo() }))
	s.mcp.AddTool(mcp.NewTool("redo", mcp.WithDescription("Redo the last undone change")),
		s.editHandler(func(e *canvas.Editor) { e.Redo() }))
	s.mcp.AddTool(mcp.NewTool("delete_selected", mcp.WithDescription("Delete the selected elements")),
		s.editHandler(func(e *canvas.Editor) { e.DeleteSelected() }))
	s.mcp.AddTool(mcp.NewTool("duplicate_selected", mcp.WithDescription("Duplicate the selected elements")),
		s.editHandler(func(e *canvas.Editor) { e.DuplicateSelected() }))
	s.mcp.AddTool(mcp.NewTool("bring_to_front", mcp.WithDescription("Raise the selected element to the top")),
		s.editHandler(func(e *canvas.Editor) { e.BringToFront() }))
	s.mcp.AddTool(mcp.NewTool("send_to_back", mcp.WithDescription("Lower the selected element to the bottom")),
		s.editHandler(func(e *canvas.Editor) { e.SendToBack() }))

	s.mcp.AddTool(mcp.NewTool("arrange_elements",
		mcp.WithDescription("Lay out the selected elements (or all when none is selected) in grid rows"),
		mcp.WithNumber("startX", mcp.Description("World X of the first row (default 0)")),
		mcp.WithNumber("startY", mcp.Description("World Y of the first row (default 0)")),
	), s.handleArrangeElements)

	s.mcp.AddTool(mcp.NewTool("clear_canvas",
		mcp.WithDescription("Remove every element from the active page. Requires confirm=true and user approval."),
		mcp.WithBoolean("confirm", mcp.Description("Must be true"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearCanvas)

	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render a page to a PNG image"),
		mcp.WithNumber("index", mcp.Description("Zero-based page index (default: active page)")),
		mcp.WithNumber("width", mcp.Description("Image width (default 640)")),
		mcp.WithNumber("height", mcp.Description("Image height (default 400)")),
	), s.handleRenderPage)
}

// ── Handlers ───────────────────────────────────────────────

func pointerEvent(req mcp.CallToolRequest) canvas.PointerEvent {
	return canvas.PointerEvent{
		X:        req.GetFloat("x", 0),
		Y:        req.GetFloat("y", 0),
		Button:   req.GetInt("button", 0),
		OnCanvas: req.GetBool("onCanvas", true),
	}
}

// editorCall runs fn against the editor under the host lock and returns
// the canvas summary.
func (s *Server) editorCall(ctx context.Context, fn func(e *canvas.Editor) error) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	e := s.editor()
	if err := fn(e); err != nil {
		return nil, err
	}
	s.canvasChanged(ctx)
	return jsonResult(summarizeCanvas(e))
}

func (s *Server) editHandler(fn func(e *canvas.Editor)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.editorCall(ctx, func(e *canvas.Editor) error {
			fn(e)
			return nil
		})
	}
}

func (s *Server) handleSetTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tool := canvas.Tool(strings.ToUpper(req.GetString("tool", "")))
	if !tool.Valid() {
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.SetTool(tool)
		if c := req.GetString("color", ""); c != "" {
			e.SetColor(c)
		}
		if w := req.GetFloat("strokeWidth", 0); w > 0 {
			e.SetStrokeWidth(w)
		}
		if size := req.GetFloat("fontSize", 0); size > 0 {
			e.SetFontSize(size)
		}
		if shape := req.GetString("shapeType", ""); shape != "" {
			e.SetShapeType(domain.ShapeType(strings.ToUpper(shape)))
		}
		if st := req.GetString("sticker", ""); st != "" {
			e.SelectSticker(st)
		}
		return nil
	})
}

func (s *Server) handlePointerDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.PointerDown(pointerEvent(req))
		return nil
	})
}

func (s *Server) handlePointerMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.PointerMove(pointerEvent(req))
		return nil
	})
}

func (s *Server) handlePointerUp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.PointerUp(pointerEvent(req))
		return nil
	})
}

func (s *Server) handleElementPointerDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("elementId", "")
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.ElementPointerDown(id, pointerEvent(req))
		return nil
	})
}

func (s *Server) handleResizePointerDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("elementId", "")
	h := canvas.Handle(req.GetString("handle", ""))
	switch h {
	case canvas.HandleN, canvas.HandleS, canvas.HandleE, canvas.HandleW,
		canvas.HandleNW, canvas.HandleNE, canvas.HandleSW, canvas.HandleSE:
	default:
		return nil, fmt.Errorf("unknown handle %q", h)
	}
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.ResizePointerDown(id, h, pointerEvent(req))
		return nil
	})
}

func (s *Server) handleRotatePointerDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("elementId", "")
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.RotatePointerDown(id, pointerEvent(req))
		return nil
	})
}

func (s *Server) handleZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	delta := req.GetFloat("delta", 0)
	var anchor *domain.Point
	args := req.GetArguments()
	_, hasX := args["x"]
	_, hasY := args["y"]
	if hasX && hasY {
		anchor = &domain.Point{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
	}
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		e.Zoom(delta, anchor)
		return nil
	})
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	return jsonResult(summarizeElements(s.editor().Elements()))
}

func (s *Server) handleSetText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("elementId", "")
	text := req.GetString("text", "")
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		var kindErr error
		found := e.UpdateElement(id, func(el *domain.Element) {
			switch p := el.Payload.(type) {
			case *domain.NoteData:
				p.Text = text
			case *domain.TextData:
				p.Text = text
			case *domain.CodeData:
				p.Text = text
			case *domain.StickerData:
				p.Content = text
			default:
				kindErr = fmt.Errorf("element %s (%s) has no text", id, el.Kind())
			}
		})
		if !found {
			return fmt.Errorf("element %q not found", id)
		}
		return kindErr
	})
}

func (s *Server) handleArrangeElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := domain.Point{X: req.GetFloat("startX", 0), Y: req.GetFloat("startY", 0)}
	return s.editorCall(ctx, func(e *canvas.Editor) error {
		els := canvas.Selected(e.Elements())
		if len(els) == 0 {
			els = e.Elements()
		}
		e.MoveElements(s.layout.Arrange(els, start))
		return nil
	})
}

func (s *Server) handleClearCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !req.GetBool("confirm", false) {
		return textResult("Canvas not cleared: pass confirm=true to clear it"), nil
	}

	s.mu.Lock()
	err := s.requireProject()
	var count int
	if err == nil {
		count = len(s.editor().Elements())
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Clear all %d elements from the active page", count)
	if approved, err := s.approval.Request("clear_canvas", desc); !approved {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	// The user already approved; the editor's own prompt is answered yes.
	s.session.ClearCanvas(ctx, func(string) bool { return true })
	s.canvasChanged(ctx)
	return textResult(fmt.Sprintf("Cleared %d elements", count)), nil
}

func (s *Server) handleRenderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w := req.GetInt("width", 640)
	h := req.GetInt("height", 400)

	s.mu.Lock()
	if err := s.requireProject(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := req.GetInt("index", s.session.ActiveIndex())
	pages := s.session.Pages()
	if i < 0 || i >= len(pages) {
		s.mu.Unlock()
		return nil, fmt.Errorf("page index %d out of range (project has %d pages)", i, len(pages))
	}
	page := pages[i].Clone()
	s.mu.Unlock()

	url, err := render.ThumbnailDataURL(page, w, h)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", i, err)
	}
	data := strings.TrimPrefix(url, "data:image/png;base64,")
	desc := fmt.Sprintf("Page %d of %d, %d elements", i+1, len(pages), len(page.Elements))
	return mcp.NewToolResultImage(desc, data, "image/png"), nil
}
