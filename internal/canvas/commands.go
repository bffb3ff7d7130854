package canvas

import (
	"strings"

	"github.com/google/uuid"

	"pixelia/internal/domain"
)

// duplicateOffset is how far copies land from their originals.
const duplicateOffset = 20

// ── Toolbar ────────────────────────────────────────────────

func (e *Editor) Tools() ToolState { return e.tools }

// SetTool switches the active tool. Unknown tools are ignored.
func (e *Editor) SetTool(t Tool) {
	if t.Valid() {
		e.tools.Tool = t
	}
}

func (e *Editor) SetColor(c string)              { e.tools.Color = c }
func (e *Editor) SetFontSize(size float64)       { e.tools.FontSize = size }
func (e *Editor) SetShapeType(s domain.ShapeType) { e.tools.ShapeType = s }

func (e *Editor) SetStrokeWidth(w float64) {
	if w > 0 {
		e.tools.StrokeWidth = w
	}
}

// SelectSticker picks the sticker to place and arms the sticker tool.
func (e *Editor) SelectSticker(s string) {
	e.tools.Sticker = s
	e.tools.Tool = ToolSticker
}

// ── Editing commands ───────────────────────────────────────

// Undo restores the previous snapshot, if any.
func (e *Editor) Undo() {
	if e.page == nil {
		return
	}
	if els, ok := e.history.Undo(); ok {
		e.replace(els)
	}
}

// Redo re-applies the next snapshot, if any.
func (e *Editor) Redo() {
	if e.page == nil {
		return
	}
	if els, ok := e.history.Redo(); ok {
		e.replace(els)
	}
}

// DeleteSelected removes every selected element.
func (e *Editor) DeleteSelected() {
	if e.page == nil {
		return
	}
	els := make([]domain.Element, 0, len(e.page.Elements))
	for _, el := range e.page.Elements {
		if !el.IsSelected {
			els = append(els, el)
		}
	}
	e.commit(els)
}

// DuplicateSelected appends a deep copy of every selected element, offset
// and selected in place of the originals. Copies get fresh ids, and
// checklist items get fresh ids too.
func (e *Editor) DuplicateSelected() {
	if e.page == nil {
		return
	}
	selected := Selected(e.page.Elements)
	if len(selected) == 0 {
		return
	}
	els := deselectAll(e.page.Elements)
	for _, el := range selected {
		c := el.Clone()
		c.ID = uuid.NewString()
		c.X += duplicateOffset
		c.Y += duplicateOffset
		c.IsSelected = true
		if cb := c.Checkbox(); cb != nil {
			for i := range cb.Items {
				cb.Items[i].ID = uuid.NewString()
			}
		}
		els = append(els, c)
	}
	e.commit(els)
}

// BringToFront moves the first selected element to the top of the stack.
func (e *Editor) BringToFront() { e.restack(true) }

// SendToBack moves the first selected element to the bottom of the stack.
func (e *Editor) SendToBack() { e.restack(false) }

func (e *Editor) restack(front bool) {
	if e.page == nil {
		return
	}
	i := -1
	for j := range e.page.Elements {
		if e.page.Elements[j].IsSelected {
			i = j
			break
		}
	}
	if i < 0 {
		return
	}
	el := e.page.Elements[i]
	rest := make([]domain.Element, 0, len(e.page.Elements))
	rest = append(rest, e.page.Elements[:i]...)
	rest = append(rest, e.page.Elements[i+1:]...)
	if front {
		e.commit(append(rest, el))
		return
	}
	e.commit(append([]domain.Element{el}, rest...))
}

// MoveElements sets the origin of each listed element in one recorded
// step. Unknown ids are skipped; it reports whether anything moved.
func (e *Editor) MoveElements(origins map[string]domain.Point) bool {
	if e.page == nil || len(origins) == 0 {
		return false
	}
	els := append([]domain.Element(nil), e.page.Elements...)
	moved := false
	for i := range els {
		p, ok := origins[els[i].ID]
		if !ok || (els[i].X == p.X && els[i].Y == p.Y) {
			continue
		}
		els[i] = els[i].Clone()
		els[i].X, els[i].Y = p.X, p.Y
		moved = true
	}
	if moved {
		e.commit(els)
	}
	return moved
}

// Confirmer asks the user to approve a destructive action.
type Confirmer func(message string) bool

const clearCanvasPrompt = "Are you sure you want to clear the canvas? This cannot be undone easily."

// ClearCanvas empties the page after confirmation and reports whether it
// did. Declining leaves everything untouched.
func (e *Editor) ClearCanvas(confirm Confirmer) bool {
	if e.page == nil || confirm == nil || !confirm(clearCanvasPrompt) {
		return false
	}
	e.commit([]domain.Element{})
	return true
}

// UpdateElement edits one element in place (text typing, color pickers,
// checklist toggles). The edit is not recorded in history.
func (e *Editor) UpdateElement(id string, fn func(el *domain.Element)) bool {
	if e.page == nil {
		return false
	}
	return e.patch(id, func(el *domain.Element) {
		*el = el.Clone()
		fn(el)
	})
}

// InsertImage drops a decoded image at the window center, selected, and
// returns to the select tool.
func (e *Editor) InsertImage(src string) {
	if e.page == nil {
		return
	}
	center := e.ClientToWorld(e.windowCenter())
	e.commit(append(deselectAll(e.page.Elements), imageElement(src, center)))
	e.tools.Tool = ToolSelect
}

// ── Keyboard ───────────────────────────────────────────────

// KeyEvent is a key press as the host saw it.
type KeyEvent struct {
	Key   string `json:"key"`
	Code  string `json:"code"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
	// Typing is set when focus is inside a text input; only Space and
	// Escape are honored then.
	Typing bool `json:"typing"`
}

// KeyDown applies a keyboard shortcut and reports whether it consumed
// the key.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	if ev.Code == "Space" && !ev.Typing {
		e.spaceHeld = true
		return true
	}
	if ev.Key == "Escape" {
		if e.presenting {
			e.presenting = false
			return true
		}
		return false
	}
	if ev.Typing {
		return false
	}

	mod := ev.Ctrl || ev.Meta
	switch {
	case ev.Key == "Delete" || ev.Key == "Backspace":
		if len(Selected(e.Elements())) == 0 {
			return false
		}
		e.DeleteSelected()
	case mod && strings.EqualFold(ev.Key, "z"):
		if ev.Shift {
			e.Redo()
		} else {
			e.Undo()
		}
	case mod && strings.EqualFold(ev.Key, "d"):
		e.DuplicateSelected()
	default:
		return false
	}
	return true
}

// KeyUp releases temporary pan mode.
func (e *Editor) KeyUp(ev KeyEvent) {
	if ev.Code == "Space" {
		e.spaceHeld = false
	}
}

// ── State view ─────────────────────────────────────────────

// State is everything the host needs to draw the canvas.
type State struct {
	Elements        []domain.Element        `json:"elements"`
	RulerGuides     []domain.RulerGuide     `json:"rulerGuides"`
	AlignmentGuides []domain.AlignmentGuide `json:"alignmentGuides"`
	Viewport        Viewport                `json:"viewport"`
	Tools           ToolState               `json:"tools"`
	Mode            string                  `json:"mode"`
	Draft           []domain.Point          `json:"draft,omitempty"`
	Marquee         *domain.Rect            `json:"marquee,omitempty"`
	PendingGuide    *domain.RulerGuide      `json:"pendingGuide,omitempty"`
	OverTrash       bool                    `json:"overTrash"`
	CanUndo         bool                    `json:"canUndo"`
	CanRedo         bool                    `json:"canRedo"`
	Presenting      bool                    `json:"presenting"`
	SpaceHeld       bool                    `json:"spaceHeld"`
}

// State returns a view of the editor safe to hand to another goroutine.
func (e *Editor) State() State {
	s := State{
		Elements:        domain.CloneElements(e.Elements()),
		AlignmentGuides: append([]domain.AlignmentGuide(nil), e.guides...),
		Viewport:        e.view,
		Tools:           e.tools,
		Mode:            e.Mode().String(),
		OverTrash:       e.overTrash,
		CanUndo:         e.history.CanUndo(),
		CanRedo:         e.history.CanRedo(),
		Presenting:      e.presenting,
		SpaceHeld:       e.spaceHeld,
	}
	if s.Elements == nil {
		s.Elements = []domain.Element{}
	}
	if e.page != nil {
		s.RulerGuides = append([]domain.RulerGuide(nil), e.page.Guides...)
	}
	switch g := e.gesture.(type) {
	case *drawing:
		s.Draft = append([]domain.Point(nil), g.points...)
	case *marquee:
		r := domain.RectFromPoints(g.start, g.current)
		s.Marquee = &r
	case *guideDrag:
		pg := g.guide
		s.PendingGuide = &pg
	}
	return s
}
