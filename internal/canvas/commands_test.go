package canvas_test

import (
	"testing"

	"pixelia/internal/canvas"
	"pixelia/internal/domain"
)

func selected(el domain.Element) domain.Element {
	el.IsSelected = true
	return el
}

func TestDuplicate_TwoElements(t *testing.T) {
	path := domain.Element{ID: "p", X: 5, Y: 5, IsSelected: true,
		Payload: &domain.PathData{Points: []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}
	list := domain.Element{ID: "c", X: 100, Y: 50, Width: 250, Height: 200, IsSelected: true,
		Payload: &domain.CheckboxData{Items: []domain.CheckboxItem{{ID: "item-1", Text: "Task 1"}}}}
	e := newEditor(t, path, list, box("other", 0, 0, 10, 10))

	e.DuplicateSelected()

	els := e.Elements()
	if len(els) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(els))
	}
	for _, el := range els[:3] {
		if el.IsSelected {
			t.Errorf("original %s should be deselected", el.ID)
		}
	}

	seen := map[string]bool{"p": true, "c": true, "other": true}
	origins := []domain.Element{path, list}
	for i, dup := range els[3:] {
		if seen[dup.ID] || dup.ID == "" {
			t.Errorf("duplicate %d reused id %q", i, dup.ID)
		}
		seen[dup.ID] = true
		if !dup.IsSelected {
			t.Errorf("duplicate %d should be selected", i)
		}
		if dup.X != origins[i].X+20 || dup.Y != origins[i].Y+20 {
			t.Errorf("duplicate %d at %v,%v, want offset by 20", i, dup.X, dup.Y)
		}
	}

	dupPath := els[3].Path()
	dupPath.Points[0].X = 99
	if e.Elements()[0].Path().Points[0].X != 1 {
		t.Error("duplicate shares its point slice with the original")
	}
	if got := els[4].Checkbox().Items[0].ID; got == "item-1" {
		t.Error("checklist items should get fresh ids")
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
}

func TestDuplicate_NothingSelected(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 10, 10))
	e.DuplicateSelected()
	if len(e.Elements()) != 1 || e.History().Len() != 0 {
		t.Error("duplicate with no selection should be a no-op")
	}
}

func TestRestack(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 1, 1), selected(box("b", 0, 0, 1, 1)), box("c", 0, 0, 1, 1))

	e.BringToFront()
	if !sameIDs(e.Elements(), "a", "c", "b") {
		t.Errorf("bring to front: %v", ids(e.Elements()))
	}
	e.SendToBack()
	if !sameIDs(e.Elements(), "b", "a", "c") {
		t.Errorf("send to back: %v", ids(e.Elements()))
	}
	if e.History().Len() != 2 {
		t.Errorf("expected 2 history entries, got %d", e.History().Len())
	}
}

func TestMoveElements_OneEntry(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 10, 10), box("b", 50, 50, 10, 10))

	if !e.MoveElements(map[string]domain.Point{"a": {X: 100, Y: 0}, "b": {X: 0, Y: 100}, "zz": {}}) {
		t.Fatal("expected a move")
	}
	if a := find(t, e, "a"); a.X != 100 || a.Y != 0 {
		t.Errorf("a at %v,%v", a.X, a.Y)
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
	if e.MoveElements(map[string]domain.Point{"a": {X: 100, Y: 0}}) {
		t.Error("moving onto the same origin should be a no-op")
	}
}

func TestClearCanvas(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 1, 1))

	var asked string
	if e.ClearCanvas(func(msg string) bool { asked = msg; return false }) {
		t.Fatal("declined clear reported success")
	}
	if asked == "" {
		t.Error("expected a confirmation prompt")
	}
	if len(e.Elements()) != 1 || e.History().Len() != 0 {
		t.Fatal("declining must leave the canvas untouched")
	}

	if !e.ClearCanvas(func(string) bool { return true }) {
		t.Fatal("confirmed clear reported failure")
	}
	if len(e.Elements()) != 0 || e.History().Len() != 1 {
		t.Errorf("expected empty canvas with one history entry, got %d elements", len(e.Elements()))
	}
}

func TestUpdateElement_NotRecorded(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolNote)
	e.PointerDown(onCanvas(0, 0))
	id := e.Elements()[0].ID

	ok := e.UpdateElement(id, func(el *domain.Element) { el.Note().Text = "hello" })
	if !ok {
		t.Fatal("update reported missing element")
	}
	if got := e.Elements()[0].Note().Text; got != "hello" {
		t.Errorf("expected text hello, got %q", got)
	}
	if e.History().Len() != 1 {
		t.Errorf("in-place edits are not recorded, history=%d", e.History().Len())
	}
	if e.UpdateElement("missing", func(*domain.Element) {}) {
		t.Error("update of a missing id should report false")
	}
}

func TestInsertImage_CenteredAndSelected(t *testing.T) {
	e := newEditor(t, selected(box("a", 0, 0, 1, 1)))
	e.SetTool(canvas.ToolImage)

	e.InsertImage("data:image/png;base64,AAAA")

	els := e.Elements()
	img := els[len(els)-1]
	if img.Kind() != domain.KindImage || img.Image().Src != "data:image/png;base64,AAAA" {
		t.Fatalf("expected image element, got %s", img.Kind())
	}
	if img.X != 350 || img.Y != 250 || img.Width != 300 || img.Height != 300 {
		t.Errorf("unexpected image box %v,%v %vx%v", img.X, img.Y, img.Width, img.Height)
	}
	if !img.IsSelected || els[0].IsSelected {
		t.Error("the image alone should be selected")
	}
	if e.Tools().Tool != canvas.ToolSelect {
		t.Errorf("expected select tool, got %s", e.Tools().Tool)
	}
}

// ─────────────────────────────────────────────────────────────
// Keyboard
// ─────────────────────────────────────────────────────────────

func TestKeyboard_DeleteAndTyping(t *testing.T) {
	e := newEditor(t, selected(box("a", 0, 0, 1, 1)), box("b", 0, 0, 1, 1))

	if e.KeyDown(canvas.KeyEvent{Key: "Backspace", Typing: true}) {
		t.Error("backspace inside a text input must not be consumed")
	}
	if len(e.Elements()) != 2 {
		t.Fatal("typing deleted elements")
	}

	if !e.KeyDown(canvas.KeyEvent{Key: "Delete"}) {
		t.Error("expected delete to be handled")
	}
	if !sameIDs(e.Elements(), "b") {
		t.Errorf("expected only b, got %v", ids(e.Elements()))
	}
	if e.KeyDown(canvas.KeyEvent{Key: "Delete"}) {
		t.Error("delete with no selection should not be consumed")
	}
}

func TestKeyboard_UndoRedoDuplicate(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolShape)
	e.PointerDown(onCanvas(100, 100))

	e.KeyDown(canvas.KeyEvent{Key: "d", Meta: true})
	if len(e.Elements()) != 2 {
		t.Fatalf("cmd+d should duplicate, got %d elements", len(e.Elements()))
	}

	e.KeyDown(canvas.KeyEvent{Key: "z", Ctrl: true})
	if len(e.Elements()) != 1 {
		t.Fatalf("ctrl+z should undo, got %d elements", len(e.Elements()))
	}

	e.KeyDown(canvas.KeyEvent{Key: "Z", Ctrl: true, Shift: true})
	if len(e.Elements()) != 2 {
		t.Errorf("ctrl+shift+z should redo, got %d elements", len(e.Elements()))
	}
}

func TestKeyboard_EscapeLeavesPresentation(t *testing.T) {
	e := newEditor(t)
	if e.KeyDown(canvas.KeyEvent{Key: "Escape"}) {
		t.Error("escape outside presentation should not be consumed")
	}
	e.SetPresenting(true)
	e.KeyDown(canvas.KeyEvent{Key: "Escape", Typing: true})
	if e.Presenting() {
		t.Error("escape should exit presentation mode")
	}
}

func TestSetTool_IgnoresUnknown(t *testing.T) {
	e := newEditor(t)
	e.SetTool("LASSO")
	if e.Tools().Tool != canvas.ToolSelect {
		t.Errorf("unknown tool changed state to %s", e.Tools().Tool)
	}
}
