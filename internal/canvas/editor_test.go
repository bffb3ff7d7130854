package canvas_test

import (
	"testing"

	"pixelia/internal/canvas"
	"pixelia/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

// newEditor returns an editor whose canvas fills a 1000x800 window with an
// identity viewport, so client and world coordinates coincide.
func newEditor(t *testing.T, els ...domain.Element) *canvas.Editor {
	t.Helper()
	e := canvas.NewEditor(canvas.Options{})
	e.SetSurface(&domain.Rect{Width: 1000, Height: 800})
	e.SetWindow(canvas.Size{Width: 1000, Height: 800})
	e.SetViewport(canvas.Viewport{Scale: 1})
	p := domain.NewPage("page-1")
	if els != nil {
		p.Elements = els
	}
	e.SetPage(p)
	return e
}

func at(x, y float64) canvas.PointerEvent { return canvas.PointerEvent{X: x, Y: y} }

func onCanvas(x, y float64) canvas.PointerEvent {
	return canvas.PointerEvent{X: x, Y: y, OnCanvas: true}
}

func box(id string, x, y, w, h float64) domain.Element {
	return domain.Element{ID: id, X: x, Y: y, Width: w, Height: h,
		Payload: &domain.ShapeData{ShapeType: domain.ShapeRectangle, Color: "#e2e8f0"}}
}

func find(t *testing.T, e *canvas.Editor, id string) domain.Element {
	t.Helper()
	for _, el := range e.Elements() {
		if el.ID == id {
			return el
		}
	}
	t.Fatalf("element %q not found", id)
	return domain.Element{}
}

func drag(e *canvas.Editor, points ...canvas.PointerEvent) {
	for _, p := range points {
		e.PointerMove(p)
	}
	e.PointerUp(points[len(points)-1])
}

// ─────────────────────────────────────────────────────────────
// Resize
// ─────────────────────────────────────────────────────────────

func TestResize_SEClampsToMinimum(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))

	e.ResizePointerDown("a", canvas.HandleSE, at(100, 100))
	drag(e, at(-100, -400))

	got := find(t, e, "a")
	if got.X != 0 || got.Y != 0 || got.Width != 20 || got.Height != 20 {
		t.Errorf("expected 0,0 20x20, got %v,%v %vx%v", got.X, got.Y, got.Width, got.Height)
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
}

func TestResize_NWMovesOrigin(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))

	e.ResizePointerDown("a", canvas.HandleNW, at(0, 0))
	drag(e, at(4, 4), at(10, 10))

	got := find(t, e, "a")
	if got.X != 10 || got.Y != 10 || got.Width != 90 || got.Height != 90 {
		t.Errorf("expected 10,10 90x90, got %v,%v %vx%v", got.X, got.Y, got.Width, got.Height)
	}
}

func TestResize_NWClampKeepsOppositeEdge(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))

	e.ResizePointerDown("a", canvas.HandleNW, at(0, 0))
	drag(e, at(500, 500))

	got := find(t, e, "a")
	if got.X != 80 || got.Y != 80 || got.Width != 20 || got.Height != 20 {
		t.Errorf("expected 80,80 20x20, got %v,%v %vx%v", got.X, got.Y, got.Width, got.Height)
	}
}

func TestResize_ScaledDelta(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))
	e.SetViewport(canvas.Viewport{Scale: 2})

	e.ResizePointerDown("a", canvas.HandleE, at(200, 100))
	drag(e, at(300, 100))

	if got := find(t, e, "a"); got.Width != 150 || got.Height != 100 {
		t.Errorf("expected 150x100, got %vx%v", got.Width, got.Height)
	}
}

func TestResize_PathIgnored(t *testing.T) {
	path := domain.Element{ID: "p", Payload: &domain.PathData{Points: []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}}}
	e := newEditor(t, path)

	e.ResizePointerDown("p", canvas.HandleSE, at(10, 10))
	if e.Mode() != canvas.ModeIdle {
		t.Errorf("expected idle, got %v", e.Mode())
	}
}

// ─────────────────────────────────────────────────────────────
// Placement
// ─────────────────────────────────────────────────────────────

func TestPlacement_NoteIsOneShot(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolNote)

	e.PointerDown(onCanvas(300, 200))
	e.PointerUp(onCanvas(300, 200))

	els := e.Elements()
	if len(els) != 1 {
		t.Fatalf("expected 1 element, got %d", len(els))
	}
	n := els[0]
	if n.Kind() != domain.KindNote {
		t.Fatalf("expected note, got %s", n.Kind())
	}
	if n.X != 200 || n.Y != 125 || n.Width != 200 || n.Height != 150 {
		t.Errorf("unexpected note box %v,%v %vx%v", n.X, n.Y, n.Width, n.Height)
	}
	if n.Note().Color != canvas.NoteYellow {
		t.Errorf("expected note yellow with black pen, got %s", n.Note().Color)
	}
	if !n.IsSelected {
		t.Error("placed element should be selected")
	}
	if e.Tools().Tool != canvas.ToolSelect {
		t.Errorf("expected tool to revert to select, got %s", e.Tools().Tool)
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
}

func TestPlacement_Defaults(t *testing.T) {
	tests := []struct {
		tool       canvas.Tool
		kind       domain.Kind
		x, y, w, h float64
	}{
		{canvas.ToolText, domain.KindText, 500, 400, 300, 100},
		{canvas.ToolCode, domain.KindCode, 350, 325, 300, 150},
		{canvas.ToolCheckbox, domain.KindCheckbox, 400, 300, 250, 200},
		{canvas.ToolSticker, domain.KindSticker, 475, 375, 64, 64},
		{canvas.ToolShape, domain.KindShape, 450, 350, 100, 100},
		{canvas.ToolChart, domain.KindChart, 350, 300, 300, 200},
		{canvas.ToolTable, domain.KindTable, 350, 325, 300, 150},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			e := newEditor(t)
			e.SetTool(tt.tool)
			e.PointerDown(onCanvas(500, 400))

			els := e.Elements()
			if len(els) != 1 {
				t.Fatalf("expected 1 element, got %d", len(els))
			}
			el := els[0]
			if el.Kind() != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, el.Kind())
			}
			if el.X != tt.x || el.Y != tt.y || el.Width != tt.w || el.Height != tt.h {
				t.Errorf("unexpected box %v,%v %vx%v", el.X, el.Y, el.Width, el.Height)
			}
		})
	}
}

func TestPlacement_PayloadDefaults(t *testing.T) {
	e := newEditor(t)

	e.SetTool(canvas.ToolTable)
	e.PointerDown(onCanvas(0, 0))
	tbl := e.Elements()[0].Table()
	if tbl.Rows != 3 || tbl.Cols != 3 || len(tbl.Data) != 3 || len(tbl.Data[2]) != 3 {
		t.Errorf("expected 3x3 table, got %+v", tbl)
	}

	e.SetTool(canvas.ToolChart)
	e.PointerDown(onCanvas(0, 0))
	ch := e.Elements()[1].Chart()
	if ch.ChartType != domain.ChartBar || len(ch.Data) != 5 || ch.Labels[0] != "Jan" || ch.Color != canvas.ColorBlue {
		t.Errorf("unexpected chart defaults %+v", ch)
	}

	e.SetColor(canvas.ColorGreen)
	e.SetTool(canvas.ToolShape)
	e.PointerDown(onCanvas(0, 0))
	if sh := e.Elements()[2].Shape(); sh.Color != canvas.ColorGreen || sh.ShapeType != domain.ShapeRectangle {
		t.Errorf("expected green rectangle, got %+v", sh)
	}

	e.SetTool(canvas.ToolCheckbox)
	e.PointerDown(onCanvas(0, 0))
	cb := e.Elements()[3].Checkbox()
	if len(cb.Items) != 1 || cb.Items[0].Text != "Task 1" || cb.Items[0].ID == "" {
		t.Errorf("unexpected checklist %+v", cb)
	}

	if n := len(canvas.Selected(e.Elements())); n != 1 {
		t.Errorf("placing should select only the new element, %d selected", n)
	}
}

func TestPlacement_StickerUsesSelection(t *testing.T) {
	e := newEditor(t)
	e.SelectSticker("🚀")
	if e.Tools().Tool != canvas.ToolSticker {
		t.Fatalf("selecting a sticker should arm the sticker tool, got %s", e.Tools().Tool)
	}
	e.PointerDown(onCanvas(100, 100))
	if got := e.Elements()[0].Sticker().Content; got != "🚀" {
		t.Errorf("expected rocket sticker, got %q", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Drawing
// ─────────────────────────────────────────────────────────────

func TestDrawing_PenCommitsPath(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolPen)

	e.PointerDown(onCanvas(10, 10))
	if e.Mode() != canvas.ModeDrawing {
		t.Fatalf("expected drawing, got %v", e.Mode())
	}
	drag(e, at(20, 20), at(30, 25))

	els := e.Elements()
	if len(els) != 1 {
		t.Fatalf("expected 1 path, got %d", len(els))
	}
	p := els[0].Path()
	if p == nil || len(p.Points) != 3 {
		t.Fatalf("expected 3-point path, got %+v", p)
	}
	if p.Color != canvas.ColorBlack || p.StrokeWidth != 4 || p.IsEraser || p.IsHighlighter {
		t.Errorf("unexpected pen stroke %+v", p)
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
	if e.Tools().Tool != canvas.ToolPen {
		t.Error("drawing tools are sticky")
	}
}

func TestDrawing_HighlighterPalette(t *testing.T) {
	tests := []struct {
		pen, want string
	}{
		{canvas.ColorBlack, canvas.HighlighterYellow},
		{canvas.ColorBlue, canvas.HighlighterBlue},
		{canvas.ColorGreen, canvas.HighlighterGreen},
		{canvas.ColorRed, canvas.HighlighterPink},
		{canvas.ColorRose, canvas.HighlighterPink},
		{canvas.ColorPurple, canvas.HighlighterPurple},
		{"#f97316", canvas.HighlighterYellow},
	}
	for _, tt := range tests {
		e := newEditor(t)
		e.SetTool(canvas.ToolHighlighter)
		e.SetColor(tt.pen)
		e.PointerDown(onCanvas(0, 0))
		drag(e, at(10, 0))

		p := e.Elements()[0].Path()
		if p.Color != tt.want || p.StrokeWidth != 24 || !p.IsHighlighter {
			t.Errorf("pen %s: got color %s width %v", tt.pen, p.Color, p.StrokeWidth)
		}
	}
}

func TestDrawing_Eraser(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolEraser)
	e.SetStrokeWidth(6)
	e.PointerDown(onCanvas(0, 0))
	drag(e, at(5, 5))

	p := e.Elements()[0].Path()
	if !p.IsEraser || p.StrokeWidth != 30 || p.Color != "black" {
		t.Errorf("unexpected eraser stroke %+v", p)
	}
}

func TestDrawing_LineKeepsTwoPoints(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolLine)
	e.PointerDown(onCanvas(10, 10))
	drag(e, at(20, 30), at(50, 60))

	p := e.Elements()[0].Path()
	if len(p.Points) != 2 || p.Points[0] != (domain.Point{X: 10, Y: 10}) || p.Points[1] != (domain.Point{X: 50, Y: 60}) {
		t.Errorf("unexpected line points %+v", p.Points)
	}
}

func TestDrawing_DegenerateLineSkipped(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolLine)
	e.PointerDown(onCanvas(10, 10))
	e.PointerUp(onCanvas(10, 10))

	if len(e.Elements()) != 0 {
		t.Errorf("a zero-length line should not be committed, got %d elements", len(e.Elements()))
	}
	if e.History().Len() != 0 {
		t.Errorf("expected empty history, got %d", e.History().Len())
	}
}

// ─────────────────────────────────────────────────────────────
// Marquee
// ─────────────────────────────────────────────────────────────

func TestMarquee_SelectsOverlapExceptEraser(t *testing.T) {
	eraser := domain.Element{ID: "eraser", Payload: &domain.PathData{
		Points: []domain.Point{{X: 20, Y: 20}, {X: 40, Y: 40}}, IsEraser: true,
	}}
	stroke := domain.Element{ID: "stroke", X: 40, Y: 40, Payload: &domain.PathData{
		Points: []domain.Point{{X: 10, Y: 10}, {X: 20, Y: 20}},
	}}
	e := newEditor(t,
		box("inside", 10, 10, 20, 20),
		box("straddle", 90, 90, 50, 50),
		box("outside", 200, 200, 20, 20),
		eraser,
		stroke,
	)

	e.PointerDown(onCanvas(0, 0))
	if e.Mode() != canvas.ModeMarquee {
		t.Fatalf("expected marquee, got %v", e.Mode())
	}
	drag(e, at(50, 50), at(100, 100))

	want := map[string]bool{"inside": true, "straddle": true, "outside": false, "eraser": false, "stroke": true}
	for _, el := range e.Elements() {
		if el.IsSelected != want[el.ID] {
			t.Errorf("%s: selected=%v, want %v", el.ID, el.IsSelected, want[el.ID])
		}
	}
	if e.Mode() != canvas.ModeIdle {
		t.Errorf("expected idle after pointer-up, got %v", e.Mode())
	}
}

func TestMarquee_CornerOrderIrrelevant(t *testing.T) {
	els := []domain.Element{box("a", 10, 10, 5, 5), box("b", 300, 300, 5, 5)}
	forward := canvas.MarqueeSelect(els, domain.Point{X: 0, Y: 0}, domain.Point{X: 100, Y: 100})
	backward := canvas.MarqueeSelect(els, domain.Point{X: 100, Y: 100}, domain.Point{X: 0, Y: 0})
	for i := range els {
		if forward[i].IsSelected != backward[i].IsSelected {
			t.Errorf("%s: selection depends on corner order", els[i].ID)
		}
	}
	if els[0].IsSelected {
		t.Error("MarqueeSelect must not mutate its input")
	}
}

func TestPointerDown_CanvasDeselects(t *testing.T) {
	a := box("a", 0, 0, 10, 10)
	a.IsSelected = true
	e := newEditor(t, a)

	e.PointerDown(onCanvas(500, 500))
	if find(t, e, "a").IsSelected {
		t.Error("pointer-down on bare canvas should deselect")
	}
}

// ─────────────────────────────────────────────────────────────
// Move / rotate
// ─────────────────────────────────────────────────────────────

func TestMove_CoalescedIntoOneEntry(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 50, 50), box("b", 300, 300, 50, 50))

	e.ElementPointerDown("a", at(5, 5))
	if e.Mode() != canvas.ModeMoving {
		t.Fatalf("expected moving, got %v", e.Mode())
	}
	drag(e, at(15, 5), at(25, 15), at(35, 25))

	got := find(t, e, "a")
	if got.X != 30 || got.Y != 20 || !got.IsSelected {
		t.Errorf("expected selected at 30,20, got %v,%v selected=%v", got.X, got.Y, got.IsSelected)
	}
	if e.History().Len() != 1 {
		t.Fatalf("expected one history entry for the whole drag, got %d", e.History().Len())
	}

	e.Undo()
	if len(e.Elements()) != 0 {
		t.Errorf("undo of the only entry should restore the empty origin, got %d", len(e.Elements()))
	}
}

func TestMove_DeltaScaledByZoom(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 50, 50))
	e.SetViewport(canvas.Viewport{Scale: 2})

	e.ElementPointerDown("a", at(10, 10))
	drag(e, at(50, 30))

	if got := find(t, e, "a"); got.X != 20 || got.Y != 10 {
		t.Errorf("expected 20,10, got %v,%v", got.X, got.Y)
	}
}

func TestMove_DropOnTrashDeletes(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 50, 50), box("b", 300, 300, 50, 50))

	e.ElementPointerDown("a", at(5, 5))
	e.PointerMove(at(950, 750))
	if !e.OverTrash() {
		t.Fatal("expected pointer to be over the trash zone")
	}
	e.PointerUp(at(950, 750))

	if len(e.Elements()) != 1 || e.Elements()[0].ID != "b" {
		t.Errorf("expected only b to remain, got %v", ids(e.Elements()))
	}
	if e.OverTrash() {
		t.Error("trash hover should reset on pointer-up")
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
}

func TestElementPointerDown_RequiresSelectTool(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 50, 50))
	e.SetTool(canvas.ToolPen)
	e.ElementPointerDown("a", at(5, 5))
	if e.Mode() != canvas.ModeIdle {
		t.Errorf("expected idle with pen tool, got %v", e.Mode())
	}

	e.SetTool(canvas.ToolSelect)
	e.KeyDown(canvas.KeyEvent{Code: "Space", Key: " "})
	e.ElementPointerDown("a", at(5, 5))
	if e.Mode() != canvas.ModeIdle {
		t.Errorf("expected idle while space is held, got %v", e.Mode())
	}
}

func TestRotate_AboutCenter(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))

	// grip to the right of the center (angle 0), drag to below it (90°)
	e.RotatePointerDown("a", at(100, 50))
	drag(e, at(50, 100))

	if got := find(t, e, "a").Rotation; !near(got, 90) {
		t.Errorf("expected rotation 90, got %v", got)
	}
	if e.History().Len() != 1 {
		t.Errorf("expected one history entry, got %d", e.History().Len())
	}
}

func TestRotate_AddsToInitialRotation(t *testing.T) {
	a := box("a", 0, 0, 100, 100)
	a.Rotation = 30
	e := newEditor(t, a)

	e.RotatePointerDown("a", at(50, 0)) // -90°
	drag(e, at(0, 50))                  // 180°

	if got := find(t, e, "a").Rotation; !near(got, 300) {
		t.Errorf("expected rotation 300, got %v", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Pan / guides / deconfliction
// ─────────────────────────────────────────────────────────────

func TestPan_HandTool(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolHand)
	e.PointerDown(onCanvas(100, 100))
	if e.Mode() != canvas.ModePanning {
		t.Fatalf("expected panning, got %v", e.Mode())
	}
	drag(e, at(110, 100), at(130, 90))

	if v := e.Viewport(); v.X != 30 || v.Y != -10 {
		t.Errorf("expected offset 30,-10, got %v,%v", v.X, v.Y)
	}
	if e.History().Len() != 0 {
		t.Error("panning must not record history")
	}
}

func TestPan_MiddleButtonAndSpace(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolPen)
	e.PointerDown(canvas.PointerEvent{X: 0, Y: 0, Button: 1, OnCanvas: true})
	if e.Mode() != canvas.ModePanning {
		t.Fatalf("middle button should pan, got %v", e.Mode())
	}
	e.PointerUp(at(0, 0))

	e.KeyDown(canvas.KeyEvent{Code: "Space", Key: " "})
	e.PointerDown(onCanvas(0, 0))
	if e.Mode() != canvas.ModePanning {
		t.Fatalf("space should pan, got %v", e.Mode())
	}
	e.PointerUp(at(0, 0))
	e.KeyUp(canvas.KeyEvent{Code: "Space", Key: " "})

	e.PointerDown(onCanvas(0, 0))
	if e.Mode() != canvas.ModeDrawing {
		t.Errorf("expected drawing after space release, got %v", e.Mode())
	}
}

func TestGuideDrag_CommitsRulerGuide(t *testing.T) {
	e := newEditor(t)
	e.StartGuideDrag(domain.GuideHorizontal, at(0, 50))
	if e.Mode() != canvas.ModeGuideDrag {
		t.Fatalf("expected guide-drag, got %v", e.Mode())
	}
	e.PointerMove(at(400, 120))
	if pg := e.State().PendingGuide; pg == nil || pg.Pos != 120 {
		t.Fatalf("expected pending guide at 120, got %+v", pg)
	}
	e.PointerUp(at(400, 120))

	g := e.Page().Guides
	if len(g) != 1 || g[0].Type != domain.GuideHorizontal || g[0].Pos != 120 {
		t.Errorf("unexpected guides %+v", g)
	}
}

func TestPointerDown_IgnoredWhileGestureActive(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))
	e.ResizePointerDown("a", canvas.HandleSE, at(100, 100))

	e.SetTool(canvas.ToolNote)
	e.PointerDown(onCanvas(500, 500))
	if len(e.Elements()) != 1 || e.Mode() != canvas.ModeResizing {
		t.Errorf("second pointer-down should be ignored; mode=%v elements=%d", e.Mode(), len(e.Elements()))
	}
}

func TestPointerDown_BusyBeatsPanAndDeselect(t *testing.T) {
	e := newEditor(t, box("a", 0, 0, 100, 100))
	e.ElementPointerDown("a", at(50, 50))

	e.PointerDown(canvas.PointerEvent{X: 500, Y: 500, Button: 1, OnCanvas: true})
	if e.Mode() != canvas.ModeMoving {
		t.Errorf("middle button must not start a pan mid-drag, mode=%v", e.Mode())
	}
	if !find(t, e, "a").IsSelected {
		t.Error("pointer-down during a drag must not deselect")
	}
}

func TestPointerLeave_CommitsLikeUp(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolPen)
	e.PointerDown(onCanvas(0, 0))
	e.PointerMove(at(10, 10))
	e.PointerLeave(at(10, 10))

	if len(e.Elements()) != 1 || e.Mode() != canvas.ModeIdle {
		t.Errorf("expected committed stroke and idle, got %d elements mode=%v", len(e.Elements()), e.Mode())
	}
}

func TestSetPage_ClearsHistory(t *testing.T) {
	e := newEditor(t)
	e.SetTool(canvas.ToolNote)
	e.PointerDown(onCanvas(0, 0))
	if e.History().Len() == 0 {
		t.Fatal("expected history entry")
	}
	e.SetPage(domain.NewPage("other"))
	if e.History().Len() != 0 || e.History().Index() != -1 {
		t.Error("switching pages must clear history")
	}
}

func TestNoPage_IsSafe(t *testing.T) {
	e := canvas.NewEditor(canvas.Options{})
	e.PointerDown(onCanvas(0, 0))
	e.PointerMove(at(1, 1))
	e.PointerUp(at(1, 1))
	e.Undo()
	e.DeleteSelected()
	e.InsertImage("data:image/png;base64,")
	if e.Elements() != nil {
		t.Error("expected no elements without a page")
	}
}
