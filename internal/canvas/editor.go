package canvas

import (
	"math"

	"pixelia/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Editor: resolves pointer gestures against the active page
// ─────────────────────────────────────────────────────────────
//
// The editor is single-threaded: callers serialize every call. The
// active page's element list is never mutated in place; each change
// swaps in a new slice, and History keeps its own deep copies.

// PointerEvent is a pointer sample in client (window) coordinates.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"` // 0 primary, 1 middle
	// OnCanvas is true when the pointer landed on the bare canvas rather
	// than on an element or on overlay chrome.
	OnCanvas bool `json:"onCanvas"`
}

func (ev PointerEvent) client() domain.Point { return domain.Point{X: ev.X, Y: ev.Y} }

// WheelEvent is a scroll or pinch sample in client coordinates.
type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// trashZone is the side of the bottom-right square that deletes the
// dragged selection on drop.
const trashZone = 120

type Options struct {
	HistoryLimit int
	// Snapper defaults to IdentitySnapper.
	Snapper Snapper
}

type Editor struct {
	page    *domain.Page
	view    Viewport
	history *History
	gesture gesture
	tools   ToolState
	snapper Snapper

	surface *domain.Rect // canvas bounds in client coordinates; nil until mounted
	window  Size

	guides     []domain.AlignmentGuide
	overTrash  bool
	spaceHeld  bool
	presenting bool

	onChange func()
}

// NewEditor returns an editor with no page attached.
func NewEditor(opts Options) *Editor {
	s := opts.Snapper
	if s == nil {
		s = IdentitySnapper{}
	}
	return &Editor{
		view:    DefaultViewport(false),
		history: NewHistory(opts.HistoryLimit),
		gesture: idle{},
		tools:   DefaultToolState(),
		snapper: s,
	}
}

// OnChange registers fn to run after every change to the page contents.
func (e *Editor) OnChange(fn func()) { e.onChange = fn }

// SetPage makes p the active page. History and any gesture in progress
// are discarded.
func (e *Editor) SetPage(p *domain.Page) {
	e.page = p
	e.history.Clear()
	e.cancelGesture()
}

func (e *Editor) Page() *domain.Page { return e.page }

// Elements returns the active page's element list. Callers must not
// mutate it.
func (e *Editor) Elements() []domain.Element {
	if e.page == nil {
		return nil
	}
	return e.page.Elements
}

func (e *Editor) History() *History     { return e.history }
func (e *Editor) Mode() Mode            { return e.gesture.mode() }
func (e *Editor) Viewport() Viewport    { return e.view }
func (e *Editor) SetSnapper(s Snapper)  { e.snapper = s }
func (e *Editor) SetWindow(s Size)      { e.window = s }
func (e *Editor) Window() Size          { return e.window }
func (e *Editor) SpaceHeld() bool       { return e.spaceHeld }
func (e *Editor) Presenting() bool      { return e.presenting }
func (e *Editor) SetPresenting(on bool) { e.presenting = on }
func (e *Editor) OverTrash() bool       { return e.overTrash }

// SetViewport replaces the transform, clamping its scale.
func (e *Editor) SetViewport(v Viewport) {
	v.Scale = ClampScale(v.Scale)
	e.view = v
}

// AlignmentGuides returns the snap guides of the drag in progress.
func (e *Editor) AlignmentGuides() []domain.AlignmentGuide { return e.guides }

// SetSurface records where the canvas sits in the window. nil means the
// canvas is not mounted; coordinate conversion then yields the origin.
func (e *Editor) SetSurface(r *domain.Rect) {
	if r == nil {
		e.surface = nil
		return
	}
	c := *r
	e.surface = &c
}

// ClientToWorld converts a client position to world coordinates.
func (e *Editor) ClientToWorld(p domain.Point) domain.Point {
	if e.surface == nil {
		return domain.Point{}
	}
	return e.view.ScreenToWorld(domain.Point{X: p.X - e.surface.X, Y: p.Y - e.surface.Y})
}

func (e *Editor) windowCenter() domain.Point {
	return domain.Point{X: e.window.Width / 2, Y: e.window.Height / 2}
}

// ── Element list plumbing ──────────────────────────────────

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// replace swaps in a new element list without touching history.
func (e *Editor) replace(els []domain.Element) {
	if els == nil {
		els = []domain.Element{}
	}
	e.page.Elements = els
	e.changed()
}

// commit swaps in a new element list and records it.
func (e *Editor) commit(els []domain.Element) {
	e.replace(els)
	e.history.Record(els)
}

// patch replaces the element with the given id by fn applied to a copy.
func (e *Editor) patch(id string, fn func(el *domain.Element)) bool {
	i := indexOf(e.page.Elements, id)
	if i < 0 {
		return false
	}
	els := append([]domain.Element(nil), e.page.Elements...)
	fn(&els[i])
	e.replace(els)
	return true
}

// ── Pointer input ──────────────────────────────────────────

func (e *Editor) isIdle() bool {
	_, ok := e.gesture.(idle)
	return ok
}

// PointerDown starts a gesture on the canvas surface.
//
// The busy check comes first: while any gesture is active a second
// pointer neither pans nor deselects. Only one pointer is tracked, so
// the pan rule is evaluated after it rather than before.
func (e *Editor) PointerDown(ev PointerEvent) {
	if e.page == nil || !e.isIdle() {
		return
	}
	if ev.OnCanvas && len(Selected(e.page.Elements)) > 0 {
		e.replace(deselectAll(e.page.Elements))
	}

	if e.tools.Tool == ToolHand || ev.Button == 1 || e.spaceHeld {
		e.gesture = &panning{last: ev.client()}
		return
	}

	pos := e.ClientToWorld(ev.client())
	switch {
	case e.tools.Tool.draws():
		pts := []domain.Point{pos}
		if e.tools.Tool == ToolLine {
			pts = append(pts, pos)
		}
		e.gesture = &drawing{tool: e.tools.Tool, points: pts}
	case e.tools.Tool == ToolSelect:
		if ev.OnCanvas {
			e.gesture = &marquee{start: pos, current: pos}
		}
	default:
		if el, ok := placeElement(e.tools, pos); ok {
			e.commit(append(deselectAll(e.page.Elements), el))
			e.tools.Tool = ToolSelect
		}
	}
}

// ElementPointerDown starts dragging an element's body. It only applies to
// the select tool and never while Space-panning.
func (e *Editor) ElementPointerDown(id string, ev PointerEvent) {
	if e.page == nil || !e.isIdle() || e.tools.Tool != ToolSelect || e.spaceHeld {
		return
	}
	i := indexOf(e.page.Elements, id)
	if i < 0 || !Selectable(&e.page.Elements[i]) {
		return
	}
	e.replace(selectOnly(e.page.Elements, id))
	e.gesture = &moving{id: id, snapshot: e.page.Elements[i].Clone(), start: ev.client()}
}

// ResizePointerDown starts a resize from one of a boxed element's grips.
func (e *Editor) ResizePointerDown(id string, h Handle, ev PointerEvent) {
	if e.page == nil || !e.isIdle() {
		return
	}
	i := indexOf(e.page.Elements, id)
	if i < 0 || !e.page.Elements[i].Boxed() {
		return
	}
	e.gesture = &resizing{id: id, handle: h, snapshot: e.page.Elements[i].Clone(), start: ev.client()}
}

// RotatePointerDown starts rotating an element about its center.
func (e *Editor) RotatePointerDown(id string, ev PointerEvent) {
	if e.page == nil || !e.isIdle() {
		return
	}
	i := indexOf(e.page.Elements, id)
	if i < 0 {
		return
	}
	snap := e.page.Elements[i].Clone()
	pivot := snap.Bounds().Center()
	pos := e.ClientToWorld(ev.client())
	e.gesture = &rotating{
		id:              id,
		snapshot:        snap,
		pivot:           pivot,
		initialAngle:    math.Atan2(pos.Y-pivot.Y, pos.X-pivot.X),
		initialRotation: snap.Rotation,
	}
}

// StartGuideDrag begins pulling a new guide out of a ruler.
func (e *Editor) StartGuideDrag(o domain.GuideOrientation, ev PointerEvent) {
	if e.page == nil || !e.isIdle() {
		return
	}
	pos := e.ClientToWorld(ev.client())
	e.gesture = &guideDrag{guide: domain.RulerGuide{Type: o, Pos: guideAxis(o, pos)}}
}

func guideAxis(o domain.GuideOrientation, p domain.Point) float64 {
	if o == domain.GuideHorizontal {
		return p.Y
	}
	return p.X
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.page == nil {
		return
	}
	scale := e.view.Scale
	switch g := e.gesture.(type) {
	case *panning:
		e.view = e.view.Pan(ev.X-g.last.X, ev.Y-g.last.Y)
		g.last = ev.client()

	case *drawing:
		pos := e.ClientToWorld(ev.client())
		if g.tool == ToolLine {
			g.points[1] = pos
		} else {
			g.points = append(g.points, pos)
		}

	case *moving:
		e.overTrash = e.inTrash(ev.client())
		dx := (ev.X - g.start.X) / scale
		dy := (ev.Y - g.start.Y) / scale
		dx, dy, e.guides = e.snapper.Snap(g.snapshot, e.page.Elements, dx, dy, scale)
		e.patch(g.id, func(el *domain.Element) {
			el.X = g.snapshot.X + dx
			el.Y = g.snapshot.Y + dy
		})

	case *resizing:
		dx := (ev.X - g.start.X) / scale
		dy := (ev.Y - g.start.Y) / scale
		r := resizeBox(g.snapshot.Bounds(), g.handle, dx, dy)
		e.patch(g.id, func(el *domain.Element) {
			el.X, el.Y, el.Width, el.Height = r.X, r.Y, r.Width, r.Height
		})

	case *rotating:
		pos := e.ClientToWorld(ev.client())
		angle := math.Atan2(pos.Y-g.pivot.Y, pos.X-g.pivot.X)
		rot := g.initialRotation + (angle-g.initialAngle)*180/math.Pi
		e.patch(g.id, func(el *domain.Element) { el.Rotation = rot })

	case *marquee:
		g.current = e.ClientToWorld(ev.client())

	case *guideDrag:
		g.guide.Pos = guideAxis(g.guide.Type, e.ClientToWorld(ev.client()))
	}
}

func (e *Editor) inTrash(p domain.Point) bool {
	return p.X > e.window.Width-trashZone && p.Y > e.window.Height-trashZone
}

// PointerUp commits the active gesture and returns to idle.
func (e *Editor) PointerUp(PointerEvent) {
	if e.page == nil {
		e.cancelGesture()
		return
	}
	g, overTrash := e.gesture, e.overTrash
	e.cancelGesture()

	switch g := g.(type) {
	case *guideDrag:
		e.page.Guides = append(append([]domain.RulerGuide(nil), e.page.Guides...), g.guide)
		e.changed()

	case *drawing:
		if el, ok := strokeElement(e.tools, g.tool, g.points); ok {
			e.commit(append(append([]domain.Element(nil), e.page.Elements...), el))
		}

	case *marquee:
		e.replace(MarqueeSelect(e.page.Elements, g.start, g.current))

	case *moving:
		if overTrash {
			e.DeleteSelected()
			return
		}
		e.history.Record(e.page.Elements)

	case *resizing, *rotating:
		e.history.Record(e.page.Elements)
	}
}

// PointerLeave behaves like PointerUp.
func (e *Editor) PointerLeave(ev PointerEvent) { e.PointerUp(ev) }

func (e *Editor) cancelGesture() {
	e.gesture = idle{}
	e.guides = nil
	e.overTrash = false
}

// Wheel pans on plain scroll and zooms about the cursor with ctrl/meta.
func (e *Editor) Wheel(ev WheelEvent) {
	if ev.Ctrl || ev.Meta {
		anchor := domain.Point{X: ev.X, Y: ev.Y}
		e.Zoom(-ev.DeltaY*wheelZoomFactor, &anchor)
		return
	}
	e.view = e.view.Pan(-ev.DeltaX, -ev.DeltaY)
}

// Zoom changes the scale by delta about anchor (client coordinates),
// defaulting to the window center. Without a mounted surface it does
// nothing.
func (e *Editor) Zoom(delta float64, anchor *domain.Point) {
	if e.surface == nil {
		return
	}
	a := e.windowCenter()
	if anchor != nil {
		a = *anchor
	}
	local := domain.Point{X: a.X - e.surface.X, Y: a.Y - e.surface.Y}
	e.view = e.view.ZoomAbout(delta, local)
}
