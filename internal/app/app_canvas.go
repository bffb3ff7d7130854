package app

import (
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pixelia/internal/canvas"
	"pixelia/internal/domain"
	"pixelia/internal/inbox"
	"pixelia/internal/render"
	"pixelia/internal/service"
)

// withEditor runs fn under the host lock and returns the new view.
func (a *App) withEditor(fn func(e *canvas.Editor)) CanvasState {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.session.Editor())
	return a.canvasState()
}

// withSession is withEditor for page-level operations.
func (a *App) withSession(fn func(s *service.Session)) CanvasState {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.session)
	return a.canvasState()
}

// ============================================================
// View
// ============================================================

func (a *App) GetCanvasState() CanvasState {
	return a.withEditor(func(*canvas.Editor) {})
}

// SetCanvasSurface tells the engine where the canvas element sits in the
// window. nil means it is not mounted.
func (a *App) SetCanvasSurface(r *domain.Rect) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetSurface(r) })
}

// ResizeWindow updates the responsive layout and remembers the size.
func (a *App) ResizeWindow(width, height float64) CanvasState {
	if err := a.settings.SaveWindowSize(int(width), int(height)); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to save window size: %v", err)
	}
	return a.withSession(func(s *service.Session) { s.Resize(width, height) })
}

func (a *App) SetPresenting(on bool) CanvasState {
	return a.withSession(func(s *service.Session) { s.SetPresenting(on) })
}

// RulerState holds the tick marks of both rulers.
type RulerState struct {
	Horizontal []canvas.Tick `json:"horizontal"`
	Vertical   []canvas.Tick `json:"vertical"`
}

func (a *App) Rulers() RulerState {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.session.Editor()
	v, w := e.Viewport(), e.Window()
	return RulerState{
		Horizontal: canvas.RulerTicks(v.Scale, v.X, w.Width),
		Vertical:   canvas.RulerTicks(v.Scale, v.Y, w.Height),
	}
}

// ============================================================
// Pointer, wheel and keyboard input
// ============================================================

func (a *App) PointerDown(ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.PointerDown(ev) })
}

func (a *App) ElementPointerDown(id string, ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.ElementPointerDown(id, ev) })
}

func (a *App) ResizePointerDown(id, handle string, ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.ResizePointerDown(id, canvas.Handle(handle), ev) })
}

func (a *App) RotatePointerDown(id string, ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.RotatePointerDown(id, ev) })
}

// StartGuideDrag begins dragging a new guide out of a ruler.
func (a *App) StartGuideDrag(orientation string, ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) {
		e.StartGuideDrag(domain.GuideOrientation(orientation), ev)
	})
}

func (a *App) PointerMove(ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.PointerMove(ev) })
}

func (a *App) PointerUp(ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.PointerUp(ev) })
}

func (a *App) PointerLeave(ev canvas.PointerEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.PointerLeave(ev) })
}

func (a *App) Wheel(ev canvas.WheelEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.Wheel(ev) })
}

// Zoom is the toolbar zoom, anchored at the window center.
func (a *App) Zoom(delta float64) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.Zoom(delta, nil) })
}

// KeyResult tells the frontend whether to suppress the browser default.
type KeyResult struct {
	Consumed bool        `json:"consumed"`
	State    CanvasState `json:"state"`
}

func (a *App) KeyDown(ev canvas.KeyEvent) KeyResult {
	var consumed bool
	state := a.withEditor(func(e *canvas.Editor) { consumed = e.KeyDown(ev) })
	return KeyResult{Consumed: consumed, State: state}
}

func (a *App) KeyUp(ev canvas.KeyEvent) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.KeyUp(ev) })
}

// ============================================================
// Toolbar
// ============================================================

func (a *App) SetTool(tool string) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetTool(canvas.Tool(tool)) })
}

func (a *App) SetColor(color string) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetColor(color) })
}

func (a *App) SetStrokeWidth(width float64) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetStrokeWidth(width) })
}

func (a *App) SetFontSize(size float64) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetFontSize(size) })
}

func (a *App) SetShapeType(shape string) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SetShapeType(domain.ShapeType(shape)) })
}

func (a *App) SelectSticker(sticker string) CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SelectSticker(sticker) })
}

// Stickers returns the sticker palette.
func (a *App) Stickers() []string {
	return canvas.Stickers
}

// ============================================================
// Editing
// ============================================================

func (a *App) Undo() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.Undo() })
}

func (a *App) Redo() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.Redo() })
}

func (a *App) DeleteSelected() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.DeleteSelected() })
}

func (a *App) DuplicateSelected() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.DuplicateSelected() })
}

func (a *App) BringToFront() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.BringToFront() })
}

func (a *App) SendToBack() CanvasState {
	return a.withEditor(func(e *canvas.Editor) { e.SendToBack() })
}

// UpdateElement replaces one element with the frontend's edited copy
// (typing, pickers, checklist toggles). It is not recorded in history.
func (a *App) UpdateElement(el domain.Element) (CanvasState, error) {
	var found bool
	state := a.withEditor(func(e *canvas.Editor) {
		found = e.UpdateElement(el.ID, func(cur *domain.Element) { *cur = el.Clone() })
	})
	if !found {
		return state, fmt.Errorf("element %s not found", el.ID)
	}
	return state, nil
}

// ClearCanvas asks for confirmation with a native dialog before emptying
// the page. The dialog runs under the lock so no input lands meanwhile.
func (a *App) ClearCanvas() CanvasState {
	return a.withSession(func(s *service.Session) {
		s.ClearCanvas(a.ctx, a.confirm("Clear Canvas"))
	})
}

// InsertImage drops an already-encoded image (clipboard paste).
func (a *App) InsertImage(dataURL string) (CanvasState, error) {
	if _, err := render.DecodeDataURL(dataURL); err != nil {
		return a.GetCanvasState(), fmt.Errorf("insert image: %w", err)
	}
	return a.withEditor(func(e *canvas.Editor) { e.InsertImage(dataURL) }), nil
}

// UploadImage picks an image file and inserts it. The file is decoded
// before the lock is taken.
func (a *App) UploadImage() (CanvasState, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Insert Image",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Images", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.bmp;*.webp"},
		},
	})
	if err != nil || path == "" {
		return a.GetCanvasState(), err
	}
	url, err := inbox.LoadImage(path)
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to load image: %v", err)
		return a.GetCanvasState(), err
	}
	return a.withEditor(func(e *canvas.Editor) { e.InsertImage(url) }), nil
}

// ============================================================
// Pages
// ============================================================

func (a *App) AddPage() CanvasState {
	return a.withSession(func(s *service.Session) { s.AddPage(a.ctx) })
}

func (a *App) DeletePage(index int) CanvasState {
	return a.withSession(func(s *service.Session) { s.DeletePage(a.ctx, index) })
}

func (a *App) DuplicatePage(index int) CanvasState {
	return a.withSession(func(s *service.Session) { s.DuplicatePage(a.ctx, index) })
}

func (a *App) MovePage(index int, direction string) CanvasState {
	return a.withSession(func(s *service.Session) { s.MovePage(a.ctx, index, service.Direction(direction)) })
}

func (a *App) SelectPage(index int) CanvasState {
	return a.withSession(func(s *service.Session) { s.SelectPage(a.ctx, index) })
}

func (a *App) SetBackgroundColor(color string) CanvasState {
	return a.withSession(func(s *service.Session) { s.SetBackgroundColor(color) })
}

func (a *App) SetBackgroundPattern(pattern string) CanvasState {
	return a.withSession(func(s *service.Session) { s.SetBackgroundPattern(domain.BackgroundPattern(pattern)) })
}

func (a *App) ToggleGrid() CanvasState {
	return a.withSession(func(s *service.Session) { s.ToggleGrid() })
}

// PageThumbnail renders a page of the open project as a PNG data URL.
func (a *App) PageThumbnail(index, width, height int) (string, error) {
	a.mu.Lock()
	pages := a.session.Pages()
	if index < 0 || index >= len(pages) {
		a.mu.Unlock()
		return "", fmt.Errorf("page %d out of range", index)
	}
	page := pages[index].Clone()
	a.mu.Unlock()

	return render.ThumbnailDataURL(page, width, height)
}
