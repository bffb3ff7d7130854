package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"pixelia/internal/canvas"
	"pixelia/internal/domain"
	"pixelia/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Session: the open project and its pages
// ─────────────────────────────────────────────────────────────
//
// A Session owns the page list of the open project and points the editor
// at the active page. Every structural change to the page list resets the
// editor's history. Content is written back by Flush, which the host calls
// on a schedule and when the project is closed.

const (
	mobileBreakpoint  = 768
	sidebarBreakpoint = 1280
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Layout is the responsive state derived from the window size.
type Layout struct {
	Mobile      bool `json:"mobile"`
	ShowSidebar bool `json:"showSidebar"`
}

// LayoutFor classifies a window width.
func LayoutFor(width float64) Layout {
	mobile := width < mobileBreakpoint
	return Layout{Mobile: mobile, ShowSidebar: !mobile && width >= sidebarBreakpoint}
}

// PageSummary is the sidebar view of one page.
type PageSummary struct {
	ID           string `json:"id"`
	Index        int    `json:"index"`
	ElementCount int    `json:"elementCount"`
	Active       bool   `json:"active"`
}

type Session struct {
	mu       sync.Mutex // guards dirty; everything else is owned by the host's lock
	store    domain.ProjectStore
	projects *ProjectService
	editor   *canvas.Editor
	emitter  EventEmitter
	toasts   *Toaster

	project *domain.Project
	pages   []*domain.Page
	active  int
	dirty   bool
	layout  Layout
}

func NewSession(store domain.ProjectStore, projects *ProjectService, editor *canvas.Editor, emitter EventEmitter, toasts *Toaster) *Session {
	s := &Session{
		store:    store,
		projects: projects,
		editor:   editor,
		emitter:  emitter,
		toasts:   toasts,
		layout:   LayoutFor(float64(defaultWindowWidth)),
	}
	editor.OnChange(s.MarkDirty)
	return s
}

func (s *Session) Editor() *canvas.Editor { return s.editor }

// Project returns the open project, or nil on the dashboard.
func (s *Session) Project() *domain.Project { return s.project }

func (s *Session) Pages() []*domain.Page { return s.pages }
func (s *Session) ActiveIndex() int      { return s.active }
func (s *Session) Layout() Layout        { return s.layout }

func (s *Session) ActivePage() *domain.Page {
	if s.project == nil || len(s.pages) == 0 {
		return nil
	}
	return s.pages[s.active]
}

// Summaries lists the pages for the sidebar.
func (s *Session) Summaries() []PageSummary {
	out := make([]PageSummary, len(s.pages))
	for i, p := range s.pages {
		out[i] = PageSummary{ID: p.ID, Index: i, ElementCount: len(p.Elements), Active: i == s.active}
	}
	return out
}

// ── Open / close ────────────────────────────────────────────

// Open loads the project's pages and shows the first one. Missing or
// unreadable content starts the project over with a single blank page.
func (s *Session) Open(ctx context.Context, projectID string) error {
	p, ok := s.projects.Get(projectID)
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	if s.project != nil {
		if err := s.Close(ctx); err != nil {
			return err
		}
	}

	pages, err := s.store.LoadPages(projectID)
	switch {
	case err == nil && len(pages) > 0:
		s.editor.SetViewport(canvas.OpenedViewport(s.layout.Mobile))
	default:
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[session] reinitializing %s: %v", projectID, err)
		}
		pages = []*domain.Page{domain.NewPage(uuid.New().String())}
		s.editor.SetViewport(canvas.DefaultViewport(s.layout.Mobile))
	}

	s.project = &p
	s.pages = pages
	s.selectPage(0)
	s.setDirty(false)
	s.emitter.Emit(ctx, EventPagesChange, nil)
	return nil
}

// Close writes the pages back, stamps the project and returns to the
// dashboard state.
func (s *Session) Close(ctx context.Context) error {
	if s.project == nil {
		return nil
	}
	s.setDirty(true)
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.projects.Touch(ctx, s.project.ID); err != nil {
		log.Printf("[session] touch %s: %v", s.project.ID, err)
	}
	s.project = nil
	s.pages = nil
	s.active = 0
	s.editor.SetPresenting(false)
	s.editor.SetPage(nil)
	return nil
}

// Reload re-reads the open project's pages after another process wrote
// them. Unsaved local edits are dropped; the active page is kept when it
// still exists.
func (s *Session) Reload(ctx context.Context) error {
	if s.project == nil {
		return nil
	}
	pages, err := s.store.LoadPages(s.project.ID)
	if err != nil {
		return fmt.Errorf("reload %s: %w", s.project.ID, err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("reload %s: no pages", s.project.ID)
	}
	active := 0
	if cur := s.ActivePage(); cur != nil {
		for i, p := range pages {
			if p.ID == cur.ID {
				active = i
				break
			}
		}
	}
	s.pages = pages
	s.selectPage(active)
	s.setDirty(false)
	s.emitter.Emit(ctx, EventPagesChange, nil)
	s.emitter.Emit(ctx, EventCanvasChange, nil)
	return nil
}

// ── Persistence ─────────────────────────────────────────────

func (s *Session) MarkDirty() { s.setDirty(true) }

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) setDirty(d bool) {
	s.mu.Lock()
	s.dirty = d
	s.mu.Unlock()
}

// Flush saves the page list when it has unsaved changes.
func (s *Session) Flush() error {
	if s.project == nil || !s.Dirty() {
		return nil
	}
	if err := s.store.SavePages(s.project.ID, s.pages); err != nil {
		return fmt.Errorf("save pages of %s: %w", s.project.ID, err)
	}
	s.setDirty(false)
	return nil
}

// ── Page list ───────────────────────────────────────────────

func (s *Session) selectPage(i int) {
	s.active = i
	s.editor.SetPage(s.pages[i])
}

func (s *Session) pagesChanged(ctx context.Context) {
	s.MarkDirty()
	s.emitter.Emit(ctx, EventPagesChange, nil)
}

// AddPage appends a blank page and makes it active.
func (s *Session) AddPage(ctx context.Context) {
	if s.project == nil {
		return
	}
	s.pages = append(s.pages, domain.NewPage(uuid.New().String()))
	s.selectPage(len(s.pages) - 1)
	s.pagesChanged(ctx)
}

// DeletePage removes page i. The last remaining page cannot be deleted.
func (s *Session) DeletePage(ctx context.Context, i int) {
	if s.project == nil || len(s.pages) <= 1 || i < 0 || i >= len(s.pages) {
		return
	}
	s.pages = append(s.pages[:i:i], s.pages[i+1:]...)
	active := s.active
	if active >= len(s.pages) {
		active = len(s.pages) - 1
	} else if active > i {
		active--
	}
	s.selectPage(active)
	s.pagesChanged(ctx)
}

// DuplicatePage inserts a deep copy of page i after it, with fresh ids.
func (s *Session) DuplicatePage(ctx context.Context, i int) {
	if s.project == nil || i < 0 || i >= len(s.pages) {
		return
	}
	dup := s.pages[i].Clone()
	dup.ID = uuid.New().String()
	for j := range dup.Elements {
		dup.Elements[j].ID = uuid.New().String()
	}

	pages := make([]*domain.Page, 0, len(s.pages)+1)
	pages = append(pages, s.pages[:i+1]...)
	pages = append(pages, dup)
	pages = append(pages, s.pages[i+1:]...)
	s.pages = pages
	s.selectPage(i + 1)
	s.pagesChanged(ctx)
}

// MovePage swaps page i with its neighbour. The active page follows.
func (s *Session) MovePage(ctx context.Context, i int, dir Direction) {
	if s.project == nil || i < 0 || i >= len(s.pages) {
		return
	}
	target := i - 1
	if dir == Down {
		target = i + 1
	}
	if target < 0 || target >= len(s.pages) {
		return
	}
	s.pages[i], s.pages[target] = s.pages[target], s.pages[i]
	active := s.active
	switch active {
	case i:
		active = target
	case target:
		active = i
	}
	s.selectPage(active)
	s.pagesChanged(ctx)
}

// SelectPage switches the editor to page i.
func (s *Session) SelectPage(ctx context.Context, i int) {
	if s.project == nil || i < 0 || i >= len(s.pages) {
		return
	}
	s.selectPage(i)
	s.emitter.Emit(ctx, EventPagesChange, nil)
}

// ── Page appearance ─────────────────────────────────────────

func (s *Session) SetBackgroundColor(color string) {
	if p := s.ActivePage(); p != nil {
		p.BackgroundColor = color
		s.MarkDirty()
	}
}

func (s *Session) SetBackgroundPattern(pattern domain.BackgroundPattern) {
	if p := s.ActivePage(); p != nil {
		p.BackgroundPattern = pattern
		s.MarkDirty()
	}
}

// ToggleGrid switches between the grid pattern and none.
func (s *Session) ToggleGrid() {
	p := s.ActivePage()
	if p == nil {
		return
	}
	if p.BackgroundPattern == domain.PatternGrid {
		s.SetBackgroundPattern(domain.PatternNone)
	} else {
		s.SetBackgroundPattern(domain.PatternGrid)
	}
}

// ── View ────────────────────────────────────────────────────

// Resize records the window size and recomputes the layout.
func (s *Session) Resize(width, height float64) Layout {
	s.editor.SetWindow(canvas.Size{Width: width, Height: height})
	s.layout = LayoutFor(width)
	return s.layout
}

func (s *Session) SetPresenting(on bool) {
	if s.project == nil {
		on = false
	}
	s.editor.SetPresenting(on)
}

// ClearCanvas empties the active page after confirmation.
func (s *Session) ClearCanvas(ctx context.Context, confirm canvas.Confirmer) bool {
	if !s.editor.ClearCanvas(confirm) {
		return false
	}
	s.toasts.Show(ctx, Toast{Message: "Canvas Cleared", Type: ToastSuccess})
	return true
}
