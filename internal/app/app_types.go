package app

import (
	"pixelia/internal/canvas"
	"pixelia/internal/domain"
	"pixelia/internal/service"
)

// CanvasState is what every canvas binding returns: the editor view plus
// the page chrome around it.
type CanvasState struct {
	canvas.State
	ProjectID         string                   `json:"projectId"`
	ProjectTitle      string                   `json:"projectTitle"`
	Pages             []service.PageSummary    `json:"pages"`
	ActivePage        int                      `json:"activePage"`
	BackgroundColor   string                   `json:"backgroundColor"`
	BackgroundPattern domain.BackgroundPattern `json:"backgroundPattern"`
	Layout            service.Layout           `json:"layout"`
	Dirty             bool                     `json:"dirty"`
}

// DashboardState is the project list screen.
type DashboardState struct {
	Projects    []domain.Project    `json:"projects"`
	Preferences service.Preferences `json:"preferences"`
	Languages   []service.Language  `json:"languages"`
}

// canvasState builds the frontend view. Must be called with a.mu held.
func (a *App) canvasState() CanvasState {
	s := CanvasState{
		State:  a.session.Editor().State(),
		Pages:  a.session.Summaries(),
		Layout: a.session.Layout(),
		Dirty:  a.session.Dirty(),
	}
	s.ActivePage = a.session.ActiveIndex()
	if p := a.session.Project(); p != nil {
		s.ProjectID = p.ID
		s.ProjectTitle = p.Title
		// Renames go through the project list, not the session's copy.
		if cur, ok := a.projects.Get(p.ID); ok {
			s.ProjectTitle = cur.Title
		}
	}
	if page := a.session.ActivePage(); page != nil {
		s.BackgroundColor = page.BackgroundColor
		s.BackgroundPattern = page.BackgroundPattern
	}
	return s
}
