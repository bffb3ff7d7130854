package app

import (
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pixelia/internal/service"
)

// ============================================================
// Dashboard
// ============================================================

// GetDashboard lists projects for the dashboard. filter is "all" or
// "starred"; search matches titles case-insensitively.
func (a *App) GetDashboard(filter, search string) DashboardState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return DashboardState{
		Projects:    a.projects.List(service.ProjectFilter(filter), search),
		Preferences: a.settings.Preferences(),
		Languages:   service.Languages,
	}
}

// CreateProject makes a new board and opens it.
func (a *App) CreateProject() (CanvasState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, err := a.projects.Create(a.ctx)
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to create project: %v", err)
		return a.canvasState(), err
	}
	if err := a.session.Open(a.ctx, p.ID); err != nil {
		return a.canvasState(), err
	}
	return a.canvasState(), nil
}

func (a *App) OpenProject(id string) (CanvasState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.Open(a.ctx, id); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to open project %s: %v", id, err)
		return a.canvasState(), err
	}
	return a.canvasState(), nil
}

// CloseProject saves the open board and goes back to the dashboard.
func (a *App) CloseProject() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.Close(a.ctx); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to save project: %v", err)
		return err
	}
	return nil
}

func (a *App) RenameProject(id, title string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.projects.Rename(a.ctx, id, title)
}

func (a *App) ToggleStar(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.projects.ToggleStar(a.ctx, id)
}

// DeleteProject removes a project after a native confirmation. It reports
// whether the project was deleted.
func (a *App) DeleteProject(id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.projects.Get(id)
	if !ok {
		return false, fmt.Errorf("project %s not found", id)
	}
	if !a.confirm("Delete Project")(fmt.Sprintf("Delete %q? This cannot be undone.", p.Title)) {
		return false, nil
	}
	if open := a.session.Project(); open != nil && open.ID == id {
		if err := a.session.Close(a.ctx); err != nil {
			return false, err
		}
	}
	if err := a.projects.Delete(a.ctx, id); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to delete project %s: %v", id, err)
		return false, err
	}
	return true, nil
}

// ============================================================
// Share & export
// ============================================================

// ShareProject copies the open board's link to the clipboard.
func (a *App) ShareProject() bool {
	a.mu.Lock()
	p := a.session.Project()
	a.mu.Unlock()
	if p == nil {
		return false
	}
	return a.share.Share(a.ctx, p.ID)
}

// Export runs the export toast sequence. format is "PNG" or "PDF".
func (a *App) Export(format string) error {
	return a.export.Export(a.ctx, service.ExportFormat(format))
}

// ============================================================
// Settings
// ============================================================

func (a *App) SetDarkMode(on bool) (service.Preferences, error) {
	if err := a.settings.SetDarkMode(on); err != nil {
		return a.settings.Preferences(), err
	}
	return a.settings.Preferences(), nil
}

func (a *App) SetNotifications(on bool) (service.Preferences, error) {
	if err := a.settings.SetNotifications(on); err != nil {
		return a.settings.Preferences(), err
	}
	return a.settings.Preferences(), nil
}

func (a *App) SetLanguage(code string) (service.Preferences, error) {
	if err := a.settings.SetLanguage(code); err != nil {
		return a.settings.Preferences(), err
	}
	return a.settings.Preferences(), nil
}
