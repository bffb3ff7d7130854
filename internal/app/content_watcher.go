package app

import (
	"context"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	mcpserver "pixelia/internal/mcp"
	"pixelia/internal/service"
	"pixelia/internal/storage"
)

// contentWatcher polls the database for writes made by another process
// (a standalone MCP server sharing the data directory) and brings the
// open project and the frontend up to date.
type contentWatcher struct {
	ctx    context.Context
	app    *App
	stopCh chan struct{}
	done   chan struct{}

	// Guarded by app.mu.
	projectID    string
	lastContent  int64
	lastProjects int64
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newContentWatcher(ctx context.Context, app *App) *contentWatcher {
	return &contentWatcher{ctx: ctx, app: app, emittedApprovals: map[string]bool{}}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *contentWatcher) Start() {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop and waits for it to exit.
func (w *contentWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		<-w.done
	}
}

// Saved records that the app itself just wrote the project's content, so
// the next poll does not mistake it for an external change. Must be
// called with app.mu held.
func (w *contentWatcher) Saved(projectID string) {
	if projectID != w.projectID {
		return
	}
	if v, err := w.app.kv.Version(storage.ContentKey(projectID)); err == nil {
		w.lastContent = v
	}
}

func (w *contentWatcher) pollLoop() {
	defer close(w.done)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *contentWatcher) check() {
	a := w.app
	a.mu.Lock()
	defer a.mu.Unlock()

	// ── Open project content ────────────────────────────
	if p := a.session.Project(); p == nil {
		w.projectID = ""
	} else if v, err := a.kv.Version(storage.ContentKey(p.ID)); err == nil {
		switch {
		case p.ID != w.projectID:
			// Switched projects: take the current version as the baseline.
			w.projectID = p.ID
			w.lastContent = v
		case v != w.lastContent:
			w.lastContent = v
			w.reload()
		}
	}

	// ── Project list (dashboard refresh) ────────────────
	if v, err := a.kv.Version(storage.KeyProjects); err == nil {
		if w.lastProjects != 0 && v != w.lastProjects {
			wailsRuntime.EventsEmit(w.ctx, service.EventProjects, nil)
		}
		w.lastProjects = v
	}

	// ── Pending MCP approvals (cross-process IPC) ───────
	pending, err := mcpserver.PendingApprovals(a.kv)
	if err != nil {
		return
	}
	live := make(map[string]bool, len(pending))
	for _, action := range pending {
		live[action.ID] = true
		if w.emittedApprovals[action.ID] {
			continue
		}
		w.emittedApprovals[action.ID] = true
		wailsRuntime.EventsEmit(w.ctx, "mcp:activity", map[string]any{"changes": 1})
		wailsRuntime.EventsEmit(w.ctx, mcpserver.EventApprovalRequired, action)
	}
	// Requests the server answered, timed out or withdrew
	for id := range w.emittedApprovals {
		if !live[id] {
			delete(w.emittedApprovals, id)
			wailsRuntime.EventsEmit(w.ctx, mcpserver.EventApprovalDismissed, map[string]string{"id": id})
		}
	}
}

// reload replaces the open project's pages with what another process
// wrote. Unsaved local edits win; they overwrite the external change on
// the next autosave.
func (w *contentWatcher) reload() {
	a := w.app
	if a.session.Dirty() {
		wailsRuntime.LogInfof(w.ctx, "[watcher] %s changed externally; keeping local edits", w.projectID)
		return
	}
	if err := a.session.Reload(w.ctx); err != nil {
		wailsRuntime.LogErrorf(w.ctx, "[watcher] reload %s: %v", w.projectID, err)
		return
	}
	wailsRuntime.EventsEmit(w.ctx, "mcp:activity", map[string]any{"changes": 1})
}
