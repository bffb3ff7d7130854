package app

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pixelia/internal/canvas"
	"pixelia/internal/config"
	"pixelia/internal/inbox"
	mcpserver "pixelia/internal/mcp"
	"pixelia/internal/service"
	"pixelia/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context
	cfg config.Config

	// mu serializes everything that touches the editor or the session:
	// bound methods, inbox deliveries, autosave and the content watcher.
	mu sync.Mutex

	db       *storage.DB
	kv       *storage.KVStore
	projects *service.ProjectService
	session  *service.Session
	settings *service.SettingsService
	share    *service.ShareService
	export   *service.ExportService

	inbox   *inbox.Watcher
	cron    *cron.Cron
	watcher *contentWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// services is the engine wiring shared by the desktop app and the
// standalone MCP server.
type services struct {
	projects *service.ProjectService
	session  *service.Session
	settings *service.SettingsService
	toasts   *service.Toaster
}

func newServices(cfg config.Config, kv storage.KV, emitter service.EventEmitter) services {
	store := storage.NewProjectStore(kv)
	var snapper canvas.Snapper = canvas.IdentitySnapper{}
	if cfg.Snapping {
		snapper = canvas.AlignSnapper{Tolerance: cfg.SnapTolerance}
	}
	editor := canvas.NewEditor(canvas.Options{HistoryLimit: cfg.HistoryLimit, Snapper: snapper})

	toasts := service.NewToaster(emitter)
	projects := service.NewProjectService(store, emitter)
	return services{
		projects: projects,
		session:  service.NewSession(store, projects, editor, emitter, toasts),
		settings: service.NewSettingsService(kv),
		toasts:   toasts,
	}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.cfg = config.Load(config.DefaultPath())

	db, err := storage.New(a.cfg.DBPath(), a.cfg.DataDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.kv = storage.NewKVStore(db)

	svc := newServices(a.cfg, a.kv, wailsEmitter{})
	a.projects = svc.projects
	a.session = svc.session
	a.settings = svc.settings
	a.share = service.NewShareService(service.SystemClipboard(), svc.toasts, a.cfg.ShareBaseURL)
	a.export = service.NewExportService(svc.toasts)

	size := a.settings.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
	a.session.Resize(float64(size.Width), float64(size.Height))

	if a.cfg.Inbox {
		w, err := inbox.New(a.cfg.InboxDir(), a.onInboxImage)
		if err != nil {
			wailsRuntime.LogErrorf(ctx, "Failed to watch inbox: %v", err)
		}
		a.inbox = w
	}

	a.cron = cron.New()
	if _, err := a.cron.AddFunc(a.cfg.Autosave, a.autosave); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to schedule autosave %q: %v", a.cfg.Autosave, err)
	}
	a.cron.Start()

	a.watcher = newContentWatcher(ctx, a)
	a.watcher.Start()

	wailsRuntime.LogInfof(ctx, "[app] data in %s", a.cfg.DataDir)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.inbox != nil {
		a.inbox.Close()
	}

	a.mu.Lock()
	if a.session != nil {
		if err := a.session.Close(ctx); err != nil {
			wailsRuntime.LogErrorf(ctx, "Failed to save on exit: %v", err)
		}
	}
	a.mu.Unlock()

	if a.db != nil {
		a.db.Close()
	}
}

// autosave runs on the cron schedule.
func (a *App) autosave() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.Flush(); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Autosave failed: %v", err)
		return
	}
	if p := a.session.Project(); p != nil {
		a.watcher.Saved(p.ID)
	}
}

// onInboxImage runs on an inbox decode goroutine.
func (a *App) onInboxImage(name, dataURL string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session.Project() == nil {
		wailsRuntime.LogInfof(a.ctx, "[inbox] no project open, ignoring %s", name)
		return
	}
	a.session.Editor().InsertImage(dataURL)
	wailsRuntime.EventsEmit(a.ctx, service.EventCanvasChange, a.canvasState())
}

// confirm asks a yes/no question with a native dialog.
func (a *App) confirm(title string) canvas.Confirmer {
	return func(message string) bool {
		answer, err := wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
			Type:          wailsRuntime.QuestionDialog,
			Title:         title,
			Message:       message,
			Buttons:       []string{"Yes", "No"},
			DefaultButton: "No",
			CancelButton:  "No",
		})
		if err != nil {
			wailsRuntime.LogErrorf(a.ctx, "Confirmation dialog failed: %v", err)
			return false
		}
		return answer == "Yes"
	}
}

// ============================================================
// MCP approvals (answered for a standalone server)
// ============================================================

// ApproveAction approves a destructive action requested by an agent.
func (a *App) ApproveAction(actionID string) error {
	return mcpserver.ResolveApproval(a.kv, actionID, true)
}

// RejectAction rejects a destructive action requested by an agent.
func (a *App) RejectAction(actionID string) error {
	return mcpserver.ResolveApproval(a.kv, actionID, false)
}
