package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ─────────────────────────────────────────────────────────────
// Toasts
// ─────────────────────────────────────────────────────────────

const DefaultToastLifetime = 3 * time.Second

// Toaster shows one transient message at a time. A new toast replaces the
// current one and restarts the clear timer.
type Toaster struct {
	emitter  EventEmitter
	Lifetime time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64 // bumped by every toast; a clear timer only acts on its own
}

func NewToaster(emitter EventEmitter) *Toaster {
	return &Toaster{emitter: emitter, Lifetime: DefaultToastLifetime}
}

// Show emits t and schedules it to clear.
func (t *Toaster) Show(ctx context.Context, toast Toast) { t.emit(ctx, toast, true) }

// hold emits t without a clear timer, for progress messages.
func (t *Toaster) hold(ctx context.Context, toast Toast) { t.emit(ctx, toast, false) }

// emit replaces the current toast. Stopping the old timer, emitting and
// arming the new one happen in one critical section so concurrent toasts
// cannot leave a stray timer behind.
func (t *Toaster) emit(ctx context.Context, toast Toast, clear bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.emitter.Emit(ctx, EventToast, toast)
	if !clear {
		return
	}
	gen := t.gen
	t.timer = time.AfterFunc(t.Lifetime, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// A timer that fired just as it was stopped must not clear a newer toast.
		if t.gen != gen {
			return
		}
		t.timer = nil
		t.emitter.Emit(ctx, EventToast, nil)
	})
}

// ─────────────────────────────────────────────────────────────
// Share
// ─────────────────────────────────────────────────────────────

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the OS clipboard.
func SystemClipboard() Clipboard { return systemClipboard{} }

// ShareService copies a project's link to the clipboard.
type ShareService struct {
	clip    Clipboard
	toasts  *Toaster
	baseURL string
}

func NewShareService(clip Clipboard, toasts *Toaster, baseURL string) *ShareService {
	return &ShareService{clip: clip, toasts: toasts, baseURL: baseURL}
}

func (s *ShareService) Link(projectID string) string {
	return s.baseURL + projectID
}

// Share reports whether the link reached the clipboard. Failure is only
// surfaced as a toast.
func (s *ShareService) Share(ctx context.Context, projectID string) bool {
	if err := s.clip.WriteAll(s.Link(projectID)); err != nil {
		log.Printf("[share] clipboard: %v", err)
		s.toasts.Show(ctx, Toast{Message: "Failed to copy link", Type: ToastInfo})
		return false
	}
	s.toasts.Show(ctx, Toast{Message: "Link copied to clipboard!", Type: ToastSuccess})
	return true
}

// ─────────────────────────────────────────────────────────────
// Export
// ─────────────────────────────────────────────────────────────

type ExportFormat string

const (
	ExportPNG ExportFormat = "PNG"
	ExportPDF ExportFormat = "PDF"
)

const defaultExportDelay = 1500 * time.Millisecond

// ExportService walks the export toast sequence. It does not write files.
type ExportService struct {
	toasts *Toaster
	Delay  time.Duration
}

func NewExportService(toasts *Toaster) *ExportService {
	return &ExportService{toasts: toasts, Delay: defaultExportDelay}
}

func (s *ExportService) Export(ctx context.Context, format ExportFormat) error {
	if format != ExportPNG && format != ExportPDF {
		return fmt.Errorf("unsupported export format %q", format)
	}
	s.toasts.hold(ctx, Toast{Message: fmt.Sprintf("Exporting as %s...", format), Type: ToastInfo})
	time.AfterFunc(s.Delay, func() {
		s.toasts.Show(ctx, Toast{Message: "Export Successful!", Type: ToastSuccess})
	})
	return nil
}
