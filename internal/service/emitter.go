package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting events to the frontend.
// The App struct implements this by delegating to wailsRuntime.EventsEmit.
// Services receive this interface instead of a wailsRuntime context,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

const (
	EventToast        = "toast"
	EventCanvasChange = "canvas:changed"
	EventPagesChange  = "pages:changed"
	EventProjects     = "projects:changed"
)

type ToastType string

const (
	ToastInfo    ToastType = "info"
	ToastSuccess ToastType = "success"
)

// Toast is the payload of EventToast. A nil payload clears the toast.
type Toast struct {
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// Timer-driven services emit from other goroutines, hence the lock.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Snapshot returns a copy of the recorded events.
func (m *MockEmitter) Snapshot() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmittedEvent(nil), m.Events...)
}

// Named returns the recorded events with the given name.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	var out []EmittedEvent
	for _, e := range m.Snapshot() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
