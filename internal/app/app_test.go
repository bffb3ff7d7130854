package app

import (
	"context"
	"testing"

	"pixelia/internal/canvas"
	"pixelia/internal/config"
	"pixelia/internal/domain"
	"pixelia/internal/service"
	"pixelia/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Service wiring
// ─────────────────────────────────────────────────────────────

func placeNote(e *canvas.Editor, x, y float64) {
	e.SetTool(canvas.ToolNote)
	e.PointerDown(canvas.PointerEvent{X: x, Y: y, OnCanvas: true})
}

func TestNewServices_SharedStore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemKV()
	cfg := config.Default()

	first := newServices(cfg, kv, &service.MockEmitter{})
	p, err := first.projects.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := first.session.Open(ctx, p.ID); err != nil {
		t.Fatalf("open: %v", err)
	}
	first.session.Editor().SetSurface(&domain.Rect{Width: 1000, Height: 800})
	placeNote(first.session.Editor(), 400, 300)
	if err := first.session.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	// A second process over the same store sees the board.
	second := newServices(cfg, kv, &service.MockEmitter{})
	if err := second.session.Open(ctx, p.ID); err != nil {
		t.Fatalf("open in second: %v", err)
	}
	if n := len(second.session.ActivePage().Elements); n != 1 {
		t.Fatalf("expected 1 element in second session, got %d", n)
	}
}

func TestNewServices_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.HistoryLimit = 2

	svc := newServices(cfg, storage.NewMemKV(), &service.MockEmitter{})
	p, err := svc.projects.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.session.Open(ctx, p.ID); err != nil {
		t.Fatalf("open: %v", err)
	}
	e := svc.session.Editor()
	e.SetSurface(&domain.Rect{Width: 1000, Height: 800})
	for i := 0; i < 3; i++ {
		placeNote(e, 100+float64(i)*250, 300)
	}

	if got := e.History().Len(); got != 2 {
		t.Errorf("expected history bounded to 2, got %d", got)
	}
	e.Undo()
	if e.History().CanUndo() {
		t.Error("the evicted origin should not be reachable")
	}
	if n := len(e.Elements()); n != 2 {
		t.Errorf("expected 2 elements after one undo, got %d", n)
	}
}
