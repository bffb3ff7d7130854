package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pixelia/internal/config"
	"pixelia/internal/domain"
	mcpserver "pixelia/internal/mcp"
	"pixelia/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It shares the desktop app's database, so a running desktop window picks
// up the agent's edits and answers its approval requests.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load(config.DefaultPath())

	var kv storage.KV
	var approvalKV storage.KV
	db, err := storage.New(cfg.DBPath(), cfg.DataDir)
	if err != nil {
		// Boards live only as long as the process; approvals stay in-process
		// and time out since no desktop app can see them.
		log.Printf("[MCP] database unavailable, using memory store: %v", err)
		kv = storage.NewMemKV()
	} else {
		defer db.Close()
		kv = storage.NewKVStore(db)
		approvalKV = kv
	}

	svc := newServices(cfg, kv, noopEmitter{})

	// Pointer tools take window coordinates; lay out an imaginary window of
	// the size the desktop app last had.
	size := svc.settings.LoadWindowSize()
	w, h := float64(size.Width), float64(size.Height)
	svc.session.Resize(w, h)
	svc.session.Editor().SetSurface(&domain.Rect{Width: w, Height: h})

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    noopEmitter{},
		Projects:   svc.projects,
		Session:    svc.session,
		ApprovalKV: approvalKV,
	})

	if err := mcpSrv.ServeStdio(); err != nil {
		log.Printf("MCP server error: %v", err)
	}

	if err := svc.session.Close(context.Background()); err != nil {
		log.Printf("[MCP] save on exit: %v", err)
	}
}
