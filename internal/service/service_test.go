package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pixelia/internal/service"
)

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "test:event", map[string]string{"foo": "bar"})
	m.Emit(ctx, "test:event2", nil)

	if len(m.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(m.Events))
	}
	if m.Events[0].Event != "test:event" {
		t.Errorf("expected 'test:event', got %q", m.Events[0].Event)
	}
	if len(m.Named("test:event2")) != 1 {
		t.Error("expected Named to filter by event")
	}
}

// ─────────────────────────────────────────────────────────────
// Toasts
// ─────────────────────────────────────────────────────────────

// waitFor polls until n toast events have been emitted.
func waitFor(t *testing.T, m *service.MockEmitter, n int) []service.EmittedEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := m.Named(service.EventToast); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d toasts, got %+v", n, m.Named(service.EventToast))
	return nil
}

func message(ev service.EmittedEvent) string {
	if ev.Data == nil {
		return ""
	}
	return ev.Data.(service.Toast).Message
}

func TestExport_ToastSequence(t *testing.T) {
	m := &service.MockEmitter{}
	toasts := service.NewToaster(m)
	toasts.Lifetime = 20 * time.Millisecond
	exp := service.NewExportService(toasts)
	exp.Delay = 10 * time.Millisecond

	if err := exp.Export(context.Background(), service.ExportPDF); err != nil {
		t.Fatal(err)
	}

	got := waitFor(t, m, 3)
	want := []string{"Exporting as PDF...", "Export Successful!", ""}
	for i, w := range want {
		if message(got[i]) != w {
			t.Errorf("toast %d: got %q, want %q", i, message(got[i]), w)
		}
	}
	if got[1].Data.(service.Toast).Type != service.ToastSuccess {
		t.Error("success toast has the wrong type")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	m := &service.MockEmitter{}
	exp := service.NewExportService(service.NewToaster(m))
	if err := exp.Export(context.Background(), "SVG"); err == nil {
		t.Error("expected error for SVG")
	}
	if len(m.Events) != 0 {
		t.Error("rejected export must not toast")
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestShare(t *testing.T) {
	m := &service.MockEmitter{}
	clip := &fakeClipboard{}
	s := service.NewShareService(clip, service.NewToaster(m), "pixelia://project/")

	if !s.Share(context.Background(), "abc") {
		t.Fatal("share reported failure")
	}
	if clip.text != "pixelia://project/abc" {
		t.Errorf("clipboard got %q", clip.text)
	}
	if got := m.Named(service.EventToast); message(got[0]) != "Link copied to clipboard!" {
		t.Errorf("unexpected toast %+v", got)
	}
}

func TestShare_ClipboardFailure(t *testing.T) {
	m := &service.MockEmitter{}
	s := service.NewShareService(&fakeClipboard{err: errors.New("no display")}, service.NewToaster(m), "x/")

	if s.Share(context.Background(), "abc") {
		t.Fatal("expected failure")
	}
	got := m.Named(service.EventToast)
	if message(got[0]) != "Failed to copy link" || got[0].Data.(service.Toast).Type != service.ToastInfo {
		t.Errorf("unexpected toast %+v", got)
	}
}

func TestToaster_NewToastRestartsTimer(t *testing.T) {
	m := &service.MockEmitter{}
	toasts := service.NewToaster(m)
	toasts.Lifetime = 40 * time.Millisecond
	ctx := context.Background()

	toasts.Show(ctx, service.Toast{Message: "one"})
	time.Sleep(20 * time.Millisecond)
	toasts.Show(ctx, service.Toast{Message: "two"})

	got := waitFor(t, m, 3)
	if message(got[1]) != "two" || got[2].Data != nil {
		t.Errorf("unexpected sequence %+v", got)
	}
	time.Sleep(60 * time.Millisecond)
	if n := len(m.Named(service.EventToast)); n != 3 {
		t.Errorf("the replaced toast must not clear twice, got %d events", n)
	}
}

func TestToaster_ConcurrentShowsClearOnce(t *testing.T) {
	m := &service.MockEmitter{}
	toasts := service.NewToaster(m)
	toasts.Lifetime = 100 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			toasts.Show(ctx, service.Toast{Message: "saved"})
		}()
	}
	wg.Wait()
	time.Sleep(400 * time.Millisecond)

	clears := 0
	for _, ev := range m.Named(service.EventToast) {
		if ev.Data == nil {
			clears++
		}
	}
	if clears != 1 {
		t.Errorf("expected exactly one clear after the last toast, got %d", clears)
	}
}
