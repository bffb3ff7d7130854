package inbox_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pixelia/internal/inbox"
	"pixelia/internal/render"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// ─────────────────────────────────────────────────────────────
// LoadImage
// ─────────────────────────────────────────────────────────────

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	os.WriteFile(good, pngBytes(t), 0644)

	url, err := inbox.LoadImage(good)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected data URL %.30s", url)
	}

	fake := filepath.Join(dir, "b.png")
	os.WriteFile(fake, []byte("not an image"), 0644)
	if _, err := inbox.LoadImage(fake); err == nil {
		t.Error("expected decode error for a fake png")
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.PNG": true, "b.webp": true, "c.bmp": true, "d.txt": false, "e": false,
	} {
		if got := inbox.Supported(name); got != want {
			t.Errorf("%s: got %v", name, got)
		}
	}
}

// ─────────────────────────────────────────────────────────────
// Watcher
// ─────────────────────────────────────────────────────────────

func TestWatcher_DeliversDroppedImage(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)
	w, err := inbox.New(filepath.Join(dir, "inbox"), func(name, url string) {
		got <- name
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// Write elsewhere and rename in so the watcher sees a complete file.
	tmp := filepath.Join(dir, "staging.png")
	os.WriteFile(tmp, pngBytes(t), 0644)
	os.WriteFile(filepath.Join(w.Dir(), "notes.txt"), []byte("ignored"), 0644)
	if err := os.Rename(tmp, filepath.Join(w.Dir(), "photo.png")); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-got:
		if name != "photo.png" {
			t.Errorf("unexpected file %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the image")
	}

	select {
	case name := <-got:
		t.Errorf("image delivered twice (%s)", name)
	case <-time.After(200 * time.Millisecond):
	}
}

// writeInChunks writes data into path in two halves with a pause between
// them, the way a slow copy or a browser download lands.
func writeInChunks(t *testing.T, path string, data []byte, pause time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	half := len(data) / 2
	if _, err := f.Write(data[:half]); err != nil {
		t.Fatal(err)
	}
	f.Sync()
	time.Sleep(pause)
	if _, err := f.Write(data[half:]); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_ChunkedWriteDeliveredOnce(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	// Shorter than the settle delay, and longer than it.
	for _, pause := range []time.Duration{50 * time.Millisecond, inbox.SettleDelay * 2} {
		t.Run(pause.String(), func(t *testing.T) {
			got := make(chan string, 4)
			w, err := inbox.New(filepath.Join(t.TempDir(), "inbox"), func(_, url string) {
				got <- url
			})
			if err != nil {
				t.Fatal(err)
			}
			defer w.Close()

			writeInChunks(t, filepath.Join(w.Dir(), "scan.png"), buf.Bytes(), pause)

			select {
			case url := <-got:
				decoded, err := render.DecodeDataURL(url)
				if err != nil {
					t.Fatalf("delivered image does not decode: %v", err)
				}
				if b := decoded.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
					t.Errorf("expected the whole 200x200 image, got %v", b)
				}
			case <-time.After(3 * time.Second):
				t.Fatal("timed out waiting for the image")
			}

			select {
			case <-got:
				t.Error("one dropped file was delivered twice")
			case <-time.After(inbox.SettleDelay * 2):
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// settler
// ─────────────────────────────────────────────────────────────

func TestSettler_BurstSettlesOnce(t *testing.T) {
	var mu sync.Mutex
	var settled []string
	s := inbox.NewExportedSettler(80*time.Millisecond, func(path string) {
		mu.Lock()
		settled = append(settled, path)
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		s.Touch("a.png")
		time.Sleep(10 * time.Millisecond)
	}
	s.Touch("b.png")
	if n := s.Pending(); n != 2 {
		t.Errorf("expected 2 pending paths, got %d", n)
	}

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(settled) != 2 {
		t.Fatalf("expected one delivery per path, got %v", settled)
	}
	if s.Pending() != 0 {
		t.Error("settled paths must leave the pending set")
	}
}

func TestSettler_CloseDropsPendingAndWaits(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	s := inbox.NewExportedSettler(100*time.Millisecond, func(path string) {
		calls.Add(1)
		if path == "slow.png" {
			<-release
		}
	})

	s.Touch("slow.png")
	time.Sleep(150 * time.Millisecond) // slow.png is now being delivered
	s.Touch("late.png")

	closed := make(chan struct{})
	go func() {
		s.Close(context.Background())
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a delivery was in flight")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the delivery finished")
	}

	time.Sleep(30 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("the pending path should have been dropped, got %d deliveries", n)
	}
	s.Touch("after.png")
	if s.Pending() != 0 {
		t.Error("a closed settler must ignore new paths")
	}
}
