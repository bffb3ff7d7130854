// Package inbox turns image files dropped into a folder into canvas images.
package inbox

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pixelia/internal/render"
)

// MaxImageBytes bounds what LoadImage will read into memory.
const MaxImageBytes = 20 << 20

// SettleDelay is how long a file must go without events before it is read.
const SettleDelay = 300 * time.Millisecond

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

// Supported reports whether the file name has an image extension the
// decoders understand.
func Supported(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// LoadImage reads an image file and returns it as a data URL. The whole
// image is decoded to reject files that only look like images or are
// still being written.
func LoadImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%s is larger than %d bytes", path, MaxImageBytes)
	}
	mime, _, err := render.DecodeImage(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return render.DataURL(mime, data), nil
}

// ImageHandler receives each decoded image. It runs on a timer goroutine;
// the host is responsible for serializing it onto the editor.
type ImageHandler func(name, dataURL string)

// Watcher decodes images that appear in a directory.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	onImage ImageHandler
	settler *settler

	mu   sync.Mutex
	seen map[string]string // path -> size:modtime of the last delivered version
	done chan struct{}
}

// New creates dir if needed and starts watching it.
func New(dir string, onImage ImageHandler) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		watcher: watcher,
		onImage: onImage,
		seen:    make(map[string]string),
		done:    make(chan struct{}),
	}
	w.settler = newSettler(SettleDelay, w.deliver)
	go w.watchLoop()
	return w, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Close stops watching, drops files still being written and waits briefly
// for deliveries in flight.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.settler.Close(ctx)
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !Supported(event.Name) {
				continue
			}
			w.settler.Touch(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[inbox] watcher error: %v", err)
		}
	}
}

// deliver reads a file whose writes have settled and hands it over unless
// this exact version was already delivered.
func (w *Watcher) deliver(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	version := fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())

	url, err := LoadImage(path)
	if err != nil {
		// A writer that paused longer than SettleDelay leaves a truncated
		// file; its next write touches the path again.
		log.Printf("[inbox] skipping %s: %v", filepath.Base(path), err)
		return
	}

	w.mu.Lock()
	if w.seen[path] == version {
		w.mu.Unlock()
		return
	}
	w.seen[path] = version
	w.mu.Unlock()

	if w.onImage != nil {
		w.onImage(filepath.Base(path), url)
	}
}
