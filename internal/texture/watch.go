package texture

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a source image when its file changes on disk and delivers
// each successfully decoded version on Updates. Only the newest pending
// image is kept; a consumer that falls behind skips intermediate versions.
type Watcher struct {
	path    string
	cache   *Cache
	fsw     *fsnotify.Watcher
	updates chan *image.NRGBA
	log     *slog.Logger
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file through a rename are still seen.
func Watch(path string, cache *Cache, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("texture: watch %s: %w", path, err)
	}
	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("texture: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		cache:   cache,
		fsw:     fsw,
		updates: make(chan *image.NRGBA, 1),
		log:     log.With("source", path),
	}
	go w.loop()
	return w, nil
}

// Updates delivers reloaded images. It is closed after Close.
func (w *Watcher) Updates() <-chan *image.NRGBA {
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.updates)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("source watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	w.cache.Invalidate(w.path)
	img, err := w.cache.Resolve(w.path)
	if err != nil {
		// Partial writes land here too; the final write event retries.
		w.log.Warn("source reload failed, keeping previous image", "err", err)
		return
	}
	w.log.Info("source reloaded", "width", img.Rect.Dx(), "height", img.Rect.Dy())

	select {
	case w.updates <- img:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- img
	}
}
