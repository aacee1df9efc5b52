package mjlib

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// A Watcher observes a directory and reports source files as they are
// written, so the caller can re-encode them.
type Watcher struct {
	fw   *fsnotify.Watcher
	exts []string
}

// NewWatcher creates a watcher for source files under dir whose extension
// is one of exts.
func NewWatcher(dir string, exts []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{fw: fw, exts: exts}, nil
}

// Run delivers changed file paths to handle until ctx ends or handle
// reports an error. A file is delivered on every create and write event,
// so a single save may be delivered more than once; handle must tolerate
// that.
func (w *Watcher) Run(ctx context.Context, handle func(path string) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			return err
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !slices.Contains(w.exts, filepath.Ext(ev.Name)) {
				continue
			}
			if err := handle(ev.Name); err != nil {
				return err
			}
		}
	}
}

// Close releases the watcher's resources.
func (w *Watcher) Close() error { return w.fw.Close() }
