package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// Watch reports asset paths under dir (relative to the manager root) that were
// written or created. Changed files are dropped from the cache before they are
// reported. The channel closes when ctx is done.
func (m *Manager) Watch(ctx context.Context, dir string) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(m.Path(dir)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	log := logger.Named("assets")
	out := make(chan string, 16)

	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				rel, err := filepath.Rel(m.root, ev.Name)
				if err != nil {
					continue
				}
				name := Clean(rel)
				m.Invalidate(name)
				log.Debug("asset changed", zap.String("path", name), zap.Stringer("op", ev.Op))

				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return out, nil
}
