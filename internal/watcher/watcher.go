// Package watcher keeps a notebook collection in step with edits made to the
// notes directory by other programs.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/theAliTajik/Notebook/internal/checksum"
	"github.com/theAliTajik/Notebook/internal/notebook"
)

// Event kinds passed to an EventCallback.
const (
	KindReloaded = "notebook.reloaded"
	KindRemoved  = "notebook.removed"
)

const syncDelay = 200 * time.Millisecond

// EventCallback is called after a watcher-driven collection change.
type EventCallback func(kind string, name string)

// Watch starts an fsnotify watcher on root and processes file change events
// until ctx is cancelled. It calls cb (if non-nil) after each change to coll.
//
// The notes directory is flat, so only root itself is watched. Rename events
// trigger a debounced Collection.Sync to pick up the new name and drop the
// old one. Writes made by this process leave the checksum unchanged and are
// not reported.
func Watch(ctx context.Context, coll *notebook.Collection, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, name string) {
		if cb != nil {
			cb(kind, name)
		}
	}

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(syncDelay)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(syncDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			res, syncErr := coll.Sync()
			if syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("error", syncErr.Error()))
				continue
			}
			for _, name := range res.Reloaded {
				notify(KindReloaded, name)
			}
			for _, name := range res.Forgotten {
				notify(KindRemoved, name)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, ok := notebookName(ev.Name)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				nb, changed, reloadErr := coll.Reload(name)
				if reloadErr != nil {
					// Editors may leave a half-written file; the next write event retries.
					logger.Warn("watcher: reload failed", slog.String("notebook", name), slog.String("error", reloadErr.Error()))
					continue
				}
				if !changed {
					continue
				}
				logger.Debug("watcher: reloaded",
					slog.String("notebook", name),
					slog.String("checksum", checksum.Short(nb.Checksum())))
				notify(KindReloaded, name)

			case ev.Op&fsnotify.Remove != 0:
				if coll.Forget(name) {
					logger.Debug("watcher: forgot", slog.String("notebook", name))
					notify(KindRemoved, name)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only.
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// notebookName maps a watched path to a notebook name.
func notebookName(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, notebook.FileExt) {
		return "", false
	}
	name := strings.TrimSuffix(base, notebook.FileExt)
	if notebook.ValidateName(name) != nil {
		return "", false
	}
	return name, true
}
