package affiliate

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a Rewriter whenever its rules file changes.
type Watcher struct {
	path     string
	rewriter *Rewriter
	log      zerolog.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches path and feeds valid rule tables into rw.
func NewWatcher(path string, rw *Rewriter, log zerolog.Logger) *Watcher {
	return &Watcher{path: path, rewriter: rw, log: log, debounce: defaultDebounce}
}

// Run blocks until ctx is cancelled. The parent directory is watched rather
// than the file so that editors which replace the file on save still
// trigger a reload.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info().Str("path", w.path).Msg("watching affiliate rules")

	target := filepath.Clean(w.path)
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed")
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed")
			}
			w.log.Error().Err(err).Msg("affiliate rules watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// reload keeps the previous table when the new file is invalid.
func (w *Watcher) reload() {
	rules, err := LoadRules(w.path)
	if err == nil {
		err = w.rewriter.Replace(rules)
	}
	if err != nil {
		w.log.Error().Err(err).Str("path", w.path).Msg("affiliate rules reload failed, keeping previous table")
		return
	}
	w.log.Info().Int("rules", len(rules)).Msg("affiliate rules reloaded")
}
