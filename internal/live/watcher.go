package live

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// Watcher reports settled changes to the collection documents (*.json) in
// one directory. Bursts of events for the same file collapse into a single
// OnChange call once the file has been quiet for Debounce.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	OnChange func(file string)

	log zerolog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewWatcher(dir string, log zerolog.Logger, onChange func(file string)) *Watcher {
	return &Watcher{
		Dir:      dir,
		Debounce: DefaultDebounce,
		OnChange: onChange,
		log:      log,
		pending:  make(map[string]time.Time),
	}
}

// Run watches until ctx is done. It returns an error only if the directory
// cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.log.Info().Str("dir", w.Dir).Msg("watching collection documents")

	tick := time.NewTicker(tickInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.record(ev, time.Now())

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case now := <-tick.C:
			for _, name := range w.settled(now) {
				w.log.Info().Str("file", name).Msg("collection changed")
				if w.OnChange != nil {
					w.OnChange(name)
				}
			}
		}
	}
}

// record ignores dot-files, which are atomic-write temporaries.
func (w *Watcher) record(ev fsnotify.Event, at time.Time) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".json") {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	w.pending[base] = at
	w.mu.Unlock()
}

// settled removes and returns, sorted, the files quiet for at least Debounce.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.Debounce {
			out = append(out, name)
			delete(w.pending, name)
		}
	}
	sort.Strings(out)
	return out
}

// BroadcastChange returns an OnChange that announces the file on hub.
func BroadcastChange(hub *Hub) func(file string) {
	return func(file string) {
		hub.BroadcastJSON(Event{Type: TypeCatalogUpdated, File: file, At: time.Now().UTC()})
	}
}
