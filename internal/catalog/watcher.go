package catalog

import (
	"context"
	"strings"
	"time"

	"wr_history/internal/config"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors the data directory and rebuilds the catalog when
// history exports appear, change, or vanish. Rebuilds are debounced so a
// batch upload of CSVs triggers one rebuild, not dozens.
type Watcher struct {
	dir      string
	debounce time.Duration
	onUpdate func(*Catalog)
}

// NewWatcher creates a watcher over dir. onUpdate receives every freshly
// built catalog.
func NewWatcher(dir string, onUpdate func(*Catalog)) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: config.WatcherDebounce,
		onUpdate: onUpdate,
	}
}

// Start begins watching until ctx is canceled. The initial build is the
// caller's responsibility; Start only reacts to changes.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		rebuild := func() {
			cat, err := Build(w.dir)
			if err != nil {
				log.Error().Err(err).Str("dir", w.dir).Msg("Catalog rebuild failed")
				return
			}
			w.onUpdate(cat)
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if !isHistoryFile(evt.Name) {
					continue
				}
				log.Debug().
					Str("file", evt.Name).
					Str("op", evt.Op.String()).
					Msg("Data directory changed, scheduling catalog rebuild")
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, rebuild)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Watcher error")
			}
		}
	}()

	return watcher.Add(w.dir)
}

func isHistoryFile(path string) bool {
	base := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		base = path[i+1:]
	}
	return historyFilePattern.MatchString(base)
}
