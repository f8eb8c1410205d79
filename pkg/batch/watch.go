package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceTick is how often pending watch events are checked for stability.
const debounceTick = 250 * time.Millisecond

// Watch blocks, processing new supported files that appear in dir until ctx
// is cancelled. A file is picked up once no event has touched it for
// stableAfter, so half-written uploads are not fed to the engine. Per-file
// failures are logged, never fatal to the watch.
func (r *Runner) Watch(ctx context.Context, dir string, stableAfter time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.log.Info().Str("dir", dir).Dur("stable_after", stableAfter).Msg("watching for new report files")

	fileCh := make(chan string, 256)
	go func() {
		defer close(fileCh)
		// debounce map of pending files, keyed by base name
		pending := map[string]time.Time{}
		ticker := time.NewTicker(debounceTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					name := filepath.Base(ev.Name)
					if !IsSupportedFile(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, seen := range pending {
					if now.Sub(seen) > stableAfter {
						delete(pending, name)
						fileCh <- name
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.log.Warn().Err(err).Msg("watch error")
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				r.processFile(dir, name)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
