package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Event reports a change inside the storage folder.
type Event struct {
	Name string
	Op   fsnotify.Op
}

// Watch emits a debounced Event whenever a file in dir is created, written,
// removed or renamed. The channel is closed when ctx is done.
func Watch(ctx context.Context, dir string) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan Event, 32)
	pending := make(chan Event, 1)

	go func() {
		defer watcher.Close()
		defer close(events)

		var debounceTimer *time.Timer
		var lastEvent fsnotify.Event

		for {
			select {
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}

				lastEvent = event
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				ev := Event{Name: filepath.Base(lastEvent.Name), Op: lastEvent.Op}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					select {
					case pending <- ev:
					default:
						// A flush is already queued.
					}
				})

			case ev := <-pending:
				select {
				case events <- ev:
				default:
					// Channel full, drop event
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}
