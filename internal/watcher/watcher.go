// Package watcher re-runs a callback when the config document changes on
// disk, debouncing editor write bursts.
package watcher

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Watch observes the file at path and invokes onChange after events settle
// for the debounce window. The parent directory is watched so the file is
// still caught across atomic replace (write temp + rename). The returned
// closer is safe to call more than once.
func Watch(path string, debounce time.Duration, onChange func()) (io.Closer, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				onChange()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher error: %v", err)
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if shouldTrigger(evt, path) {
					select {
					case triggerCh <- struct{}{}:
					default:
					}
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	var stopOnce sync.Once
	return closerFunc(func() error {
		stopOnce.Do(func() {
			close(stopCh)
			_ = w.Close()
			<-doneCh
		})
		return nil
	}), nil
}

func shouldTrigger(evt fsnotify.Event, path string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(evt.Name) == filepath.Base(path)
}
