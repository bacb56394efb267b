package settings

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/go-drift/bind/pkg/errors"
)

// Watch reloads the store whenever its backing file changes on disk,
// raising property changes for the keys whose values differ.
//
// The watcher observes the file's directory so that atomic
// write-and-rename updates (including the store's own Save) are seen.
// Watcher failures are reported through the errors package; they never
// panic and never stop the watch loop.
//
// Returns a stop function that releases the watcher. Safe to call more
// than once.
func (s *Store) Watch() (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go s.watchLoop(watcher, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer errors.Recover("settings.Store.watch")

	target := filepath.Clean(s.path)
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Load(); err != nil {
				errors.Report(&errors.BindError{
					Op:   "settings.Store.watch",
					Kind: errors.KindStore,
					Err:  err,
				})
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			errors.Report(&errors.BindError{
				Op:   "settings.Store.watch",
				Kind: errors.KindWatch,
				Err:  werr,
			})
		}
	}
}
