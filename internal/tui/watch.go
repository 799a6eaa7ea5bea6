package tui

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 300 * time.Millisecond

// dbChangedMsg asks the model to reload the list after the database file
// changed on disk, possibly from another process.
type dbChangedMsg struct{}

// watchDB watches the directory holding dbPath and sends on the returned
// channel, debounced, whenever the database or its journal is written.
// stop closes the watcher.
func watchDB(dbPath string) (changes <-chan struct{}, stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	dir := filepath.Dir(dbPath)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	base := filepath.Base(dbPath)
	out := make(chan struct{}, 1)
	done := make(chan struct{})
	notify := func() {
		select {
		case out <- struct{}{}:
		default:
		}
	}

	go func() {
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasPrefix(filepath.Base(ev.Name), base) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, notify)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("database watcher error", "err", err)
			}
		}
	}()

	stop = func() {
		close(done)
		_ = w.Close()
	}
	return out, stop, nil
}

// waitForDBChange blocks until the watcher fires. A nil channel never fires,
// which is what a model without a watcher wants.
func waitForDBChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}
