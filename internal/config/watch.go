package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "calgrid/internal/log"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the config at path whenever the file changes and passes
// every valid result to onChange. Invalid edits are logged and skipped so
// the previous config stays in effect, and a removed or renamed file is
// never recreated. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file, so editors that
// replace the file by rename keep triggering reloads.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	file := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return err
	}
	appLog.Debug("config watcher started", "dir", dir, "file", file)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					appLog.Debug("config file gone, keeping current settings", "path", path)
				} else {
					appLog.Warn("config reload failed", "path", path, "reason", err.Error())
				}
				continue
			}
			cfg, err := Parse(data)
			if err != nil {
				appLog.Warn("config reload rejected", "path", path, "reason", err.Error())
				continue
			}
			appLog.Info("config reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("config watch error", err, "dir", dir)
		}
	}
}
