package rules

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/topi314/strava-challenge/server/scoring"
)

// Watch calls onChange with the reloaded rules each time the file at path changes.
// A reload that fails is logged and onChange is not called. Watch blocks until ctx is done.
//
// The directory is watched instead of the file because editors save by renaming a
// temporary file over the original, which drops a watch on the file itself.
func Watch(ctx context.Context, path string, onChange func(scoring.Rules)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Watching rules file", slog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			rules, err := read(path)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to reload rules, keeping previous rules", slog.String("path", path), slog.Any("err", err))
				continue
			}

			slog.InfoContext(ctx, "Reloaded rules", slog.String("path", path))
			onChange(rules)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.ErrorContext(ctx, "Rules watcher error", slog.Any("err", err))
		}
	}
}
