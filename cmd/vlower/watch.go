package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// watchPacks runs fn once and then again for every batch of changes to the
// packs until ctx is cancelled. Directories are watched rather than files so
// editors that replace files atomically are still noticed.
func watchPacks(ctx context.Context, packs []string, fn func(ctx context.Context, packs []string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(packs))
	dirs := make(map[string]bool)
	for _, p := range packs {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	report := func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
	report(fn(ctx, packs))

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if watched[ev.Name] && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				timer = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(err)
		case <-timer:
			timer = nil
			fmt.Fprintf(os.Stderr, "watch: change detected at %s\n", time.Now().Format(time.TimeOnly))
			report(fn(ctx, packs))
		}
	}
}
