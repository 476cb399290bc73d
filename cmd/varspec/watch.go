package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/opal-lang/varspec/runtime/config"
)

// settle is how long the watcher waits after the last event before re-running.
const settle = 150 * time.Millisecond

// watch runs fn once, then again whenever the run file or a file it refers
// to is written, created or renamed. Check failures are printed and do not
// stop the loop. It returns when ctx is done.
func watch(ctx context.Context, a *app, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &CLIError{Type: "io", Message: "cannot start file watcher", Details: err.Error()}
	}
	defer func() { _ = w.Close() }()

	useColor := ShouldUseColor(a.noColor)
	watched := make(map[string]bool)
	targets := make(map[string]bool)

	refresh := func() {
		paths := []string{a.file}
		if f, err := config.Load(a.file); err == nil {
			paths = append(paths, f.Inputs()...)
		}
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			targets[abs] = true
			dir := filepath.Dir(abs)
			if watched[dir] {
				continue
			}
			if err := w.Add(dir); err != nil {
				_, _ = fmt.Fprintf(a.stderr, "%s cannot watch %s: %v\n", Colorize("warning:", ColorYellow, useColor), dir, err)
				continue
			}
			watched[dir] = true
		}
	}

	run := func() {
		refresh()
		if err := fn(); err != nil {
			FormatError(a.stderr, err, useColor)
		}
		_, _ = fmt.Fprintln(a.stderr, Colorize("watching for changes...", ColorGray, useColor))
	}

	run()

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(a.stderr, "%s %v\n", Colorize("watch error:", ColorYellow, useColor), err)
		case <-timer.C:
			run()
		}
	}
}
