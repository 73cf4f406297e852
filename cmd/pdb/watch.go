package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of events a single save produces.
var watchDebounce = 200 * time.Millisecond

func newWatchCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <definition>",
		Short: "Rebuild the tables whenever the definition changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := gf.logger(cmd)
			return watch(cmd.Context(), args[0], log, func(ctx context.Context) error {
				p, ts, err := gf.load(ctx, args[0], log)
				if err != nil {
					return err
				}
				writeSummary(cmd.OutOrStdout(), p, ts)
				return nil
			})
		},
	}
}

// watch calls rebuild once, then again after every change to path, until ctx
// is done. Rebuild failures are logged and do not stop the watch.
func watch(ctx context.Context, path string, log zerolog.Logger, rebuild func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often save by renaming a new file over the old one.
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	run := func() {
		if err := rebuild(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("definition", path).Msg("rebuild failed")
		}
	}
	run()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Stringer("op", ev.Op).Msg("definition changed")
			debounce = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-debounce:
			debounce = nil
			run()
		}
	}
}
