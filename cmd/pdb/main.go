// Pdb builds, inspects and benchmarks pruning tables for a puzzle definition.
//
// Usage:
//
//	pdb build puzzles/222.yaml
//	pdb stats --no-cache puzzles/222.yaml
//	pdb watch puzzles/222.yaml
//	pdb bench --walks 100000 --depth 12 puzzles/222.yaml
//
// Tables are cached next to the definition in <definition>.tables and reused
// while the definition is not newer than the cache.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tamirms/prunetable"
	"github.com/tamirms/prunetable/internal/puzzledef"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	noCache      bool
	workers      int
	permCapacity int
	oriCapacity  int
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	root := &cobra.Command{
		Use:          "pdb",
		Short:        "Build and inspect pruning tables for twisty-puzzle search",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&gf.noCache, "no-cache", false, "ignore any existing cache file and rebuild")
	pf.IntVar(&gf.workers, "workers", 1, "number of table axes built concurrently")
	pf.IntVar(&gf.permCapacity, "perm-capacity", prunetable.DefaultPartialCapacity, "entry cap of partial permutation tables")
	pf.IntVar(&gf.oriCapacity, "ori-capacity", prunetable.DefaultPartialCapacity, "entry cap of partial orientation tables")
	pf.BoolVarP(&gf.verbose, "verbose", "v", false, "log per-depth progress")

	root.AddCommand(
		newBuildCmd(&gf),
		newStatsCmd(&gf),
		newWatchCmd(&gf),
		newBenchCmd(&gf),
	)
	return root
}

// logger writes human-readable logs to the command's stderr.
func (gf *globalFlags) logger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if gf.verbose {
		level = zerolog.DebugLevel
	}
	out := cmd.ErrOrStderr()
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: out != io.Writer(os.Stderr)}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func (gf *globalFlags) options(log zerolog.Logger) []prunetable.Option {
	return []prunetable.Option{
		prunetable.WithCache(!gf.noCache),
		prunetable.WithWorkers(gf.workers),
		prunetable.WithPartialCapacity(gf.permCapacity, gf.oriCapacity),
		prunetable.WithLogger(log),
	}
}

// load parses the definition at path and loads or builds its tables.
func (gf *globalFlags) load(ctx context.Context, path string, log zerolog.Logger) (*prunetable.Puzzle, *prunetable.TableSet, error) {
	def, err := puzzledef.Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := def.Puzzle()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	start := time.Now()
	ts, err := prunetable.Load(ctx, path, p, gf.options(log)...)
	if err != nil {
		return nil, nil, err
	}
	rep := ts.Report()
	ev := log.Info().
		Str("puzzle", def.Name).
		Stringer("source", rep.Source).
		Str("cache", rep.Path).
		Dur("elapsed", time.Since(start))
	if rep.Stale {
		ev = ev.Bool("stale", true)
	}
	ev.Msg("tables ready")
	if rep.CacheErr != nil {
		log.Warn().Err(rep.CacheErr).Msg("cache was malformed and has been rebuilt")
	}
	if rep.WriteErr != nil {
		log.Warn().Err(rep.WriteErr).Msg("could not write cache")
	}
	return p, ts, nil
}

func newBuildCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build <definition>",
		Short: "Load or build the tables and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := gf.logger(cmd)
			p, ts, err := gf.load(cmd.Context(), args[0], log)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), p, ts)
			return nil
		},
	}
}

func newStatsCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <definition>",
		Short: "Print per-axis table statistics and the table fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := gf.logger(cmd)
			p, ts, err := gf.load(cmd.Context(), args[0], log)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), p, ts)
			return nil
		},
	}
}

// writeSummary prints one line per group with the kind of each axis.
func writeSummary(w io.Writer, p *prunetable.Puzzle, ts *prunetable.TableSet) {
	for i, ds := range p.Datasets {
		perm, ori := ts.Kinds(i)
		fmt.Fprintf(w, "%-12s size=%-3d perm=%-8s ori=%s\n", ds.Name, ds.Size, perm, ori)
	}
	for _, err := range ts.Degraded() {
		fmt.Fprintf(w, "degraded: %v\n", err)
	}
}
