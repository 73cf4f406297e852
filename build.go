package prunetable

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// axisJob is the work of building one axis of one group.
type axisJob struct {
	group    int
	axis     axis
	plan     *axisPlan
	solved   []int
	mask     []int
	step     *stepper
	capacity int
	log      zerolog.Logger
}

// Build constructs the pruning tables of p from scratch and classifies them.
// It never touches the filesystem; see Load for the cached path.
//
// Axes whose domain fits the complete ceiling get dense tables, the others
// partial tables. A partial table that hits its capacity is not an error;
// TableSet.Degraded lists such tables.
func Build(ctx context.Context, p *Puzzle, opts ...Option) (*TableSet, error) {
	cfg := newConfig(opts)
	if err := validatePuzzle(p); err != nil {
		return nil, err
	}
	ts, err := build(ctx, p, cfg)
	if err != nil {
		return nil, err
	}
	Classify(p.Datasets, ts)
	return ts, nil
}

// build runs every axis job, sequentially or on cfg.workers goroutines.
// Each job writes only its own GroupTable field.
func build(ctx context.Context, p *Puzzle, cfg *config) (*TableSet, error) {
	ts := &TableSet{
		groups: make([]GroupTable, len(p.Datasets)),
		plans:  planGroups(p, cfg),
		kinds:  make([]axisKinds, len(p.Datasets)),
	}
	ms := orderedMoves(p.Moves)

	var jobs []*axisJob
	for g := range ts.plans {
		gp := &ts.plans[g]
		for _, a := range []axis{axisPermutation, axisOrientation} {
			solved, mask := axisVectors(p, g, a)
			capacity := cfg.permCapacity
			if a == axisOrientation {
				capacity = cfg.oriCapacity
			}
			jobs = append(jobs, &axisJob{
				group:    g,
				axis:     a,
				plan:     gp.axis(a),
				solved:   solved,
				mask:     mask,
				step:     newStepper(cfg.prims.Mover, a, g, gp.omod, ms),
				capacity: capacity,
				log:      cfg.logger.With().Str("group", gp.name).Stringer("axis", a).Logger(),
			})
		}
	}

	if cfg.workers < 2 {
		for _, j := range jobs {
			if err := runJob(ctx, j, &ts.groups[j.group]); err != nil {
				return nil, err
			}
		}
		return ts, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for _, j := range jobs {
		eg.Go(func() error {
			return runJob(egCtx, j, &ts.groups[j.group])
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ts, nil
}

// runJob builds one axis into gt.
func runJob(ctx context.Context, j *axisJob, gt *GroupTable) error {
	if j.plan.complete {
		j.log.Info().Msg("building complete table")
		table, err := buildComplete(ctx, j)
		if err != nil {
			return jobError(j, err)
		}
		if j.axis == axisOrientation {
			gt.Orientation = table
		} else {
			gt.Permutation = table
		}
		return nil
	}

	j.log.Info().Int("capacity", j.capacity).Msg("building partial table")
	pt, err := buildPartial(ctx, j)
	if err != nil {
		return jobError(j, err)
	}
	if pt.Degraded() {
		j.log.Warn().Int("entries", pt.Len()).Int("max_depth", pt.MaxDepth()).Msg("partial table degraded")
	}
	if j.axis == axisOrientation {
		gt.PartialOrientation = pt
	} else {
		gt.PartialPermutation = pt
	}
	return nil
}

// jobError attaches the group to fatal build failures. Context errors pass
// through unchanged.
func jobError(j *axisJob, err error) error {
	if pdberrors.KindOf(err) != pdberrors.KindFatal {
		return err
	}
	return &pdberrors.Error{
		Kind:  pdberrors.KindFatal,
		Op:    fmt.Sprintf("build %s table", j.axis),
		Group: j.group,
		Err:   err,
	}
}
