package prunetable

import (
	"context"
	"math"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// contextCheckInterval is how many expanded vectors pass between context checks.
const contextCheckInterval = 1 << 14

// buildComplete labels every index of the axis domain with its distance from
// solved. Indices the moves never reach stay at -1.
//
// With an ignore mask the first pass only discovers which indices are
// reachable. Every reachable index that agrees with solved outside the mask
// then becomes a depth-0 root and the layering runs again from that set.
func buildComplete(ctx context.Context, j *axisJob) ([]int8, error) {
	r := j.plan.ranker
	size := r.Size()
	j.log.Info().Int64("size", size).Msg("table size")

	table := make([]int8, size)
	for i := range table {
		table[i] = -1
	}
	root := r.Rank(j.solved)
	table[root] = 0
	if err := expandDense(ctx, j, table, []int64{root}); err != nil {
		return nil, err
	}
	if j.mask == nil {
		return table, nil
	}

	cur := make([]int, len(j.solved))
	var roots []int64
	for idx, d := range table {
		if d < 0 {
			continue
		}
		r.Unrank(int64(idx), cur)
		if matchesSolved(cur, j.solved, j.mask) {
			table[idx] = 0
			roots = append(roots, int64(idx))
		} else {
			table[idx] = -1
		}
	}
	j.log.Info().Int("count", len(roots)).Msg("solved positions")
	if err := expandDense(ctx, j, table, roots); err != nil {
		return nil, err
	}
	return table, nil
}

// expandDense runs BFS layer by layer from frontier, whose entries must
// already be labeled 0 in table.
func expandDense(ctx context.Context, j *axisJob, table []int8, frontier []int64) error {
	r := j.plan.ranker
	cur := make([]int, len(j.solved))
	next := make([]int, len(j.solved))
	var depth int8
	expanded := 0
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		var layer []int64
		for _, idx := range frontier {
			if expanded++; expanded%contextCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			r.Unrank(idx, cur)
			for m := range j.step.len() {
				j.step.apply(m, cur, next)
				q := r.Rank(next)
				if table[q] != -1 {
					continue
				}
				if depth == math.MaxInt8 {
					return pdberrors.ErrDepthOverflow
				}
				table[q] = depth + 1
				layer = append(layer, q)
			}
		}
		depth++
		j.log.Debug().Int("depth", int(depth)).Int("count", len(layer)).Msg("positions at depth")
		if depth == 1 && len(frontier) == 1 && len(layer) == 0 {
			warnUnreachable(j)
		}
		frontier = layer
	}
	return nil
}

// warnUnreachable flags an axis whose moves never leave the solved state,
// which usually means a move set that does not touch the group.
func warnUnreachable(j *axisJob) {
	if j.step.len() == 0 || singleState(j) {
		return
	}
	j.log.Warn().Int("moves", j.step.len()).Msg("moves never leave the solved state")
}

// singleState reports whether the axis domain has only the solved vector.
func singleState(j *axisJob) bool {
	if j.axis == axisOrientation {
		return j.step.omod <= 1
	}
	for _, v := range j.solved {
		if v != j.solved[0] {
			return false
		}
	}
	return true
}
