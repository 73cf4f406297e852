package prunetable

import (
	"context"
	"fmt"
	"math"

	pdberrors "github.com/tamirms/prunetable/errors"
	"github.com/tamirms/prunetable/internal/keymap"
)

// partialSizeHint bounds the initial allocation of a partial table.
const partialSizeHint = 1 << 16

// buildPartial runs BFS into a capacity-bounded map. Each layer occupies a
// contiguous range of map entries, so when an insertion would push the map
// past capacity the layer in progress is dropped with one Truncate and the
// table is returned as of the previous layer, marked degraded. Seeds are
// never counted against the capacity: a seed set that already fills the map
// yields the depth-0 table.
func buildPartial(ctx context.Context, j *axisJob) (*PartialTable, error) {
	pk := j.plan.packer
	m := keymap.New(pk.Width(), min(j.capacity, partialSizeHint))
	key := make([]uint64, pk.Width())

	pk.Pack(j.solved, key)
	m.Insert(key, 0)
	if j.mask != nil {
		if err := seedIgnored(j, m, key); err != nil {
			return nil, err
		}
		j.log.Info().Int("count", m.Len()).Msg("solved positions")
	}

	cur := make([]int, len(j.solved))
	next := make([]int, len(j.solved))
	start, end := 0, m.Len()
	var depth int8
	for start < end {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := start; i < end; i++ {
			if (i-start+1)%contextCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			pk.Unpack(m.Key(i), cur)
			for mv := range j.step.len() {
				j.step.apply(mv, cur, next)
				pk.Pack(next, key)
				if depth == math.MaxInt8 || m.Len() >= j.capacity {
					if _, seen := m.Get(key); seen {
						continue
					}
					if depth == math.MaxInt8 {
						return nil, pdberrors.ErrDepthOverflow
					}
					j.log.Info().Int("depth", int(depth)+1).Int("capacity", j.capacity).Msg("removing layer")
					m.Truncate(end)
					return newPartialTable(m, true), nil
				}
				m.Insert(key, depth+1)
			}
		}
		depth++
		j.log.Debug().Int("depth", int(depth)).Int("count", m.Len()-end).Msg("positions at depth")
		if depth == 1 && m.Len() == 1 {
			warnUnreachable(j)
		}
		start, end = end, m.Len()
	}
	return newPartialTable(m, false), nil
}

// seedIgnored inserts every vector that agrees with solved outside the mask
// at depth 0. For permutations that is every rearrangement of the solved
// labels across the ignored positions; for orientations, every twist.
func seedIgnored(j *axisJob, m *keymap.Map, key []uint64) error {
	var pos []int
	for i, v := range j.mask {
		if v == 1 {
			pos = append(pos, i)
		}
	}
	if len(pos) > maxIgnored {
		return fmt.Errorf("%w: %d positions in group %d %s, limit %d",
			pdberrors.ErrTooManyIgnored, len(pos), j.group, j.axis, maxIgnored)
	}

	v := append([]int(nil), j.solved...)
	insert := func() {
		j.plan.packer.Pack(v, key)
		m.Insert(key, 0)
	}
	if j.axis == axisPermutation {
		order := make([]int, len(pos))
		for i := range order {
			order[i] = i
		}
		for {
			for k, p := range pos {
				v[p] = j.solved[pos[order[k]]]
			}
			insert()
			if !nextPermutation(order) {
				return nil
			}
		}
	}
	for i := range pos {
		v[pos[i]] = 0
	}
	for {
		insert()
		// Mixed-radix increment over the ignored positions.
		k := len(pos) - 1
		for ; k >= 0; k-- {
			v[pos[k]]++
			if v[pos[k]] < j.step.omod {
				break
			}
			v[pos[k]] = 0
		}
		if k < 0 {
			return nil
		}
	}
}

// nextPermutation advances a to its lexicographic successor and reports
// false when a was the last permutation.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	k := len(a) - 1
	for a[k] <= a[i] {
		k--
	}
	a[i], a[k] = a[k], a[i]
	for l, r := i+1, len(a)-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}
	return true
}
