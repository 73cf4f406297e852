package prunetable

import (
	"cmp"
	"fmt"
	"slices"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// validatePuzzle checks that every vector in p has the shape its dataset
// declares. The builders index vectors without bounds checks of their own.
func validatePuzzle(p *Puzzle) error {
	if p == nil {
		return fmt.Errorf("%w: nil puzzle", pdberrors.ErrInvalidPuzzle)
	}
	n := len(p.Datasets)
	if len(p.Solved) != n {
		return fmt.Errorf("%w: %d datasets but solved state has %d groups",
			pdberrors.ErrGroupMismatch, n, len(p.Solved))
	}
	if len(p.Ignore) != 0 && len(p.Ignore) != n {
		return fmt.Errorf("%w: ignore state has %d groups, want %d",
			pdberrors.ErrGroupMismatch, len(p.Ignore), n)
	}
	for g, ds := range p.Datasets {
		if ds.Size <= 0 || ds.OMod <= 0 {
			return fmt.Errorf("%w: group %d has size %d, omod %d",
				pdberrors.ErrInvalidPuzzle, g, ds.Size, ds.OMod)
		}
		s := p.Solved[g]
		if err := checkLengths(s, ds.Size, "solved", g); err != nil {
			return err
		}
		for i, v := range s.Permutation {
			if v < 0 {
				return fmt.Errorf("%w: solved group %d has negative label %d at %d",
					pdberrors.ErrInvalidPuzzle, g, v, i)
			}
		}
		if err := checkOrientation(s.Orientation, ds.OMod, "solved", g); err != nil {
			return err
		}
		if len(p.Ignore) != 0 {
			if err := checkMask(p.Ignore[g], ds.Size, g); err != nil {
				return err
			}
		}
	}
	for _, m := range p.Moves {
		if len(m.State) != n {
			return fmt.Errorf("%w: move %q has %d groups, want %d",
				pdberrors.ErrGroupMismatch, m.Name, len(m.State), n)
		}
		for g, ds := range p.Datasets {
			st := m.State[g]
			if err := checkLengths(st, ds.Size, "move "+m.Name, g); err != nil {
				return err
			}
			seen := make([]bool, ds.Size)
			for i, src := range st.Permutation {
				if src < 1 || src > ds.Size || seen[src-1] {
					return fmt.Errorf("%w: move %q group %d is not a permutation (entry %d = %d)",
						pdberrors.ErrInvalidPuzzle, m.Name, g, i, src)
				}
				seen[src-1] = true
			}
			if err := checkOrientation(st.Orientation, ds.OMod, "move "+m.Name, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLengths(s GroupState, size int, what string, g int) error {
	if len(s.Permutation) != size || len(s.Orientation) != size {
		return fmt.Errorf("%w: %s group %d has vectors of length %d/%d, want %d",
			pdberrors.ErrGroupMismatch, what, g, len(s.Permutation), len(s.Orientation), size)
	}
	return nil
}

func checkOrientation(o []int, omod int, what string, g int) error {
	for i, v := range o {
		if v < 0 || v >= omod {
			return fmt.Errorf("%w: %s group %d orientation %d at %d is outside [0, %d)",
				pdberrors.ErrInvalidPuzzle, what, g, v, i, omod)
		}
	}
	return nil
}

func checkMask(m GroupState, size, g int) error {
	for _, mask := range [][]int{m.Permutation, m.Orientation} {
		if len(mask) != 0 && len(mask) != size {
			return fmt.Errorf("%w: ignore mask of group %d has length %d, want %d",
				pdberrors.ErrGroupMismatch, g, len(mask), size)
		}
		for _, v := range mask {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: ignore mask of group %d holds %d", pdberrors.ErrInvalidPuzzle, g, v)
			}
		}
	}
	return nil
}

// orderedMoves returns the moves sorted by ID, the order BFS expands them in.
func orderedMoves(ms []Move) []Move {
	out := slices.Clone(ms)
	slices.SortStableFunc(out, func(a, b Move) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
