package main

import (
	"fmt"
	"io"

	"github.com/tamirms/prunetable"
)

// axisStats summarizes one axis of one group.
type axisStats struct {
	kind     prunetable.TableKind
	entries  int64
	maxDepth int
	degraded bool
	// byDepth counts entries per depth.
	byDepth []int64
}

func denseStats(table []int8) axisStats {
	s := axisStats{kind: prunetable.TableComplete, maxDepth: -1}
	for _, d := range table {
		if d < 0 {
			continue
		}
		s.entries++
		for int(d) >= len(s.byDepth) {
			s.byDepth = append(s.byDepth, 0)
		}
		s.byDepth[d]++
		s.maxDepth = max(s.maxDepth, int(d))
	}
	return s
}

func partialStats(pt *prunetable.PartialTable) axisStats {
	s := axisStats{
		kind:     prunetable.TablePartial,
		entries:  int64(pt.Len()),
		maxDepth: pt.MaxDepth(),
		degraded: pt.Degraded(),
	}
	if pt.Len() == 0 {
		return s
	}
	s.byDepth = make([]int64, pt.MaxDepth()+1)
	for _, d := range pt.All() {
		s.byDepth[d]++
	}
	return s
}

func groupStats(ts *prunetable.TableSet, i int) (perm, ori axisStats) {
	g := ts.Group(i)
	permKind, oriKind := ts.Kinds(i)
	switch permKind {
	case prunetable.TableComplete:
		perm = denseStats(g.Permutation)
	case prunetable.TablePartial:
		perm = partialStats(g.PartialPermutation)
	default:
		perm = axisStats{maxDepth: -1}
	}
	switch oriKind {
	case prunetable.TableComplete:
		ori = denseStats(g.Orientation)
	case prunetable.TablePartial:
		ori = partialStats(g.PartialOrientation)
	default:
		ori = axisStats{maxDepth: -1}
	}
	return perm, ori
}

// writeStats prints a row per axis, the depth histogram of each populated
// axis, and the fingerprint of the whole table set.
func writeStats(w io.Writer, p *prunetable.Puzzle, ts *prunetable.TableSet) {
	fmt.Fprintf(w, "%-12s %-12s %-9s %12s %6s %s\n", "GROUP", "AXIS", "KIND", "ENTRIES", "DEPTH", "DEGRADED")
	for i, ds := range p.Datasets {
		perm, ori := groupStats(ts, i)
		for _, row := range []struct {
			axis string
			s    axisStats
		}{{"permutation", perm}, {"orientation", ori}} {
			fmt.Fprintf(w, "%-12s %-12s %-9s %12d %6d %t\n",
				ds.Name, row.axis, row.s.kind, row.s.entries, row.s.maxDepth, row.s.degraded)
			for d, n := range row.s.byDepth {
				fmt.Fprintf(w, "%-12s   depth %-3d %d\n", "", d, n)
			}
		}
	}
	hi, lo := ts.Fingerprint()
	fmt.Fprintf(w, "fingerprint %016x%016x\n", hi, lo)
}
