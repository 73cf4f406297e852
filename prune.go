package prunetable

// Oracle answers prune queries against a classified TableSet.
//
// An Oracle owns scratch buffers and is not safe for concurrent use. Give
// each search goroutine its own; they can all share one TableSet.
type Oracle struct {
	ts   *TableSet
	keys [][]uint64 // per-group packing buffer
}

// NewOracle returns an oracle over ts.
func NewOracle(ts *TableSet) *Oracle {
	o := &Oracle{ts: ts, keys: make([][]uint64, len(ts.plans))}
	for g := range ts.plans {
		w := max(ts.plans[g].perm.packer.Width(), ts.plans[g].ori.packer.Width())
		o.keys[g] = make([]uint64, w)
	}
	return o
}

// Prune reports whether pos is provably more than depth moves from solved.
// Groups are checked in order, orientation before permutation, and the
// first group that proves it short-circuits the rest.
//
// pos must have the shape of the puzzle the tables were built for.
func (o *Oracle) Prune(pos Position, depth int) bool {
	ts := o.ts
	for g := range ts.groups {
		gt := &ts.groups[g]
		gp := &ts.plans[g]
		k := ts.kinds[g]
		st := pos[g]

		switch k.ori {
		case TableComplete:
			if int(gt.Orientation[gp.ori.ranker.Rank(st.Orientation)]) > depth {
				return true
			}
		case TablePartial:
			if o.partialExceeds(gt.PartialOrientation, gp.ori.packer, st.Orientation, g, depth) {
				return true
			}
		}

		switch k.perm {
		case TableComplete:
			if int(gt.Permutation[gp.perm.ranker.Rank(st.Permutation)]) > depth {
				return true
			}
		case TablePartial:
			if o.partialExceeds(gt.PartialPermutation, gp.perm.packer, st.Permutation, g, depth) {
				return true
			}
		}
	}
	return false
}

// partialExceeds decides one partial axis. The table holds whole layers up to
// MaxDepth, so once depth <= MaxDepth a miss means the distance exceeds depth.
// Below that, a miss says nothing and the axis cannot prune.
func (o *Oracle) partialExceeds(pt *PartialTable, pk Packer, v []int, g, depth int) bool {
	if pt.MaxDepth() < depth {
		return false
	}
	key := o.keys[g][:pk.Width()]
	pk.Pack(v, key)
	d, ok := pt.Lookup(key)
	return !ok || d > depth
}

// Distance returns the max-heuristic lower bound on the moves needed to solve
// pos. Partial misses count as MaxDepth+1; unreachable dense entries count as 0.
func (o *Oracle) Distance(pos Position) int {
	ts := o.ts
	best := 0
	for g := range ts.groups {
		gt := &ts.groups[g]
		gp := &ts.plans[g]
		k := ts.kinds[g]
		st := pos[g]

		switch k.ori {
		case TableComplete:
			best = max(best, int(gt.Orientation[gp.ori.ranker.Rank(st.Orientation)]))
		case TablePartial:
			best = max(best, o.partialDistance(gt.PartialOrientation, gp.ori.packer, st.Orientation, g))
		}
		switch k.perm {
		case TableComplete:
			best = max(best, int(gt.Permutation[gp.perm.ranker.Rank(st.Permutation)]))
		case TablePartial:
			best = max(best, o.partialDistance(gt.PartialPermutation, gp.perm.packer, st.Permutation, g))
		}
	}
	return best
}

func (o *Oracle) partialDistance(pt *PartialTable, pk Packer, v []int, g int) int {
	key := o.keys[g][:pk.Width()]
	pk.Pack(v, key)
	if d, ok := pt.Lookup(key); ok {
		return d
	}
	return pt.MaxDepth() + 1
}
