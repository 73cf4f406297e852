package prunetable

import "slices"

// axis selects the permutation or orientation half of a group.
type axis uint8

const (
	axisPermutation axis = iota
	axisOrientation
)

func (a axis) String() string {
	if a == axisOrientation {
		return "orientation"
	}
	return "permutation"
}

// axisPlan is how one axis of a group is tabulated. It is derived from the
// puzzle and the config alone, so writer and reader agree on the layout.
type axisPlan struct {
	ranker   Ranker // nil when the domain size overflows
	packer   Packer
	complete bool
}

type groupPlan struct {
	name string
	size int
	omod int
	perm axisPlan
	ori  axisPlan
}

func (gp *groupPlan) axis(a axis) *axisPlan {
	if a == axisOrientation {
		return &gp.ori
	}
	return &gp.perm
}

// planGroups decides the representation of every axis. A domain is complete
// when its size is representable and within the configured ceiling.
func planGroups(p *Puzzle, cfg *config) []groupPlan {
	plans := make([]groupPlan, len(p.Datasets))
	for g, ds := range p.Datasets {
		solved := p.Solved[g]
		gp := groupPlan{name: ds.label(g), size: ds.Size, omod: ds.OMod}

		if r, ok := cfg.prims.PermutationRanker(solved.Permutation); ok {
			gp.perm.ranker = r
			gp.perm.complete = r.Size() <= cfg.maxPermDomain
		}
		gp.perm.packer = cfg.prims.NewPacker(ds.Size, slices.Max(solved.Permutation))

		if r, ok := cfg.prims.OrientationRanker(ds.Size, ds.OMod); ok {
			gp.ori.ranker = r
			gp.ori.complete = r.Size() <= cfg.maxOriDomain
		}
		gp.ori.packer = cfg.prims.NewPacker(ds.Size, ds.OMod-1)

		plans[g] = gp
	}
	return plans
}

// stepper applies each move's effect on one axis of one group.
type stepper struct {
	mover Mover
	axis  axis
	omod  int
	perms [][]int
	oris  [][]int
}

func newStepper(mover Mover, a axis, g, omod int, ms []Move) *stepper {
	s := &stepper{
		mover: mover,
		axis:  a,
		omod:  omod,
		perms: make([][]int, len(ms)),
		oris:  make([][]int, len(ms)),
	}
	for i, m := range ms {
		s.perms[i] = m.State[g].Permutation
		s.oris[i] = m.State[g].Orientation
	}
	return s
}

func (s *stepper) len() int { return len(s.perms) }

// apply writes the result of move m on cur into dst.
func (s *stepper) apply(m int, cur, dst []int) {
	if s.axis == axisOrientation {
		s.mover.ApplyOrientation(cur, s.oris[m], s.perms[m], s.omod, dst)
		return
	}
	s.mover.ApplyPermutation(cur, s.perms[m], dst)
}

// axisVectors returns the solved vector and ignore mask of one axis.
// The mask is nil when nothing is ignored.
func axisVectors(p *Puzzle, g int, a axis) (solved, mask []int) {
	var m []int
	if a == axisOrientation {
		solved = p.Solved[g].Orientation
		if len(p.Ignore) != 0 {
			m = p.Ignore[g].Orientation
		}
	} else {
		solved = p.Solved[g].Permutation
		if len(p.Ignore) != 0 {
			m = p.Ignore[g].Permutation
		}
	}
	if !slices.Contains(m, 1) {
		return solved, nil
	}
	return solved, m
}

// matchesSolved reports whether v equals solved on every non-ignored position.
func matchesSolved(v, solved, mask []int) bool {
	for i := range v {
		if mask[i] == 0 && v[i] != solved[i] {
			return false
		}
	}
	return true
}
