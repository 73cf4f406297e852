package prunetable

import (
	"fmt"
	"iter"

	pdberrors "github.com/tamirms/prunetable/errors"
	"github.com/tamirms/prunetable/internal/keymap"
)

// TableKind records which representation backs one axis of a group.
type TableKind uint8

const (
	// TableNone means no table exists and the axis never prunes.
	TableNone TableKind = iota
	// TableComplete means a dense array indexed by rank.
	TableComplete
	// TablePartial means a capacity-bounded map keyed by packed vectors.
	TablePartial
)

// String returns the kind name used in diagnostics.
func (k TableKind) String() string {
	switch k {
	case TableComplete:
		return "complete"
	case TablePartial:
		return "partial"
	default:
		return "none"
	}
}

// Dataset is the static description of one piece group.
// PermTable and OriTable are written by Classify.
type Dataset struct {
	Name       string
	Size       int
	OMod       int
	UniquePerm bool
	OParity    bool
	PParity    bool
	PermTable  TableKind
	OriTable   TableKind
}

// label returns the group name used in log fields.
func (d Dataset) label(i int) string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("set%d", i)
}

// GroupState is the permutation and orientation of one group. Permutation
// holds piece labels; Orientation holds twists in [0, OMod).
type GroupState struct {
	Permutation []int
	Orientation []int
}

// Position is a full puzzle state, index-aligned with the datasets.
type Position []GroupState

// Clone returns a deep copy of p.
func (p Position) Clone() Position {
	out := make(Position, len(p))
	for i, g := range p {
		out[i] = GroupState{
			Permutation: append([]int(nil), g.Permutation...),
			Orientation: append([]int(nil), g.Orientation...),
		}
	}
	return out
}

// Move is a named transformation. State is the position the move produces
// from solved; each group's slot is that move's effect on the group.
type Move struct {
	Name     string
	ID       int
	ParentID int
	QTM      int
	State    Position
}

// Puzzle bundles the inputs a table build needs.
//
// Ignore is optional. Ignore[g].Permutation[i] == 1 marks position i of group g
// as a don't-care for the permutation axis, and likewise for Orientation. A
// group with empty masks ignores nothing.
type Puzzle struct {
	Solved   Position
	Moves    []Move
	Datasets []Dataset
	Ignore   Position
}

// PartialTable maps packed vectors to BFS depths. It always holds whole layers:
// every entry at depth d is a true shortest distance, and every vector absent
// from the table is farther than MaxDepth.
type PartialTable struct {
	m        *keymap.Map
	maxDepth int8
	degraded bool
}

func newPartialTable(m *keymap.Map, degraded bool) *PartialTable {
	return &PartialTable{m: m, maxDepth: m.MaxDepth(), degraded: degraded}
}

// Len returns the number of entries.
func (p *PartialTable) Len() int {
	if p == nil {
		return 0
	}
	return p.m.Len()
}

// KeyWidth returns the number of uint64 words per key.
func (p *PartialTable) KeyWidth() int { return p.m.Width() }

// MaxDepth returns the deepest layer stored, or -1 for an empty table.
func (p *PartialTable) MaxDepth() int {
	if p == nil {
		return -1
	}
	return int(p.maxDepth)
}

// Degraded reports whether a layer was discarded because the table hit its capacity.
func (p *PartialTable) Degraded() bool { return p != nil && p.degraded }

// Lookup returns the depth recorded for key.
func (p *PartialTable) Lookup(key []uint64) (int, bool) {
	d, ok := p.m.Get(key)
	return int(d), ok
}

// All yields every entry in insertion order, which is BFS order.
// The key slice aliases table storage.
func (p *PartialTable) All() iter.Seq2[[]uint64, int8] {
	return func(yield func([]uint64, int8) bool) {
		for i := range p.m.Len() {
			if !yield(p.m.Key(i), p.m.Depth(i)) {
				return
			}
		}
	}
}

// GroupTable holds the tables of one group. At most one of Permutation and
// PartialPermutation is populated, and likewise for orientation.
type GroupTable struct {
	Permutation        []int8
	Orientation        []int8
	PartialPermutation *PartialTable
	PartialOrientation *PartialTable
}

// Source tells where a TableSet came from.
type Source uint8

const (
	// SourceBuilt means every table was computed by BFS in this process.
	SourceBuilt Source = iota
	// SourceCache means the tables were decoded from a cache file.
	SourceCache
)

// String returns "built" or "cache".
func (s Source) String() string {
	if s == SourceCache {
		return "cache"
	}
	return "built"
}

// Report describes how Load produced a TableSet.
type Report struct {
	// Source is SourceCache when the tables were read back from disk. The
	// degraded flag is not stored in the cache, so TableSet.Degraded is
	// only meaningful when Source is SourceBuilt.
	Source Source
	// Path is the cache file consulted or written, empty for Build.
	Path string
	// Stale is set when an out-of-date cache forced the rebuild.
	Stale bool
	// CacheErr holds the reason a cache file was rejected, if one was.
	CacheErr error
	// WriteErr holds the failure to write the rebuilt cache, if any.
	WriteErr error
}

// TableSet is the set of pruning tables for a puzzle. Once classified it is
// read-only and safe to share between goroutines.
type TableSet struct {
	groups []GroupTable
	plans  []groupPlan
	kinds  []axisKinds
	report Report
}

type axisKinds struct {
	perm, ori TableKind
}

// Len returns the number of groups.
func (ts *TableSet) Len() int { return len(ts.groups) }

// Group returns the tables of group i.
func (ts *TableSet) Group(i int) *GroupTable { return &ts.groups[i] }

// Kinds returns the classified table kinds of group i.
func (ts *TableSet) Kinds(i int) (perm, ori TableKind) {
	return ts.kinds[i].perm, ts.kinds[i].ori
}

// Report returns how the set was produced.
func (ts *TableSet) Report() Report { return ts.report }

// Degraded returns one KindDegraded error per partial table that hit its capacity.
// A table set read from a cache file always returns nil here, even when the
// build that wrote the file was cut short; check Report().Source first.
func (ts *TableSet) Degraded() []error {
	var errs []error
	for i, g := range ts.groups {
		if g.PartialPermutation.Degraded() {
			errs = append(errs, pdberrors.Degraded("build permutation table", i))
		}
		if g.PartialOrientation.Degraded() {
			errs = append(errs, pdberrors.Degraded("build orientation table", i))
		}
	}
	return errs
}
