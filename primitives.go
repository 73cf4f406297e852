package prunetable

import (
	"github.com/tamirms/prunetable/internal/combin"
	"github.com/tamirms/prunetable/internal/keypack"
	"github.com/tamirms/prunetable/internal/moves"
)

// Ranker is a bijection between the vectors of a domain and [0, Size()).
type Ranker interface {
	Size() int64
	Rank(v []int) int64
	Unrank(idx int64, dst []int)
}

// Packer encodes fixed-length vectors as fixed-width word sequences.
// The encoding must be collision-free for vectors of the configured length.
type Packer interface {
	Width() int
	Pack(v []int, dst []uint64)
	Unpack(key []uint64, dst []int)
}

// Mover applies one move's effect on a group. See package moves for the
// convention the default implementation follows.
type Mover interface {
	ApplyPermutation(cur, move, dst []int)
	ApplyOrientation(cur, moveOri, movePerm []int, omod int, dst []int)
}

// Primitives bundles the combinatorial collaborators the builders and the
// oracle call into. Ranker constructors return false when the domain size
// overflows; such axes are built as partial tables.
type Primitives struct {
	PermutationRanker func(solved []int) (Ranker, bool)
	OrientationRanker func(n, omod int) (Ranker, bool)
	NewPacker         func(n, maxValue int) Packer
	Mover             Mover
}

// DefaultPrimitives returns the reference implementations.
func DefaultPrimitives() Primitives {
	return Primitives{
		PermutationRanker: defaultPermutationRanker,
		OrientationRanker: func(n, omod int) (Ranker, bool) {
			r, ok := combin.NewOrientation(n, omod)
			if !ok {
				return nil, false
			}
			return r, true
		},
		NewPacker: func(n, maxValue int) Packer { return keypack.New(n, maxValue) },
		Mover:     moves.Applier{},
	}
}

// defaultPermutationRanker uses the Lehmer-code ranker for distinct labels and
// the multiset ranker when labels repeat.
func defaultPermutationRanker(solved []int) (Ranker, bool) {
	if combin.Unique(solved) {
		r, ok := combin.NewPermutation(solved)
		if !ok {
			return nil, false
		}
		return r, true
	}
	r, ok := combin.NewMultiset(solved)
	if !ok {
		return nil, false
	}
	return r, true
}

// withDefaults fills unset fields from DefaultPrimitives.
func (p Primitives) withDefaults() Primitives {
	d := DefaultPrimitives()
	if p.PermutationRanker == nil {
		p.PermutationRanker = d.PermutationRanker
	}
	if p.OrientationRanker == nil {
		p.OrientationRanker = d.OrientationRanker
	}
	if p.NewPacker == nil {
		p.NewPacker = d.NewPacker
	}
	if p.Mover == nil {
		p.Mover = d.Mover
	}
	return p
}
