// Package moves applies a move's effect on one piece group.
//
// A move is expressed as the state it produces from solved: movePerm[i] is
// the 1-based slot whose piece lands in slot i, and moveOri[i] is the twist
// added to the piece arriving in slot i.
package moves

// Applier is the reference move-application primitive.
type Applier struct{}

// ApplyPermutation writes cur permuted by move into dst.
func (Applier) ApplyPermutation(cur, move, dst []int) {
	for i, src := range move {
		dst[i] = cur[src-1]
	}
}

// ApplyOrientation writes cur permuted by movePerm and twisted by moveOri
// into dst, reducing mod omod.
func (Applier) ApplyOrientation(cur, moveOri, movePerm []int, omod int, dst []int) {
	for i, src := range movePerm {
		dst[i] = (cur[src-1] + moveOri[i]) % omod
	}
}

// IsIdentity reports whether perm and ori describe the solved state.
func IsIdentity(perm, ori []int) bool {
	for i, p := range perm {
		if p != i+1 {
			return false
		}
	}
	for _, o := range ori {
		if o != 0 {
			return false
		}
	}
	return true
}
