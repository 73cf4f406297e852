package prunetable

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/tamirms/prunetable/internal/moves"
)

const (
	testSeed1 = 0x9E3779B97F4A7C15
	testSeed2 = 0xD1B54A32D192ED03
)

// newTestRNG returns a deterministic RNG seeded from the test name.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// applyMove returns pos after m.
func applyMove(ds []Dataset, pos Position, m Move) Position {
	var a moves.Applier
	out := make(Position, len(pos))
	for g, st := range pos {
		eff := m.State[g]
		perm := make([]int, len(st.Permutation))
		ori := make([]int, len(st.Orientation))
		a.ApplyPermutation(st.Permutation, eff.Permutation, perm)
		a.ApplyOrientation(st.Orientation, eff.Orientation, eff.Permutation, ds[g].OMod, ori)
		out[g] = GroupState{Permutation: perm, Orientation: ori}
	}
	return out
}

func isIdentity(pos Position) bool {
	for _, st := range pos {
		if !moves.IsIdentity(st.Permutation, st.Orientation) {
			return false
		}
	}
	return true
}

// withPowers returns every power of every base move short of the identity,
// which makes the move set closed under inverses.
func withPowers(ds []Dataset, base []Move) []Move {
	var out []Move
	for _, m := range base {
		cur := m.State
		for k := 1; !isIdentity(cur); k++ {
			out = append(out, Move{
				Name:     fmt.Sprintf("%s%d", m.Name, k),
				ID:       len(out),
				ParentID: m.ID,
				QTM:      k,
				State:    cur,
			})
			cur = applyMove(ds, cur, m)
		}
	}
	return out
}

func identityGroup(n int) GroupState {
	st := GroupState{Permutation: make([]int, n), Orientation: make([]int, n)}
	for i := range st.Permutation {
		st.Permutation[i] = i + 1
	}
	return st
}

// swapPuzzle is a single group of three distinct pieces moved by the given
// transpositions (1-based position pairs).
func swapPuzzle(swaps ...[2]int) *Puzzle {
	ds := []Dataset{{Name: "trio", Size: 3, OMod: 1, UniquePerm: true}}
	p := &Puzzle{Datasets: ds, Solved: Position{identityGroup(3)}}
	for i, s := range swaps {
		st := identityGroup(3)
		st.Permutation[s[0]-1], st.Permutation[s[1]-1] = s[1], s[0]
		p.Moves = append(p.Moves, Move{Name: fmt.Sprintf("S%d%d", s[0], s[1]), ID: i, ParentID: i, QTM: 1, State: Position{st}})
	}
	return p
}

// toyPuzzle has a group of four twisting corners and a group of five edges
// with repeated labels and flips, turned by two faces.
func toyPuzzle() *Puzzle {
	ds := []Dataset{
		{Name: "corners", Size: 4, OMod: 3, UniquePerm: true},
		{Name: "edges", Size: 5, OMod: 2},
	}
	solved := Position{
		identityGroup(4),
		{Permutation: []int{1, 1, 2, 2, 3}, Orientation: make([]int, 5)},
	}
	u := Move{Name: "U", ID: 0, ParentID: 0, QTM: 1, State: Position{
		{Permutation: []int{4, 1, 2, 3}, Orientation: []int{0, 0, 0, 0}},
		{Permutation: []int{2, 3, 4, 1, 5}, Orientation: []int{0, 0, 0, 0, 0}},
	}}
	r := Move{Name: "R", ID: 1, ParentID: 1, QTM: 1, State: Position{
		{Permutation: []int{2, 3, 1, 4}, Orientation: []int{1, 2, 0, 0}},
		{Permutation: []int{1, 2, 4, 5, 3}, Orientation: []int{0, 0, 1, 0, 1}},
	}}
	return &Puzzle{Datasets: ds, Solved: solved, Moves: withPowers(ds, []Move{u, r})}
}

type reached struct {
	pos  Position
	dist int
}

// bfsPositions enumerates every full position within maxDepth of solved
// with its exact distance.
func bfsPositions(p *Puzzle, maxDepth int) []reached {
	seen := map[string]bool{fmt.Sprint(p.Solved): true}
	out := []reached{{pos: p.Solved, dist: 0}}
	frontier := []Position{p.Solved}
	for d := 1; d <= maxDepth; d++ {
		var next []Position
		for _, pos := range frontier {
			for _, m := range p.Moves {
				q := applyMove(p.Datasets, pos, m)
				k := fmt.Sprint(q)
				if seen[k] {
					continue
				}
				seen[k] = true
				next = append(next, q)
				out = append(out, reached{pos: q, dist: d})
			}
		}
		frontier = next
	}
	return out
}
