package combin

import (
	"fmt"
	"slices"
	"testing"
)

type ranker interface {
	Size() int64
	Rank(v []int) int64
	Unrank(idx int64, dst []int)
}

// checkBijection verifies Unrank then Rank is the identity on [0, Size())
// and that every unranked vector is distinct.
func checkBijection(t *testing.T, r ranker, n int) {
	t.Helper()
	seen := make(map[string]bool)
	buf := make([]int, n)
	for i := int64(0); i < r.Size(); i++ {
		r.Unrank(i, buf)
		if got := r.Rank(buf); got != i {
			t.Fatalf("Rank(Unrank(%d)) = %d (vector %v)", i, got, buf)
		}
		key := fmt.Sprint(buf)
		if seen[key] {
			t.Fatalf("Unrank(%d) = %v already produced", i, buf)
		}
		seen[key] = true
	}
}

func TestFactorial(t *testing.T) {
	tests := []struct {
		n    int
		want int64
		ok   bool
	}{
		{0, 1, true},
		{1, 1, true},
		{5, 120, true},
		{10, 3628800, true},
		{20, 2432902008176640000, true},
		{21, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := Factorial(tt.n)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Factorial(%d) = %d, %v; want %d, %v", tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMultinomial(t *testing.T) {
	tests := []struct {
		v    []int
		want int64
	}{
		{[]int{1, 2, 3}, 6},
		{[]int{1, 1, 2, 2}, 6},
		{[]int{1, 1, 1, 2}, 4},
		{[]int{3, 3, 3}, 1},
		{[]int{1, 1, 2, 2, 3, 3}, 90},
	}
	for _, tt := range tests {
		got, ok := Multinomial(tt.v)
		if !ok || got != tt.want {
			t.Errorf("Multinomial(%v) = %d, %v; want %d", tt.v, got, ok, tt.want)
		}
	}

	big := make([]int, 40)
	for i := range big {
		big[i] = i
	}
	if _, ok := Multinomial(big); ok {
		t.Error("Multinomial of 40 distinct labels should overflow")
	}
}

func TestPermutationLexicographic(t *testing.T) {
	p, ok := NewPermutation([]int{1, 2, 3})
	if !ok {
		t.Fatal("NewPermutation failed")
	}
	order := [][]int{{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1}}
	for want, v := range order {
		if got := p.Rank(v); got != int64(want) {
			t.Errorf("Rank(%v) = %d, want %d", v, got, want)
		}
	}
	checkBijection(t, p, 3)
}

func TestPermutationBijection(t *testing.T) {
	for n := 1; n <= 7; n++ {
		solved := make([]int, n)
		for i := range solved {
			solved[i] = i + 1
		}
		p, ok := NewPermutation(solved)
		if !ok {
			t.Fatalf("NewPermutation(%d) failed", n)
		}
		checkBijection(t, p, n)
	}
}

func TestPermutationRejects(t *testing.T) {
	if _, ok := NewPermutation([]int{1, 1, 2}); ok {
		t.Error("repeated labels accepted")
	}
	if _, ok := NewPermutation(nil); ok {
		t.Error("empty vector accepted")
	}
	long := make([]int, 21)
	for i := range long {
		long[i] = i + 1
	}
	if _, ok := NewPermutation(long); ok {
		t.Error("21! should overflow")
	}
}

func TestMultisetBijection(t *testing.T) {
	for _, solved := range [][]int{
		{1, 1, 2, 2},
		{1, 2, 2, 3, 3, 3},
		{4, 4, 4, 4, 1},
		{7},
	} {
		m, ok := NewMultiset(solved)
		if !ok {
			t.Fatalf("NewMultiset(%v) failed", solved)
		}
		checkBijection(t, m, len(solved))
	}
}

func TestMultisetLexicographic(t *testing.T) {
	m, _ := NewMultiset([]int{1, 1, 2})
	order := [][]int{{1, 1, 2}, {1, 2, 1}, {2, 1, 1}}
	for want, v := range order {
		if got := m.Rank(v); got != int64(want) {
			t.Errorf("Rank(%v) = %d, want %d", v, got, want)
		}
	}
	buf := make([]int, 3)
	m.Unrank(2, buf)
	if !slices.Equal(buf, []int{2, 1, 1}) {
		t.Errorf("Unrank(2) = %v", buf)
	}
}

func TestOrientationBijection(t *testing.T) {
	for _, tc := range []struct{ n, omod int }{{3, 2}, {4, 3}, {2, 5}, {5, 1}} {
		o, ok := NewOrientation(tc.n, tc.omod)
		if !ok {
			t.Fatalf("NewOrientation(%d, %d) failed", tc.n, tc.omod)
		}
		checkBijection(t, o, tc.n)
	}
	if _, ok := NewOrientation(64, 3); ok {
		t.Error("3^64 should overflow")
	}
	if _, ok := NewOrientation(3, 0); ok {
		t.Error("omod 0 accepted")
	}
}

func TestUnique(t *testing.T) {
	if !Unique([]int{3, 1, 2}) {
		t.Error("distinct labels reported as repeated")
	}
	if Unique([]int{3, 1, 3}) {
		t.Error("repeated labels reported as distinct")
	}
}
