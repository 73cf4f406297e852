package moves

import (
	"slices"
	"testing"
)

func TestApplyPermutation(t *testing.T) {
	var a Applier
	dst := make([]int, 4)
	// 4-cycle: slot 1 takes the piece from slot 4, and so on.
	cycle := []int{4, 1, 2, 3}
	a.ApplyPermutation([]int{1, 2, 3, 4}, cycle, dst)
	if !slices.Equal(dst, []int{4, 1, 2, 3}) {
		t.Fatalf("one turn = %v", dst)
	}

	state := []int{1, 2, 3, 4}
	for range 4 {
		a.ApplyPermutation(state, cycle, dst)
		copy(state, dst)
	}
	if !slices.Equal(state, []int{1, 2, 3, 4}) {
		t.Errorf("four turns = %v, want solved", state)
	}
}

func TestApplyOrientation(t *testing.T) {
	var a Applier
	dst := make([]int, 3)
	perm := []int{2, 3, 1}
	twist := []int{1, 0, 2}
	a.ApplyOrientation([]int{0, 0, 0}, twist, perm, 3, dst)
	if !slices.Equal(dst, []int{1, 0, 2}) {
		t.Fatalf("from solved = %v", dst)
	}
	a.ApplyOrientation([]int{2, 1, 0}, twist, perm, 3, dst)
	// slot 0 gets slot 1's twist (1) + 1, slot 1 gets slot 2's (0) + 0, slot 2 gets slot 0's (2) + 2.
	if !slices.Equal(dst, []int{2, 0, 1}) {
		t.Errorf("from twisted = %v", dst)
	}
}

func TestIsIdentity(t *testing.T) {
	if !IsIdentity([]int{1, 2, 3}, []int{0, 0, 0}) {
		t.Error("solved not identity")
	}
	if IsIdentity([]int{2, 1, 3}, []int{0, 0, 0}) {
		t.Error("swap reported as identity")
	}
	if IsIdentity([]int{1, 2, 3}, []int{0, 1, 0}) {
		t.Error("twist reported as identity")
	}
}
