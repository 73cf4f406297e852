// Package puzzledef reads YAML puzzle definitions and turns them into the
// prunetable.Puzzle the table builders consume.
//
// A definition names its piece groups, the solved state, an optional ignore
// mask and the base moves:
//
//	name: 2x2x2 <U,R>
//	sets:
//	  - {name: corners, size: 8, omod: 3}
//	solved:
//	  corners: {permutation: [1, 2, 3, 4, 5, 6, 7, 8]}
//	moves:
//	  - name: U
//	    state:
//	      corners:
//	        permutation: [4, 1, 2, 3, 5, 6, 7, 8]
//
// Omitted vectors default to identity (permutation) and zero (orientation).
// Unless powers is false, every base move is expanded into all of its powers
// up to the identity: R, R2, ..., R'.
package puzzledef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tamirms/prunetable"
	"github.com/tamirms/prunetable/internal/moves"
)

// maxOrder bounds power generation. Move orders on real puzzles are tiny;
// anything larger is a malformed definition.
const maxOrder = 1 << 12

// ErrInvalid is returned for definitions that parse but do not describe a puzzle.
var ErrInvalid = errors.New("puzzledef: invalid definition")

var defValidate = validator.New()

// Definition is the decoded YAML document.
type Definition struct {
	Name   string           `yaml:"name" validate:"required"`
	Sets   []Set            `yaml:"sets" validate:"required,min=1,unique=Name,dive"`
	Solved map[string]State `yaml:"solved"`
	Ignore map[string]State `yaml:"ignore"`
	Moves  []Move           `yaml:"moves" validate:"required,min=1,unique=Name,dive"`
	Powers *bool            `yaml:"powers"`
}

// Set declares one piece group.
type Set struct {
	Name    string `yaml:"name" validate:"required"`
	Size    int    `yaml:"size" validate:"gt=0"`
	OMod    int    `yaml:"omod" validate:"gt=0"`
	OParity bool   `yaml:"oparity"`
	PParity bool   `yaml:"pparity"`
}

// State is one group's permutation and orientation vectors.
type State struct {
	Permutation []int `yaml:"permutation"`
	Orientation []int `yaml:"orientation"`
}

// Move is a base move. QTM defaults to 1.
type Move struct {
	Name  string           `yaml:"name" validate:"required"`
	QTM   int              `yaml:"qtm" validate:"gte=0"`
	State map[string]State `yaml:"state"`
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition and checks its structure. Unknown fields are errors.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, err
	}
	if err := defValidate.Struct(&def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := def.checkSetNames(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) checkSetNames() error {
	known := make(map[string]bool, len(d.Sets))
	for _, s := range d.Sets {
		known[s.Name] = true
	}
	check := func(where string, states map[string]State) error {
		for _, name := range slices.Sorted(maps.Keys(states)) {
			if !known[name] {
				return fmt.Errorf("%w: %s names unknown set %q", ErrInvalid, where, name)
			}
		}
		return nil
	}
	if err := check("solved", d.Solved); err != nil {
		return err
	}
	if err := check("ignore", d.Ignore); err != nil {
		return err
	}
	for _, m := range d.Moves {
		if err := check("move "+m.Name, m.State); err != nil {
			return err
		}
	}
	return nil
}

// Puzzle builds the prunetable inputs. Move IDs are assigned from 1 in
// definition order, powers directly after their base move.
func (d *Definition) Puzzle() (*prunetable.Puzzle, error) {
	p := &prunetable.Puzzle{
		Datasets: make([]prunetable.Dataset, len(d.Sets)),
		Solved:   make(prunetable.Position, len(d.Sets)),
	}
	if len(d.Ignore) > 0 {
		p.Ignore = make(prunetable.Position, len(d.Sets))
	}
	for g, s := range d.Sets {
		solved := d.Solved[s.Name]
		st := prunetable.GroupState{
			Permutation: orIdentity(solved.Permutation, s.Size),
			Orientation: orZero(solved.Orientation, s.Size),
		}
		p.Solved[g] = st
		p.Datasets[g] = prunetable.Dataset{
			Name:       s.Name,
			Size:       s.Size,
			OMod:       s.OMod,
			UniquePerm: distinct(st.Permutation),
			OParity:    s.OParity,
			PParity:    s.PParity,
		}
		if p.Ignore != nil {
			ig := d.Ignore[s.Name]
			p.Ignore[g] = prunetable.GroupState{
				Permutation: slices.Clone(ig.Permutation),
				Orientation: slices.Clone(ig.Orientation),
			}
		}
	}

	powers := d.Powers == nil || *d.Powers
	id := 1
	for _, md := range d.Moves {
		base, err := d.baseMove(md)
		if err != nil {
			return nil, err
		}
		base.ID, base.ParentID = id, id
		if !powers {
			p.Moves = append(p.Moves, base)
			id++
			continue
		}
		ms, err := expandPowers(base, d.Sets)
		if err != nil {
			return nil, err
		}
		p.Moves = append(p.Moves, ms...)
		id += len(ms)
	}
	return p, nil
}

func (d *Definition) baseMove(md Move) (prunetable.Move, error) {
	m := prunetable.Move{
		Name:  md.Name,
		QTM:   md.QTM,
		State: make(prunetable.Position, len(d.Sets)),
	}
	if m.QTM == 0 {
		m.QTM = 1
	}
	for g, s := range d.Sets {
		st := md.State[s.Name]
		if (st.Permutation != nil && len(st.Permutation) != s.Size) ||
			(st.Orientation != nil && len(st.Orientation) != s.Size) {
			return prunetable.Move{}, fmt.Errorf("%w: move %q set %q has vectors of length %d/%d, want %d",
				ErrInvalid, md.Name, s.Name, len(st.Permutation), len(st.Orientation), s.Size)
		}
		m.State[g] = prunetable.GroupState{
			Permutation: orIdentity(st.Permutation, s.Size),
			Orientation: orZero(st.Orientation, s.Size),
		}
	}
	return m, nil
}

// expandPowers returns base followed by base^2 .. base^(order-1). The last
// power is named with a trailing apostrophe as the inverse turn.
func expandPowers(base prunetable.Move, sets []Set) ([]prunetable.Move, error) {
	if identity(base.State) {
		return nil, fmt.Errorf("%w: move %q is the identity", ErrInvalid, base.Name)
	}
	for g, s := range sets {
		if !validPermutation(base.State[g].Permutation) {
			return nil, fmt.Errorf("%w: move %q set %q is not a permutation", ErrInvalid, base.Name, s.Name)
		}
	}
	var a moves.Applier
	out := []prunetable.Move{base}
	cur := base.State
	for order := 2; ; order++ {
		if order > maxOrder {
			return nil, fmt.Errorf("%w: move %q has order above %d", ErrInvalid, base.Name, maxOrder)
		}
		next := make(prunetable.Position, len(cur))
		for g, s := range sets {
			mv := base.State[g]
			next[g] = prunetable.GroupState{
				Permutation: make([]int, s.Size),
				Orientation: make([]int, s.Size),
			}
			a.ApplyPermutation(cur[g].Permutation, mv.Permutation, next[g].Permutation)
			a.ApplyOrientation(cur[g].Orientation, mv.Orientation, mv.Permutation, s.OMod, next[g].Orientation)
		}
		if identity(next) {
			break
		}
		out = append(out, prunetable.Move{
			Name:     base.Name + strconv.Itoa(order),
			ID:       base.ID + order - 1,
			ParentID: base.ID,
			State:    next,
		})
		cur = next
	}
	// Turning k times costs the same as turning order-k times the other way.
	n := len(out) + 1
	for k := 1; k < len(out); k++ {
		out[k].QTM = base.QTM * min(k+1, n-k-1)
	}
	if n > 2 {
		out[n-2].Name = base.Name + "'"
	}
	return out, nil
}

func identity(pos prunetable.Position) bool {
	for _, g := range pos {
		if !moves.IsIdentity(g.Permutation, g.Orientation) {
			return false
		}
	}
	return true
}

func validPermutation(p []int) bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 1 || v > len(p) || seen[v-1] {
			return false
		}
		seen[v-1] = true
	}
	return true
}

func orIdentity(v []int, n int) []int {
	if v != nil {
		return slices.Clone(v)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func orZero(v []int, n int) []int {
	if v != nil {
		return slices.Clone(v)
	}
	return make([]int, n)
}

func distinct(v []int) bool {
	seen := make(map[int]bool, len(v))
	for _, x := range v {
		if seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}
