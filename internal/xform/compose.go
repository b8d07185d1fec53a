// Package xform resolves the animated transform of a procedural assembly
// from the assembly instances above it.
package xform

import (
	"fmt"

	"xgenseed/internal/mathutil"
	"xgenseed/internal/scene"
	"xgenseed/internal/xgerr"
)

// Matrix44 is a row-major 4×4 matrix in the generator's layout: points are
// row vectors, so translation sits in row 3.
type Matrix44 [4][4]float32

// Sequence is the composed transform sequence of one procedural assembly.
// It is built once and read-only afterward.
type Sequence struct {
	seq    mathutil.TransformSequence
	levels int
}

// Compose walks from a up through its ancestors. At each level it finds the
// instance, inside the current container, that references the assembly
// below, and composes acc := instance ∘ acc. The walk ends at the root or
// after maxDepth levels when maxDepth > 0; maxDepth 1 stops at the
// immediate parent.
//
// A level without a matching instance fails with xgerr.ErrNotFound.
func Compose(a *scene.Assembly, maxDepth int) (*Sequence, error) {
	if a.Parent() == nil {
		return nil, fmt.Errorf("xform: assembly %q has no parent: %w", a.Name(), xgerr.ErrNotFound)
	}

	var acc mathutil.TransformSequence
	levels := 0
	for cur := a; cur.Parent() != nil; cur = cur.Parent() {
		container := cur.Parent()
		inst, ok := container.InstanceOf(cur.Name())
		if !ok {
			return nil, fmt.Errorf("xform: no instance of %q in %q: %w", cur.Name(), container.Name(), xgerr.ErrNotFound)
		}
		acc = mathutil.ComposeSequences(inst.Transforms, acc)
		levels++
		if maxDepth > 0 && levels >= maxDepth {
			break
		}
	}
	return &Sequence{seq: acc, levels: levels}, nil
}

// Levels returns how many instance levels were composed.
func (s *Sequence) Levels() int { return s.levels }

// TransformSequence returns the composed sequence.
func (s *Sequence) TransformSequence() mathutil.TransformSequence { return s.seq }

// Transform evaluates the composed transform at time.
func (s *Sequence) Transform(time float64) mathutil.Transform {
	return s.seq.Evaluate(time)
}

// Evaluate returns the parent-to-local matrix at time in generator layout.
func (s *Sequence) Evaluate(time float64) Matrix44 {
	return ToMatrix44(s.seq.Evaluate(time).ParentToLocal)
}

// ToMatrix44 lays out a column-vector matrix for the generator: out[r][c]
// takes m(c, r).
func ToMatrix44(m mathutil.Mat4) Matrix44 {
	var out Matrix44
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = float32(m.At(c, r))
		}
	}
	return out
}
