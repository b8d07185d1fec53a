// Package curves turns primitive-cache strands into cubic curve segments
// and collects them in a curve object.
package curves

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"xgenseed/internal/mathutil"
)

// ControlPointCount is the number of control points of every segment.
const ControlPointCount = 4

// Basis is the spline basis shared by all segments of an object.
type Basis int

const (
	BasisNone Basis = iota
	BasisLinear
	BasisBezier
	BasisBSpline
	BasisCatmullRom
)

func (b Basis) String() string {
	switch b {
	case BasisLinear:
		return "linear"
	case BasisBezier:
		return "bezier"
	case BasisBSpline:
		return "bspline"
	case BasisCatmullRom:
		return "catmullrom"
	default:
		return "none"
	}
}

// Color is a linear RGB triple.
type Color [3]float32

// Gray replicates v into all three channels.
func Gray(v float32) Color {
	return Color{v, v, v}
}

// Segment is one 4-point cubic curve piece.
type Segment struct {
	Points    [ControlPointCount]mathutil.Vec3
	Widths    [ControlPointCount]float32
	Opacities [ControlPointCount]float32
	Colors    [ControlPointCount]Color
}

// Object owns the emitted segments and their basis. It is filled by a single
// Converter and handed to the scene graph once conversion is complete.
type Object struct {
	name     string
	basis    Basis
	segments []Segment
}

// NewObject creates an empty curve object.
func NewObject(name string) *Object {
	return &Object{name: name}
}

func (o *Object) Name() string { return o.name }

// Model identifies the object kind in the scene graph.
func (o *Object) Model() string { return "curve_object" }

// PushBasis declares the basis. Only the first declaration counts.
func (o *Object) PushBasis(b Basis) {
	if o.basis == BasisNone {
		o.basis = b
	}
}

func (o *Object) Basis() Basis { return o.basis }

// PushSegments appends segments in order.
func (o *Object) PushSegments(segs ...Segment) {
	o.segments = append(o.segments, segs...)
}

func (o *Object) SegmentCount() int { return len(o.segments) }

// Segments returns the segments. The slice must not be modified.
func (o *Object) Segments() []Segment { return o.segments }

// Bounds returns the box enclosing every control point, widened by half
// the point's width. An empty object has a zero box.
func (o *Object) Bounds() r3.Box {
	if len(o.segments) == 0 {
		return r3.Box{}
	}
	inf := math.Inf(1)
	box := r3.Box{Min: r3.Vec{X: inf, Y: inf, Z: inf}, Max: r3.Vec{X: -inf, Y: -inf, Z: -inf}}
	for i := range o.segments {
		s := &o.segments[i]
		for p, pt := range s.Points {
			r := float64(s.Widths[p]) / 2
			box.Min.X = math.Min(box.Min.X, pt[0]-r)
			box.Min.Y = math.Min(box.Min.Y, pt[1]-r)
			box.Min.Z = math.Min(box.Min.Z, pt[2]-r)
			box.Max.X = math.Max(box.Max.X, pt[0]+r)
			box.Max.Y = math.Max(box.Max.Y, pt[1]+r)
			box.Max.Z = math.Max(box.Max.Z, pt[2]+r)
		}
	}
	return box
}
