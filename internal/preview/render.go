// Package preview draws a quick orthographic picture of a curve object so a
// conversion can be checked without a renderer.
package preview

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r3"

	"xgenseed/internal/curves"
	"xgenseed/internal/mathutil"
)

// Options controls the preview image.
type Options struct {
	Size        int // output edge in pixels
	Supersample int // render at Size*Supersample, then downsample
	// Steps is the number of line pieces per cubic segment.
	Steps int
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.Steps <= 0 {
		o.Steps = 8
	}
	return o
}

// Render projects obj onto the XY plane (Y up) and strokes every segment
// as a uniform cubic B-spline in its strand color. The background is
// transparent. An empty object gives a blank image.
func Render(obj *curves.Object, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample

	segs := obj.Segments()
	if len(segs) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	}

	view := newViewport(obj.Bounds(), renderSize, min(16*opts.Supersample, renderSize/8))
	dst := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	z := vector.NewRasterizer(0, 0)

	for i := range segs {
		s := &segs[i]
		prev, prevW := evalSegment(s, 0)
		c := strandColor(s.Colors[0])
		for k := 1; k <= opts.Steps; k++ {
			cur, curW := evalSegment(s, float64(k)/float64(opts.Steps))
			strokePiece(z, dst, view.project(prev), view.project(cur),
				view.pixels(prevW)/2, view.pixels(curW)/2, c)
			prev, prevW = cur, curW
		}
	}

	return downsample(dst, opts.Size)
}

// viewport maps scene XY to pixels, centered and scaled to fit with a margin.
type viewport struct {
	cx, cy float64
	scale  float64
	half   float64
}

func newViewport(b r3.Box, size, margin int) viewport {
	span := math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	if span < 0.001 {
		span = 0.001
	}
	return viewport{
		cx:    (b.Min.X + b.Max.X) / 2,
		cy:    (b.Min.Y + b.Max.Y) / 2,
		scale: float64(size-2*margin) / span,
		half:  float64(size) / 2,
	}
}

func (v viewport) project(p mathutil.Vec3) [2]float64 {
	return [2]float64{
		v.half + (p[0]-v.cx)*v.scale,
		v.half - (p[1]-v.cy)*v.scale,
	}
}

func (v viewport) pixels(w float64) float64 {
	return w * v.scale
}

// evalSegment evaluates position and width of a uniform cubic B-spline
// segment at t in [0, 1].
func evalSegment(s *curves.Segment, t float64) (mathutil.Vec3, float64) {
	t2, t3 := t*t, t*t*t
	b := [4]float64{
		(1 - 3*t + 3*t2 - t3) / 6,
		(3*t3 - 6*t2 + 4) / 6,
		(-3*t3 + 3*t2 + 3*t + 1) / 6,
		t3 / 6,
	}
	var p mathutil.Vec3
	var w float64
	for i := range b {
		p = p.Add(s.Points[i].Scale(b[i]))
		w += float64(s.Widths[i]) * b[i]
	}
	return p, w
}

func strandColor(c curves.Color) color.RGBA {
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 255}
}

func to8(v float32) uint8 {
	return clamp8(float64(v) * 255)
}

// strokePiece fills the quad around a→b with half-widths ha and hb.
// Half-widths below half a pixel are raised so thin hair stays visible.
func strokePiece(z *vector.Rasterizer, dst *image.RGBA, a, b [2]float64, ha, hb float64, c color.RGBA) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return
	}
	ha, hb = math.Max(ha, 0.5), math.Max(hb, 0.5)
	nx, ny := -dy/l, dx/l

	quad := [4][2]float64{
		{a[0] + nx*ha, a[1] + ny*ha},
		{b[0] + nx*hb, b[1] + ny*hb},
		{b[0] - nx*hb, b[1] - ny*hb},
		{a[0] - nx*ha, a[1] - ny*ha},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range quad {
		minX, minY = math.Min(minX, q[0]), math.Min(minY, q[1])
		maxX, maxY = math.Max(maxX, q[0]), math.Max(maxY, q[1])
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	clipped := r.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}

	// the rasterizer does not clip against dst, so its frame is the clipped rect
	z.Reset(clipped.Dx(), clipped.Dy())
	ox, oy := float64(clipped.Min.X), float64(clipped.Min.Y)
	z.MoveTo(float32(quad[0][0]-ox), float32(quad[0][1]-oy))
	for _, q := range quad[1:] {
		z.LineTo(float32(q[0]-ox), float32(q[1]-oy))
	}
	z.ClosePath()
	z.Draw(dst, clipped, image.NewUniform(c), image.Point{})
}
