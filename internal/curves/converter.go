package curves

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext/prng"

	"xgenseed/internal/logging"
	"xgenseed/internal/primcache"
	"xgenseed/internal/xgerr"
)

// DefaultSeed is the Mersenne Twister reference seed.
const DefaultSeed = 5489

// FallbackWidth replaces a non-positive constant width.
const FallbackWidth = 0.01

// Stats summarizes one conversion pass.
type Stats struct {
	Strands        int
	ShortStrands   int // fewer than four vertices, no segments
	Segments       int
	IgnoredSamples int // motion samples after the first
}

// Converter appends the segments of spline caches to an Object.
type Converter struct {
	obj  *Object
	seed uint64
}

// NewConverter returns a converter writing into obj. Every Convert call
// restarts the color stream from seed.
func NewConverter(obj *Object, seed uint64) *Converter {
	return &Converter{obj: obj, seed: seed}
}

// Object returns the destination object.
func (cv *Converter) Object() *Object { return cv.obj }

// Convert turns the first motion sample of cache into segments. Later
// samples are not converted. Segments are appended only when the whole
// sample converts; any out-of-range read leaves the object untouched.
func (cv *Converter) Convert(cache *primcache.Cache) (Stats, error) {
	var st Stats
	if cache.NumMotionSamples() == 0 {
		return st, nil
	}
	if err := cache.Validate(); err != nil {
		return st, err
	}
	st.IgnoredSamples = cache.NumMotionSamples() - 1

	sample, err := cache.Sample(0)
	if err != nil {
		return st, err
	}

	constantWidth := cache.ConstantWidth
	if constantWidth <= 0 {
		constantWidth = FallbackWidth
	}
	stride := cache.WidthStride()

	rng := prng.NewMT19937()
	rng.Seed(cv.seed)

	var segs []Segment
	vertexOff, widthOff := 0, 0
	for k := 0; k < cache.StrandCount; k++ {
		v, err := sample.VertexCount(k)
		if err != nil {
			return st, err
		}
		gray := Gray(rand1(rng))
		st.Strands++
		if v < ControlPointCount {
			st.ShortStrands++
		}

		for w := range Windows(v) {
			var seg Segment
			for p := 0; p < ControlPointCount; p++ {
				pt, err := sample.Point(vertexOff + w.Points[p])
				if err != nil {
					return st, fmt.Errorf("curves: strand %d window %d: %w", k, w.Start, err)
				}
				seg.Points[p] = pt
				seg.Opacities[p] = 1
				seg.Colors[p] = gray

				if stride == 0 {
					seg.Widths[p] = constantWidth
					continue
				}
				if w.Widths[p] >= stride {
					return st, fmt.Errorf("curves: strand %d width %d of %d: %w", k, w.Widths[p], stride, xgerr.ErrOutOfRange)
				}
				width, err := cache.Width(widthOff + w.Widths[p])
				if err != nil {
					return st, fmt.Errorf("curves: strand %d window %d: %w", k, w.Start, err)
				}
				seg.Widths[p] = width
			}
			segs = append(segs, seg)
		}

		vertexOff += v
		widthOff += stride
	}

	if st.IgnoredSamples > 0 {
		logging.Logger().Debug("curves: motion samples not converted", "ignored", st.IgnoredSamples)
	}

	cv.obj.PushSegments(segs...)
	st.Segments = len(segs)
	return st, nil
}

// rand1 draws a float in the closed interval [0, 1].
func rand1(rng *prng.MT19937) float32 {
	return float32(float64(rng.Uint32()) * (1.0 / math.MaxUint32))
}
