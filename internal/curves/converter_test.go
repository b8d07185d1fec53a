package curves

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xgenseed/internal/mathutil"
	"xgenseed/internal/primcache"
	"xgenseed/internal/xgerr"
)

func line(n int) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, n)
	for i := range pts {
		pts[i] = mathutil.Vec3{float64(i), 0, 0}
	}
	return pts
}

func convert(t *testing.T, cache *primcache.Cache, seed uint64) (*Object, Stats) {
	t.Helper()
	obj := NewObject("curve_test")
	st, err := NewConverter(obj, seed).Convert(cache)
	require.NoError(t, err)
	return obj, st
}

func TestSegmentCountPerStrand(t *testing.T) {
	for _, v := range []int{0, 1, 2, 3, 4, 5, 10} {
		cache := primcache.NewSpline([]primcache.Strand{{Points: line(v)}}, 0)
		obj, st := convert(t, cache, DefaultSeed)

		want := max(0, v-3)
		assert.Equal(t, want, obj.SegmentCount(), "V=%d", v)
		assert.Equal(t, want, st.Segments)
		for _, s := range obj.Segments() {
			assert.Equal(t, [4]float32{1, 1, 1, 1}, s.Opacities)
		}
	}
}

func TestThreeVerticesProduceNothing(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(3)}}, 0)
	obj, st := convert(t, cache, DefaultSeed)
	assert.Zero(t, obj.SegmentCount())
	assert.Equal(t, 1, st.ShortStrands)
}

func TestFiveVertexWindows(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(5)}}, 0)
	obj, _ := convert(t, cache, DefaultSeed)

	require.Equal(t, 2, obj.SegmentCount())
	assert.Equal(t, [4]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, obj.Segments()[0].Points)
	assert.Equal(t, [4]mathutil.Vec3{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}}, obj.Segments()[1].Points)
}

func TestWindowIndices(t *testing.T) {
	got := slices.Collect(Windows(5))
	require.Len(t, got, 2)
	assert.Equal(t, [4]int{0, 1, 2, 3}, got[0].Points)
	assert.Equal(t, [4]int{0, 0, 1, 2}, got[0].Widths)
	assert.Equal(t, [4]int{1, 2, 3, 4}, got[1].Points)
	assert.Equal(t, [4]int{1, 2, 3, 4}, got[1].Widths)

	assert.Empty(t, slices.Collect(Windows(3)))
	assert.Empty(t, slices.Collect(Windows(0)))

	// early stop
	n := 0
	for range Windows(100) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestWindowsNeverReadPastStrand(t *testing.T) {
	for v := 4; v < 40; v++ {
		for w := range Windows(v) {
			for p := 0; p < ControlPointCount; p++ {
				assert.Less(t, w.Points[p], v)
				assert.Less(t, w.Widths[p], v)
			}
		}
	}
}

func TestConstantWidthFallback(t *testing.T) {
	tests := []struct {
		constant float32
		want     float32
	}{
		{0, FallbackWidth},
		{-2, FallbackWidth},
		{0.2, 0.2},
	}
	for _, tt := range tests {
		cache := primcache.NewSpline([]primcache.Strand{{Points: line(6)}, {Points: line(4)}}, tt.constant)
		obj, _ := convert(t, cache, DefaultSeed)
		require.Equal(t, 4, obj.SegmentCount())
		for _, s := range obj.Segments() {
			assert.Equal(t, [4]float32{tt.want, tt.want, tt.want, tt.want}, s.Widths)
		}
	}
}

func TestWidthStream(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{
		{Points: line(5), Widths: []float32{10, 11, 12, 13, 14}},
		{Points: line(4), Widths: []float32{20, 21, 22, 23, 24}},
	}, 0)
	obj, _ := convert(t, cache, DefaultSeed)

	require.Equal(t, 3, obj.SegmentCount())
	assert.Equal(t, [4]float32{10, 10, 11, 12}, obj.Segments()[0].Widths)
	assert.Equal(t, [4]float32{11, 12, 13, 14}, obj.Segments()[1].Widths)
	// second strand reads from its own sub-range
	assert.Equal(t, [4]float32{20, 20, 21, 22}, obj.Segments()[2].Widths)
	assert.Equal(t, [4]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, obj.Segments()[2].Points)
}

func TestColorSharedPerStrand(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(8)}, {Points: line(8)}}, 0)
	obj, _ := convert(t, cache, DefaultSeed)
	require.Equal(t, 10, obj.SegmentCount())

	first := obj.Segments()[0].Colors[0]
	assert.Equal(t, first[0], first[1])
	assert.Equal(t, first[1], first[2])
	assert.GreaterOrEqual(t, first[0], float32(0))
	assert.LessOrEqual(t, first[0], float32(1))

	for i, s := range obj.Segments() {
		want := first
		if i >= 5 {
			want = obj.Segments()[5].Colors[0]
		}
		for p := 0; p < ControlPointCount; p++ {
			assert.Equal(t, want, s.Colors[p], "segment %d slot %d", i, p)
		}
	}
	assert.NotEqual(t, first, obj.Segments()[5].Colors[0])
}

func TestSeededDeterminism(t *testing.T) {
	strands := make([]primcache.Strand, 50)
	for i := range strands {
		strands[i] = primcache.Strand{Points: line(4 + i%3)}
	}
	cache := primcache.NewSpline(strands, 0)

	a, _ := convert(t, cache, 7)
	b, _ := convert(t, cache, 7)
	c, _ := convert(t, cache, 8)
	assert.Equal(t, a.Segments(), b.Segments())
	assert.NotEqual(t, a.Segments(), c.Segments())

	// every Convert call restarts the stream
	obj := NewObject("twice")
	cv := NewConverter(obj, 7)
	_, err := cv.Convert(cache)
	require.NoError(t, err)
	_, err = cv.Convert(cache)
	require.NoError(t, err)
	n := a.SegmentCount()
	assert.Equal(t, obj.Segments()[:n], obj.Segments()[n:])
}

func TestShortStrandStillDrawsColor(t *testing.T) {
	alone, _ := convert(t, primcache.NewSpline([]primcache.Strand{{Points: line(4)}}, 0), DefaultSeed)
	after, _ := convert(t, primcache.NewSpline([]primcache.Strand{{Points: line(2)}, {Points: line(4)}}, 0), DefaultSeed)
	require.Equal(t, 1, after.SegmentCount())
	assert.NotEqual(t, alone.Segments()[0].Colors[0], after.Segments()[0].Colors[0])
}

func TestOnlyFirstMotionSample(t *testing.T) {
	static := primcache.NewSpline([]primcache.Strand{{Points: line(6)}}, 0)
	moving := primcache.NewSpline([]primcache.Strand{{Points: line(6)}}, 0)
	moving.AddMotionSample(mathutil.Vec3{0, 5, 0})

	a, _ := convert(t, static, DefaultSeed)
	b, st := convert(t, moving, DefaultSeed)
	assert.Equal(t, a.Segments(), b.Segments())
	assert.Equal(t, 1, st.IgnoredSamples)
}

func TestOutOfRangeLeavesObjectUntouched(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(5)}, {Points: line(5)}}, 0)
	cache.Samples[0].Points = cache.Samples[0].Points[:3*7]

	obj := NewObject("broken")
	_, err := NewConverter(obj, DefaultSeed).Convert(cache)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	assert.Zero(t, obj.SegmentCount())
}

func TestShortWidthRangeIsOutOfRange(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(6)}, {Points: line(6)}}, 0)
	cache.Widths = []float32{1, 1, 1, 1, 2, 2, 2, 2}

	obj := NewObject("widths")
	_, err := NewConverter(obj, DefaultSeed).Convert(cache)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	assert.Zero(t, obj.SegmentCount())
}

func TestIndivisibleWidthBuffer(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(4)}, {Points: line(4)}}, 0)
	cache.Widths = []float32{1, 1, 1, 1, 2, 2, 2, 2, 3}

	obj := NewObject("widths")
	_, err := NewConverter(obj, DefaultSeed).Convert(cache)
	assert.ErrorIs(t, err, xgerr.ErrMalformedCache)
	assert.Zero(t, obj.SegmentCount())
}

func TestMalformedVertexCount(t *testing.T) {
	cache := primcache.NewSpline([]primcache.Strand{{Points: line(5)}}, 0)
	cache.Samples[0].NumVertices[0] = -4

	_, err := NewConverter(NewObject("neg"), DefaultSeed).Convert(cache)
	assert.ErrorIs(t, err, xgerr.ErrMalformedCache)
}

func TestEmptyCache(t *testing.T) {
	obj, st := convert(t, &primcache.Cache{IsSpline: true}, DefaultSeed)
	assert.Zero(t, obj.SegmentCount())
	assert.Equal(t, Stats{}, st)
}

func TestObjectBasisAndBounds(t *testing.T) {
	obj := NewObject("curve_a")
	assert.Equal(t, BasisNone, obj.Basis())
	obj.PushBasis(BasisBSpline)
	obj.PushBasis(BasisLinear)
	assert.Equal(t, BasisBSpline, obj.Basis())
	assert.Equal(t, "bspline", obj.Basis().String())
	assert.Equal(t, "curve_a", obj.Name())

	assert.Zero(t, obj.Bounds())

	cache := primcache.NewSpline([]primcache.Strand{{Points: line(5)}}, 0.5)
	_, err := NewConverter(obj, DefaultSeed).Convert(cache)
	require.NoError(t, err)

	b := obj.Bounds()
	assert.InDelta(t, -0.25, b.Min.X, 1e-9)
	assert.InDelta(t, 4.25, b.Max.X, 1e-9)
	assert.InDelta(t, -0.25, b.Min.Y, 1e-9)
	assert.InDelta(t, 0.25, b.Max.Z, 1e-9)
}
