package primcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xgenseed/internal/mathutil"
	"xgenseed/internal/xgerr"
)

func line(n int) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, n)
	for i := range pts {
		pts[i] = mathutil.Vec3{float64(i), 0, 0}
	}
	return pts
}

func TestNewSpline(t *testing.T) {
	c := NewSpline([]Strand{
		{Points: line(4), Widths: []float32{1, 2, 3, 4}},
		{Points: line(4), Widths: []float32{5, 6, 7, 8}},
	}, 0)

	require.NoError(t, c.Validate())
	assert.Equal(t, 2, c.StrandCount)
	assert.Equal(t, 1, c.NumMotionSamples())
	assert.True(t, c.HasWidths())
	assert.Equal(t, 4, c.WidthStride())

	s, err := c.Sample(0)
	require.NoError(t, err)
	assert.Equal(t, 8, s.TotalVertices())

	p, err := s.Point(7)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{3, 0, 0}, p)

	w, err := c.Width(5)
	require.NoError(t, err)
	assert.Equal(t, float32(6), w)
}

func TestNewSplineDropsPartialWidths(t *testing.T) {
	c := NewSpline([]Strand{
		{Points: line(4), Widths: []float32{1, 2, 3, 4}},
		{Points: line(4)},
	}, 0.5)
	assert.False(t, c.HasWidths())
	assert.Equal(t, 0, c.WidthStride())
}

func TestBoundsChecks(t *testing.T) {
	c := NewSpline([]Strand{{Points: line(2)}}, 0)
	s, err := c.Sample(0)
	require.NoError(t, err)

	_, err = s.Point(2)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	_, err = s.Point(-1)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	_, err = c.Sample(1)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	_, err = c.Width(0)
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
	_, err = s.VertexCount(3)
	assert.ErrorIs(t, err, xgerr.ErrMalformedCache)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Cache)
		want   error
	}{
		{"short positions", func(c *Cache) { c.Samples[0].Points = c.Samples[0].Points[:9] }, xgerr.ErrOutOfRange},
		{"negative count", func(c *Cache) { c.Samples[0].NumVertices[0] = -1 }, xgerr.ErrMalformedCache},
		{"missing counts", func(c *Cache) { c.StrandCount = 3 }, xgerr.ErrMalformedCache},
		{"uneven widths", func(c *Cache) { c.Widths = []float32{1, 2, 3} }, xgerr.ErrMalformedCache},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSpline([]Strand{{Points: line(4)}, {Points: line(4)}}, 0)
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), tt.want)
		})
	}
}

func TestDumpRoundTrip(t *testing.T) {
	c := NewSpline([]Strand{
		{Points: line(5), Widths: []float32{1, 1, 1, 1, 1}},
		{Points: line(3), Widths: []float32{2, 2, 2, 2, 2}},
	}, 0.25)
	c.Shutter = []float32{0, 0.5}
	c.AddMotionSample(mathutil.Vec3{0, 1, 0})

	path := filepath.Join(t.TempDir(), "face0.xgpc")
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, float32(1), got.Samples[1].Points[1])
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	good := Encode(NewSpline([]Strand{{Points: line(4)}}, 0))

	_, err := Decode([]byte("BMD\x0a"))
	assert.ErrorIs(t, err, xgerr.ErrMalformedCache)

	bad := append([]byte(nil), good...)
	bad[4] = 9
	_, err = Decode(bad)
	assert.ErrorIs(t, err, xgerr.ErrMalformedCache)

	_, err = Decode(good[:len(good)-3])
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
}
