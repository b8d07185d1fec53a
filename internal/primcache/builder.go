package primcache

import "xgenseed/internal/mathutil"

// Strand is the input for NewSpline: the vertices of one strand and,
// optionally, one width per vertex.
type Strand struct {
	Points []mathutil.Vec3
	Widths []float32
}

// NewSpline flattens strands into a single-sample spline cache. Widths are
// only recorded when every strand carries them.
func NewSpline(strands []Strand, constantWidth float32) *Cache {
	c := &Cache{
		IsSpline:      true,
		ConstantWidth: constantWidth,
		StrandCount:   len(strands),
	}

	withWidths := len(strands) > 0
	for _, s := range strands {
		if len(s.Widths) == 0 {
			withWidths = false
		}
	}

	var sample Sample
	for _, s := range strands {
		sample.NumVertices = append(sample.NumVertices, int32(len(s.Points)))
		for _, p := range s.Points {
			sample.Points = append(sample.Points, float32(p[0]), float32(p[1]), float32(p[2]))
		}
		if withWidths {
			c.Widths = append(c.Widths, s.Widths...)
		}
	}
	c.Samples = []Sample{sample}
	return c
}

// AddMotionSample appends a copy of sample 0 with every point offset by d.
func (c *Cache) AddMotionSample(d mathutil.Vec3) {
	if len(c.Samples) == 0 {
		return
	}
	base := c.Samples[0]
	s := Sample{
		NumVertices: append([]int32(nil), base.NumVertices...),
		Points:      make([]float32, len(base.Points)),
	}
	for i, v := range base.Points {
		s.Points[i] = v + float32(d[i%3])
	}
	c.Samples = append(c.Samples, s)
}
