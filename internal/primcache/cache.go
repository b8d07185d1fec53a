// Package primcache is a read-only, bounds-checked view over the flat
// buffers an XGen generator hands over at each flush.
package primcache

import (
	"fmt"

	"xgenseed/internal/mathutil"
	"xgenseed/internal/xgerr"
)

// Primitive type names reported by the generator for non-spline caches.
const (
	TypeCard    = "CardPrimitive"
	TypeSphere  = "SpherePrimitive"
	TypeArchive = "ArchivePrimitive"
)

// Sample holds one motion sample: flattened xyz positions and the vertex
// count of every strand.
type Sample struct {
	Points      []float32
	NumVertices []int32
}

// Cache is one flushed primitive cache.
type Cache struct {
	PrimitiveType string
	IsSpline      bool
	ConstantWidth float32
	StrandCount   int
	Shutter       []float32

	// Widths holds one contiguous sub-range per strand. Empty means every
	// point uses ConstantWidth.
	Widths  []float32
	Samples []Sample
}

// NumMotionSamples returns the number of time samples in the cache.
func (c *Cache) NumMotionSamples() int {
	return len(c.Samples)
}

// HasWidths reports whether a per-vertex width stream exists.
func (c *Cache) HasWidths() bool {
	return len(c.Widths) > 0
}

// WidthStride returns the length of each strand's width sub-range.
func (c *Cache) WidthStride() int {
	if c.StrandCount <= 0 || len(c.Widths) == 0 {
		return 0
	}
	return len(c.Widths) / c.StrandCount
}

// Sample returns motion sample i.
func (c *Cache) Sample(i int) (*Sample, error) {
	if i < 0 || i >= len(c.Samples) {
		return nil, fmt.Errorf("primcache: sample %d of %d: %w", i, len(c.Samples), xgerr.ErrOutOfRange)
	}
	return &c.Samples[i], nil
}

// Point returns vertex v of the sample.
func (s *Sample) Point(v int) (mathutil.Vec3, error) {
	o := 3 * v
	if v < 0 || o+3 > len(s.Points) {
		return mathutil.Vec3{}, fmt.Errorf("primcache: point %d of %d: %w", v, len(s.Points)/3, xgerr.ErrOutOfRange)
	}
	return mathutil.Vec3{float64(s.Points[o]), float64(s.Points[o+1]), float64(s.Points[o+2])}, nil
}

// VertexCount returns the vertex count of strand k.
func (s *Sample) VertexCount(k int) (int, error) {
	if k < 0 || k >= len(s.NumVertices) {
		return 0, fmt.Errorf("primcache: strand %d of %d: %w", k, len(s.NumVertices), xgerr.ErrMalformedCache)
	}
	n := int(s.NumVertices[k])
	if n < 0 {
		return 0, fmt.Errorf("primcache: strand %d has %d vertices: %w", k, n, xgerr.ErrMalformedCache)
	}
	return n, nil
}

// TotalVertices sums the vertex counts of the sample.
func (s *Sample) TotalVertices() int {
	total := 0
	for _, n := range s.NumVertices {
		total += int(n)
	}
	return total
}

// Width returns entry i of the width stream.
func (c *Cache) Width(i int) (float32, error) {
	if i < 0 || i >= len(c.Widths) {
		return 0, fmt.Errorf("primcache: width %d of %d: %w", i, len(c.Widths), xgerr.ErrOutOfRange)
	}
	return c.Widths[i], nil
}

// Validate checks the buffer-length invariants of every sample.
func (c *Cache) Validate() error {
	if c.StrandCount < 0 {
		return fmt.Errorf("primcache: strand count %d: %w", c.StrandCount, xgerr.ErrMalformedCache)
	}
	if len(c.Widths) > 0 && (c.StrandCount == 0 || len(c.Widths)%c.StrandCount != 0) {
		return fmt.Errorf("primcache: %d widths for %d strands: %w", len(c.Widths), c.StrandCount, xgerr.ErrMalformedCache)
	}
	for i := range c.Samples {
		s := &c.Samples[i]
		if len(s.NumVertices) < c.StrandCount {
			return fmt.Errorf("primcache: sample %d has %d vertex counts for %d strands: %w",
				i, len(s.NumVertices), c.StrandCount, xgerr.ErrMalformedCache)
		}
		for k := 0; k < c.StrandCount; k++ {
			if _, err := s.VertexCount(k); err != nil {
				return err
			}
		}
		if want := 3 * s.TotalVertices(); len(s.Points) < want {
			return fmt.Errorf("primcache: sample %d has %d coordinates, need %d: %w",
				i, len(s.Points), want, xgerr.ErrOutOfRange)
		}
	}
	return nil
}
