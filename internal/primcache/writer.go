package primcache

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Encode serializes the cache in the dump format read by Decode.
func Encode(c *Cache) []byte {
	w := &writer{buf: make([]byte, 0, 64)}
	w.buf = append(w.buf, magic...)
	w.buf = append(w.buf, version)
	w.str(c.PrimitiveType)
	var flags byte
	if c.IsSpline {
		flags |= flagSpline
	}
	w.buf = append(w.buf, flags)
	w.f32(c.ConstantWidth)
	w.u32(uint32(c.StrandCount))
	w.f32s(c.Shutter)
	w.f32s(c.Widths)
	w.u32(uint32(len(c.Samples)))
	for _, s := range c.Samples {
		w.u32(uint32(len(s.NumVertices)))
		for _, n := range s.NumVertices {
			w.u32(uint32(n))
		}
		w.f32s(s.Points)
	}
	return w.buf
}

// Save writes the cache to path.
func Save(path string, c *Cache) error {
	if err := os.WriteFile(path, Encode(c), 0644); err != nil {
		return fmt.Errorf("primcache: write %s: %w", path, err)
	}
	return nil
}

type writer struct {
	buf []byte
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) str(s string) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) f32s(vs []float32) {
	w.u32(uint32(len(vs)))
	for _, v := range vs {
		w.f32(v)
	}
}
