package primcache

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"xgenseed/internal/xgerr"
)

// Dump files start with "XGPC" followed by a version byte. All numbers are
// little-endian.
const (
	magic   = "XGPC"
	version = 1

	flagSpline = 1 << 0
)

// maxCount bounds every length prefix so a corrupt file cannot trigger a
// huge allocation.
const maxCount = 1 << 28

// Load reads a primitive cache dump from disk.
func Load(path string) (*Cache, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("primcache: read %s: %w", path, err)
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("primcache: %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a dump held in memory.
func Decode(raw []byte) (*Cache, error) {
	if len(raw) < 5 || string(raw[:4]) != magic {
		return nil, fmt.Errorf("invalid header: %w", xgerr.ErrMalformedCache)
	}
	if raw[4] != version {
		return nil, fmt.Errorf("unsupported version %d: %w", raw[4], xgerr.ErrMalformedCache)
	}

	r := &reader{data: raw, off: 5}
	c := &Cache{}
	c.PrimitiveType = r.readStr()
	c.IsSpline = r.readByte()&flagSpline != 0
	c.ConstantWidth = r.readF32()
	c.StrandCount = int(r.readU32())
	c.Shutter = r.readF32s()
	c.Widths = r.readF32s()

	n := r.readCount()
	c.Samples = make([]Sample, 0, min(n, 64))
	for i := 0; i < n && r.err == nil; i++ {
		counts := r.readI32s()
		points := r.readF32s()
		c.Samples = append(c.Samples, Sample{Points: points, NumVertices: counts})
	}

	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// reader walks a byte slice. The first short read is sticky: later reads
// return zero values and Decode reports the error.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("truncated at offset %d (need %d bytes): %w", r.off, n, xgerr.ErrOutOfRange)
		return false
	}
	return true
}

func (r *reader) readByte() byte {
	if !r.need(1) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) readU16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readU32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) readF32() float32 {
	return math.Float32frombits(r.readU32())
}

func (r *reader) readStr() string {
	n := int(r.readU16())
	if !r.need(n) {
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

func (r *reader) readCount() int {
	n := r.readU32()
	if n > maxCount {
		if r.err == nil {
			r.err = fmt.Errorf("count %d at offset %d: %w", n, r.off-4, xgerr.ErrMalformedCache)
		}
		return 0
	}
	return int(n)
}

func (r *reader) readF32s() []float32 {
	n := r.readCount()
	if !r.need(4 * n) {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = r.readF32()
	}
	return out
}

func (r *reader) readI32s() []int32 {
	n := r.readCount()
	if !r.need(4 * n) {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(r.readU32())
	}
	return out
}
