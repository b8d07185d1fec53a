package curves

import "iter"

// Window holds the strand-relative source indices of one segment's control
// points and widths.
type Window struct {
	Start  int
	Points [ControlPointCount]int
	Widths [ControlPointCount]int
}

// Windows yields the segment windows of a strand with v vertices. Strands
// shorter than four vertices yield nothing.
//
// Within window j the point cursor starts at j and steps after slot p only
// while j+p+1 < v, so the tail repeats the last real vertex instead of
// reading past the strand. The width cursor follows the same tail rule but
// also holds still while j+p == 0, which keeps the first window's widths one
// step behind its points.
func Windows(v int) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for j := 0; j < v-3; j++ {
			w := Window{Start: j}
			pc, wc := j, j
			for p := 0; p < ControlPointCount; p++ {
				w.Points[p] = pc
				w.Widths[p] = wc
				if j+p+1 < v {
					pc++
					if j+p > 0 {
						wc++
					}
				}
			}
			if !yield(w) {
				return
			}
		}
	}
}
