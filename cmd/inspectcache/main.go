package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"xgenseed/internal/curves"
	"xgenseed/internal/primcache"
	"xgenseed/internal/replay"
	"xgenseed/internal/xgen"
)

func main() {
	strands := flag.Bool("strands", false, "List every strand")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: inspectcache [-strands] file.xgpc...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := inspect(path, *strands); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, listStrands bool) error {
	c, err := primcache.Load(path)
	if err != nil {
		return err
	}

	kind := "unknown"
	if k, err := xgen.KindOf(c); err == nil {
		kind = k.String()
	}
	fmt.Printf("%s\n", path)
	fmt.Printf("  Type: %q (%s), Strands: %d, Motion samples: %d\n",
		c.PrimitiveType, kind, c.StrandCount, c.NumMotionSamples())
	if c.HasWidths() {
		fmt.Printf("  Widths: %d (%d per strand)\n", len(c.Widths), c.WidthStride())
	} else {
		fmt.Printf("  Constant width: %g\n", c.ConstantWidth)
	}
	if len(c.Shutter) > 0 {
		fmt.Printf("  Shutter: %v\n", c.Shutter)
	}

	verr := c.Validate()
	if verr != nil {
		fmt.Printf("  Invalid: %v\n", verr)
	}
	if c.NumMotionSamples() == 0 {
		return verr
	}

	s := &c.Samples[0]
	b := replay.Bounds(c)
	if !xgen.IsEmptyBox(b) {
		fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
			b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
	}

	minV, maxV, short, segments := -1, 0, 0, 0
	for k := 0; k < c.StrandCount; k++ {
		v, err := s.VertexCount(k)
		if err != nil {
			return errors.Join(verr, err)
		}
		if minV < 0 || v < minV {
			minV = v
		}
		maxV = max(maxV, v)
		if v < curves.ControlPointCount {
			short++
		}
		n := max(v-curves.ControlPointCount+1, 0)
		segments += n
		if listStrands {
			fmt.Printf("    strand %d: %d vertices, %d segments\n", k, v, n)
		}
	}
	if c.StrandCount > 0 {
		fmt.Printf("  Vertices: %d total, %d..%d per strand, %d short strands\n",
			s.TotalVertices(), minV, maxV, short)
	}
	fmt.Printf("  Segments: %d\n", segments)
	return verr
}
