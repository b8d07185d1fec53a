// Package replay is a generator that plays back recorded primitive cache
// dumps. Each dump is one face of the patch.
package replay

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"xgenseed/internal/logging"
	"xgenseed/internal/primcache"
	"xgenseed/internal/xgen"
	"xgenseed/internal/xgerr"
)

// Ext is the file extension of primitive cache dumps.
const Ext = ".xgpc"

// Generator replays dumps found relative to BaseDir.
type Generator struct {
	BaseDir string
}

// New returns a generator resolving relative paths against baseDir.
func New(baseDir string) *Generator {
	return &Generator{BaseDir: baseDir}
}

type face struct {
	path   string
	cache  *primcache.Cache
	bounds r3.Box
}

// Patch holds the faces of one expansion.
type Patch struct {
	geom  string
	faces []face
	next  int
}

// Len returns the number of faces.
func (p *Patch) Len() int { return len(p.faces) }

// NextFace implements xgen.PatchRenderer.
func (p *Patch) NextFace() (r3.Box, uint32, bool) {
	if p.next >= len(p.faces) {
		return r3.Box{}, 0, false
	}
	i := p.next
	p.next++
	return p.faces[i].bounds, uint32(i), true
}

// InitPatch resolves and loads every dump named by args. A description
// switched off through the Off attribute yields a patch without faces.
func (g *Generator) InitPatch(cb xgen.ProceduralCallbacks, args string) (xgen.PatchRenderer, error) {
	parsed, err := ParseArgs(args)
	if err != nil {
		return nil, err
	}
	patch := &Patch{geom: parsed.Patch()}

	if cb.String(xgen.Off) == xgen.OffValue {
		cb.Log("description is off, nothing to replay")
		return patch, nil
	}

	paths, err := g.resolve(parsed.Files)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("replay: no cache dumps in %q", args)
	}

	for _, path := range paths {
		c, err := primcache.Load(path)
		if err != nil {
			return nil, err
		}
		patch.faces = append(patch.faces, face{path: path, cache: c, bounds: Bounds(c)})
	}
	logging.Logger().Debug("replay: patch loaded", "geom", patch.geom, "faces", len(patch.faces))
	return patch, nil
}

// InitFace implements xgen.Generator.
func (g *Generator) InitFace(pr xgen.PatchRenderer, faceID uint32, cb xgen.ProceduralCallbacks) (xgen.FaceRenderer, error) {
	patch, ok := pr.(*Patch)
	if !ok {
		return nil, fmt.Errorf("replay: foreign patch renderer %T", pr)
	}
	if int(faceID) >= len(patch.faces) {
		return nil, fmt.Errorf("replay: face %d of %d: %w", faceID, len(patch.faces), xgerr.ErrOutOfRange)
	}
	f := patch.faces[faceID]
	return &faceRenderer{geom: patch.geom, face: f, cb: cb}, nil
}

type faceRenderer struct {
	geom string
	face face
	cb   xgen.ProceduralCallbacks
}

// Render flushes the face's cache. Skippable flush errors are logged and
// the face still counts as rendered.
func (r *faceRenderer) Render() bool {
	err := r.cb.Flush(r.geom, r.face.cache)
	switch {
	case err == nil:
		return true
	case xgerr.IsSkip(err):
		logging.Logger().Warn("replay: flush skipped", "file", r.face.path, "error", err)
		return true
	default:
		logging.Logger().Error("replay: flush failed", "file", r.face.path, "error", err)
		return false
	}
}

func (g *Generator) resolve(files []string) ([]string, error) {
	var out []string
	for _, f := range files {
		if !filepath.IsAbs(f) && g.BaseDir != "" {
			f = filepath.Join(g.BaseDir, f)
		}

		if strings.ContainsAny(f, "*?[") {
			matches, err := filepath.Glob(f)
			if err != nil {
				return nil, fmt.Errorf("replay: glob %s: %w", f, err)
			}
			slices.Sort(matches)
			out = append(out, matches...)
			continue
		}

		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		if !info.IsDir() {
			out = append(out, f)
			continue
		}
		entries, err := os.ReadDir(f)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), Ext) {
				out = append(out, filepath.Join(f, e.Name()))
			}
		}
	}
	return out, nil
}

// Bounds returns the box around the first motion sample of c. A cache
// without points yields an empty box (Min > Max).
func Bounds(c *primcache.Cache) r3.Box {
	b := r3.Box{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	if len(c.Samples) == 0 {
		return b
	}
	pts := c.Samples[0].Points
	for i := 0; i+2 < len(pts); i += 3 {
		v := r3.Vec{X: float64(pts[i]), Y: float64(pts[i+1]), Z: float64(pts[i+2])}
		b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
	}
	return b
}

var (
	_ xgen.Generator     = (*Generator)(nil)
	_ xgen.PatchRenderer = (*Patch)(nil)
)
