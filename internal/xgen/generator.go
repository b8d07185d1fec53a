// Package xgen implements the callback surface an XGen-style generator
// queries while it traverses a patch, and dispatches its flushed caches.
package xgen

import (
	"gonum.org/v1/gonum/spatial/r3"

	"xgenseed/internal/primcache"
	"xgenseed/internal/xform"
)

// ProceduralCallbacks is what the generator calls back into while it
// renders faces.
type ProceduralCallbacks interface {
	Log(msg string)
	Bool(attr BoolAttr) bool
	Float(attr FloatAttr) float32
	String(attr StringAttr) string
	FloatArray(attr FloatArrayAttr) []float32
	Override(name string) string
	Transform(time float32) xform.Matrix44
	ArchiveBoundingBox(path string) (r3.Box, bool)
	Flush(geom string, cache *primcache.Cache) error
}

// Generator creates the patch and face renderers of one expansion.
type Generator interface {
	InitPatch(cb ProceduralCallbacks, args string) (PatchRenderer, error)
	InitFace(patch PatchRenderer, faceID uint32, cb ProceduralCallbacks) (FaceRenderer, error)
}

// PatchRenderer enumerates the faces of a patch.
type PatchRenderer interface {
	// NextFace returns the next face and its bounds; ok is false when the
	// traversal is done.
	NextFace() (bounds r3.Box, faceID uint32, ok bool)
}

// FaceRenderer renders one face, flushing caches through the callbacks.
type FaceRenderer interface {
	Render() bool
}

// IsEmptyBox reports whether b encloses nothing.
func IsEmptyBox(b r3.Box) bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}
