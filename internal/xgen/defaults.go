package xgen

import (
	"gonum.org/v1/gonum/spatial/r3"

	"xgenseed/internal/logging"
	"xgenseed/internal/primcache"
	"xgenseed/internal/xform"
)

// DefaultCallbacks answers every query with its neutral value: false, 0,
// empty strings, no arrays, identity transforms and unknown bounds. Embed it
// and override what matters.
type DefaultCallbacks struct{}

func (DefaultCallbacks) Log(msg string) {
	logging.Logger().Info("XGen procedural assembly: " + msg)
}

func (DefaultCallbacks) Bool(BoolAttr) bool                  { return false }
func (DefaultCallbacks) Float(FloatAttr) float32             { return 0 }
func (DefaultCallbacks) String(StringAttr) string            { return "" }
func (DefaultCallbacks) FloatArray(FloatArrayAttr) []float32 { return nil }
func (DefaultCallbacks) Override(string) string              { return "" }

func (DefaultCallbacks) Transform(float32) xform.Matrix44 {
	return xform.Matrix44{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// ArchiveBoundingBox never knows archive bounds.
func (DefaultCallbacks) ArchiveBoundingBox(string) (r3.Box, bool) {
	logging.Logger().Debug("XGenCallbacks: getArchiveBoundingBox called")
	return r3.Box{}, false
}

func (DefaultCallbacks) Flush(string, *primcache.Cache) error { return nil }

var _ ProceduralCallbacks = DefaultCallbacks{}
