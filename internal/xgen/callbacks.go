package xgen

import (
	"fmt"

	"xgenseed/internal/curves"
	"xgenseed/internal/logging"
	"xgenseed/internal/metrics"
	"xgenseed/internal/primcache"
	"xgenseed/internal/scene"
	"xgenseed/internal/xform"
	"xgenseed/internal/xgerr"
)

// Options tunes one Callbacks instance.
type Options struct {
	// Seed restarts the strand color stream at every spline flush.
	Seed uint64
	// MaxTransformDepth limits the instance walk; 0 walks to the root.
	MaxTransformDepth int
	Metrics           *metrics.Metrics
}

// FlushStats counts the flushes answered so far.
type FlushStats struct {
	Flushes  map[PrimitiveKind]int
	Unknown  int
	Failed   int
	Segments int
}

// Callbacks answers generator queries for one procedural assembly and feeds
// its spline caches into a curve object. It lives for one expansion.
type Callbacks struct {
	DefaultCallbacks

	params    scene.Params
	sequence  *xform.Sequence
	converter *curves.Converter
	metrics   *metrics.Metrics
	stats     FlushStats
}

// NewCallbacks snapshots the assembly parameters, fills in missing camera
// parameters from the project's active camera and composes the assembly's
// transform sequence.
func NewCallbacks(project *scene.Project, a *scene.Assembly, obj *curves.Object, opts Options) (*Callbacks, error) {
	seq, err := xform.Compose(a, opts.MaxTransformDepth)
	if err != nil {
		return nil, fmt.Errorf("xgen: transform of %s: %w", a.Name(), err)
	}

	cb := &Callbacks{
		params:    a.Params().Clone(),
		sequence:  seq,
		converter: curves.NewConverter(obj, opts.Seed),
		metrics:   opts.Metrics,
		stats:     FlushStats{Flushes: make(map[PrimitiveKind]int)},
	}
	addCameraParams(project, cb.params)
	return cb, nil
}

// Params returns the parameters the generator sees, including synthesized
// camera entries.
func (cb *Callbacks) Params() scene.Params { return cb.params }

// Stats returns the flush counters.
func (cb *Callbacks) Stats() FlushStats { return cb.stats }

// Float answers from the assembly parameters.
func (cb *Callbacks) Float(attr FloatAttr) float32 {
	p, ok := floatParams[attr]
	if !ok {
		return 0
	}
	return float32(cb.params.Float(p.key, float64(p.def)))
}

// String answers from the assembly parameters, see stringParams for the
// fallbacks.
func (cb *Callbacks) String(attr StringAttr) string {
	if attr == Off {
		if v, ok := cb.params.Get("Off"); ok {
			if off, _ := scene.ParseBool(v); off {
				return OffValue
			}
		}
		return ""
	}
	p, ok := stringParams[attr]
	if !ok {
		return ""
	}
	return cb.params.GetOptional(p.key, p.def)
}

// Override returns the named parameter or "".
func (cb *Callbacks) Override(name string) string {
	return cb.params.GetOptional(name, "")
}

// Transform returns the parent-to-local matrix at time.
func (cb *Callbacks) Transform(time float32) xform.Matrix44 {
	logging.Logger().Debug("XGenCallbacks: getTransform called", "time", time)
	return cb.sequence.Evaluate(float64(time))
}

// Flush dispatches one primitive cache. Unknown primitive types are logged
// and reported as skippable; a malformed spline cache is terminal.
func (cb *Callbacks) Flush(geom string, cache *primcache.Cache) error {
	log := logging.Logger()

	kind, err := KindOf(cache)
	if err != nil {
		cb.stats.Unknown++
		log.Error("XGenCallbacks: unknown primitive type found", "type", cache.PrimitiveType, "geom", geom)
		return xgerr.Skip("flush "+geom, err)
	}
	cb.stats.Flushes[kind]++
	cb.metrics.Flush(kind.String())

	switch kind {
	case KindSpline:
		return cb.flushSplines(geom, cache)
	default:
		log.Debug("XGenCallbacks: flush_" + kind.String() + "s called")
		return nil
	}
}

func (cb *Callbacks) flushSplines(geom string, cache *primcache.Cache) error {
	log := logging.Logger()
	log.Debug("XGenCallbacks: flush_splines called",
		"strands", cache.StrandCount,
		"samples", cache.NumMotionSamples(),
		"widths", len(cache.Widths),
		"shutter", len(cache.Shutter),
	)

	st, err := cb.converter.Convert(cache)
	if err != nil {
		cb.stats.Failed++
		log.Error("XGenCallbacks: spline cache rejected", "geom", geom, "error", err)
		return xgerr.Abort("flush "+geom, err)
	}
	cb.stats.Segments += st.Segments
	cb.metrics.Converted(st.Strands, st.Segments, st.IgnoredSamples)
	return nil
}

var _ ProceduralCallbacks = (*Callbacks)(nil)
