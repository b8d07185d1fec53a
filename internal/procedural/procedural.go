// Package procedural expands XGen patch assemblies into curve objects.
package procedural

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xgenseed/internal/curves"
	"xgenseed/internal/logging"
	"xgenseed/internal/mathutil"
	"xgenseed/internal/metrics"
	"xgenseed/internal/scene"
	"xgenseed/internal/xgen"
	"xgenseed/internal/xgerr"
)

// Model is the assembly model handled by this package.
const Model = "xgen_patch_assembly"

// DefaultMaterial binds the curve instance when the assembly names none.
const DefaultMaterial = "initialShadingGroup_material"

// Metadata describes the assembly model to a host UI.
type Metadata struct {
	Name  string
	Label string
}

// Factory creates XGen patch assemblies.
type Factory struct{}

func (Factory) Model() string { return Model }

func (Factory) Metadata() Metadata {
	return Metadata{Name: Model, Label: "XGen Patch Assembly"}
}

// Create returns a detached assembly of the XGen model.
func (Factory) Create(name string, params scene.Params) *scene.Assembly {
	if params == nil {
		params = scene.Params{}
	}
	return scene.NewAssembly(name, Model, params)
}

// IsProcedural reports whether a is an XGen patch assembly.
func IsProcedural(a *scene.Assembly) bool {
	return a.Model() == Model
}

// Options configures Expand.
type Options struct {
	Generator xgen.Generator
	// Seed of the strand colors; the assembly's "seed" parameter wins.
	Seed uint64
	// Material replaces DefaultMaterial when the assembly has no "material".
	Material          string
	MaxTransformDepth int
	Metrics           *metrics.Metrics
}

// Result describes one expansion.
type Result struct {
	Assembly   string
	Object     *curves.Object
	Instance   *scene.ObjectInstance
	Faces      int
	EmptyFaces int
	Flush      xgen.FlushStats
	Elapsed    time.Duration
}

// ObjectName returns the name of the curve object created for an assembly.
func ObjectName(assembly string) string {
	return "curve_" + assembly
}

// InstanceName returns the name of the curve object's instance.
func InstanceName(assembly string) string {
	return ObjectName(assembly) + "_inst"
}

// Expand runs the generator over the patch named by the assembly's
// xgen_args and inserts the resulting curve object and its instance into a.
//
// Any failure leaves a untouched and returns a nil Result. The first face
// whose renderer cannot be created or whose Render fails ends the traversal.
// ctx is only checked between faces.
func Expand(ctx context.Context, project *scene.Project, a *scene.Assembly, opts Options) (res *Result, err error) {
	start := time.Now()
	log := logging.Logger().With("assembly", a.Name())
	defer func() {
		elapsed := time.Since(start)
		if res != nil {
			res.Elapsed = elapsed
		}
		opts.Metrics.Expansion(err, elapsed)
	}()

	if opts.Generator == nil {
		return nil, xgerr.Abortf("expand "+a.Name(), xgerr.ErrGeneratorInit, "no generator configured")
	}

	args, ok := a.Params().Get(xgen.ParamArgs)
	if !ok {
		log.Error("XGen procedural error: missing xgen_args parameter")
		return nil, xgerr.Abortf("expand "+a.Name(), xgerr.ErrMissingParameter, "%s", xgen.ParamArgs)
	}
	log.Debug("XGen procedural expansion", "xgen_args", args)

	name := ObjectName(a.Name())
	obj := curves.NewObject(name)
	obj.PushBasis(curves.BasisBSpline)

	cb, err := xgen.NewCallbacks(project, a, obj, xgen.Options{
		Seed:              a.Params().Uint(xgen.ParamSeed, opts.Seed),
		MaxTransformDepth: opts.MaxTransformDepth,
		Metrics:           opts.Metrics,
	})
	if err != nil {
		log.Error("XGen procedural error: cannot resolve transform", "error", err)
		return nil, xgerr.Abort("expand "+a.Name(), err)
	}

	patch, err := opts.Generator.InitPatch(cb, args)
	if err != nil || patch == nil {
		log.Error("Error creating XGen patch renderer", "error", err)
		return nil, xgerr.Abort("expand "+a.Name(), errors.Join(xgerr.ErrGeneratorInit, err))
	}

	res = &Result{Assembly: a.Name(), Object: obj}
	for {
		if err := ctx.Err(); err != nil {
			log.Warn("XGen procedural expansion aborted", "faces", res.Faces)
			return nil, xgerr.Abort("expand "+a.Name(), err)
		}
		bounds, faceID, ok := patch.NextFace()
		if !ok {
			break
		}
		res.Faces++
		if xgen.IsEmptyBox(bounds) {
			res.EmptyFaces++
			continue
		}

		face, err := opts.Generator.InitFace(patch, faceID, cb)
		if err != nil || face == nil {
			log.Error("Error creating XGen face renderer", "face", faceID, "error", err)
			return nil, xgerr.Abort("expand "+a.Name(),
				fmt.Errorf("face %d: %w", faceID, errors.Join(xgerr.ErrFaceRendererInit, err)))
		}
		if !face.Render() {
			log.Error("XGen face render failed", "face", faceID)
			return nil, xgerr.Abort("expand "+a.Name(), fmt.Errorf("face %d: render failed", faceID))
		}
	}
	res.Flush = cb.Stats()

	// object and instance go in together or not at all
	if _, dup := a.ObjectInstances().Get(InstanceName(a.Name())); dup {
		return nil, xgerr.Abort("expand "+a.Name(), fmt.Errorf("duplicate instance %q", InstanceName(a.Name())))
	}
	if err := a.Objects().Insert(obj); err != nil {
		return nil, xgerr.Abort("expand "+a.Name(), err)
	}

	material := opts.Material
	if material == "" {
		material = DefaultMaterial
	}
	inst := scene.NewObjectInstance(
		InstanceName(a.Name()),
		name,
		mathutil.TransformIdentity(),
		map[string]string{"default": a.Params().GetOptional(xgen.ParamMaterial, material)},
	)
	if err := a.ObjectInstances().Insert(inst); err != nil {
		return nil, xgerr.Abort("expand "+a.Name(), err)
	}
	res.Instance = inst

	log.Info("XGen procedural expanded",
		"faces", res.Faces,
		"empty_faces", res.EmptyFaces,
		"segments", obj.SegmentCount(),
	)
	return res, nil
}
