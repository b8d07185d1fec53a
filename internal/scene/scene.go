// Package scene is a minimal host scene graph: assemblies holding objects,
// object instances and nested assembly instances, plus cameras.
package scene

import (
	"iter"

	"xgenseed/internal/mathutil"
)

// Object is renderable geometry owned by an assembly.
type Object interface {
	Named
	Model() string
}

// ObjectInstance places an object with a transform and material bindings.
type ObjectInstance struct {
	name       string
	ObjectName string
	Transform  mathutil.Transform
	Materials  map[string]string
	Params     Params
}

// NewObjectInstance creates an instance of the named object.
func NewObjectInstance(name, object string, t mathutil.Transform, materials map[string]string) *ObjectInstance {
	return &ObjectInstance{
		name:       name,
		ObjectName: object,
		Transform:  t,
		Materials:  materials,
		Params:     Params{},
	}
}

func (oi *ObjectInstance) Name() string { return oi.name }

// AssemblyInstance places an assembly inside its parent assembly.
type AssemblyInstance struct {
	name         string
	AssemblyName string
	Transforms   mathutil.TransformSequence
}

// NewAssemblyInstance creates an instance of the named assembly.
func NewAssemblyInstance(name, assembly string, seq mathutil.TransformSequence) *AssemblyInstance {
	return &AssemblyInstance{name: name, AssemblyName: assembly, Transforms: seq}
}

func (ai *AssemblyInstance) Name() string { return ai.name }

// Assembly groups entities. Parent is a non-owning back-reference set when
// the assembly is inserted into another one; the root has none.
type Assembly struct {
	name   string
	model  string
	params Params
	parent *Assembly

	objects           Collection[Object]
	objectInstances   Collection[*ObjectInstance]
	assemblies        Collection[*Assembly]
	assemblyInstances Collection[*AssemblyInstance]
}

// ModelGeneric is the model of plain, non-procedural assemblies.
const ModelGeneric = "assembly"

// NewAssembly creates a detached assembly.
func NewAssembly(name, model string, params Params) *Assembly {
	if model == "" {
		model = ModelGeneric
	}
	return &Assembly{name: name, model: model, params: params.Clone()}
}

func (a *Assembly) Name() string      { return a.name }
func (a *Assembly) Model() string     { return a.model }
func (a *Assembly) Params() Params    { return a.params }
func (a *Assembly) Parent() *Assembly { return a.parent }

func (a *Assembly) Objects() *Collection[Object]                      { return &a.objects }
func (a *Assembly) ObjectInstances() *Collection[*ObjectInstance]     { return &a.objectInstances }
func (a *Assembly) Assemblies() *Collection[*Assembly]                { return &a.assemblies }
func (a *Assembly) AssemblyInstances() *Collection[*AssemblyInstance] { return &a.assemblyInstances }

// AddAssembly inserts child and sets its parent back-reference.
func (a *Assembly) AddAssembly(child *Assembly) error {
	if err := a.assemblies.Insert(child); err != nil {
		return err
	}
	child.parent = a
	return nil
}

// InstanceOf returns the first assembly instance referencing the assembly
// called name.
func (a *Assembly) InstanceOf(name string) (*AssemblyInstance, bool) {
	for ai := range a.assemblyInstances.All() {
		if ai.AssemblyName == name {
			return ai, true
		}
	}
	return nil, false
}

// Descendants yields every nested assembly depth-first in insertion order,
// each parent before its children. a itself is not yielded.
func (a *Assembly) Descendants() iter.Seq[*Assembly] {
	return func(yield func(*Assembly) bool) {
		var stack []*Assembly
		push := func(p *Assembly) {
			for i := len(p.assemblies.items) - 1; i >= 0; i-- {
				stack = append(stack, p.assemblies.items[i])
			}
		}
		push(a)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			push(cur)
		}
	}
}

// Camera is a scene camera. Model names follow the host renderer
// ("pinhole_camera", "thinlens_camera", "orthographic_camera", ...).
type Camera struct {
	name       string
	model      string
	Transforms mathutil.TransformSequence
	Params     Params
}

// NewCamera creates a camera.
func NewCamera(name, model string, seq mathutil.TransformSequence) *Camera {
	return &Camera{name: name, model: model, Transforms: seq, Params: Params{}}
}

func (c *Camera) Name() string  { return c.name }
func (c *Camera) Model() string { return c.model }

// Scene is the root of the hierarchy.
type Scene struct {
	root    *Assembly
	cameras Collection[*Camera]
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{root: NewAssembly("scene", ModelGeneric, nil)}
}

// Root returns the root assembly. It has no parent.
func (s *Scene) Root() *Assembly { return s.root }

func (s *Scene) Cameras() *Collection[*Camera] { return &s.cameras }

// Frame holds output settings.
type Frame struct {
	ActiveCamera string
}

// Project ties a scene to its frame.
type Project struct {
	Scene *Scene
	Frame Frame
}

// ActiveCamera resolves the frame's camera.
func (p *Project) ActiveCamera() (*Camera, bool) {
	if p.Scene == nil || p.Frame.ActiveCamera == "" {
		return nil, false
	}
	return p.Scene.cameras.Get(p.Frame.ActiveCamera)
}
