package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"xgenseed/internal/mathutil"
)

// File is the YAML description of a scene.
type File struct {
	Camera     string         `yaml:"camera"`
	Cameras    []CameraDesc   `yaml:"cameras"`
	Assemblies []AssemblyDesc `yaml:"assemblies"`
	Instances  []InstanceDesc `yaml:"instances"`
}

// CameraDesc describes one camera.
type CameraDesc struct {
	Name       string          `yaml:"name"`
	Model      string          `yaml:"model"`
	Params     Params          `yaml:"params"`
	Transforms []TransformDesc `yaml:"transforms"`
}

// AssemblyDesc describes an assembly and its nested content.
type AssemblyDesc struct {
	Name       string         `yaml:"name"`
	Model      string         `yaml:"model"`
	Params     Params         `yaml:"params"`
	Assemblies []AssemblyDesc `yaml:"assemblies"`
	Instances  []InstanceDesc `yaml:"instances"`
}

// InstanceDesc describes an assembly instance.
type InstanceDesc struct {
	Name       string          `yaml:"name"`
	Assembly   string          `yaml:"assembly"`
	Transforms []TransformDesc `yaml:"transforms"`
}

// TransformDesc is one transform key. Matrix, when present, is a row-major
// local-to-parent matrix and wins over the TRS fields. Rotate is Euler XYZ
// in degrees.
type TransformDesc struct {
	Time      float64     `yaml:"time"`
	Matrix    []float64   `yaml:"matrix"`
	Translate [3]float64  `yaml:"translate"`
	Rotate    [3]float64  `yaml:"rotate"`
	Scale     *[3]float64 `yaml:"scale"`
}

// Transform converts the key to a Transform.
func (d TransformDesc) Transform() (mathutil.Transform, error) {
	if len(d.Matrix) > 0 {
		if len(d.Matrix) != 16 {
			return mathutil.Transform{}, fmt.Errorf("scene: matrix has %d entries, want 16", len(d.Matrix))
		}
		var m mathutil.Mat4
		copy(m[:], d.Matrix)
		return mathutil.NewTransform(m), nil
	}

	scale := [3]float64{1, 1, 1}
	if d.Scale != nil {
		scale = *d.Scale
	}
	q := mathutil.EulerToQuat(
		mathutil.Deg2Rad(d.Rotate[0]),
		mathutil.Deg2Rad(d.Rotate[1]),
		mathutil.Deg2Rad(d.Rotate[2]),
	)
	lin := mathutil.Mat3Mul(mathutil.QuatToMat3(q), mathutil.Mat3Diag(scale[0], scale[1], scale[2]))
	return mathutil.NewTransform(mathutil.FromMat3Translation(lin, mathutil.Vec3(d.Translate))), nil
}

func sequence(keys []TransformDesc) (mathutil.TransformSequence, error) {
	var seq mathutil.TransformSequence
	for _, k := range keys {
		t, err := k.Transform()
		if err != nil {
			return seq, err
		}
		seq.Set(k.Time, t)
	}
	return seq, nil
}

// Load reads a YAML scene description and builds the project.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	p, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return p, nil
}

// Build creates the project described by f.
func (f *File) Build() (*Project, error) {
	s := New()
	for _, cd := range f.Cameras {
		seq, err := sequence(cd.Transforms)
		if err != nil {
			return nil, fmt.Errorf("camera %s: %w", cd.Name, err)
		}
		cam := NewCamera(cd.Name, cd.Model, seq)
		if cd.Params != nil {
			cam.Params = cd.Params.Clone()
		}
		if err := s.cameras.Insert(cam); err != nil {
			return nil, err
		}
	}

	if err := populate(s.root, f.Assemblies, f.Instances); err != nil {
		return nil, err
	}

	active := f.Camera
	if active == "" && len(f.Cameras) > 0 {
		active = f.Cameras[0].Name
	}
	return &Project{Scene: s, Frame: Frame{ActiveCamera: active}}, nil
}

func populate(parent *Assembly, assemblies []AssemblyDesc, instances []InstanceDesc) error {
	for _, ad := range assemblies {
		a := NewAssembly(ad.Name, ad.Model, ad.Params)
		if err := parent.AddAssembly(a); err != nil {
			return err
		}
		if err := populate(a, ad.Assemblies, ad.Instances); err != nil {
			return fmt.Errorf("assembly %s: %w", ad.Name, err)
		}
	}
	for _, id := range instances {
		seq, err := sequence(id.Transforms)
		if err != nil {
			return fmt.Errorf("instance %s: %w", id.Name, err)
		}
		name := id.Name
		if name == "" {
			name = id.Assembly + "_inst"
		}
		if err := parent.assemblyInstances.Insert(NewAssemblyInstance(name, id.Assembly, seq)); err != nil {
			return err
		}
	}
	return nil
}
