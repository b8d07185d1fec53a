package xgen

// BoolAttr names a boolean attribute queried by the generator.
type BoolAttr int

const (
	ClearDescriptionCache BoolAttr = iota
	DontUsePaletteRefCounting
)

// FloatAttr names a float attribute queried by the generator.
type FloatAttr int

const (
	ShadowMotionBlur FloatAttr = iota
	ShutterOffset
)

// StringAttr names a string attribute queried by the generator.
type StringAttr int

const (
	BypassFXModulesAfterBGM StringAttr = iota
	CacheDir
	GeneratorName
	Off
	Phase
	RenderCam
	RenderCamFOV
	RenderCamRatio
	RenderCamXform
	RenderMethod
)

// FloatArrayAttr names a float array attribute queried by the generator.
type FloatArrayAttr int

const (
	DensityFalloff FloatArrayAttr = iota
	LodHi
	LodLow
	LodMed
	Shutter
)

// Parameter names read from the procedural assembly.
const (
	ParamArgs           = "xgen_args"
	ParamMaterial       = "material"
	ParamSeed           = "seed"
	ParamRenderCam      = "irRenderCam"
	ParamRenderCamFOV   = "irRenderCamFOV"
	ParamRenderCamRatio = "irRenderCamRatio"
	ParamRenderCamXform = "irRenderCamXform"
)

// OffValue is returned for the Off attribute when the description is
// switched off.
const OffValue = "xgen_OFF"

type stringParam struct {
	key string
	def string
}

// stringParams maps string attributes to the parameter answering them and
// the value used when that parameter is unset. Off is handled separately.
var stringParams = map[StringAttr]stringParam{
	BypassFXModulesAfterBGM: {"BypassFXModulesAfterBGM", ""},
	CacheDir:                {"CacheDir", "xgenCache/"},
	GeneratorName:           {"Generator", "undefined"},
	Phase:                   {"Phase", "color"},
	RenderCam:               {ParamRenderCam, ""},
	RenderCamFOV:            {ParamRenderCamFOV, ""},
	RenderCamRatio:          {ParamRenderCamRatio, ""},
	RenderCamXform:          {ParamRenderCamXform, ""},
	RenderMethod:            {"RenderMethod", ""},
}

type floatParam struct {
	key string
	def float32
}

var floatParams = map[FloatAttr]floatParam{
	ShadowMotionBlur: {"ShadowMotionBlur", 0},
	ShutterOffset:    {"ShutterOffset", 0},
}
