package xgen

import (
	"strconv"
	"strings"

	"xgenseed/internal/logging"
	"xgenseed/internal/mathutil"
	"xgenseed/internal/scene"
)

// Camera models treated as perspective.
var perspectiveModels = []string{"pinhole_camera", "thinlens_camera"}

// IsPerspective reports whether a camera model projects in perspective.
func IsPerspective(model string) bool {
	for _, m := range perspectiveModels {
		if model == m {
			return true
		}
	}
	return false
}

// addCameraParams fills the irRenderCam* parameters the generator uses for
// culling and LOD, unless they are already set. Without an active camera
// nothing is added.
func addCameraParams(project *scene.Project, params scene.Params) {
	if project == nil {
		return
	}
	cam, ok := project.ActiveCamera()
	if !ok {
		logging.Logger().Warn("XGenCallbacks: no active camera, render camera parameters left unset",
			"camera", project.Frame.ActiveCamera)
		return
	}

	persp := IsPerspective(cam.Model())
	t := cam.Transforms.Earliest()

	if !params.Exists(ParamRenderCam) {
		var v mathutil.Vec3
		if persp {
			v = t.LocalToParent.ExtractTranslation()
		} else {
			v = t.VectorToParent(mathutil.Vec3{0, 0, 1})
		}
		params[ParamRenderCam] = strconv.FormatBool(!persp) + ", " +
			formatFloat(v[0]) + ", " + formatFloat(v[1]) + ", " + formatFloat(v[2])
	}

	if !params.Exists(ParamRenderCamFOV) {
		if persp {
			params[ParamRenderCamFOV] = "54.0"
		} else {
			params[ParamRenderCamFOV] = "90.0"
		}
	}

	if !params.Exists(ParamRenderCamRatio) {
		params[ParamRenderCamRatio] = "1.0"
	}

	if !params.Exists(ParamRenderCamXform) {
		m := t.ParentToLocal
		parts := make([]string, 16)
		for i := range parts {
			parts[i] = formatFloat(m[i])
		}
		params[ParamRenderCamXform] = strings.Join(parts, ",")
	}
}

// formatFloat prints like a default C++ stream: six significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
