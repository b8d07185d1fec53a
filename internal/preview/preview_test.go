package preview

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xgenseed/internal/curves"
	"xgenseed/internal/mathutil"
)

func verticalStrand() *curves.Object {
	obj := curves.NewObject("curve_fur")
	obj.PushBasis(curves.BasisBSpline)
	seg := curves.Segment{
		Points: [4]mathutil.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}, {0, 3, 0}},
		Widths: [4]float32{0.6, 0.6, 0.6, 0.6},
	}
	for i := range seg.Colors {
		seg.Opacities[i] = 1
		seg.Colors[i] = curves.Gray(0.5)
	}
	obj.PushSegments(seg)
	return obj
}

func TestRenderEmpty(t *testing.T) {
	img := Render(curves.NewObject("empty"), Options{Size: 32})
	assert.Equal(t, 32, img.Bounds().Dx())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestRenderStrand(t *testing.T) {
	img := Render(verticalStrand(), Options{Size: 64, Supersample: 2})
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 64, img.Bounds().Dy())

	center := img.NRGBAAt(32, 32)
	assert.Greater(t, center.A, uint8(200))
	assert.Equal(t, center.R, center.G)
	assert.Equal(t, center.G, center.B)
	assert.InDelta(t, 128, int(center.R), 3)

	assert.Zero(t, img.NRGBAAt(0, 0).A)
	assert.Zero(t, img.NRGBAAt(63, 63).A)
	assert.Zero(t, img.NRGBAAt(10, 32).A, "strand is thin and vertical")
}

func TestEvalSegmentEndpoints(t *testing.T) {
	s := verticalStrand().Segments()[0]
	p0, w0 := evalSegment(&s, 0)
	p1, _ := evalSegment(&s, 1)
	assert.InDelta(t, 1, p0[1], 1e-9)
	assert.InDelta(t, 2, p1[1], 1e-9)
	assert.InDelta(t, 0.6, w0, 1e-6)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/a.webp", WebP, false},
		{"A.TGA", TGA, false},
		{"a.png", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSaveTGA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "fur.tga")
	require.NoError(t, Save(path, Render(verticalStrand(), Options{Size: 16})))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := tga.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestSaveWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fur.webp")
	require.NoError(t, Save(path, Render(verticalStrand(), Options{Size: 16})))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 12)
	assert.Equal(t, "RIFF", string(raw[:4]))
	assert.Equal(t, "WEBP", string(raw[8:12]))

	assert.Error(t, Encode(&bytes.Buffer{}, Render(verticalStrand(), Options{Size: 4}), "bmp"))
}
