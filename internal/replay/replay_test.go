package replay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xgenseed/internal/mathutil"
	"xgenseed/internal/primcache"
	"xgenseed/internal/xgen"
	"xgenseed/internal/xgerr"
)

type recorder struct {
	xgen.DefaultCallbacks
	off     bool
	flushed []string
	err     error
}

func (r *recorder) String(attr xgen.StringAttr) string {
	if attr == xgen.Off && r.off {
		return xgen.OffValue
	}
	return ""
}

func (r *recorder) Flush(geom string, c *primcache.Cache) error {
	r.flushed = append(r.flushed, geom)
	return r.err
}

func writeDump(t *testing.T, path string, offset float64) {
	t.Helper()
	c := primcache.NewSpline([]primcache.Strand{{Points: []mathutil.Vec3{
		{offset, 0, 0}, {offset, 1, 0}, {offset, 2, 0}, {offset, 3, 1},
	}}}, 0.1)
	require.NoError(t, primcache.Save(path, c))
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in      string
		files   []string
		patch   string
		wantErr bool
	}{
		{"-file a.xgpc", []string{"a.xgpc"}, "patch", false},
		{"-patch pPlane1 -file dir/ -frame 1 extra/*.xgpc", []string{"dir/", "extra/*.xgpc"}, "pPlane1", false},
		{"", nil, "patch", false},
		{"-file", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseArgs(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.files, a.Files)
			assert.Equal(t, tt.patch, a.Patch())
		})
	}
}

func TestReplayDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, filepath.Join(dir, "b.xgpc"), 2)
	writeDump(t, filepath.Join(dir, "a.xgpc"), 1)

	g := New(dir)
	cb := &recorder{}
	pr, err := g.InitPatch(cb, "-patch body -file .")
	require.NoError(t, err)
	assert.Equal(t, 2, pr.(*Patch).Len())

	var ids []uint32
	var minX []float64
	for {
		box, id, ok := pr.NextFace()
		if !ok {
			break
		}
		assert.False(t, xgen.IsEmptyBox(box))
		ids = append(ids, id)
		minX = append(minX, box.Min.X)

		fr, err := g.InitFace(pr, id, cb)
		require.NoError(t, err)
		assert.True(t, fr.Render())
	}
	assert.Equal(t, []uint32{0, 1}, ids)
	assert.Equal(t, []string{"body", "body"}, cb.flushed)
	assert.Equal(t, []float64{1, 2}, minX, "faces follow file name order")
}

func TestReplayGlobAndFile(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, filepath.Join(dir, "one.xgpc"), 0)
	writeDump(t, filepath.Join(dir, "two.xgpc"), 0)

	pr, err := New("").InitPatch(&recorder{}, "-file "+filepath.Join(dir, "t*.xgpc")+" "+filepath.Join(dir, "one.xgpc"))
	require.NoError(t, err)
	assert.Equal(t, 2, pr.(*Patch).Len())
}

func TestReplayErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(dir).InitPatch(&recorder{}, "-file missing.xgpc")
	assert.Error(t, err)

	_, err = New(dir).InitPatch(&recorder{}, "-file .")
	assert.Error(t, err, "empty directory")

	pr, err := New(dir).InitPatch(&recorder{off: true}, "-file missing.xgpc")
	require.NoError(t, err)
	_, _, ok := pr.NextFace()
	assert.False(t, ok)

	_, err = New(dir).InitFace(pr, 3, &recorder{})
	assert.ErrorIs(t, err, xgerr.ErrOutOfRange)
}

func TestRenderOutcome(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, filepath.Join(dir, "a.xgpc"), 0)
	g := New(dir)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ok", nil, true},
		{"skip", xgerr.Skip("flush", xgerr.ErrUnknownPrimitive), true},
		{"abort", xgerr.Abort("flush", xgerr.ErrOutOfRange), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &recorder{err: tt.err}
			pr, err := g.InitPatch(cb, "a.xgpc")
			require.NoError(t, err)
			fr, err := g.InitFace(pr, 0, cb)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fr.Render())
		})
	}
}

func TestBounds(t *testing.T) {
	assert.True(t, xgen.IsEmptyBox(Bounds(&primcache.Cache{})))

	c := primcache.NewSpline([]primcache.Strand{{Points: []mathutil.Vec3{{-1, 2, 3}, {4, -5, 6}}}}, 0)
	b := Bounds(c)
	assert.Equal(t, -1.0, b.Min.X)
	assert.Equal(t, -5.0, b.Min.Y)
	assert.Equal(t, 4.0, b.Max.X)
	assert.Equal(t, 6.0, b.Max.Z)
}
