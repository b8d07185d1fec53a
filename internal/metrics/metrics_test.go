package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xgenseed/internal/xgerr"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Flush("spline")
	m.Flush("spline")
	m.Flush("card")
	m.Converted(3, 7, 1)
	m.Expansion(nil, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Flushes.WithLabelValues("spline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flushes.WithLabelValues("card")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Strands))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Segments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IgnoredSamples))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Expansions.WithLabelValues("ok", "")))

	_, err = New(reg)
	assert.Error(t, err, "double registration")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Flush("spline")
	m.Converted(1, 1, 1)
	m.Expansion(xgerr.ErrMissingParameter, time.Second)
}

func TestExpansionClass(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.Expansion(xgerr.Abort("expand", xgerr.ErrFaceRendererInit), time.Second)
	m.Expansion(xgerr.Skip("flush", xgerr.ErrUnknownPrimitive), time.Second)
	m.Expansion(errors.New("plain"), time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Expansions.WithLabelValues("failed", "abort")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Expansions.WithLabelValues("failed", "skip")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Expansions.WithLabelValues("ok", "")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.Converted(1, 2, 0)

	path := filepath.Join(t.TempDir(), "xgenseed.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "xgenseed_curves_segments_total 2")
}
