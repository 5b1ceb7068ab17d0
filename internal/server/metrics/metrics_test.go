package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	_ = c.Write(m)
	return m.GetCounter().GetValue()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/list", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/list", 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(m.RequestsTotal.WithLabelValues("GET", "/list", "200")))
	assert.Equal(t, 1.0, counterValue(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveCompression(t *testing.T) {
	m := New()
	m.ObserveCompression("image", nil, 42)
	m.ObserveCompression("video", errors.New("ffmpeg"), 0)

	assert.Equal(t, 1.0, counterValue(m.Compressions.WithLabelValues("image", "ok")))
	assert.Equal(t, 1.0, counterValue(m.Compressions.WithLabelValues("video", "error")))
	h := &dto.Metric{}
	require.NoError(t, m.CompressionSaving.Write(h))
	assert.Equal(t, uint64(1), h.GetHistogram().GetSampleCount())
	assert.Equal(t, 42.0, h.GetHistogram().GetSampleSum())
}

func TestHandler(t *testing.T) {
	m := New()
	m.BytesUploaded.Add(128)
	m.TrackSessions(func() int { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storjvault_bytes_uploaded_total 128")
	assert.Contains(t, string(body), "storjvault_signaling_sessions 3")
	assert.Contains(t, string(body), "go_goroutines")
}
