package ptsapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
	"github.com/iptsd/iptsd-core/internal/testutil"
	"github.com/iptsd/iptsd-core/internal/timeutil"
)

func newTestServer() *Server {
	return NewServerWithClock(config.EmptyConfig(), timeutil.NewMockClock(time.Unix(0, 0)))
}

func TestHealthzAlwaysOK(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/healthz"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
}

func TestReadyzBeforeAnyFrameIsUnavailable(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/readyz"))
	testutil.AssertStatusCode(t, w.Code, http.StatusServiceUnavailable)
}

func TestReadyzAfterFrameIsOK(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.EmitContacts(contact.Frame{{Index: 0, HasIndex: true}})

	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/readyz"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
}

func TestShowConfigReturnsTuningValues(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/config"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3.0, body["min_cluster_size"])
}

func TestShowStatsReportsUptimeFromMockClock(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	s := NewServerWithClock(config.EmptyConfig(), clock)
	clock.Advance(5 * time.Second)

	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/stats"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5.0, body["uptime_seconds"])
	assert.Equal(t, 0.0, body["frames_emitted"])
}

func TestShowLastFrameNotFoundBeforeAnyEmit(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/last_frame"))
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestShowLastFrameReturnsMostRecentEmit(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.EmitContacts(contact.Frame{{Index: 7, HasIndex: true}})

	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/last_frame"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var frame contact.Frame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frame))
	require.Len(t, frame, 1)
	assert.Equal(t, 7, frame[0].Index)
}

func TestShowLastStylusNotFoundBeforeAnyEmit(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/last_stylus"))
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestShowLastStylusReturnsMostRecentEmit(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.EmitStylus(decoder.StylusEvent{X: 123, Y: 456, Pressure: 789})

	w := testutil.NewTestRecorder()
	s.Router().ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/api/last_stylus"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var ev decoder.StylusEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, uint16(123), ev.X)
}
