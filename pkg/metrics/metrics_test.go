package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.RoomAction("approved")
	m.RoomAction("approved")
	m.WorkShiftAction("assigned")
	m.ObserveRequest("GET", "/api/work-shifts", "200", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.roomDecisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/work-shifts", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dorm_portal_work_shifts_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RoomAction("approved")
		m.ObserveRequest("GET", "/", "200", time.Second)
		m.CourseSwept("promote", 3)
	})
}
