package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.Committed("create")
	c.Committed("create")
	c.Rejected("conflict")
	c.PersistFailed()
	c.ObserveRequest(http.MethodPost, "/appointments/", http.StatusCreated, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.AppointmentsCommitted.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AppointmentsRejected.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("POST", "/appointments/", "201")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.Committed("delete")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AppointmentsCommitted.WithLabelValues("delete")))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.Rejected("validation")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `clinic_calendar_appointments_rejected_total{reason="validation"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
