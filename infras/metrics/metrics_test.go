package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"salonbook/config"
	"salonbook/infras/metrics"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	return recorder.Body.String()
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New(&config.Config{})

	m.Observe("create", nil)
	m.Observe("create", errors.New("boom"))
	m.Conflict("reschedule")
	m.Notification("booking_created", metrics.ResultDropped)

	body := scrape(t, m)

	assert.Contains(t, body, `salonbook_booking_operations_total{operation="create",result="success"} 1`)
	assert.Contains(t, body, `salonbook_booking_operations_total{operation="create",result="failure"} 1`)
	assert.Contains(t, body, `salonbook_booking_operations_total{operation="reschedule",result="conflict"} 1`)
	assert.Contains(t, body, `salonbook_booking_conflicts_total{operation="reschedule"} 1`)
	assert.Contains(t, body, `salonbook_notifications_total{result="dropped",type="booking_created"} 1`)
}

func TestMetrics_Namespace(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Namespace = "test"

	m := metrics.New(cfg)
	m.Observe("cancel", nil)

	assert.Contains(t, scrape(t, m), `test_booking_operations_total{operation="cancel",result="success"} 1`)

	// a second instance must not collide with the first registry
	assert.NotPanics(t, func() { metrics.New(cfg) })
}
