package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func TestNewMetrics(t *testing.T) {
	m := newMetrics()
	assert.NotNil(t, m.InterventionsCreated)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.SideEffectFailures)
}

func TestRecordLoginAttempt(t *testing.T) {
	m := newMetrics()
	m.RecordLoginAttempt("success")
	m.RecordLoginAttempt("failure")
	m.RecordLoginAttempt("failure")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failure")))
}

func TestLifecycleCounters(t *testing.T) {
	m := newMetrics()

	m.RecordInterventionCreated("URGENT")
	m.RecordStatusTransition("EN_ATTENTE", "EN_COURS")
	m.RecordStatusTransition("EN_ATTENTE", "EN_COURS")
	m.RecordInterventionCompleted()
	m.RecordResourceUsage(5)
	m.RecordResourceUsage(-2) // ignored
	m.RecordSideEffectFailure("equipement")
	m.RecordEventPublished("intervention.created", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InterventionsCreated.WithLabelValues("URGENT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("EN_ATTENTE", "EN_COURS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InterventionsComplete))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ResourceUsageUnits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("equipement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("intervention.created", "ok")))
}

func TestRecordHTTPRequest(t *testing.T) {
	tests := []struct {
		code  int
		label string
	}{
		{200, "200"},
		{204, "204"},
		{302, "3xx"},
		{409, "4xx"},
		{502, "5xx"},
		{999, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			m := newMetrics()
			m.RecordHTTPRequest("GET", "/api/interventions", tt.code)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/interventions", tt.label)))
		})
	}
}

func TestRecordHTTPDuration(t *testing.T) {
	m := newMetrics()
	m.RecordHTTPDuration("GET", "/test", 1*time.Second)

	expected := `
# HELP http_request_duration_seconds HTTP request latency in seconds
# TYPE http_request_duration_seconds histogram
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.01"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.05"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.1"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.25"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.5"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="1"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="2.5"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="5"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="10"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="+Inf"} 1
http_request_duration_seconds_sum{method="GET",path="/test"} 1
http_request_duration_seconds_count{method="GET",path="/test"} 1
`
	err := testutil.CollectAndCompare(m.HTTPRequestDuration, strings.NewReader(expected), "http_request_duration_seconds")
	assert.NoError(t, err)
}

func TestIncrementDecrementActiveConnections(t *testing.T) {
	m := newMetrics()
	m.IncrementActiveConnections()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConnections))
	m.DecrementActiveConnections()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveConnections))
}

func TestSecurityCounters(t *testing.T) {
	m := newMetrics()
	m.RecordRateLimitHit("/api/auth/login")
	m.RecordInvalidToken()
	m.RecordPermissionDenial("ADMIN")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("/api/auth/login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidTokens))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PermissionDenials.WithLabelValues("ADMIN")))
}

func TestSetBackgroundTaskStatus(t *testing.T) {
	m := newMetrics()
	m.SetBackgroundTaskStatus("database_backup", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackgroundTasks.WithLabelValues("database_backup")))
	m.SetBackgroundTaskStatus("database_backup", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BackgroundTasks.WithLabelValues("database_backup")))
	m.UpdateDatabaseConnections(10)
	assert.Equal(t, 10.0, testutil.ToFloat64(m.DatabaseConnections))
}
