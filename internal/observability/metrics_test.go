package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.JobSubmitted("company")
	m.JobSubmitted("company")
	m.JobFinished("company", "completed", true)
	m.JobRejected("company")
	m.AIAttempt("retryable")
	m.AIAttempt("success")
	m.Rejections("company", 3)
	m.ObserveStage("merge", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobsTotal.WithLabelValues("company")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("company", "completed", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsRejected.WithLabelValues("company")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiAttempts.WithLabelValues("retryable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rejections.WithLabelValues("company")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.JobSubmitted("resume")
		m.JobFinished("resume", "failed", false)
		m.JobRejected("resume")
		m.AIAttempt("fatal")
		m.ObserveStage("acquire", time.Second)
		m.WorkerBusy(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.JobSubmitted("school")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `extractor_jobs_submitted_total{domain="school"} 1`)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}
