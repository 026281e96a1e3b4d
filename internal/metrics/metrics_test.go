package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New()
	m.IncAssignment("created", "self_service")
	m.IncAssignment("created", "self_service")
	m.IncRejection("evidence_locked", "batch")
	m.ObserveEvidence("no_evidence", 20*time.Millisecond)
	m.IncReconcileItem("failed")
	m.AddScoreEntries("day", 3, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssignmentOutcome.WithLabelValues("created", "self_service")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssignmentRejected.WithLabelValues("evidence_locked", "batch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvidenceResult.WithLabelValues("no_evidence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconcileItems.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ScoreEntries.WithLabelValues("day", "kept")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScoreEntries.WithLabelValues("day", "discarded")))
}

func TestMetricsIndependentRegistries(t *testing.T) {
	first := New()
	second := New()
	first.IncAssignment("deleted", "batch")
	assert.Equal(t, 0.0, testutil.ToFloat64(second.AssignmentOutcome.WithLabelValues("deleted", "batch")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncAssignment("created", "batch")
		m.IncRejection("conflict", "self_service")
		m.ObserveEvidence("unknown", time.Second)
		m.IncReconcileItem("created")
		m.AddScoreEntries("night", 1, 1)
	})
	assert.Nil(t, m.Registry())
}

func TestMetricsHandlerExposesFamilies(t *testing.T) {
	m := New()
	m.IncAssignment("updated", "self_service")

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cumplido_assignment_outcomes_total")
}
