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

func TestRecorder_Counts(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.Generation(OutcomeSuccess)
	r.Generation(OutcomeSuccess)
	r.Generation(OutcomeMalformed)
	r.Illustration(true)
	r.Illustration(false)
	r.ExcerptShared("Rhyme")
	r.ObserveStage(StageModel, time.Now().Add(-time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.generations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.generations.WithLabelValues(OutcomeMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.illustrations.WithLabelValues("produced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.illustrations.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.excerpts.WithLabelValues("Rhyme")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageDuration))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.Generation(OutcomeUpstream)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `lesson_generation_requests_total{outcome="upstream_error"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()
	var r *Recorder

	assert.NotPanics(t, func() {
		r.Generation(OutcomeSuccess)
		r.ObserveStage(StageImage, time.Now())
		r.Illustration(true)
		r.ExcerptShared("Story")
	})
	assert.Nil(t, r.Registry())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
