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

func TestGenerationGauges(t *testing.T) {
	queued := testutil.ToFloat64(generationsQueued)
	inflight := testutil.ToFloat64(generationsInFlight)
	completed := testutil.ToFloat64(generationOutcomes.WithLabelValues("completed"))

	GenerationQueued()
	assert.Equal(t, queued+1, testutil.ToFloat64(generationsQueued))
	GenerationDequeued()
	GenerationStarted()
	assert.Equal(t, inflight+1, testutil.ToFloat64(generationsInFlight))
	GenerationFinished("completed", 20*time.Millisecond)

	assert.Equal(t, queued, testutil.ToFloat64(generationsQueued))
	assert.Equal(t, inflight, testutil.ToFloat64(generationsInFlight))
	assert.Equal(t, completed+1, testutil.ToFloat64(generationOutcomes.WithLabelValues("completed")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordHTTPRequest("GET", "/api/health", "200", time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "video_studio_http_requests_total")
	assert.Contains(t, body, "video_studio_generation_queued")
	assert.Contains(t, body, "go_goroutines")
}
