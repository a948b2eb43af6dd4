package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("resolve_permalinks", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("resolve_permalinks", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.SetPosts(3)
	pr.SetCategories(2)
	pr.AddFilesWritten(7)
	pr.IncLinkIssues("broken_internal_link", 2)
	pr.IncCategoryCollisions(1)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("resolve_permalinks", "success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.posts), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(pr.filesWritten), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.linkIssues.WithLabelValues("broken_internal_link")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome("success")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `blogbuilder_build_outcomes_total{outcome="success"} 1`))
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncBuildOutcome("success")
	r.SetPosts(1)
}
