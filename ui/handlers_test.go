package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/adapters/rng"
	"spendlens/adapters/stats/engine"
	"spendlens/app"
	"spendlens/internal/config"
	"spendlens/internal/testkit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Analysis.ConfidenceLevels = []float64{0.95}
	cfg.Analysis.CLTSampleSizes = []int{10, 30}
	cfg.Analysis.Resamples = 100
	cfg.Analysis.Seed = 42
	cfg.Metrics.Enabled = false

	gen := testkit.DefaultGeneratorConfig()
	gen.Rows = 500
	dataset := testkit.NewGenerator(gen).Dataset()
	service := app.NewAnalysisService(dataset, engine.New(), rng.New(), time.Minute, zerolog.Nop())

	return NewServer(service, cfg, zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestOverviewEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var overview app.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 500, overview.Rows)
	assert.Greater(t, overview.Overall.Mean, 0.0)
}

func TestSegmentsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/gender")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []app.SegmentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Len(t, summaries[0].Intervals, 1)
}

func TestSegmentsLevelParam(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/city_category?level=0.99")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []app.SegmentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		require.Len(t, s.Intervals, 1)
		assert.Equal(t, 0.99, s.Intervals[0].Level)
	}
}

func TestSegmentsBadLevelParam(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/gender?level=high")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSegmentsUnknownAxis(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/region")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/compare/gender?a=M&b=F")
	require.Equal(t, http.StatusOK, rec.Code)

	var comparison app.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comparison))
	assert.Equal(t, "M", comparison.Test.GroupA)
	assert.Equal(t, "F", comparison.Test.GroupB)
	assert.Equal(t, "welch", string(comparison.Test.Method))
}

func TestCompareMissingGroups(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/compare/gender?a=M")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareUnknownGroupIs404(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/compare/gender?a=M&b=X")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCLTEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/gender/clt?group=M&sizes=10,30&seed=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var series app.CLTSeries
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	assert.Equal(t, "M", series.Segment)
	require.Len(t, series.Distributions, 2)
	assert.Len(t, series.Distributions[0].Means, 100)
}

func TestCLTMissingGroup(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/gender/clt")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCLTOversizedSampleRejected(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/segments/gender/clt?group=F&sizes=100000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var report app.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Axes, 5)
}

func TestNarrativeEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/narrative")
	require.Equal(t, http.StatusOK, rec.Code)

	var narrative app.Narrative
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &narrative))
	assert.Contains(t, narrative.Markdown, "# Customer Segment Analysis")
}

func TestNarrativeHTML(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "/api/narrative?format=html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1")
}
