package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/search/workers"
	"jobsearch-api/internal/source"
	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

// fakeProvider returns a canned result or error and records the params it saw
type fakeProvider struct {
	result *source.Result
	err    error
	delay  time.Duration
	params source.Params
}

func (f *fakeProvider) Search(ctx context.Context, params source.Params) (*source.Result, error) {
	f.params = params
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 10
	cfg.Workers.RateLimit = 600
	cfg.Workers.Timeout = config.Duration(2 * time.Second)
	cfg.Workers.QueueTimeout = config.Duration(time.Second)
	cfg.Source.Country = "usa"
	cfg.Source.DescriptionFormat = "markdown"
	return cfg
}

func newTestService(t *testing.T, provider source.Provider) *Service {
	t.Helper()

	cfg := testConfig()
	pool := workers.NewWorkerPool(cfg, provider)
	require.NoError(t, pool.Start())
	t.Cleanup(func() { _ = pool.Stop() })

	return NewService(cfg, pool)
}

func TestValidateBusinessRules(t *testing.T) {
	svc := NewService(testConfig(), nil)

	err := svc.ValidateBusinessRules(&models.SearchRequest{})
	require.Error(t, err)
	se, ok := utils.AsSearchError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", se.Code)
	assert.Len(t, se.FieldErrors, 2)

	assert.NoError(t, svc.ValidateBusinessRules(&models.SearchRequest{SearchTerm: "engineer"}))
	assert.NoError(t, svc.ValidateBusinessRules(&models.SearchRequest{Location: "Austin, TX"}))
}

func TestSearchTotalResultsMatchesJobs(t *testing.T) {
	provider := &fakeProvider{result: &source.Result{Rows: []source.Row{
		{"id": "1", "title": "A", "site": "indeed"},
		{"id": "2", "title": "B", "site": "indeed"},
		{"id": "3", "title": "C", "site": "indeed"},
	}}}
	svc := newTestService(t, provider)

	req := &models.SearchRequest{SearchTerm: "engineer", SiteNames: []string{"indeed"}}
	resp, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalResults)
	assert.Len(t, resp.Jobs, 3)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, resp.Warnings)
	assert.Equal(t, []string{"indeed"}, resp.SearchMetadata.SuccessfulSites)
	assert.Empty(t, resp.SearchMetadata.FailedSites)
	assert.Equal(t, 1, resp.SearchMetadata.TotalSitesSearched)
}

func TestSearchEmptyResultIsWarningNotError(t *testing.T) {
	provider := &fakeProvider{result: &source.Result{Rows: nil}}
	svc := newTestService(t, provider)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{SearchTerm: "unobtainium", SiteNames: []string{"indeed"}})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalResults)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, []string{"No jobs found matching the search criteria"}, resp.Warnings)
}

func TestSearchRowFailureAccumulates(t *testing.T) {
	provider := &fakeProvider{result: &source.Result{Rows: []source.Row{
		{"id": "1", "title": "A", "site": "indeed"},
		{"id": "2", "title": "B", "site": "indeed", "min_amount": "not-a-number"},
	}}}
	svc := newTestService(t, provider)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{SearchTerm: "engineer", SiteNames: []string{"indeed"}})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalResults)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "Failed to process job: ")
}

func TestSearchStructuredOutcomeAttribution(t *testing.T) {
	provider := &fakeProvider{result: &source.Result{
		Rows: []source.Row{{"id": "1", "title": "A", "site": "indeed"}},
		Outcomes: []source.SiteOutcome{
			{Site: "indeed", Success: true},
			{Site: "glassdoor", Success: false, Error: "upstream 500"},
		},
	}}
	svc := newTestService(t, provider)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		SearchTerm: "engineer",
		SiteNames:  []string{"indeed", "glassdoor"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"glassdoor"}, resp.SearchMetadata.FailedSites)
	assert.Equal(t, []string{"indeed"}, resp.SearchMetadata.SuccessfulSites)
	assert.Equal(t, 2, resp.SearchMetadata.TotalSitesSearched)
}

func TestSearchOutcomeAttributionUsesRequestSiteNames(t *testing.T) {
	// The upstream knows zip_recruiter as "ziprecruiter"; a failure there
	// must be reported under the name the client sent.
	provider := &fakeProvider{result: &source.Result{
		Rows: []source.Row{{"id": "1", "title": "A", "site": "indeed"}},
		Outcomes: []source.SiteOutcome{
			{Site: "indeed", Success: true},
			{Site: "ziprecruiter", Success: false, Error: "upstream 500"},
		},
	}}
	svc := newTestService(t, provider)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		SearchTerm: "engineer",
		SiteNames:  []string{"zip_recruiter", "indeed"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"zip_recruiter"}, resp.SearchMetadata.FailedSites)
	assert.Equal(t, []string{"indeed"}, resp.SearchMetadata.SuccessfulSites)
	assert.NotContains(t, resp.SearchMetadata.FailedSites, "ziprecruiter")
}

func TestSearchHeuristicAttributionFallback(t *testing.T) {
	// No structured outcomes: attribution falls back to scanning the
	// accumulated row error texts for site names.
	provider := &fakeProvider{result: &source.Result{Rows: []source.Row{
		{"id": "1", "title": "A", "site": "indeed"},
		{"id": "2", "title": "glassdoor listing", "site": "glassdoor", "min_amount": "glassdoor-broke"},
	}}}
	svc := newTestService(t, provider)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		SearchTerm: "engineer",
		SiteNames:  []string{"indeed", "glassdoor"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"glassdoor"}, resp.SearchMetadata.FailedSites)
	assert.Equal(t, []string{"indeed"}, resp.SearchMetadata.SuccessfulSites)
}

func TestSearchTimeoutClassification(t *testing.T) {
	provider := &fakeProvider{
		result: &source.Result{},
		delay:  500 * time.Millisecond,
	}
	cfg := testConfig()
	cfg.Workers.Timeout = config.Duration(50 * time.Millisecond)
	pool := workers.NewWorkerPool(cfg, provider)
	require.NoError(t, pool.Start())
	t.Cleanup(func() { _ = pool.Stop() })
	svc := NewService(cfg, pool)

	_, err := svc.Search(context.Background(), &models.SearchRequest{SearchTerm: "engineer", SiteNames: []string{"indeed"}})
	require.Error(t, err)

	se, ok := utils.AsSearchError(err)
	require.True(t, ok)
	assert.Equal(t, "SEARCH_TIMEOUT", se.Code)
	assert.Equal(t, 408, se.Status)
}

func TestSearchMapsZipRecruiter(t *testing.T) {
	provider := &fakeProvider{result: &source.Result{}}
	svc := newTestService(t, provider)

	_, err := svc.Search(context.Background(), &models.SearchRequest{
		SearchTerm: "engineer",
		SiteNames:  []string{"zip_recruiter", "indeed"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ziprecruiter", "indeed"}, provider.params.SiteNames)
	assert.Equal(t, "usa", provider.params.CountryIndeed)
	assert.Equal(t, "markdown", provider.params.DescriptionFormat)
}

func TestClassifyError(t *testing.T) {
	svc := NewService(testConfig(), nil)

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"rate limit text", fmt.Errorf("indeed said too many requests"), "RATE_LIMIT_EXCEEDED", 429},
		{"http 429", fmt.Errorf("upstream returned 429"), "RATE_LIMIT_EXCEEDED", 429},
		{"network", fmt.Errorf("connection refused"), "NETWORK_ERROR", 503},
		{"dns", fmt.Errorf("dns lookup failed"), "NETWORK_ERROR", 503},
		{"board specific", fmt.Errorf("linkedin rejected the query"), "JOB_BOARD_ERROR", 200},
		{"unclassified", fmt.Errorf("something odd"), "SEARCH_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.classifyError(tt.err, []string{"indeed", "linkedin"})
			se, ok := utils.AsSearchError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.wantStatus, se.Status)
		})
	}

	t.Run("already classified passes through", func(t *testing.T) {
		orig := utils.NewRateLimitError("indeed", 120)
		err := svc.classifyError(orig, []string{"indeed"})
		se, ok := utils.AsSearchError(err)
		require.True(t, ok)
		assert.Equal(t, 120, se.RetryAfter)
	})

	t.Run("submit timeout", func(t *testing.T) {
		err := svc.classifyError(workers.ErrSubmitTimeout, []string{"indeed"})
		se, ok := utils.AsSearchError(err)
		require.True(t, ok)
		assert.Equal(t, "SEARCH_TIMEOUT", se.Code)
	})

	t.Run("queue admission timeout", func(t *testing.T) {
		err := svc.classifyError(workers.ErrQueueFull, []string{"indeed"})
		se, ok := utils.AsSearchError(err)
		require.True(t, ok)
		assert.Equal(t, "SEARCH_TIMEOUT", se.Code)
		assert.Equal(t, 408, se.Status)
	})
}
