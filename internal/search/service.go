package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/logging/types"
	"jobsearch-api/internal/search/workers"
	"jobsearch-api/internal/source"
	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

// Service orchestrates one job search: it validates the business rules,
// maps the request onto the upstream parameter contract, dispatches the
// blocking upstream call to the worker pool, and normalizes the tabular
// result into domain records with per-row error accumulation.
type Service struct {
	config *config.Config
	pool   *workers.WorkerPool
	logger types.Logger
}

// NewService creates a search service on top of the given worker pool
func NewService(cfg *config.Config, pool *workers.WorkerPool) *Service {
	return &Service{
		config: cfg,
		pool:   pool,
		logger: logging.GetGlobalLogger(),
	}
}

// ValidateBusinessRules enforces the cross-field rules that struct tags
// cannot express: at least one of search term and location must be set.
func (s *Service) ValidateBusinessRules(req *models.SearchRequest) error {
	if req.SearchTerm == "" && req.Location == "" {
		msg := "Either search term or location must be provided"
		return utils.NewValidationError(msg,
			models.FieldError{Field: "search_term", Message: msg, InvalidValue: req.SearchTerm},
			models.FieldError{Field: "location", Message: msg, InvalidValue: req.Location},
		)
	}
	return nil
}

// Search runs one job search end to end and returns the response payload.
// Row-level normalization failures accumulate in the response errors; the
// returned error is non-nil only for whole-search failures (timeout, rate
// limit, transport, upstream).
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.JobSearchResponse, error) {
	searchID := utils.GenerateSearchID()
	start := time.Now().UTC()

	params := s.mapParams(req)

	result, err := s.pool.Submit(ctx, params, s.config.Workers.Timeout.Std())
	if err != nil {
		return nil, s.classifyError(err, req.SiteNames)
	}
	if result.Error != nil {
		return nil, s.classifyError(result.Error, req.SiteNames)
	}

	jobs, rowErrors, warnings := s.processRows(result.Result.Rows, searchID)

	metadata := s.buildMetadata(searchID, start, req.SiteNames, result.Result.Outcomes, rowErrors, len(jobs))

	// Errors and warnings are always lists on the wire, never null
	if rowErrors == nil {
		rowErrors = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	return &models.JobSearchResponse{
		Jobs:           jobs,
		TotalResults:   len(jobs),
		SearchMetadata: metadata,
		Errors:         rowErrors,
		Warnings:       warnings,
	}, nil
}

// mapParams translates the request onto the upstream contract. The
// zip_recruiter board uses a different identifier upstream, and unset
// optional fields stay zero-valued so JSON encoding omits them and the
// upstream applies its own defaults.
func (s *Service) mapParams(req *models.SearchRequest) source.Params {
	sites := make([]string, 0, len(req.SiteNames))
	for _, site := range req.SiteNames {
		if site == "zip_recruiter" {
			sites = append(sites, "ziprecruiter")
		} else {
			sites = append(sites, site)
		}
	}

	return source.Params{
		SiteNames:         sites,
		SearchTerm:        req.SearchTerm,
		Location:          req.Location,
		Distance:          req.Distance,
		IsRemote:          req.IsRemote,
		JobType:           req.JobType,
		ResultsWanted:     req.ResultsWanted,
		HoursOld:          req.HoursOld,
		CountryIndeed:     s.config.Source.Country,
		DescriptionFormat: s.config.Source.DescriptionFormat,
	}
}

// requestSiteName is the inverse of the rewrite in mapParams: upstream
// outcomes name boards in the upstream vocabulary, and metadata must report
// them under the names the client sent.
func requestSiteName(site string) string {
	if site == "ziprecruiter" {
		return "zip_recruiter"
	}
	return site
}

// processRows normalizes every row independently. A failed row is skipped
// and its error accumulated; the batch never aborts.
func (s *Service) processRows(rows []source.Row, searchID string) ([]models.JobRecord, []string, []string) {
	jobs := make([]models.JobRecord, 0, len(rows))
	var rowErrors []string
	var warnings []string

	if len(rows) == 0 {
		warnings = append(warnings, "No jobs found matching the search criteria")
		return jobs, rowErrors, warnings
	}

	for _, row := range rows {
		record, err := NormalizeRow(row, searchID)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Failed to process job: %v", err))
			continue
		}
		jobs = append(jobs, *record)
	}

	return jobs, rowErrors, warnings
}

// buildMetadata attributes per-site success and failure. Structured outcomes
// from the upstream win; for combined result sets the fallback scans the
// accumulated error texts for each requested site name, which is best-effort
// only. failedSites is deduplicated; successful is requested minus failed.
func (s *Service) buildMetadata(searchID string, start time.Time, requestedSites []string,
	outcomes []source.SiteOutcome, rowErrors []string, totalResults int) models.SearchMetadata {

	var failed []string
	if len(outcomes) > 0 {
		for _, o := range outcomes {
			if !o.Success {
				failed = append(failed, requestSiteName(o.Site))
			}
		}
	} else {
		for _, site := range requestedSites {
			for _, msg := range rowErrors {
				if strings.Contains(strings.ToLower(msg), strings.ToLower(site)) {
					failed = append(failed, site)
					break
				}
			}
		}
	}

	successful := make([]string, 0, len(requestedSites))
	for _, site := range requestedSites {
		if !utils.Contains(failed, site) {
			successful = append(successful, site)
		}
	}
	if failed == nil {
		failed = []string{}
	}

	return models.SearchMetadata{
		SearchID:           searchID,
		Timestamp:          start,
		TotalSitesSearched: len(requestedSites),
		SuccessfulSites:    successful,
		FailedSites:        failed,
		SearchDuration:     time.Since(start).Seconds(),
		TotalResultsFound:  totalResults,
	}
}

// classifyError folds pool and upstream failures into the error taxonomy.
// Already classified errors pass through; raw upstream messages are matched
// the way the boards phrase them.
func (s *Service) classifyError(err error, requestedSites []string) error {
	if se, ok := utils.AsSearchError(err); ok {
		return se
	}
	if errors.Is(err, workers.ErrSubmitTimeout) {
		return utils.NewTimeoutError(int(s.config.Workers.Timeout.Std().Seconds()))
	}
	if errors.Is(err, workers.ErrQueueFull) {
		return utils.NewTimeoutError(int(s.config.Workers.QueueTimeout.Std().Seconds()))
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") {
		return utils.NewRateLimitError(matchSite(msg, requestedSites), 300)
	}

	if strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network") || strings.Contains(msg, "dns") {
		return utils.NewNetworkError(fmt.Sprintf("Network error occurred: %v", err), "", err)
	}

	if site := matchSite(msg, requestedSites); site != "unknown" {
		return utils.NewJobBoardError(site, err)
	}

	return utils.NewJobSearchError(fmt.Sprintf("Unexpected error during job search: %v", err), err)
}

func matchSite(lowerMsg string, requestedSites []string) string {
	for _, site := range requestedSites {
		if strings.Contains(lowerMsg, strings.ToLower(site)) {
			return site
		}
	}
	return "unknown"
}
