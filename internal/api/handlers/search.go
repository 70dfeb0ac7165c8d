package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobsearch-api/internal/api/middleware"
	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/search"
	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

// SearchHandler handles job search requests: validate, orchestrate, store
// the batch in the cache, and return the response. Source-specific failures
// degrade to a 200 response with the failure recorded in errors and
// failed_sites so other boards can still be useful; everything else maps to
// its taxonomy status.
func SearchHandler(svc *search.Service, resultsCache *cache.ResultsCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.GetGlobalLogger().WithField("request_id", requestID)

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind search request", map[string]any{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		req.ApplyDefaults()

		if err := validate.Struct(&req); err != nil {
			logger.Warn("Search request validation failed", map[string]any{"error": err.Error()})
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "VALIDATION_ERROR",
				Message:   "Request validation failed",
				RequestID: requestID,
				Timestamp: time.Now(),
				Fields:    fieldErrors(err),
			})
		}

		if err := svc.ValidateBusinessRules(&req); err != nil {
			se, _ := utils.AsSearchError(err)
			logger.Warn("Search request rejected", map[string]any{"error": se.Message})
			return c.JSON(se.Status, models.ErrorResponse{
				Error:     se.Code,
				Message:   se.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
				Fields:    se.FieldErrors,
			})
		}

		logger.Info("Job search requested", map[string]any{
			"search_term":    req.SearchTerm,
			"location":       req.Location,
			"sites":          strings.Join(req.SiteNames, ","),
			"results_wanted": req.ResultsWanted,
		})

		resp, err := svc.Search(c.Request().Context(), &req)
		if err != nil {
			return writeSearchError(c, requestID, req.SiteNames, err)
		}

		resultsCache.Put(resp.SearchMetadata.SearchID, resp.Jobs, metadataMap(resp.SearchMetadata))

		logger.Info("Search completed", map[string]any{
			"search_id": resp.SearchMetadata.SearchID,
			"results":   resp.TotalResults,
			"duration":  resp.SearchMetadata.SearchDuration,
			"errors":    len(resp.Errors),
		})

		return c.JSON(http.StatusOK, resp)
	}
}

// ValidateSearchHandler validates query-supplied search parameters without
// running the search, for frontend form validation.
func ValidateSearchHandler(svc *search.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := models.SearchRequest{
			SearchTerm: c.QueryParam("search_term"),
			Location:   c.QueryParam("location"),
			JobType:    c.QueryParam("job_type"),
			IsRemote:   c.QueryParam("is_remote") == "true",
		}

		if sites := c.QueryParam("site_names"); sites != "" {
			for _, site := range strings.Split(sites, ",") {
				req.SiteNames = append(req.SiteNames, strings.TrimSpace(site))
			}
		}
		if v := c.QueryParam("results_wanted"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				req.ResultsWanted = n
			}
		}
		if v := c.QueryParam("distance"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				req.Distance = &n
			}
		}
		if v := c.QueryParam("hours_old"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				req.HoursOld = &n
			}
		}

		req.ApplyDefaults()

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"valid":        false,
				"message":      "Request validation failed",
				"field_errors": fieldErrors(err),
			})
		}

		if err := svc.ValidateBusinessRules(&req); err != nil {
			se, _ := utils.AsSearchError(err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"valid":        false,
				"message":      se.Message,
				"field_errors": se.FieldErrors,
			})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"valid":                true,
			"message":              "Search parameters are valid",
			"validated_parameters": req,
		})
	}
}

// writeSearchError maps a whole-search failure onto its status and payload
func writeSearchError(c echo.Context, requestID string, requestedSites []string, err error) error {
	logger := logging.GetGlobalLogger().WithField("request_id", requestID)

	se, ok := utils.AsSearchError(err)
	if !ok {
		logger.Error("Unexpected search failure", map[string]any{"error": err.Error()})
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "INTERNAL_ERROR",
			Message:   "An unexpected error occurred while processing your search request",
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}

	if se.Code == "JOB_BOARD_ERROR" {
		// Partial-success response: the board failure rides in errors and
		// failed_sites while the status stays 200
		logger.Warn("Job board error", map[string]any{"site": se.Site, "error": se.Message})

		failedSite := se.Site
		if failedSite == "" {
			failedSite = "unknown"
		}
		return c.JSON(http.StatusOK, models.JobSearchResponse{
			Jobs:         []models.JobRecord{},
			TotalResults: 0,
			SearchMetadata: models.SearchMetadata{
				SearchID:           utils.GenerateSearchID(),
				Timestamp:          time.Now().UTC(),
				TotalSitesSearched: len(requestedSites),
				SuccessfulSites:    []string{},
				FailedSites:        []string{failedSite},
			},
			Errors:   []string{se.Message},
			Warnings: []string{},
		})
	}

	logger.Error("Search failed", map[string]any{"code": se.Code, "error": se.Message})

	resp := models.ErrorResponse{
		Error:     se.Code,
		Message:   se.Message,
		RequestID: requestID,
		Timestamp: time.Now(),
		Fields:    se.FieldErrors,
	}
	if se.RetryAfter > 0 {
		resp.RetryAfter = &se.RetryAfter
		c.Response().Header().Set("Retry-After", strconv.Itoa(se.RetryAfter))
	}

	return c.JSON(se.Status, resp)
}

func metadataMap(md models.SearchMetadata) map[string]any {
	return map[string]any{
		"search_id":            md.SearchID,
		"timestamp":            md.Timestamp,
		"total_sites_searched": md.TotalSitesSearched,
		"successful_sites":     md.SuccessfulSites,
		"failed_sites":         md.FailedSites,
		"search_duration":      md.SearchDuration,
		"total_results_found":  md.TotalResultsFound,
	}
}
