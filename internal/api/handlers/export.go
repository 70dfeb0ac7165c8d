package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobsearch-api/internal/api/middleware"
	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/export"
	"jobsearch-api/internal/logging"
	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

// estimatedBytesPerJob matches the cache size estimate so the info endpoint
// and cache stats agree about projected export size.
const estimatedBytesPerJob = 2048

// ExportHandler streams a cached search batch as a CSV attachment. The
// export is recomputed from cached rows on every request; nothing derived
// is stored.
func ExportHandler(resultsCache *cache.ResultsCache, projector *export.Projector) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.GetGlobalLogger().WithField("request_id", requestID)

		searchID := c.Param("search_id")
		if searchID == "" {
			return writeExportError(c, requestID, utils.NewExportError("search_id is required"))
		}

		format := strings.ToLower(utils.GetStringOrDefault(c.QueryParam("format"), string(models.ExportFormatCSV)))
		if format != string(models.ExportFormatCSV) {
			se := utils.NewExportError(fmt.Sprintf("Unsupported export format: %s. Supported formats: %s",
				format, strings.Join(models.SupportedExportFormats(), ", ")))
			return writeExportError(c, requestID, se)
		}

		entry := resultsCache.Get(searchID)
		if entry == nil {
			logger.Warn("Export requested for unknown search", map[string]any{"search_id": searchID})
			return writeExportError(c, requestID, utils.NewNotFoundError(searchID))
		}

		opts := models.ExportOptions{
			Format:                models.ExportFormatCSV,
			IncludeDescription:    boolQueryParam(c, "include_description", true),
			IncludeCompanyDetails: boolQueryParam(c, "include_company_details", true),
			Filename:              c.QueryParam("filename"),
		}

		data, meta, err := projector.ExportCSV(entry.Jobs, searchID, opts)
		if err != nil {
			se, ok := utils.AsSearchError(err)
			if !ok {
				se = utils.NewExportError(err.Error())
			}
			logger.Error("Export failed", map[string]any{"search_id": searchID, "error": se.Message})
			return writeExportError(c, requestID, se)
		}

		logger.Info("Export generated", map[string]any{
			"search_id": searchID,
			"jobs":      meta.TotalJobsExported,
			"bytes":     meta.FileSizeBytes,
			"filename":  meta.Filename,
		})

		h := c.Response().Header()
		h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", meta.Filename))
		h.Set(echo.HeaderContentLength, fmt.Sprintf("%d", meta.FileSizeBytes))
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")

		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}

// ExportInfoHandler describes what an export of a cached search would
// contain without generating the file.
func ExportInfoHandler(resultsCache *cache.ResultsCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)

		searchID := c.Param("search_id")
		entry := resultsCache.Get(searchID)
		if entry == nil {
			return writeExportError(c, requestID, utils.NewNotFoundError(searchID))
		}

		info := models.ExportInfo{
			SearchID:           searchID,
			TotalJobs:          len(entry.Jobs),
			SearchTimestamp:    entry.Timestamp,
			SearchMetadata:     entry.Metadata,
			SupportedFormats:   models.SupportedExportFormats(),
			EstimatedCSVSizeKB: len(entry.Jobs) * estimatedBytesPerJob / 1024,
		}

		return c.JSON(http.StatusOK, info)
	}
}

func writeExportError(c echo.Context, requestID string, se *utils.SearchError) error {
	return c.JSON(se.Status, models.ErrorResponse{
		Error:     se.Code,
		Message:   se.Message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// boolQueryParam reads a boolean query parameter with a default for the
// absent case. Only the exact strings "true" and "false" override the
// default.
func boolQueryParam(c echo.Context, name string, def bool) bool {
	switch c.QueryParam(name) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}
