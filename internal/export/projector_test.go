package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

func fullOptions() models.ExportOptions {
	return models.ExportOptions{
		Format:                models.ExportFormatCSV,
		IncludeDescription:    true,
		IncludeCompanyDetails: true,
	}
}

func sampleJobs() []models.JobRecord {
	city, state, country := "Austin", "TX", "USA"
	company := "Acme Corp"
	description := "Build things.\nShip them."
	minAmount, maxAmount := 120000.0, 180000.0
	interval := models.IntervalYearly
	remote := true
	posted := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	rating := 4.2
	reviews := 87

	return []models.JobRecord{
		{
			ID:          "in-1",
			Title:       "Senior Go Engineer",
			CompanyName: &company,
			JobURL:      "https://example.com/1",
			Site:        "indeed",
			SearchID:    "search_abc",
			Location:    &models.Location{City: &city, State: &state, Country: &country},
			Description: &description,
			Compensation: &models.Compensation{
				MinAmount: &minAmount,
				MaxAmount: &maxAmount,
				Interval:  &interval,
				Currency:  "USD",
			},
			JobType:             []models.JobType{models.JobTypeFullTime},
			DatePosted:          &posted,
			IsRemote:            &remote,
			Skills:              []string{"go", "postgres"},
			Emails:              []string{"jobs@acme.com"},
			CompanyRating:       &rating,
			CompanyReviewsCount: &reviews,
		},
		{
			ID:       "li-2",
			Title:    "Backend Engineer",
			JobURL:   "https://example.com/2",
			Site:     "linkedin",
			SearchID: "search_abc",
		},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportCSVDeterministic(t *testing.T) {
	p := NewProjector()
	jobs := sampleJobs()

	first, _, err := p.ExportCSV(jobs, "search_abc", fullOptions())
	require.NoError(t, err)
	second, _, err := p.ExportCSV(jobs, "search_abc", fullOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same batch and options must project to identical bytes")
}

func TestExportCSVEmptyBatch(t *testing.T) {
	p := NewProjector()

	_, _, err := p.ExportCSV(nil, "search_abc", fullOptions())
	require.Error(t, err)

	se, ok := utils.AsSearchError(err)
	require.True(t, ok)
	assert.Equal(t, "EXPORT_ERROR", se.Code)
	assert.Equal(t, 400, se.Status)
}

func TestExportCSVLayout(t *testing.T) {
	p := NewProjector()

	data, meta, err := p.ExportCSV(sampleJobs(), "search_abc", fullOptions())
	require.NoError(t, err)

	records := parseCSV(t, data)
	require.Len(t, records, 3, "header plus one row per job")

	header := records[0]
	assert.Equal(t, "job_id", header[0])
	assert.Contains(t, header, "description")
	assert.Contains(t, header, "company_rating")

	row := records[1]
	byColumn := make(map[string]string, len(header))
	for i, name := range header {
		byColumn[name] = row[i]
	}

	assert.Equal(t, "in-1", byColumn["job_id"])
	assert.Equal(t, "Senior Go Engineer", byColumn["title"])
	assert.Equal(t, "Austin", byColumn["location_city"])
	assert.Equal(t, "TX", byColumn["location_state"])
	assert.Equal(t, "USA", byColumn["location_country"])
	assert.Equal(t, "120000", byColumn["salary_min"])
	assert.Equal(t, "180000", byColumn["salary_max"])
	assert.Equal(t, "yearly", byColumn["salary_interval"])
	assert.Equal(t, "USD", byColumn["salary_currency"])
	assert.Equal(t, "fulltime", byColumn["job_type"])
	assert.Equal(t, "2026-08-15", byColumn["date_posted"])
	assert.Equal(t, "true", byColumn["is_remote"])
	assert.Equal(t, "go, postgres", byColumn["skills"])
	assert.Equal(t, "4.2", byColumn["company_rating"])
	assert.Equal(t, "87", byColumn["company_reviews_count"])

	// Absent fields on the sparse record project to empty cells
	sparse := records[2]
	sparseByColumn := make(map[string]string, len(header))
	for i, name := range header {
		sparseByColumn[name] = sparse[i]
	}
	assert.Equal(t, "li-2", sparseByColumn["job_id"])
	assert.Equal(t, "", sparseByColumn["location_city"])
	assert.Equal(t, "", sparseByColumn["salary_min"])
	assert.Equal(t, "", sparseByColumn["is_remote"])

	assert.Equal(t, 2, meta.TotalJobsExported)
	assert.Equal(t, len(data), meta.FileSizeBytes)
	assert.Equal(t, "job_search_results_search_abc.csv", meta.Filename)
	assert.Equal(t, models.ExportFormatCSV, meta.Format)
}

func TestExportCSVOptionalColumnGroups(t *testing.T) {
	p := NewProjector()
	jobs := sampleJobs()

	full, _, err := p.ExportCSV(jobs, "s", fullOptions())
	require.NoError(t, err)
	fullHeader := parseCSV(t, full)[0]

	t.Run("description excluded", func(t *testing.T) {
		opts := fullOptions()
		opts.IncludeDescription = false
		data, _, err := p.ExportCSV(jobs, "s", opts)
		require.NoError(t, err)

		header := parseCSV(t, data)[0]
		assert.NotContains(t, header, "description")
		assert.Len(t, header, len(fullHeader)-1)
	})

	t.Run("company details excluded", func(t *testing.T) {
		opts := fullOptions()
		opts.IncludeCompanyDetails = false
		data, _, err := p.ExportCSV(jobs, "s", opts)
		require.NoError(t, err)

		header := parseCSV(t, data)[0]
		assert.NotContains(t, header, "company_rating")
		assert.NotContains(t, header, "company_url")
		assert.Len(t, header, len(fullHeader)-6)
	})
}

func TestExportCSVQuotesEmbeddedDelimiters(t *testing.T) {
	p := NewProjector()

	title := `Engineer, "Platform"`
	jobs := []models.JobRecord{{ID: "1", Title: title, Site: "indeed", SearchID: "s"}}

	data, _, err := p.ExportCSV(jobs, "s", fullOptions())
	require.NoError(t, err)

	records := parseCSV(t, data)
	assert.Equal(t, title, records[1][1], "round-trip through a CSV reader must preserve the raw value")
}

func TestExportFilename(t *testing.T) {
	p := NewProjector()
	jobs := sampleJobs()

	t.Run("custom name without extension", func(t *testing.T) {
		opts := fullOptions()
		opts.Filename = "my_export"
		_, meta, err := p.ExportCSV(jobs, "s", opts)
		require.NoError(t, err)
		assert.Equal(t, "my_export.csv", meta.Filename)
	})

	t.Run("custom name with extension", func(t *testing.T) {
		opts := fullOptions()
		opts.Filename = "my_export.csv"
		_, meta, err := p.ExportCSV(jobs, "s", opts)
		require.NoError(t, err)
		assert.Equal(t, "my_export.csv", meta.Filename)
	})
}
