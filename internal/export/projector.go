// Package export flattens cached search batches into downloadable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

// Column groups, in output order. The layout is fixed so the same batch
// always projects to byte-identical headers; only the two optional groups
// toggle.
var (
	coreColumns = []string{
		"job_id", "title", "company_name", "job_url", "site",
		"date_posted", "is_remote",
		"location_city", "location_state", "location_country",
		"salary_min", "salary_max", "salary_interval", "salary_currency",
		"job_type",
	}

	companyColumns = []string{
		"company_url", "company_industry", "company_num_employees",
		"company_revenue", "company_rating", "company_reviews_count",
	}

	tailColumns = []string{
		"job_level", "job_function", "skills", "experience_range",
		"emails", "listing_type", "work_from_home_type", "vacancy_count",
	}
)

// Projector generates tabular exports from record batches
type Projector struct{}

// NewProjector creates a new export projector
func NewProjector() *Projector {
	return &Projector{}
}

// ExportCSV projects the batch into a CSV byte stream plus fresh export
// metadata. An empty batch is a validation failure, never a header-only
// file.
func (p *Projector) ExportCSV(jobs []models.JobRecord, searchID string, opts models.ExportOptions) ([]byte, *models.ExportMetadata, error) {
	if len(jobs) == 0 {
		return nil, nil, utils.NewExportError("No jobs to export")
	}

	columns := p.columns(opts)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, nil, utils.NewExportError(fmt.Sprintf("Failed to write CSV header: %v", err))
	}

	for i := range jobs {
		if err := w.Write(p.projectRow(&jobs[i], columns)); err != nil {
			return nil, nil, utils.NewExportError(fmt.Sprintf("Failed to write CSV row: %v", err))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, utils.NewExportError(fmt.Sprintf("Failed to generate CSV: %v", err))
	}

	data := buf.Bytes()
	metadata := &models.ExportMetadata{
		ExportID:          utils.GenerateExportID(),
		SearchID:          searchID,
		Format:            models.ExportFormatCSV,
		TotalJobsExported: len(jobs),
		ExportTimestamp:   time.Now().UTC(),
		FileSizeBytes:     len(data),
		Filename:          p.filename(opts.Filename, searchID),
	}

	return data, metadata, nil
}

// columns returns the output column set for the given inclusion flags
func (p *Projector) columns(opts models.ExportOptions) []string {
	columns := make([]string, 0, len(coreColumns)+1+len(companyColumns)+len(tailColumns))
	columns = append(columns, coreColumns...)
	if opts.IncludeDescription {
		columns = append(columns, "description")
	}
	if opts.IncludeCompanyDetails {
		columns = append(columns, companyColumns...)
	}
	columns = append(columns, tailColumns...)
	return columns
}

// projectRow flattens one record into the column layout. Structured
// sub-objects map to fixed flat columns; lists rejoin with ", "; job types
// flatten to their canonical text.
func (p *Projector) projectRow(job *models.JobRecord, columns []string) []string {
	values := map[string]string{
		"job_id":       job.ID,
		"title":        job.Title,
		"company_name": deref(job.CompanyName),
		"job_url":      job.JobURL,
		"site":         job.Site,

		"description":           deref(job.Description),
		"company_url":           deref(job.CompanyURL),
		"company_industry":      deref(job.CompanyIndustry),
		"company_num_employees": deref(job.CompanyNumEmployees),
		"company_revenue":       deref(job.CompanyRevenue),
		"job_level":             deref(job.JobLevel),
		"job_function":          deref(job.JobFunction),
		"experience_range":      deref(job.ExperienceRange),
		"listing_type":          deref(job.ListingType),
		"work_from_home_type":   deref(job.WorkFromHomeType),

		"skills": strings.Join(job.Skills, ", "),
		"emails": strings.Join(job.Emails, ", "),
	}

	if job.DatePosted != nil {
		values["date_posted"] = job.DatePosted.Format("2006-01-02")
	}
	if job.IsRemote != nil {
		values["is_remote"] = strconv.FormatBool(*job.IsRemote)
	}

	if job.Location != nil {
		values["location_city"] = deref(job.Location.City)
		values["location_state"] = deref(job.Location.State)
		values["location_country"] = deref(job.Location.Country)
	}

	if job.Compensation != nil {
		if job.Compensation.MinAmount != nil {
			values["salary_min"] = formatFloat(*job.Compensation.MinAmount)
		}
		if job.Compensation.MaxAmount != nil {
			values["salary_max"] = formatFloat(*job.Compensation.MaxAmount)
		}
		if job.Compensation.Interval != nil {
			values["salary_interval"] = string(*job.Compensation.Interval)
		}
		values["salary_currency"] = job.Compensation.Currency
	}

	if len(job.JobType) > 0 {
		names := make([]string, len(job.JobType))
		for i, jt := range job.JobType {
			names[i] = string(jt)
		}
		values["job_type"] = strings.Join(names, ", ")
	}

	if job.CompanyRating != nil {
		values["company_rating"] = formatFloat(*job.CompanyRating)
	}
	if job.CompanyReviewsCount != nil {
		values["company_reviews_count"] = strconv.Itoa(*job.CompanyReviewsCount)
	}
	if job.VacancyCount != nil {
		values["vacancy_count"] = strconv.Itoa(*job.VacancyCount)
	}

	row := make([]string, len(columns))
	for i, column := range columns {
		row[i] = values[column]
	}
	return row
}

// filename returns the caller's name with the extension enforced, or a
// default derived from the search identifier.
func (p *Projector) filename(custom, searchID string) string {
	name := custom
	if name == "" {
		name = "job_search_results_" + searchID
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
