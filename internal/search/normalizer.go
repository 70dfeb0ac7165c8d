package search

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobsearch-api/internal/source"
	"jobsearch-api/pkg/models"
)

// listSeparator joins list-valued columns (emails, skills) and location
// components in the upstream's tabular output
const listSeparator = ", "

// NormalizeRow converts one raw upstream row into a validated JobRecord.
// Missing, nil, blank, and placeholder values all normalize to the absent
// state. Only numeric coercion failures produce an error; everything else
// degrades to an absent field so a ragged row still yields a record. The
// returned error is meant for the caller's accumulator, never for aborting
// the batch.
func NormalizeRow(row source.Row, searchID string) (*models.JobRecord, error) {
	record := &models.JobRecord{
		SearchID: searchID,
	}

	if id, ok := row.String("id"); ok {
		record.ID = id
	} else {
		record.ID = generateJobID()
	}

	if title, ok := row.String("title"); ok {
		record.Title = title
	} else {
		record.Title = "Unknown Title"
	}

	if site, ok := row.String("site"); ok {
		record.Site = site
	} else {
		record.Site = "unknown"
	}

	if jobURL, ok := row.String("job_url"); ok {
		record.JobURL = jobURL
	}
	record.JobURLDirect = stringField(row, "job_url_direct")
	record.CompanyName = stringField(row, "company_name")
	record.Description = stringField(row, "description")

	record.Location = normalizeLocation(row)

	comp, err := normalizeCompensation(row)
	if err != nil {
		return nil, err
	}
	record.Compensation = comp

	if token, ok := row.String("job_type"); ok {
		if jt, matched := models.ParseJobType(token); matched {
			record.JobType = []models.JobType{jt}
		}
	}

	if raw, ok := row.String("date_posted"); ok {
		if t, perr := time.Parse("2006-01-02", raw); perr == nil {
			record.DatePosted = &t
		}
	}

	if remote, ok := row.Bool("is_remote"); ok {
		record.IsRemote = &remote
	}

	record.Emails = listField(row, "emails")
	record.Skills = listField(row, "skills")

	record.ListingType = stringField(row, "listing_type")
	record.JobLevel = stringField(row, "job_level")
	record.JobFunction = stringField(row, "job_function")
	record.ExperienceRange = stringField(row, "experience_range")
	record.WorkFromHomeType = stringField(row, "work_from_home_type")

	record.CompanyURL = stringField(row, "company_url")
	record.CompanyURLDirect = stringField(row, "company_url_direct")
	record.CompanyIndustry = stringField(row, "company_industry")
	record.CompanyAddresses = stringField(row, "company_addresses")
	record.CompanyNumEmployees = stringField(row, "company_num_employees")
	record.CompanyRevenue = stringField(row, "company_revenue")
	record.CompanyDescription = stringField(row, "company_description")
	record.CompanyLogo = stringField(row, "company_logo")
	record.BannerPhotoURL = stringField(row, "banner_photo_url")

	if rating, ok, rerr := row.Float("company_rating"); rerr != nil {
		return nil, rerr
	} else if ok {
		record.CompanyRating = &rating
	}

	if reviews, ok, rerr := row.Int("company_reviews_count"); rerr != nil {
		return nil, rerr
	} else if ok {
		record.CompanyReviewsCount = &reviews
	}

	if vacancies, ok, rerr := row.Int("vacancy_count"); rerr != nil {
		return nil, rerr
	} else if ok {
		record.VacancyCount = &vacancies
	}

	return record, nil
}

// normalizeLocation parses the upstream's single comma-separated location
// string. A lone token is ambiguous (city? state? "Remote"?) so anything
// with fewer than two components is discarded entirely rather than guessed
// at. Country defaults only once city and state are both known.
func normalizeLocation(row source.Row) *models.Location {
	raw, ok := row.String("location")
	if !ok {
		return nil
	}

	parts := strings.Split(raw, listSeparator)
	if len(parts) < 2 {
		return nil
	}

	loc := &models.Location{
		City:  &parts[0],
		State: &parts[1],
	}
	if len(parts) > 2 {
		loc.Country = &parts[2]
	} else {
		country := models.DefaultCountry
		loc.Country = &country
	}
	return loc
}

// normalizeCompensation builds the compensation sub-object only when at
// least one of min amount, max amount, or interval is present. Unrecognized
// interval text is dropped, not surfaced as an error.
func normalizeCompensation(row source.Row) (*models.Compensation, error) {
	minAmount, hasMin, err := row.Float("min_amount")
	if err != nil {
		return nil, err
	}
	maxAmount, hasMax, err := row.Float("max_amount")
	if err != nil {
		return nil, err
	}
	rawInterval, hasInterval := row.String("interval")

	if !hasMin && !hasMax && !hasInterval {
		return nil, nil
	}

	comp := &models.Compensation{Currency: models.DefaultCurrency}
	if hasMin {
		comp.MinAmount = &minAmount
	}
	if hasMax {
		comp.MaxAmount = &maxAmount
	}
	if hasInterval {
		if interval, matched := models.ParseCompensationInterval(rawInterval); matched {
			comp.Interval = &interval
		}
	}
	if currency, ok := row.String("currency"); ok {
		comp.Currency = currency
	}
	return comp, nil
}

func stringField(row source.Row, column string) *string {
	if s, ok := row.String(column); ok {
		return &s
	}
	return nil
}

// listField splits a comma-space-joined column into an ordered list. The
// placeholder literal yields no list at all, never a one-element list.
func listField(row source.Row, column string) []string {
	s, ok := row.String(column)
	if !ok {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func generateJobID() string {
	id := uuid.New()
	return "job_" + hex.EncodeToString(id[:])[:8]
}
