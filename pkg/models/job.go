package models

import "time"

// JobRecord represents a normalized job posting from one of the supported
// job boards. Site and SearchID are always set so every record can be traced
// back to the search and source that produced it.
type JobRecord struct {
	ID               string        `json:"id" validate:"required"`
	Title            string        `json:"title" validate:"required"`
	CompanyName      *string       `json:"company_name,omitempty"`
	JobURL           string        `json:"job_url"`
	JobURLDirect     *string       `json:"job_url_direct,omitempty"`
	Location         *Location     `json:"location,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Compensation     *Compensation `json:"compensation,omitempty"`
	JobType          []JobType     `json:"job_type,omitempty"`
	DatePosted       *time.Time    `json:"date_posted,omitempty"`
	IsRemote         *bool         `json:"is_remote,omitempty"`
	Emails           []string      `json:"emails,omitempty"`
	Skills           []string      `json:"skills,omitempty"`
	ListingType      *string       `json:"listing_type,omitempty"`
	JobLevel         *string       `json:"job_level,omitempty"`
	JobFunction      *string       `json:"job_function,omitempty"`
	ExperienceRange  *string       `json:"experience_range,omitempty"`
	WorkFromHomeType *string       `json:"work_from_home_type,omitempty"`
	VacancyCount     *int          `json:"vacancy_count,omitempty"`

	CompanyURL          *string  `json:"company_url,omitempty"`
	CompanyURLDirect    *string  `json:"company_url_direct,omitempty"`
	CompanyIndustry     *string  `json:"company_industry,omitempty"`
	CompanyAddresses    *string  `json:"company_addresses,omitempty"`
	CompanyNumEmployees *string  `json:"company_num_employees,omitempty"`
	CompanyRevenue      *string  `json:"company_revenue,omitempty"`
	CompanyDescription  *string  `json:"company_description,omitempty"`
	CompanyLogo         *string  `json:"company_logo,omitempty"`
	CompanyRating       *float64 `json:"company_rating,omitempty"`
	CompanyReviewsCount *int     `json:"company_reviews_count,omitempty"`
	BannerPhotoURL      *string  `json:"banner_photo_url,omitempty"`

	// Provenance
	Site     string `json:"site" validate:"required"`
	SearchID string `json:"search_id" validate:"required"`

	// Reserved for result ranking, currently never populated
	RelevanceScore *float64 `json:"relevance_score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Location represents the structured location of a job posting
type Location struct {
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Compensation represents the salary information for a job posting
type Compensation struct {
	MinAmount *float64              `json:"min_amount,omitempty"`
	MaxAmount *float64              `json:"max_amount,omitempty"`
	Interval  *CompensationInterval `json:"interval,omitempty"`
	Currency  string                `json:"currency"`
}

// DefaultCurrency is used whenever a job board omits the currency code
const DefaultCurrency = "USD"

// DefaultCountry is assumed when a location string carries city and state
// but no country component
const DefaultCountry = "USA"

// CompensationInterval is the pay period of a compensation range
type CompensationInterval string

const (
	IntervalYearly  CompensationInterval = "yearly"
	IntervalMonthly CompensationInterval = "monthly"
	IntervalWeekly  CompensationInterval = "weekly"
	IntervalDaily   CompensationInterval = "daily"
	IntervalHourly  CompensationInterval = "hourly"
)

// ParseCompensationInterval matches raw interval text against the closed
// enumeration. The match is case-sensitive; unrecognized text yields ok=false
// and the interval is left absent rather than treated as an error.
func ParseCompensationInterval(s string) (CompensationInterval, bool) {
	switch CompensationInterval(s) {
	case IntervalYearly, IntervalMonthly, IntervalWeekly, IntervalDaily, IntervalHourly:
		return CompensationInterval(s), true
	}
	return "", false
}

// JobType is the canonical employment-type enumeration
type JobType string

const (
	JobTypeFullTime   JobType = "fulltime"
	JobTypePartTime   JobType = "parttime"
	JobTypeContract   JobType = "contract"
	JobTypeTemporary  JobType = "temporary"
	JobTypeInternship JobType = "internship"
	JobTypePerDiem    JobType = "perdiem"
	JobTypeNights     JobType = "nights"
	JobTypeOther      JobType = "other"
	JobTypeSummer     JobType = "summer"
	JobTypeVolunteer  JobType = "volunteer"
)

// jobTypeSynonyms maps every raw token a job board may emit to its canonical
// JobType. Boards localize these labels, so members carry the variants seen
// in the wild; extend the table, not the match logic.
var jobTypeSynonyms = map[string]JobType{
	"fulltime":        JobTypeFullTime,
	"full-time":       JobTypeFullTime,
	"tiempocompleto":  JobTypeFullTime,
	"vollzeit":        JobTypeFullTime,
	"voltijds":        JobTypeFullTime,
	"tempointegral":   JobTypeFullTime,
	"periodointegral": JobTypeFullTime,
	"tempsplein":      JobTypeFullTime,
	"fuldtid":         JobTypeFullTime,
	"parttime":        JobTypePartTime,
	"part-time":       JobTypePartTime,
	"teilzeit":        JobTypePartTime,
	"deeltijds":       JobTypePartTime,
	"tempspartiel":    JobTypePartTime,
	"contract":        JobTypeContract,
	"contractor":      JobTypeContract,
	"temporary":       JobTypeTemporary,
	"internship":      JobTypeInternship,
	"practicas":       JobTypeInternship,
	"praktikum":       JobTypeInternship,
	"stage":           JobTypeInternship,
	"perdiem":         JobTypePerDiem,
	"nights":          JobTypeNights,
	"other":           JobTypeOther,
	"summer":          JobTypeSummer,
	"volunteer":       JobTypeVolunteer,
}

// ParseJobType resolves one lowercase source token to a canonical JobType.
// Unknown tokens return ok=false; the caller leaves the field absent.
func ParseJobType(token string) (JobType, bool) {
	jt, ok := jobTypeSynonyms[token]
	return jt, ok
}

// ValidJobTypes returns the canonical employment-type values accepted in
// search requests.
func ValidJobTypes() []string {
	return []string{
		string(JobTypeFullTime), string(JobTypePartTime), string(JobTypeContract),
		string(JobTypeTemporary), string(JobTypeInternship), string(JobTypePerDiem),
		string(JobTypeNights), string(JobTypeOther), string(JobTypeSummer),
		string(JobTypeVolunteer),
	}
}
