package models

import "time"

// ValidSites is the closed allow-list of job boards a search may target
var ValidSites = []string{
	"indeed", "linkedin", "glassdoor", "google",
	"zip_recruiter", "bayt", "naukri", "bdjobs",
}

// IsValidSite reports whether name is a supported job board
func IsValidSite(name string) bool {
	for _, s := range ValidSites {
		if s == name {
			return true
		}
	}
	return false
}

// SearchRequest represents the request payload for a job search.
// Structural bounds live in validate tags; the cross-field rule that at
// least one of SearchTerm/Location must be set is enforced by the search
// service because it spans two fields.
type SearchRequest struct {
	SearchTerm    string   `json:"search_term,omitempty" validate:"omitempty,min=1,max=200"`
	Location      string   `json:"location,omitempty" validate:"omitempty,min=1,max=100"`
	JobType       string   `json:"job_type,omitempty" validate:"omitempty,job_type"`
	SiteNames     []string `json:"site_names,omitempty" validate:"omitempty,min=1,max=10,dive,site_name"`
	ResultsWanted int      `json:"results_wanted,omitempty" validate:"omitempty,gte=1,lte=100"`
	Distance      *int     `json:"distance,omitempty" validate:"omitempty,gte=0,lte=200"`
	IsRemote      bool     `json:"is_remote,omitempty"`
	HoursOld      *int     `json:"hours_old,omitempty" validate:"omitempty,gte=1,lte=8760"`
}

// ApplyDefaults fills the zero-valued optional fields the same way the API
// documents them: three mainstream boards, 20 results, 50 mile radius.
func (r *SearchRequest) ApplyDefaults() {
	if len(r.SiteNames) == 0 {
		r.SiteNames = []string{"indeed", "linkedin", "glassdoor"}
	}
	if r.ResultsWanted == 0 {
		r.ResultsWanted = 20
	}
	if r.Distance == nil {
		d := 50
		r.Distance = &d
	}
}

// SearchMetadata describes one completed search operation
type SearchMetadata struct {
	SearchID           string    `json:"search_id"`
	Timestamp          time.Time `json:"timestamp"`
	TotalSitesSearched int       `json:"total_sites_searched"`
	SuccessfulSites    []string  `json:"successful_sites"`
	FailedSites        []string  `json:"failed_sites"`
	SearchDuration     float64   `json:"search_duration"` // seconds
	TotalResultsFound  int       `json:"total_results_found"`
}

// JobSearchResponse is the response payload for a job search. TotalResults
// always equals len(Jobs); row-level normalization failures land in Errors
// without aborting the batch.
type JobSearchResponse struct {
	Jobs           []JobRecord    `json:"jobs"`
	TotalResults   int            `json:"total_results"`
	SearchMetadata SearchMetadata `json:"search_metadata"`
	Errors         []string       `json:"errors"`
	Warnings       []string       `json:"warnings"`
}
