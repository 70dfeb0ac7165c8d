// Package source defines the contract with the external job-board search
// service. The service is treated as an opaque data source: it accepts one
// parameter bag covering every requested board and returns a row-oriented
// tabular result.
package source

import "context"

// Placeholder is the literal the upstream emits for string columns that
// carry no value. It must normalize to the absent state, never propagate
// as text.
const Placeholder = "None"

// Row is one raw job posting as returned by the upstream: column name to
// loosely typed value. Values may be missing, nil, blank, or Placeholder.
type Row map[string]any

// Params is the upstream search parameter bag. Pointer and zero-valued
// optional fields are stripped before dispatch so the upstream applies its
// own defaults instead of receiving explicit nulls.
type Params struct {
	SiteNames         []string `json:"site_name"`
	SearchTerm        string   `json:"search_term,omitempty"`
	Location          string   `json:"location,omitempty"`
	Distance          *int     `json:"distance,omitempty"`
	IsRemote          bool     `json:"is_remote,omitempty"`
	JobType           string   `json:"job_type,omitempty"`
	ResultsWanted     int      `json:"results_wanted,omitempty"`
	HoursOld          *int     `json:"hours_old,omitempty"`
	CountryIndeed     string   `json:"country_indeed,omitempty"`
	DescriptionFormat string   `json:"description_format,omitempty"`
}

// SiteOutcome reports how one requested board fared. Upstreams that only
// return a combined result set leave Outcomes empty, in which case callers
// fall back to error-text attribution.
type SiteOutcome struct {
	Site    string `json:"site"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Result is the raw tabular outcome of one upstream search
type Result struct {
	Rows     []Row         `json:"rows"`
	Outcomes []SiteOutcome `json:"outcomes,omitempty"`
}

// Provider executes a search against the external job-board service.
// Implementations must be safe for concurrent use; the call is blocking and
// runs inside the worker pool, off the request path.
type Provider interface {
	Search(ctx context.Context, params Params) (*Result, error)
	Name() string
}

// String reads a column as a string. ok is false when the column is missing,
// nil, blank, or the upstream placeholder.
func (r Row) String(column string) (string, bool) {
	v, exists := r[column]
	if !exists || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString || s == "" || s == Placeholder {
		return "", false
	}
	return s, true
}

// Float reads a column as a float64, coercing ints and numeric strings.
// err is non-nil only for present values that fail coercion.
func (r Row) Float(column string) (float64, bool, error) {
	v, exists := r[column]
	if !exists || v == nil {
		return 0, false, nil
	}
	return coerceFloat(column, v)
}

// Int reads a column as an int, coercing floats and numeric strings
func (r Row) Int(column string) (int, bool, error) {
	f, ok, err := r.Float(column)
	if err != nil || !ok {
		return 0, ok, err
	}
	return int(f), true, nil
}

// Bool reads a column as a bool. Absent values are reported as missing so
// tri-state flags stay tri-state.
func (r Row) Bool(column string) (bool, bool) {
	v, exists := r[column]
	if !exists || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if b == "" || b == Placeholder {
			return false, false
		}
		return b == "true" || b == "True", true
	default:
		return false, false
	}
}
