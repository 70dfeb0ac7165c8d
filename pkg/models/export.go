package models

import "time"

// ExportFormat identifies a supported export file format
type ExportFormat string

const (
	// ExportFormatCSV is currently the only supported format
	ExportFormatCSV ExportFormat = "csv"
)

// SupportedExportFormats returns the export formats the API accepts
func SupportedExportFormats() []string {
	return []string{string(ExportFormatCSV)}
}

// ExportOptions selects which optional column groups an export includes
type ExportOptions struct {
	Format                ExportFormat
	IncludeDescription    bool
	IncludeCompanyDetails bool
	Filename              string
}

// ExportMetadata describes one generated export. It is created fresh on
// every export call and never cached.
type ExportMetadata struct {
	ExportID          string       `json:"export_id"`
	SearchID          string       `json:"search_id"`
	Format            ExportFormat `json:"format"`
	TotalJobsExported int          `json:"total_jobs_exported"`
	ExportTimestamp   time.Time    `json:"export_timestamp"`
	FileSizeBytes     int          `json:"file_size_bytes"`
	Filename          string       `json:"filename"`
}

// ExportInfo is the read-only payload describing what an export of a cached
// search would contain.
type ExportInfo struct {
	SearchID           string         `json:"search_id"`
	TotalJobs          int            `json:"total_jobs"`
	SearchTimestamp    time.Time      `json:"search_timestamp"`
	SearchMetadata     map[string]any `json:"search_metadata"`
	SupportedFormats   []string       `json:"supported_formats"`
	EstimatedCSVSizeKB int            `json:"estimated_csv_size_kb"`
}
