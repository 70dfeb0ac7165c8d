package utils

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// shortID returns 12 hex characters of a fresh UUID
func shortID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:12]
}

// GenerateSearchID generates an opaque identifier for one search operation
func GenerateSearchID() string {
	return "search_" + shortID()
}

// GenerateExportID generates an opaque identifier for one export operation
func GenerateExportID() string {
	return "export_" + shortID()
}

// FormatDuration formats a duration to a human-readable string
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Contains checks if a string slice contains a specific string
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetStringOrDefault returns the value if not empty, otherwise returns the default
func GetStringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
