package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExportFormat selects the serialization of an export.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts "json" or "csv" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension without the dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// MIMEType returns the content type offered with the download.
func (f ExportFormat) MIMEType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv;charset=utf-8"
	default:
		return "application/json"
	}
}

// ExportRequest is the active criteria plus the requested format.
type ExportRequest struct {
	Criteria FilterCriteria
	Format   ExportFormat
}

// ExportArtifact is a serialized export ready for delivery. Artifacts are
// transient: nothing retains them after delivery.
type ExportArtifact struct {
	ID        string
	Format    ExportFormat
	Filename  string
	MIMEType  string
	Data      []byte
	Records   int
	Criteria  FilterCriteria
	CreatedAt time.Time
}
