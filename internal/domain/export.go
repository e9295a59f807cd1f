package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Placeholder sentinels. Rendered text starting with either one is a status
// message, not a configuration document.
const (
	ErrorPrefix       = "// Error:"
	PlaceholderPrefix = "// Please add"
	PlaceholderEmpty  = PlaceholderPrefix + " at least one group..."
)

// ExportFilename is the fixed name of every downloaded configuration.
const ExportFilename = "prometheus-file-sd-config.json"

// ExportContentType is the media type of an exported configuration.
const ExportContentType = "application/json"

// ErrorText renders a failure detail as a placeholder line.
func ErrorText(detail string) string {
	return ErrorPrefix + " " + detail
}

// Exportable reports whether text is a real configuration document.
func Exportable(text string) bool {
	return !strings.HasPrefix(text, ErrorPrefix) && !strings.HasPrefix(text, PlaceholderPrefix)
}

// Export is a configuration document packaged for download.
// ID and CreatedAt are zero until the export has been stored.
type Export struct {
	ID          uuid.UUID
	Filename    string
	ContentType string
	Config      string
	CreatedAt   time.Time
}
