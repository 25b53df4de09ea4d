// Package export renders result records for download.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"creativecheck/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

// Formats lists every supported export format. JSON is the canonical one.
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX, FormatYAML}

// FilenamePrefix starts every suggested export filename.
const FilenamePrefix = "creative_check_result_"

// ParseFormat maps a case-insensitive name to a Format. An empty name means JSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Filename suggests a download name stamped to the second,
// e.g. creative_check_result_20250114_093005.json.
func Filename(f Format, now time.Time) string {
	return FilenamePrefix + now.Format("20060102_150405") + "." + string(f)
}

// Render writes records to w in format f.
func Render(w io.Writer, f Format, records []domain.ResultRecord) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, f)
	}
}
