package domain

import (
	"encoding/json"
	"strings"
)

// Judgment is the compliance verdict attached to every ResultRecord.
// Values are the labels the ruleset prompt asks the model to emit.
type Judgment string

const (
	JudgmentClean       Judgment = "問題なし"
	JudgmentViolation   Judgment = "問題あり"
	JudgmentNeedsReview Judgment = "要確認"
	JudgmentError       Judgment = "エラー"
)

// Judgments lists every valid judgment in display order.
var Judgments = []Judgment{JudgmentClean, JudgmentViolation, JudgmentNeedsReview, JudgmentError}

// judgmentLabels maps every accepted wire label to its judgment.
var judgmentLabels = map[string]Judgment{
	string(JudgmentClean):       JudgmentClean,
	string(JudgmentViolation):   JudgmentViolation,
	string(JudgmentNeedsReview): JudgmentNeedsReview,
	string(JudgmentError):       JudgmentError,
	"clean":                     JudgmentClean,
	"violation":                 JudgmentViolation,
	"needs_review":              JudgmentNeedsReview,
	"error":                     JudgmentError,
}

// ParseJudgment maps a label to a Judgment. Labels must match exactly;
// anything unrecognized collapses to JudgmentNeedsReview.
func ParseJudgment(label string) Judgment {
	if j, ok := judgmentLabels[label]; ok {
		return j
	}
	return JudgmentNeedsReview
}

// Key returns the stable ASCII identifier used in summaries and exports.
func (j Judgment) Key() string {
	switch j {
	case JudgmentClean:
		return "clean"
	case JudgmentViolation:
		return "violation"
	case JudgmentError:
		return "error"
	default:
		return "needs_review"
	}
}

// UnmarshalJSON normalizes untrusted labels. Non-string values are treated
// as unrecognized labels.
func (j *Judgment) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*j = JudgmentNeedsReview
		return nil //nolint:nilerr // a non-string label is an unrecognized label
	}
	*j = ParseJudgment(s)
	return nil
}

// Severity grades a single issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// ParseSeverity maps a label to a Severity, case-insensitively. Unknown
// labels become SeverityInfo.
func ParseSeverity(label string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(label))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// UnmarshalJSON normalizes untrusted severity labels.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		*s = SeverityInfo
		return nil //nolint:nilerr // a non-string label is an unrecognized label
	}
	*s = ParseSeverity(label)
	return nil
}

// FileKind classifies an upload by extension.
type FileKind string

const (
	FileKindImage    FileKind = "image"
	FileKindDocument FileKind = "pdf"
	FileKindUnknown  FileKind = "unknown"
)

// ImageExtensions is the set of accepted raster image extensions (without dot).
var ImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

// DocumentExtensions is the set of accepted multi-page document extensions.
var DocumentExtensions = map[string]bool{
	"pdf": true,
}

// ImageMediaTypes maps image extensions to the MIME type sent to the model.
var ImageMediaTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// DefaultMediaType is used for accepted images missing from ImageMediaTypes,
// and for every rasterized document page.
const DefaultMediaType = "image/png"

// Category labels for issues synthesized locally rather than by the model.
const (
	CategoryParseError      = "parse-error"
	CategorySystemError     = "system-error"
	CategoryProcessingError = "processing-error"
)

// UnknownCompany is the company_name sentinel when none could be determined.
const UnknownCompany = "unknown"
