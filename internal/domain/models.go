package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResultRecord is the judgment for one evaluated image. Field names are part
// of the export format.
type ResultRecord struct {
	FileName         string           `json:"file_name"`
	CompanyName      string           `json:"company_name"`
	Judgment         Judgment         `json:"judgment"`
	Issues           []Issue          `json:"issues"`
	DetectedElements DetectedElements `json:"detected_elements"`
	Notes            *string          `json:"notes"`
	RawResponse      *string          `json:"raw_response,omitempty"`
}

// Issue is a single finding against the ruleset.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// DetectedElements holds the required ranking-claim elements the model found.
// Nil strings mean "not detected".
type DetectedElements struct {
	Year            *string `json:"year"`
	Issuer          *string `json:"issuer"`
	RankingName     *string `json:"ranking_name"`
	Position        *string `json:"position"`
	TrademarkSymbol bool    `json:"trademark_symbol"`
}

// Payload is one image submitted to the vision model.
type Payload struct {
	Data      []byte
	MediaType string
}

// UploadedFile is a user-supplied file as received by the batch layer.
// Err is set when the file could not be read; the batch reports it as an
// Error record instead of checking Data.
type UploadedFile struct {
	Name string
	Data []byte
	Err  error
}

// FileSummary describes one uploaded file within a run.
type FileSummary struct {
	Name   string  `json:"name"`
	SizeKB float64 `json:"size_kb"`
	Pages  int     `json:"pages"`
	Error  string  `json:"error,omitempty"`
}

// Summary counts the records of a run by judgment.
type Summary struct {
	Total       int `json:"total"`
	Clean       int `json:"clean"`
	Violation   int `json:"violation"`
	NeedsReview int `json:"needs_review"`
	Error       int `json:"error"`
}

// RunInfo is the serializable view of a check run.
type RunInfo struct {
	ID         uuid.UUID      `json:"id"`
	Provider   string         `json:"provider"`
	Model      string         `json:"model,omitempty"`
	Files      []FileSummary  `json:"files"`
	Summary    Summary        `json:"summary"`
	Results    []ResultRecord `json:"results"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
