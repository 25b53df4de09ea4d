// Package reply converts free-text vision model replies into result records.
package reply

import (
	"bytes"
	"encoding/json"
	"strings"

	"creativecheck/internal/domain"
)

const (
	jsonFence    = "```json"
	genericFence = "```"
)

// ParseErrorDescription is the description of the issue attached to every
// fallback record.
const ParseErrorDescription = "Could not read the model reply as structured JSON. Review the raw text in notes."

// Marker phrases for the fallback judgment, matched literally against the
// whole reply. Clean markers are checked first.
var (
	cleanMarkers     = []string{"問題なし", "no problem"}
	violationMarkers = []string{"問題あり", "has problem", "禁止", "prohibited", "不合格", "failed"}
)

// Parse builds a ResultRecord from a model reply. The record's file name is
// always displayName. Parse never fails: replies that cannot be decoded into
// the record shape produce a fallback record carrying the raw text.
func Parse(text, displayName string) (rec domain.ResultRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = Fallback(text, displayName)
		}
	}()

	decoded, ok := decode(extractCandidate(text))
	if !ok {
		return Fallback(text, displayName)
	}
	decoded.FileName = displayName
	return decoded
}

// extractCandidate returns the text most likely to hold the JSON object:
// the body of the first ```json fence, else of the first generic fence,
// else the whole reply. An unterminated fence runs to the end of the text.
func extractCandidate(text string) string {
	if body, ok := fenceBody(text, jsonFence); ok {
		return body
	}
	if body, ok := fenceBody(text, genericFence); ok {
		return body
	}
	return strings.TrimSpace(text)
}

func fenceBody(text, opener string) (string, bool) {
	start := strings.Index(text, opener)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(opener):]
	if end := strings.Index(rest, genericFence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// wireRecord mirrors ResultRecord with lenient optional fields.
type wireRecord struct {
	CompanyName      *string         `json:"company_name"`
	Judgment         domain.Judgment `json:"judgment"`
	Issues           []wireIssue     `json:"issues"`
	DetectedElements wireElements    `json:"detected_elements"`
	Notes            *string         `json:"notes"`
}

type wireIssue struct {
	Severity    domain.Severity `json:"severity"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
}

type wireElements struct {
	Year            looseString `json:"year"`
	Issuer          looseString `json:"issuer"`
	RankingName     looseString `json:"ranking_name"`
	Position        looseString `json:"position"`
	TrademarkSymbol looseBool   `json:"trademark_symbol"`
}

func decode(candidate string) (domain.ResultRecord, bool) {
	trimmed := bytes.TrimSpace([]byte(candidate))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.ResultRecord{}, false
	}

	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return domain.ResultRecord{}, false
	}

	rec := domain.ResultRecord{
		CompanyName: domain.UnknownCompany,
		Judgment:    w.Judgment,
		Issues:      make([]domain.Issue, 0, len(w.Issues)),
		DetectedElements: domain.DetectedElements{
			Year:            w.DetectedElements.Year.value,
			Issuer:          w.DetectedElements.Issuer.value,
			RankingName:     w.DetectedElements.RankingName.value,
			Position:        w.DetectedElements.Position.value,
			TrademarkSymbol: bool(w.DetectedElements.TrademarkSymbol),
		},
		Notes: w.Notes,
	}
	if w.CompanyName != nil && strings.TrimSpace(*w.CompanyName) != "" {
		rec.CompanyName = *w.CompanyName
	}
	if rec.Judgment == "" {
		rec.Judgment = domain.JudgmentNeedsReview
	}
	for _, wi := range w.Issues {
		issue := domain.Issue{Severity: wi.Severity}
		if issue.Severity == "" {
			issue.Severity = domain.SeverityInfo
		}
		if wi.Category != nil {
			issue.Category = *wi.Category
		}
		if wi.Description != nil {
			issue.Description = *wi.Description
		}
		rec.Issues = append(rec.Issues, issue)
	}
	return rec, true
}

// Fallback builds the record used when a reply has no decodable JSON object.
// The judgment is inferred from marker phrases anywhere in text.
func Fallback(text, displayName string) domain.ResultRecord {
	return domain.ResultRecord{
		FileName:    displayName,
		CompanyName: domain.UnknownCompany,
		Judgment:    InferJudgment(text),
		Issues: []domain.Issue{{
			Severity:    domain.SeverityInfo,
			Category:    domain.CategoryParseError,
			Description: ParseErrorDescription,
		}},
		Notes:       domain.StringPtr(text),
		RawResponse: domain.StringPtr(text),
	}
}

// InferJudgment applies the marker phrase rules: any clean marker wins,
// then any violation marker, otherwise the reply needs review.
func InferJudgment(text string) domain.Judgment {
	if containsAny(text, cleanMarkers) {
		return domain.JudgmentClean
	}
	if containsAny(text, violationMarkers) {
		return domain.JudgmentViolation
	}
	return domain.JudgmentNeedsReview
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
