package reply_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativecheck/internal/domain"
	"creativecheck/internal/reply"
)

func fullRecord() domain.ResultRecord {
	return domain.ResultRecord{
		FileName:    "model-echo.png",
		CompanyName: "Example Securities",
		Judgment:    domain.JudgmentViolation,
		Issues: []domain.Issue{
			{Severity: domain.SeverityCritical, Category: "prohibited-expression", Description: "「オリコン1位」 is not allowed"},
			{Severity: domain.SeverityWarning, Category: "formatting", Description: "missing half-width space"},
		},
		DetectedElements: domain.DetectedElements{
			Year:            domain.StringPtr("2024年"),
			Issuer:          domain.StringPtr("オリコン顧客満足度®調査"),
			RankingName:     domain.StringPtr("ネット証券"),
			Position:        domain.StringPtr("第1位"),
			TrademarkSymbol: true,
		},
		Notes: domain.StringPtr("logo is stretched horizontally"),
	}
}

func TestParse_JSONFenceRoundTrip(t *testing.T) {
	want := fullRecord()
	body, err := json.Marshal(want)
	require.NoError(t, err)

	text := "Here is the result:\n```json\n" + string(body) + "\n```\nThanks."
	got := reply.Parse(text, "banner.png")

	want.FileName = "banner.png"
	assert.Equal(t, want, got)
	assert.Nil(t, got.RawResponse)
}

func TestParse_GenericFence(t *testing.T) {
	text := "```\n{\"company_name\": \"ACME\", \"judgment\": \"問題なし\", \"issues\": []}\n```"
	got := reply.Parse(text, "a.png")

	assert.Equal(t, "a.png", got.FileName)
	assert.Equal(t, "ACME", got.CompanyName)
	assert.Equal(t, domain.JudgmentClean, got.Judgment)
	assert.NotNil(t, got.Issues)
	assert.Empty(t, got.Issues)
	assert.Nil(t, got.RawResponse)
}

func TestParse_BareJSON(t *testing.T) {
	got := reply.Parse("  {\"judgment\": \"問題あり\"}  ", "a.png")
	assert.Equal(t, domain.JudgmentViolation, got.Judgment)
	assert.Equal(t, domain.UnknownCompany, got.CompanyName)
}

func TestParse_UnterminatedFenceTakesRest(t *testing.T) {
	got := reply.Parse("```json\n{\"judgment\": \"clean\", \"company_name\": \"X\"}", "a.png")
	assert.Equal(t, domain.JudgmentClean, got.Judgment)
	assert.Equal(t, "X", got.CompanyName)
	assert.Nil(t, got.RawResponse)
}

func TestParse_DefaultsForMissingFields(t *testing.T) {
	got := reply.Parse(`{"issues": [{"category": "logo-integrity"}], "detected_elements": {"year": 2024, "position": null}}`, "a.png")

	assert.Equal(t, domain.JudgmentNeedsReview, got.Judgment)
	assert.Equal(t, domain.UnknownCompany, got.CompanyName)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, domain.SeverityInfo, got.Issues[0].Severity)
	assert.Equal(t, "logo-integrity", got.Issues[0].Category)
	require.NotNil(t, got.DetectedElements.Year)
	assert.Equal(t, "2024", *got.DetectedElements.Year)
	assert.Nil(t, got.DetectedElements.Position)
	assert.Nil(t, got.DetectedElements.Issuer)
	assert.False(t, got.DetectedElements.TrademarkSymbol)
	assert.Nil(t, got.Notes)
}

func TestParse_UnknownLabelsNormalized(t *testing.T) {
	got := reply.Parse(`{"judgment": "OK", "issues": [{"severity": "Blocker"}, {"severity": "WARNING"}]}`, "a.png")

	assert.Equal(t, domain.JudgmentNeedsReview, got.Judgment)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, domain.SeverityInfo, got.Issues[0].Severity)
	assert.Equal(t, domain.SeverityWarning, got.Issues[1].Severity)
}

func TestParse_FallbackClean(t *testing.T) {
	text := "I reviewed the banner and found no problem with the wording."
	got := reply.Parse(text, "a.png")

	assert.Equal(t, domain.JudgmentClean, got.Judgment)
	assert.Equal(t, "a.png", got.FileName)
	assert.Equal(t, domain.UnknownCompany, got.CompanyName)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, domain.SeverityInfo, got.Issues[0].Severity)
	assert.Equal(t, domain.CategoryParseError, got.Issues[0].Category)
	require.NotNil(t, got.RawResponse)
	assert.Equal(t, text, *got.RawResponse)
	require.NotNil(t, got.Notes)
	assert.Equal(t, text, *got.Notes)
	assert.Equal(t, domain.DetectedElements{}, got.DetectedElements)
}

func TestParse_FallbackPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Judgment
	}{
		{"clean wins over violation", "no problem in the headline, but the footer has problem", domain.JudgmentClean},
		{"japanese clean wins", "判定: 問題あり？いいえ、問題なし", domain.JudgmentClean},
		{"has problem", "the creative has problem", domain.JudgmentViolation},
		{"prohibited", "uses a prohibited phrase", domain.JudgmentViolation},
		{"failed", "check failed", domain.JudgmentViolation},
		{"japanese prohibited", "禁止表現が含まれています", domain.JudgmentViolation},
		{"japanese failed", "不合格です", domain.JudgmentViolation},
		{"no marker", "I cannot tell from this image.", domain.JudgmentNeedsReview},
		{"case sensitive", "No Problem at all", domain.JudgmentNeedsReview},
		{"empty", "", domain.JudgmentNeedsReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reply.Parse(tt.text, "a.png")
			assert.Equal(t, tt.want, got.Judgment)
			assert.NotEqual(t, domain.JudgmentError, got.Judgment)
			require.NotNil(t, got.RawResponse)
		})
	}
}

func TestParse_MarkersOutsideFence(t *testing.T) {
	text := "Overall: no problem.\n```json\n{ not valid json\n```"
	got := reply.Parse(text, "a.png")

	assert.Equal(t, domain.JudgmentClean, got.Judgment)
	require.NotNil(t, got.RawResponse)
	assert.Equal(t, text, *got.RawResponse)
}

func TestParse_NonObjectJSONFallsBack(t *testing.T) {
	for _, text := range []string{`["問題なし"]`, `"has problem"`, `42`, `null`} {
		got := reply.Parse(text, "a.png")
		require.NotNil(t, got.RawResponse, text)
		assert.Equal(t, domain.CategoryParseError, got.Issues[0].Category, text)
	}
}

func TestParse_TypeMismatchFallsBack(t *testing.T) {
	got := reply.Parse(`{"judgment": "問題なし", "issues": "none"}`, "a.png")

	require.NotNil(t, got.RawResponse)
	assert.Equal(t, domain.JudgmentClean, got.Judgment, "marker inference still applies")
}

func TestParse_Deterministic(t *testing.T) {
	text := "partial ```json {\"judgment\":"
	assert.Equal(t, reply.Parse(text, "a.png"), reply.Parse(text, "a.png"))
}

func TestParse_TrademarkSymbolVariants(t *testing.T) {
	for raw, want := range map[string]bool{
		`true`:    true,
		`"true"`:  true,
		`false`:   false,
		`null`:    false,
		`"maybe"`: false,
		`1`:       false,
	} {
		got := reply.Parse(`{"detected_elements": {"trademark_symbol": `+raw+`}}`, "a.png")
		assert.Nil(t, got.RawResponse, raw)
		assert.Equal(t, want, got.DetectedElements.TrademarkSymbol, raw)
	}
}
