package service

import (
	"fmt"

	"creativecheck/internal/domain"
)

const (
	systemErrorNotes     = "An API error occurred; retry recommended."
	processingErrorNotes = "An error occurred while processing the file."
)

// DisplayName returns the caller-facing name of payload index i (zero-based)
// out of total. Single payloads keep the original name.
func DisplayName(fileName string, i, total int) string {
	if total <= 1 {
		return fileName
	}
	return fmt.Sprintf("%s (page %d)", fileName, i+1)
}

// SystemErrorRecord is produced when the vision call for a payload fails.
func SystemErrorRecord(displayName string, cause error) domain.ResultRecord {
	return errorRecord(displayName, domain.CategorySystemError, cause, systemErrorNotes)
}

// ProcessingErrorRecord is produced when a file cannot be turned into payloads.
func ProcessingErrorRecord(fileName string, cause error) domain.ResultRecord {
	return errorRecord(fileName, domain.CategoryProcessingError, cause, processingErrorNotes)
}

func errorRecord(name, category string, cause error, notes string) domain.ResultRecord {
	return domain.ResultRecord{
		FileName:    name,
		CompanyName: domain.UnknownCompany,
		Judgment:    domain.JudgmentError,
		Issues: []domain.Issue{{
			Severity:    domain.SeverityCritical,
			Category:    category,
			Description: cause.Error(),
		}},
		Notes: domain.StringPtr(notes),
	}
}
