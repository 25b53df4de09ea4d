package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"creativecheck/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by the CSV and XLSX exports.
var columns = []string{
	"File Name",
	"Company",
	"Judgment",
	"Issue Count",
	"Issues",
	"Year",
	"Issuer",
	"Ranking Name",
	"Position",
	"Trademark Symbol",
	"Notes",
}

// Writer wraps csv.Writer for exporting result records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords converts records to CSV rows and writes them.
func (w *Writer) WriteRecords(records []domain.ResultRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a BOM, the header and one row per record.
func WriteCSV(out io.Writer, records []domain.ResultRecord) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRecords(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func recordToRow(r *domain.ResultRecord) []string {
	return []string{
		r.FileName,
		r.CompanyName,
		string(r.Judgment),
		strconv.Itoa(len(r.Issues)),
		formatIssues(r.Issues),
		deref(r.DetectedElements.Year),
		deref(r.DetectedElements.Issuer),
		deref(r.DetectedElements.RankingName),
		deref(r.DetectedElements.Position),
		formatBool(r.DetectedElements.TrademarkSymbol),
		deref(r.Notes),
	}
}

// formatIssues renders issues one per line as "[severity] category: description".
func formatIssues(issues []domain.Issue) string {
	lines := make([]string, 0, len(issues))
	for _, is := range issues {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", is.Severity, is.Category, is.Description))
	}
	return strings.Join(lines, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
