// Package aggregate accumulates the result records of one check run.
package aggregate

import (
	"io"
	"sync"
	"time"

	"creativecheck/internal/domain"
	"creativecheck/internal/export"
)

// Collection is an append-only list of result records, safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds records in order.
func (c *Collection) Append(records ...domain.ResultRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// Total returns the number of records.
func (c *Collection) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Count returns the number of records with judgment j.
func (c *Collection) Count(j domain.Judgment) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.records {
		if c.records[i].Judgment == j {
			n++
		}
	}
	return n
}

// Summary counts the records by judgment.
func (c *Collection) Summary() domain.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summarize(c.records)
}

// Records returns a copy of the records in insertion order.
func (c *Collection) Records() []domain.ResultRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.ResultRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Reset discards all records.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

// ExportJSON writes the records as the canonical JSON export.
func (c *Collection) ExportJSON(w io.Writer) error {
	return export.WriteJSON(w, c.Records())
}

// ExportFilename suggests the download name of a JSON export taken at now.
func ExportFilename(now time.Time) string {
	return export.Filename(export.FormatJSON, now)
}

// Summarize counts records by judgment.
func Summarize(records []domain.ResultRecord) domain.Summary {
	s := domain.Summary{Total: len(records)}
	for i := range records {
		switch records[i].Judgment {
		case domain.JudgmentClean:
			s.Clean++
		case domain.JudgmentViolation:
			s.Violation++
		case domain.JudgmentError:
			s.Error++
		default:
			s.NeedsReview++
		}
	}
	return s
}
