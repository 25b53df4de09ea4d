package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"creativecheck/internal/domain"
)

const (
	resultsSheet = "Results"
	issuesSheet  = "Issues"
)

var issueColumns = []string{"File Name", "Judgment", "Severity", "Category", "Description"}

// WriteXLSX writes a workbook with a Results sheet (one row per record) and
// an Issues sheet (one row per issue).
func WriteXLSX(w io.Writer, records []domain.ResultRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return fmt.Errorf("creating issues sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRow(f, resultsSheet, 1, toRow(columns)); err != nil {
		return err
	}
	if err := writeRow(f, issuesSheet, 1, toRow(issueColumns)); err != nil {
		return err
	}

	issueRow := 2
	for i := range records {
		row := recordToRow(&records[i])
		if err := writeRow(f, resultsSheet, i+2, toRow(row)); err != nil {
			return err
		}
		for _, is := range records[i].Issues {
			cells := []interface{}{records[i].FileName, string(records[i].Judgment), string(is.Severity), is.Category, is.Description}
			if err := writeRow(f, issuesSheet, issueRow, cells); err != nil {
				return err
			}
			issueRow++
		}
	}

	for _, sheet := range []struct {
		name string
		cols int
	}{{resultsSheet, len(columns)}, {issuesSheet, len(issueColumns)}} {
		last, err := excelize.ColumnNumberToName(sheet.cols)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.name, "A1", last+"1", header); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
		if err := f.SetColWidth(sheet.name, "A", last, 24); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
