package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/utils"
)

const (
	candidatesSheet = "Candidates"
	summarySheet    = "Summary"
	previewLimit    = 200
)

// ExportXLSX writes the candidates and their domain summary to a workbook at path.
func ExportXLSX(path string, c *candidate.Candidates) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return err
	}

	headers := []string{"Name", "Email", "Domain", "Confidence", "Keywords", "Phone", "CV Preview"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(candidatesSheet, cell, h); err != nil {
			return err
		}
	}

	for idx, r := range c.Items {
		row := idx + 2
		values := []any{
			r.Name,
			r.Email,
			r.Domain,
			r.Confidence,
			r.KeywordsString(),
			r.Phone,
			utils.Prefix(r.Preview, previewLimit),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(candidatesSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := setColWidths(f, candidatesSheet, []colWidth{
		{"A", "B", 28},
		{"C", "C", 24},
		{"D", "D", 12},
		{"E", "E", 48},
		{"F", "F", 16},
		{"G", "G", 60},
	}); err != nil {
		return err
	}

	if err := writeSummarySheet(f, c.ReportByDomain()); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s candidate.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]any{{"Domain", "Candidates", "Average Confidence"}}
	for _, d := range s.Domains {
		rows = append(rows, []any{d.Domain, d.Count, fmt.Sprintf("%.1f", d.AverageConfidence)})
	}
	rows = append(rows,
		[]any{"Total", s.Total, ""},
		[]any{fmt.Sprintf("High confidence (>=%d%%)", candidate.HighConfidence), s.HighConfidence, ""},
	)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return setColWidths(f, summarySheet, []colWidth{
		{"A", "A", 30},
		{"B", "C", 20},
	})
}

type colWidth struct {
	from, to string
	width    float64
}

func setColWidths(f *excelize.File, sheet string, widths []colWidth) error {
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("column width %s:%s on %s: %w", w.from, w.to, sheet, err)
		}
	}
	return nil
}
