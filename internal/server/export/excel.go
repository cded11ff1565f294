// Package export renders a user's applications as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

const (
	ApplicationsSheet = "Applications"
	SummarySheet      = "Summary"

	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var applicationHeaders = []string{
	"ID", "Job Title", "Company", "Status", "Applied At", "Interview Date",
	"Notes", "Apply URL", "Created At", "Updated At",
}

// WriteApplications writes an "Applications" sheet with one row per record
// and a "Summary" sheet with the counts.
func WriteApplications(w io.Writer, apps []*models.Application, stats models.ApplicationStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ApplicationsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeApplicationsSheet(f, apps); err != nil {
		return fmt.Errorf("failed to create applications sheet: %w", err)
	}
	if err := writeSummarySheet(f, stats); err != nil {
		return fmt.Errorf("failed to fill summary sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeApplicationsSheet(f *excelize.File, apps []*models.Application) error {
	sheet := ApplicationsSheet

	if err := f.SetColWidth(sheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "C", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "J", 20); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	for col, h := range applicationHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(applicationHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for i, a := range apps {
		row := i + 2
		values := []any{
			a.ID, a.JobTitle, a.Company, string(a.Status),
			formatTime(a.AppliedAt), formatTime(a.InterviewDate), a.Notes, a.ApplyURL,
			formatTime(&a.CreatedAt), formatTime(&a.UpdatedAt),
		}
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		if a.ApplyURL != "" {
			if err := f.SetCellHyperLink(sheet, fmt.Sprintf("H%d", row), a.ApplyURL, "External"); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, stats models.ApplicationStats) error {
	sheet := SummarySheet

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &[]any{"Status", "Count"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", style); err != nil {
		return err
	}

	row := 2
	for _, st := range models.AllStatuses {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{string(st), stats.Count(st)}); err != nil {
			return err
		}
		row++
	}
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{"total", stats.Total})
}
