package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

// exportService renders session results as XLSX workbooks. It reuses the
// session service's summary assembly and only adds the spreadsheet layer.
type exportService struct {
	repo     repositories.Repository
	sessions SessionService
	logger   *slog.Logger
}

func NewExportService(repo repositories.Repository, sessions SessionService, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, sessions: sessions, logger: logger}
}

var resultsHeader = []string{
	"No.", "Full Name", "ID Number", "Pre-Test", "Post-Test", "Passed",
	"Checklist", "Feedback", "Clocked Out", "Certificate",
}

// ExportResultsXLSX returns the workbook bytes and a suggested file name.
func (s *exportService) ExportResultsXLSX(ctx context.Context, sessionID string, actor *models.User) ([]byte, string, error) {
	if _, err := authorizeSession(ctx, s.repo, policy.ActionExportResults, actor, sessionID, ""); err != nil {
		return nil, "", err
	}

	summary, err := s.sessions.GetResultsSummary(ctx, sessionID, actor)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create style: %w", err)
	}

	f.SetCellValue(sheet, "A1", summary.SessionName)
	f.SetCellValue(sheet, "A2", summary.ProgramName)

	const headerRow = 4
	for col, title := range resultsHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		f.SetCellValue(sheet, cell, title)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(resultsHeader), headerRow)
	startCell, _ := excelize.CoordinatesToCellName(1, headerRow)
	f.SetCellStyle(sheet, startCell, endCell, headerStyle)

	for i, row := range summary.Rows {
		r := headerRow + 1 + i
		values := []interface{}{
			i + 1,
			row.FullName,
			row.IDNumber,
			scoreCell(row.PreTestScore),
			scoreCell(row.PostTestScore),
			boolCell(row.PostTestPassed),
			yesNo(row.ChecklistDone),
			yesNo(row.FeedbackDone),
			yesNo(row.ClockedOut),
			yesNo(row.CertificateURL != nil),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	statsRow := headerRow + len(summary.Rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", statsRow), "Average Pre-Test")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", statsRow), summary.Stats.AveragePreScore)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", statsRow+1), "Average Post-Test")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", statsRow+1), summary.Stats.AveragePostScore)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", statsRow+2), "Certificates Issued")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", statsRow+2), summary.Stats.CertificatesIssued)

	f.SetColWidth(sheet, "B", "B", 28)
	f.SetColWidth(sheet, "C", "J", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	name := fmt.Sprintf("results_%s.xlsx", sessionID)
	s.logger.Info("Results exported", "session_id", sessionID, "rows", len(summary.Rows), "exported_by", actor.ID)
	return buf.Bytes(), name, nil
}

func scoreCell(score *float64) interface{} {
	if score == nil {
		return "-"
	}
	return *score
}

func boolCell(b *bool) string {
	if b == nil {
		return "-"
	}
	return yesNo(*b)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
