package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
)

// ── overview errors ──

var (
	ErrExportGenerateFail = errors.New("failed to generate Excel file")
)

// OverviewService selection statistics and their export
type OverviewService interface {
	Summary(ctx context.Context) review.Overview
	// Export renders the overview and the applicant table as .xlsx.
	// Returns the workbook and a suggested filename.
	Export(ctx context.Context) (*bytes.Buffer, string, error)
}

type overviewService struct {
	store  *review.Store
	names  review.Names
	logger *zap.Logger
	now    func() time.Time
}

// NewOverviewService creates an OverviewService.
func NewOverviewService(store *review.Store, names review.Names, logger *zap.Logger) OverviewService {
	return &overviewService{store: store, names: names, logger: logger, now: time.Now}
}

// ────────────────────── Summary ──────────────────────

func (s *overviewService) Summary(_ context.Context) review.Overview {
	return review.Summarize(s.store.Snapshot(), s.names)
}

// ═══════════════════════════════════════════════════════════
// Export
// ═══════════════════════════════════════════════════════════
//
// Sheets:
//   - "Overview": Most | Least | Unselected columns, name (selection count)
//   - "Applicants": one row per application in store order

func (s *overviewService) Export(_ context.Context) (*bytes.Buffer, string, error) {
	applicants := s.store.Snapshot()
	ov := review.Summarize(applicants, s.names)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── overview sheet ──
	const overviewSheet = "Overview"
	idx, err := f.NewSheet(overviewSheet)
	if err != nil {
		s.logger.Error("create overview sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(overviewSheet, "A", "C", 32)
	headers := []string{"Most Selected", "Least Selected", "Unselected"}
	for i, h := range headers {
		f.SetCellValue(overviewSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(overviewSheet, "A1", "C1", headerStyle)

	columns := [][]review.UserRef{ov.Most, ov.Least, ov.Unselected}
	for i, refs := range columns {
		for j, ref := range refs {
			f.SetCellValue(overviewSheet, cell(colName(i), j+2), fmt.Sprintf("%s (%d)", ref.Name, ref.SelectionCount))
		}
	}
	if ov.EmptyMessage != "" {
		f.SetCellValue(overviewSheet, "A2", ov.EmptyMessage)
		f.MergeCell(overviewSheet, "A2", "B2")
	}

	// ── applicants sheet ──
	const applicantSheet = "Applicants"
	if _, err := f.NewSheet(applicantSheet); err != nil {
		s.logger.Error("create applicants sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetColWidth(applicantSheet, "A", "A", 8)
	f.SetColWidth(applicantSheet, "B", "C", 22)
	f.SetColWidth(applicantSheet, "D", "D", 16)
	f.SetColWidth(applicantSheet, "E", "E", 36)
	f.SetColWidth(applicantSheet, "F", "G", 10)
	f.SetColWidth(applicantSheet, "H", "H", 48)

	cols := []string{"ID", "Candidate", "Course", "Availability", "Skills", "Selected", "Rank", "Comment"}
	for i, h := range cols {
		f.SetCellValue(applicantSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(applicantSheet, "A1", cell(colName(len(cols)-1), 1), headerStyle)

	for i, a := range applicants {
		row := i + 2
		f.SetCellValue(applicantSheet, cell("A", row), a.ID)
		f.SetCellValue(applicantSheet, cell("B", row), s.names.UserName(a.UserID))
		f.SetCellValue(applicantSheet, cell("C", row), s.names.CourseCode(a.CourseID))
		f.SetCellValue(applicantSheet, cell("D", row), string(a.Availability))
		f.SetCellValue(applicantSheet, cell("E", row), strings.Join(a.Skills, ", "))
		if a.Selected {
			f.SetCellValue(applicantSheet, cell("F", row), "Yes")
		} else {
			f.SetCellValue(applicantSheet, cell("F", row), "No")
		}
		if a.Rank != nil {
			f.SetCellValue(applicantSheet, cell("G", row), *a.Rank)
		}
		if a.Comment != nil {
			f.SetCellValue(applicantSheet, cell("H", row), *a.Comment)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write Excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("teachteam_overview_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
