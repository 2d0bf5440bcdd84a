// Package export writes drafts and search results to XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/drafts"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
	"github.com/joseph-ayodele/papers-tracker/internal/results"
)

const (
	ManifestSheet = "Uploads"
	ResultsSheet  = "Results"
)

type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// ManifestXLSX lists a batch of drafts with their validity issues, one row per file.
func (s *Service) ManifestXLSX(ds []autofill.Draft) ([]byte, error) {
	start := time.Now()
	now := s.now()

	headers := []string{"File", "Course Code", "Course Name", "Year", "Exam", "Semester", "Issues", "Upload Name"}
	rows := make([][]any, 0, len(ds))
	for _, d := range ds {
		var issues []string
		for _, is := range drafts.Issues(d, now) {
			issues = append(issues, is.Field+" "+is.Message)
		}
		rows = append(rows, []any{
			d.FileName,
			d.CourseCode,
			d.CourseName,
			d.Year,
			string(d.Exam),
			string(d.Semester),
			truncate(strings.Join(issues, "; "), 140),
			drafts.UploadName(drafts.Sanitize(d)),
		})
	}

	buf, err := writeSheet(ManifestSheet, headers, rows, map[string]float64{
		"A": 36, "B": 12, "C": 36, "D": 8, "E": 10, "F": 10, "G": 48, "H": 48,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("manifest xlsx written", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf, nil
}

// ResultsXLSX writes a derived result view using the card labels.
func (s *Service) ResultsXLSX(rs []entity.SearchResult) ([]byte, error) {
	start := time.Now()

	headers := []string{"ID", "Title", "Year", "Exam", "Semester", "Note", "Link"}
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		c := results.CardFor(r)
		rows = append(rows, []any{r.ID, c.Title, c.Year, c.ExamTooltip, c.SemesterTooltip, c.Note, c.FileLink})
	}

	buf, err := writeSheet(ResultsSheet, headers, rows, map[string]float64{
		"A": 8, "B": 44, "C": 8, "D": 14, "E": 18, "F": 24, "G": 60,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("results xlsx written", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf, nil
}

func writeSheet(sheet string, headers []string, rows [][]any, widths map[string]float64) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	for col, w := range widths {
		_ = f.SetColWidth(sheet, col, col, w)
	}
	if len(rows) > 0 {
		_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
