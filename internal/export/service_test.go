package export

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

func newTestService() *Service {
	s := NewService(slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func readRows(t *testing.T, b []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestManifestXLSX(t *testing.T) {
	ds := []autofill.Draft{
		{
			ID:         uuid.MustParse("6a1f0000-0000-4000-8000-000000000000"),
			CourseCode: "CS31005", CourseName: "Algorithms-II", Year: 2022,
			Exam: constants.ExamEndsem, Semester: constants.Autumn, FileName: "algo.pdf",
		},
		{
			ID:         uuid.MustParse("7b2f0000-0000-4000-8000-000000000000"),
			CourseCode: courses.UnknownCourse, CourseName: courses.UnknownCourse, Year: 2024,
			Exam: constants.ExamUnknown, Semester: constants.Autumn, FileName: "scan.pdf",
		},
	}

	b, err := newTestService().ManifestXLSX(ds)
	require.NoError(t, err)

	rows := readRows(t, b, ManifestSheet)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"File", "Course Code", "Course Name", "Year", "Exam", "Semester", "Issues", "Upload Name"}, rows[0])
	assert.Equal(t, []string{"algo.pdf", "CS31005", "Algorithms-II", "2022", "endsem", "autumn"}, rows[1][:6])
	assert.Len(t, rows[1], 8)
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "CS31005_endsem_2022_autumn_6a1f0000.pdf", rows[1][7])
	assert.Contains(t, rows[2][6], "course_code")
	assert.Contains(t, rows[2][6], "exam")
}

func TestResultsXLSX(t *testing.T) {
	b, err := newTestService().ResultsXLSX([]entity.SearchResult{
		{ID: 3, CourseName: "Compilers", CourseCode: "CS31003", Year: 2021, Exam: "ct1", Semester: "spring", FileLink: "https://static/3.pdf"},
	})
	require.NoError(t, err)

	rows := readRows(t, b, ResultsSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"3", "Compilers (CS31003)", "2021", "Class Test 1", "Spring Semester", "", "https://static/3.pdf"}, rows[1])
}

func TestEmptyExport(t *testing.T) {
	b, err := newTestService().ResultsXLSX(nil)
	require.NoError(t, err)
	assert.Len(t, readRows(t, b, ResultsSheet), 1)
}
