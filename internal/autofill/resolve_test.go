package autofill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
)

type stubRecognizer struct {
	text  string
	err   error
	calls int
}

func (s *stubRecognizer) FirstPageText(context.Context, []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func fixedClock(y int, m time.Month) func() time.Time {
	return func() time.Time { return time.Date(y, m, 15, 12, 0, 0, 0, time.UTC) }
}

func TestResolvePrefersFileName(t *testing.T) {
	ocr := &stubRecognizer{text: "MA20104 Midsem Spring 2019"}
	r := NewResolver(courses.Default(), ocr, WithClock(fixedClock(2024, time.October)))

	d := r.Resolve(context.Background(), "CS31005_Endsem_2022.pdf", []byte("%PDF"))

	assert.Equal(t, 1, ocr.calls)
	assert.Equal(t, "CS31005", d.CourseCode)
	assert.Equal(t, "Algorithms-II", d.CourseName)
	assert.Equal(t, 2022, d.Year)
	assert.Equal(t, constants.ExamEndsem, d.Exam)
	// not in the file name, so OCR fills it
	assert.Equal(t, constants.Spring, d.Semester)
	assert.Equal(t, "CS31005_Endsem_2022.pdf", d.FileName)
	assert.Equal(t, []byte("%PDF"), d.File)
}

func TestResolveOCRFailureFallsBackToDefaults(t *testing.T) {
	ocr := &stubRecognizer{err: errors.New("tesseract: exit status 1")}
	r := NewResolver(courses.Default(), ocr, WithClock(fixedClock(2024, time.October)))

	d := r.Resolve(context.Background(), "scan.pdf", []byte("%PDF"))

	assert.Equal(t, courses.UnknownCourse, d.CourseCode)
	assert.Equal(t, courses.UnknownCourse, d.CourseName)
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, constants.ExamUnknown, d.Exam)
	assert.Equal(t, constants.Autumn, d.Semester)
}

func TestResolveWithoutRecognizer(t *testing.T) {
	r := NewResolver(nil, nil, WithClock(fixedClock(2024, time.March)))

	d := r.Resolve(context.Background(), "EE21101 spring", nil)

	assert.Equal(t, "EE21101", d.CourseCode)
	assert.Equal(t, "Signals and Systems", d.CourseName)
	assert.Equal(t, constants.Spring, d.Semester)
	assert.Equal(t, 2024, d.Year)
}

func TestMergePrecedence(t *testing.T) {
	r := NewResolver(courses.Default(), nil, WithClock(fixedClock(2024, time.February)))

	t.Run("invalid file name value yields to valid OCR value", func(t *testing.T) {
		d := r.Merge(
			Details{CourseCode: strp("cs3100"), Year: intp(2030), Exam: examp("quiz"), Semester: semp("summer")},
			Details{CourseCode: strp("CS31003"), Year: intp(2019), Exam: examp(constants.ExamMidsem), Semester: semp(constants.Autumn)},
		)
		assert.Equal(t, "CS31003", d.CourseCode)
		assert.Equal(t, "Compilers", d.CourseName)
		assert.Equal(t, 2019, d.Year)
		assert.Equal(t, constants.ExamMidsem, d.Exam)
		assert.Equal(t, constants.Autumn, d.Semester)
	})

	t.Run("both invalid use defaults", func(t *testing.T) {
		d := r.Merge(
			Details{CourseCode: strp("cs3100"), Year: intp(1999)},
			Details{CourseCode: strp("C31003"), Year: intp(2025)},
		)
		assert.Equal(t, courses.UnknownCourse, d.CourseCode)
		assert.Equal(t, courses.UnknownCourse, d.CourseName)
		assert.Equal(t, 2024, d.Year)
		assert.Equal(t, constants.ExamUnknown, d.Exam)
		assert.Equal(t, constants.Spring, d.Semester)
	})

	t.Run("valid code missing from table keeps code", func(t *testing.T) {
		d := r.Merge(Details{CourseCode: strp("ZZ12345")}, Details{})
		assert.Equal(t, "ZZ12345", d.CourseCode)
		assert.Equal(t, courses.UnknownCourse, d.CourseName)
	})
}

func TestResolveText(t *testing.T) {
	r := NewResolver(nil, nil, WithClock(fixedClock(2023, time.September)))
	d := r.ResolveText("paper", "CS 21003\nClass Test\n2021")

	assert.Equal(t, "CS21003", d.CourseCode)
	assert.Equal(t, 2021, d.Year)
	assert.Equal(t, constants.ExamClassTest, d.Exam)
	assert.Equal(t, constants.Autumn, d.Semester)
}

func TestValidators(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, ValidCourseCode("CS31005"))
	assert.False(t, ValidCourseCode("CS3100"))
	assert.False(t, ValidCourseCode("cs31005"))

	assert.True(t, ValidYear(2000, now))
	assert.True(t, ValidYear(2024, now))
	assert.False(t, ValidYear(2025, now))
	assert.False(t, ValidYear(1999, now))

	for _, e := range []constants.Exam{"midsem", "endsem", "ct", "ct1", "ct12"} {
		assert.True(t, ValidExam(e), e)
	}
	for _, e := range []constants.Exam{"", "mid", "ctx", "quiz"} {
		assert.False(t, ValidExam(e), e)
	}

	assert.Equal(t, constants.Spring, DefaultSemester(time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, constants.Autumn, DefaultSemester(time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)))
}
