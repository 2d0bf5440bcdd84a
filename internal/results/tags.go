package results

import (
	"strings"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

// Card is the display form of one search result.
type Card struct {
	Title           string `json:"title"`
	Year            int    `json:"year"`
	ExamTag         string `json:"exam_tag"`
	ExamTooltip     string `json:"exam_tooltip"`
	SemesterTag     string `json:"semester_tag"`
	SemesterTooltip string `json:"semester_tooltip"`
	Note            string `json:"note,omitempty"`
	FileLink        string `json:"filelink"`
}

func CardFor(r entity.SearchResult) Card {
	return Card{
		Title:           Title(r),
		Year:            r.Year,
		ExamTag:         ExamTag(r.Exam),
		ExamTooltip:     ExamTooltip(r.Exam),
		SemesterTag:     SemesterTag(r.Semester),
		SemesterTooltip: SemesterTooltip(r.Semester),
		Note:            r.Note,
		FileLink:        r.FileLink,
	}
}

// Title is the course name followed by the code in parentheses when known.
func Title(r entity.SearchResult) string {
	if r.CourseCode == "" {
		return r.CourseName
	}
	return r.CourseName + " (" + r.CourseCode + ")"
}

// ExamTag: midsem -> MID, endsem -> END, ct1 -> CT1.
func ExamTag(e constants.Exam) string {
	switch e {
	case constants.ExamUnknown:
		return "Unknown"
	case constants.ExamMidsem, constants.ExamEndsem:
		return strings.ToUpper(string(e)[:3])
	}
	return strings.ToUpper(string(e))
}

// ExamTooltip: midsem -> Midsem, ct2 -> Class Test 2, ct -> Class Test ?.
func ExamTooltip(e constants.Exam) string {
	switch {
	case e == constants.ExamUnknown:
		return "Unknown"
	case e == constants.ExamMidsem, e == constants.ExamEndsem:
		return capitalize(string(e))
	case e.IsClassTest():
		n := strings.TrimPrefix(string(e), string(constants.ExamClassTest))
		if n == "" {
			n = "?"
		}
		return "Class Test " + n
	}
	return string(e)
}

// SemesterTag: autumn -> AUT, spring -> SPR, empty -> N/A.
func SemesterTag(s constants.Semester) string {
	switch s {
	case "":
		return "N/A"
	case constants.Autumn, constants.Spring:
		return strings.ToUpper(string(s)[:3])
	}
	return string(s)
}

func SemesterTooltip(s constants.Semester) string {
	if s == "" {
		return "Unknown Semester"
	}
	return capitalize(string(s)) + " Semester"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
