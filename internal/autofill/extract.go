// Package autofill derives question-paper metadata (course code, year, exam,
// semester) from free text such as a file name or the OCR output of a paper's
// first page, and folds the candidates from both sources into a Draft.
package autofill

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/papers-tracker/constants"
)

// headerLines is how much of the text is searched; titles sit at the top of a paper.
const headerLines = 10

// Details are the fields found in one piece of text. A nil field was not found.
type Details struct {
	CourseCode *string             `json:"course_code,omitempty"`
	Year       *int                `json:"year,omitempty"`
	Exam       *constants.Exam     `json:"exam,omitempty"`
	Semester   *constants.Semester `json:"semester,omitempty"`
}

// rule is one pattern attempt for a field. Rules for a field are tried in
// order and the first one whose mapper accepts the match wins.
type rule[T any] struct {
	re    *regexp.Regexp
	group int
	conv  func(string) (T, bool)
}

var (
	reCourseCode       = regexp.MustCompile(`[^\w]*([A-Z]{2}\d{5})[^\w]*`)
	reCourseCodeSpaced = regexp.MustCompile(`[^\w]*([A-Z]{2}\s*\d{5})[^\w]*`)
	reWhitespace       = regexp.MustCompile(`\s+`)
	// Any 2xxx token; revisit in the year 3000.
	reYear     = regexp.MustCompile(`([^\d]|^)(2\d{3})([^\d]|$)`)
	reExam     = regexp.MustCompile(`(?i)[^\w]*(Mid|End|Class Test)[^\w]*`)
	reSemester = regexp.MustCompile(`(?i)[^\w]*(spring|autumn)[^\w]*`)
)

var courseCodeRules = []rule[string]{
	{re: reCourseCode, group: 1, conv: func(s string) (string, bool) {
		return strings.ToUpper(s), true
	}},
	{re: reCourseCodeSpaced, group: 1, conv: func(s string) (string, bool) {
		return strings.ToUpper(reWhitespace.ReplaceAllString(s, "")), true
	}},
}

var yearRules = []rule[int]{
	{re: reYear, group: 2, conv: func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	}},
}

var examRules = []rule[constants.Exam]{
	{re: reExam, group: 1, conv: func(s string) (constants.Exam, bool) {
		switch strings.ToLower(s) {
		case "mid":
			return constants.ExamMidsem, true
		case "end":
			return constants.ExamEndsem, true
		case "class test":
			return constants.ExamClassTest, true
		}
		return "", false
	}},
}

var semesterRules = []rule[constants.Semester]{
	{re: reSemester, group: 1, conv: func(s string) (constants.Semester, bool) {
		return constants.Semester(strings.ToLower(s)), true
	}},
}

// Extract searches the first lines of text for each field independently.
// It never fails; fields without a match are left nil.
func Extract(text string) Details {
	lines := strings.Split(text, "\n")
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}
	head := strings.Join(lines, "\n")

	return Details{
		CourseCode: firstMatch(head, courseCodeRules),
		Year:       firstMatch(head, yearRules),
		Exam:       firstMatch(head, examRules),
		Semester:   firstMatch(head, semesterRules),
	}
}

func firstMatch[T any](text string, rules []rule[T]) *T {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := r.conv(m[r.group]); ok {
			return &v
		}
	}
	return nil
}
