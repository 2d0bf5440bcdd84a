package constants

import "strings"

// Exam is the exam type stored on a question paper. Class tests carry an
// optional number suffix ("ct1", "ct2"); the bare marker "ct" means the
// number is unknown.
type Exam string

const (
	ExamMidsem    Exam = "midsem"
	ExamEndsem    Exam = "endsem"
	ExamClassTest Exam = "ct"
	ExamUnknown   Exam = ""
)

// Semester is the academic half-year a paper was set in.
type Semester string

const (
	Autumn Semester = "autumn"
	Spring Semester = "spring"
)

var allSemesters = []Semester{Autumn, Spring}

// IsClassTest reports whether e is the class-test marker, with or without a number.
func (e Exam) IsClassTest() bool {
	return strings.HasPrefix(string(e), string(ExamClassTest))
}

// CanonicalizeSemester maps loose input ("Aut", " SPRING ") to a Semester.
func CanonicalizeSemester(input string) (Semester, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, s := range allSemesters {
		if strings.HasPrefix(string(s), normalized) {
			return s, true
		}
	}
	return "", false
}
