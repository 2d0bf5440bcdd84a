package autofill

import (
	"regexp"
	"time"

	"github.com/joseph-ayodele/papers-tracker/constants"
)

// MinYear is the earliest year accepted on a paper.
const MinYear = 2000

var (
	reValidCourseCode = regexp.MustCompile(`^[A-Z]{2}\d{5}$`)
	reValidClassTest  = regexp.MustCompile(`^ct\d*$`)
)

func ValidCourseCode(code string) bool {
	return reValidCourseCode.MatchString(code)
}

// ValidYear accepts MinYear through the current year of now.
func ValidYear(year int, now time.Time) bool {
	return year >= MinYear && year <= now.Year()
}

func ValidExam(exam constants.Exam) bool {
	switch exam {
	case constants.ExamMidsem, constants.ExamEndsem:
		return true
	}
	return reValidClassTest.MatchString(string(exam))
}

func ValidSemester(sem constants.Semester) bool {
	return sem == constants.Autumn || sem == constants.Spring
}

// DefaultSemester guesses the running semester: autumn from September on.
func DefaultSemester(now time.Time) constants.Semester {
	if int(now.Month())-1 > 7 {
		return constants.Autumn
	}
	return constants.Spring
}
