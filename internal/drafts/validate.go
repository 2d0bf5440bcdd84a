package drafts

import (
	"fmt"
	"regexp"
	"time"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

const maxCourseNameLen = 200

// Issues lists what is wrong with d. An empty result means the draft can be
// uploaded; issues never block editing.
func Issues(d autofill.Draft, now time.Time) []entity.FieldIssue {
	v := common.NewValidator()
	v.Field("course_code", d.CourseCode,
		common.Predicate(autofill.ValidCourseCode, "must be two letters followed by five digits"))
	v.Field("course_name", d.CourseName,
		common.Required,
		common.Predicate(func(s string) bool { return s != courses.UnknownCourse }, "is unknown"),
		common.MaxLength(maxCourseNameLen))
	v.Field("year", d.Year,
		common.IntBetween(autofill.MinYear, now.Year()))
	v.Field("exam", d.Exam,
		common.Predicate(autofill.ValidExam, "must be midsem, endsem or a class test"))
	v.Field("semester", d.Semester,
		common.Predicate(autofill.ValidSemester, "must be autumn or spring"))
	v.Field("file_name", d.FileName,
		common.Required,
		common.Predicate(constants.IsAllowedFile, "must be a PDF"))

	errs := v.Errors()
	issues := make([]entity.FieldIssue, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, entity.FieldIssue{Field: e.Field, Message: e.Message})
	}
	return issues
}

// Valid reports whether d has no issues.
func Valid(d autofill.Draft, now time.Time) bool {
	return len(Issues(d, now)) == 0
}

// ValidateAll returns an error naming every invalid draft, or nil.
func ValidateAll(ds []autofill.Draft, now time.Time) error {
	v := common.NewValidator()
	for _, d := range ds {
		for _, is := range Issues(d, now) {
			v.Field(d.FileName+"."+is.Field, nil, func(field string, _ interface{}) *common.ValidationError {
				return &common.ValidationError{Field: field, Message: is.Message}
			})
		}
	}
	return v.Error()
}

var reUnsafe = regexp.MustCompile(`[^\w\d_]`)

// Sanitize replaces characters outside [A-Za-z0-9_] with '-' in the course
// name, file name and exam before upload.
func Sanitize(d autofill.Draft) autofill.Draft {
	d.CourseName = reUnsafe.ReplaceAllString(d.CourseName, "-")
	d.FileName = reUnsafe.ReplaceAllString(d.FileName, "-")
	d.Exam = constants.Exam(reUnsafe.ReplaceAllString(string(d.Exam), "-"))
	return d
}

// UploadName is the stored object name of a sanitized draft.
func UploadName(d autofill.Draft) string {
	return fmt.Sprintf("%s_%s_%d_%s_%s.pdf", d.CourseCode, d.Exam, d.Year, d.Semester, d.ID.String()[:8])
}
