package repository

import (
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
)

// FromDraft maps an autofilled draft onto a catalogue row.
func FromDraft(d autofill.Draft, fileLink, contentHash string) NewPaper {
	return NewPaper{
		CourseCode:  d.CourseCode,
		CourseName:  d.CourseName,
		Year:        d.Year,
		Exam:        d.Exam,
		Semester:    d.Semester,
		FileLink:    fileLink,
		ContentHash: contentHash,
	}
}
