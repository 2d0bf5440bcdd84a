package entity

import (
	"time"

	"github.com/joseph-ayodele/papers-tracker/constants"
)

// SearchResult is one question paper as returned by a search.
type SearchResult struct {
	ID         int                `json:"id"`
	CourseName string             `json:"course_name"`
	CourseCode string             `json:"course_code,omitempty"`
	Year       int                `json:"year"`
	Exam       constants.Exam     `json:"exam"`
	Semester   constants.Semester `json:"semester,omitempty"`
	Note       string             `json:"note,omitempty"`
	FileLink   string             `json:"filelink"`
}

// Paper is a catalogued question paper including its moderation state.
type Paper struct {
	SearchResult
	FromLibrary bool                  `json:"from_library"`
	UploadedAt  time.Time             `json:"upload_timestamp"`
	Status      constants.PaperStatus `json:"approve_status"`
}
