package autofill

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
)

// TextRecognizer renders the first page of a PDF and returns its recognized text.
type TextRecognizer interface {
	FirstPageText(ctx context.Context, pdf []byte) (string, error)
}

// Draft is the editable metadata of one file staged for upload. Every field
// is always set, possibly to a sentinel.
type Draft struct {
	ID         uuid.UUID          `json:"id"`
	CourseCode string             `json:"course_code"`
	CourseName string             `json:"course_name"`
	Year       int                `json:"year"`
	Exam       constants.Exam     `json:"exam"`
	Semester   constants.Semester `json:"semester"`
	FileName   string             `json:"file_name"`
	File       []byte             `json:"-"`
}

type Resolver struct {
	courses *courses.Table
	ocr     TextRecognizer
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Resolver)

// WithClock overrides time.Now for the year and semester defaults.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a Resolver. A nil recognizer resolves from file names only;
// a nil table uses the embedded course table.
func NewResolver(table *courses.Table, ocr TextRecognizer, opts ...Option) *Resolver {
	if table == nil {
		table = courses.Default()
	}
	r := &Resolver{
		courses: table,
		ocr:     ocr,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve autofills a draft for one uploaded file. The file name (without its
// extension) is preferred over the OCR text of the first page; recognition
// failures only drop the OCR candidates.
func (r *Resolver) Resolve(ctx context.Context, filename string, pdf []byte) Draft {
	fromName := Extract(constants.StripExt(filename))
	fromOCR := r.recognize(ctx, filename, pdf)

	d := r.Merge(fromName, fromOCR)
	d.FileName = filename
	d.File = pdf
	return d
}

// ResolveText is Resolve for callers that already hold both texts.
func (r *Resolver) ResolveText(filenameText, ocrText string) Draft {
	return r.Merge(Extract(filenameText), Extract(ocrText))
}

// Merge picks each field from the file name when valid, else from OCR when
// valid, else a default.
func (r *Resolver) Merge(fromName, fromOCR Details) Draft {
	now := r.now()
	validYear := func(y int) bool { return ValidYear(y, now) }

	code := pick(fromName.CourseCode, fromOCR.CourseCode, ValidCourseCode, courses.UnknownCourse)
	return Draft{
		ID:         uuid.New(),
		CourseCode: code,
		CourseName: r.courses.NameOrUnknown(code),
		Year:       pick(fromName.Year, fromOCR.Year, validYear, now.Year()),
		Exam:       pick(fromName.Exam, fromOCR.Exam, ValidExam, constants.ExamUnknown),
		Semester:   pick(fromName.Semester, fromOCR.Semester, ValidSemester, DefaultSemester(now)),
	}
}

func (r *Resolver) recognize(ctx context.Context, filename string, pdf []byte) Details {
	if r.ocr == nil || len(pdf) == 0 {
		return Details{}
	}
	start := time.Now()
	text, err := r.ocr.FirstPageText(ctx, pdf)
	if err != nil {
		r.logger.Warn("ocr failed, using file name only", "file", filename, "error", err)
		return Details{}
	}
	d := Extract(text)
	r.logger.Debug("ocr details extracted",
		"file", filename,
		"duration_ms", time.Since(start).Milliseconds(),
		"course_code_found", d.CourseCode != nil,
		"year_found", d.Year != nil,
	)
	return d
}

func pick[T any](fromName, fromOCR *T, valid func(T) bool, fallback T) T {
	if fromName != nil && valid(*fromName) {
		return *fromName
	}
	if fromOCR != nil && valid(*fromOCR) {
		return *fromOCR
	}
	return fallback
}
