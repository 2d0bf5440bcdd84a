package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

const table = "iqps"

var paperColumns = []string{
	"id", "course_code", "course_name", "year", "exam", "semester", "note",
	"filelink", "from_library", "upload_timestamp", "status",
}

// NewPaper is a paper to be catalogued.
type NewPaper struct {
	CourseCode  string
	CourseName  string
	Year        int
	Exam        constants.Exam
	Semester    constants.Semester
	Note        string
	FileLink    string
	ContentHash string
	FromLibrary bool
}

// EditRequest changes the non-nil fields of a paper.
type EditRequest struct {
	CourseCode *string
	CourseName *string
	Year       *int
	Exam       *constants.Exam
	Semester   *constants.Semester
	Note       *string
	Status     *constants.PaperStatus
}

// SimilarQuery looks for papers that may duplicate an upload.
type SimilarQuery struct {
	CourseCode string
	Year       *int
	Semester   *constants.Semester
	Exam       *constants.Exam
}

type PaperRepository interface {
	Insert(ctx context.Context, p NewPaper) (int, error)
	InsertBatch(ctx context.Context, ps []NewPaper) ([]int, error)
	Get(ctx context.Context, id int) (*entity.Paper, error)
	Search(ctx context.Context, query string, exam constants.Exam) ([]entity.SearchResult, error)
	ListByStatus(ctx context.Context, status constants.PaperStatus) ([]*entity.Paper, error)
	Similar(ctx context.Context, q SimilarQuery) ([]*entity.Paper, error)
	FindByHash(ctx context.Context, hash string) (*entity.Paper, error)
	Edit(ctx context.Context, id int, req EditRequest) error
	SetStatus(ctx context.Context, id int, status constants.PaperStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, status constants.PaperStatus) (int, error)
}

type paperRepository struct {
	db     *DB
	now    func() time.Time
	logger *slog.Logger
}

func NewPaperRepository(db *DB, logger *slog.Logger) PaperRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &paperRepository{db: db, now: time.Now, logger: logger}
}

func (r *paperRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

// execQuerier is satisfied by both the driver and a transaction.
type execQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

func (r *paperRepository) Insert(ctx context.Context, p NewPaper) (int, error) {
	id, err := r.insert(ctx, r.db.drv, p)
	if err != nil {
		r.logger.Error("failed to insert paper", "course_code", p.CourseCode, "error", err)
		return 0, err
	}
	r.logger.Info("paper staged", "id", id, "course_code", p.CourseCode, "year", p.Year)
	return id, nil
}

// InsertBatch stores all papers or none.
func (r *paperRepository) InsertBatch(ctx context.Context, ps []NewPaper) ([]int, error) {
	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", common.ErrDatabase, err)
	}
	ids := make([]int, 0, len(ps))
	for _, p := range ps {
		id, err := r.insert(ctx, tx, p)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback failed", "error", rbErr)
			}
			r.logger.Error("failed to insert batch", "papers", len(ps), "error", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", common.ErrDatabase, err)
	}
	r.logger.Info("paper batch staged", "papers", len(ids))
	return ids, nil
}

func (r *paperRepository) insert(ctx context.Context, eq execQuerier, p NewPaper) (int, error) {
	ins := r.builder().Insert(table).
		Columns("course_code", "course_name", "year", "exam", "semester", "note",
			"filelink", "content_hash", "from_library", "upload_timestamp", "status").
		Values(p.CourseCode, p.CourseName, p.Year, string(p.Exam), string(p.Semester), p.Note,
			p.FileLink, p.ContentHash, p.FromLibrary, r.now().UTC(), string(constants.PaperStatusUnapproved))

	if r.db.Dialect() == dialect.Postgres {
		query, args := ins.Returning("id").Query()
		var rows entsql.Rows
		if err := eq.Query(ctx, query, args, &rows); err != nil {
			return 0, fmt.Errorf("%w: insert: %v", common.ErrDatabase, err)
		}
		defer rows.Close()
		var id int
		if !rows.Next() {
			return 0, fmt.Errorf("%w: insert returned no id", common.ErrDatabase)
		}
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: scan id: %v", common.ErrDatabase, err)
		}
		return id, rows.Err()
	}

	query, args := ins.Query()
	var res sql.Result
	if err := eq.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("%w: insert: %v", common.ErrDatabase, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %v", common.ErrDatabase, err)
	}
	return int(id), nil
}

func (r *paperRepository) Get(ctx context.Context, id int) (*entity.Paper, error) {
	ps, err := r.selectPapers(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, common.NewAppError("PAPER_NOT_FOUND", fmt.Sprintf("paper %d", id), common.ErrNotFound)
	}
	return ps[0], nil
}

// Search matches approved papers whose course name or code contains query.
// Exact course code matches come first, then newer papers.
func (r *paperRepository) Search(ctx context.Context, query string, exam constants.Exam) ([]entity.SearchResult, error) {
	preds := []*entsql.Predicate{
		entsql.EQ("status", string(constants.PaperStatusApproved)),
		entsql.Or(
			entsql.ContainsFold("course_name", query),
			entsql.ContainsFold("course_code", query),
		),
	}
	if exam != constants.ExamUnknown {
		preds = append(preds, entsql.EQ("exam", string(exam)))
	}
	ps, err := r.selectPapers(ctx, entsql.And(preds...))
	if err != nil {
		return nil, err
	}

	out := make([]entity.SearchResult, 0, len(ps))
	var rest []entity.SearchResult
	for _, p := range ps {
		if strings.EqualFold(p.CourseCode, query) {
			out = append(out, p.SearchResult)
		} else {
			rest = append(rest, p.SearchResult)
		}
	}
	out = append(out, rest...)
	r.logger.Debug("search finished", "query", query, "exam", exam, "results", len(out))
	return out, nil
}

func (r *paperRepository) ListByStatus(ctx context.Context, status constants.PaperStatus) ([]*entity.Paper, error) {
	return r.selectPapers(ctx, entsql.EQ("status", string(status)))
}

// Similar lists non-trashed papers with the same course code and any of the
// optional fields that are set.
func (r *paperRepository) Similar(ctx context.Context, q SimilarQuery) ([]*entity.Paper, error) {
	preds := []*entsql.Predicate{
		entsql.EQ("course_code", q.CourseCode),
		entsql.NEQ("status", string(constants.PaperStatusTrashed)),
	}
	if q.Year != nil {
		preds = append(preds, entsql.EQ("year", *q.Year))
	}
	if q.Semester != nil {
		preds = append(preds, entsql.EQ("semester", string(*q.Semester)))
	}
	if q.Exam != nil {
		preds = append(preds, entsql.EQ("exam", string(*q.Exam)))
	}
	return r.selectPapers(ctx, entsql.And(preds...))
}

func (r *paperRepository) FindByHash(ctx context.Context, hash string) (*entity.Paper, error) {
	ps, err := r.selectPapers(ctx, entsql.And(
		entsql.EQ("content_hash", hash),
		entsql.NEQ("content_hash", ""),
	))
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, common.NewAppError("PAPER_NOT_FOUND", "no paper with hash "+hash, common.ErrNotFound)
	}
	return ps[0], nil
}

func (r *paperRepository) Edit(ctx context.Context, id int, req EditRequest) error {
	upd := r.builder().Update(table)
	n := 0
	set := func(col string, v any) {
		upd.Set(col, v)
		n++
	}
	if req.CourseCode != nil {
		set("course_code", *req.CourseCode)
	}
	if req.CourseName != nil {
		set("course_name", *req.CourseName)
	}
	if req.Year != nil {
		set("year", *req.Year)
	}
	if req.Exam != nil {
		set("exam", string(*req.Exam))
	}
	if req.Semester != nil {
		set("semester", string(*req.Semester))
	}
	if req.Note != nil {
		set("note", *req.Note)
	}
	if req.Status != nil {
		set("status", string(*req.Status))
	}
	if n == 0 {
		return common.NewAppError("EMPTY_EDIT", "no fields to update", common.ErrInvalidInput)
	}
	if err := r.execAffectingOne(ctx, id, upd.Where(entsql.EQ("id", id))); err != nil {
		return err
	}
	r.logger.Info("paper edited", "id", id, "fields", n)
	return nil
}

func (r *paperRepository) SetStatus(ctx context.Context, id int, status constants.PaperStatus) error {
	upd := r.builder().Update(table).Set("status", string(status)).Where(entsql.EQ("id", id))
	if err := r.execAffectingOne(ctx, id, upd); err != nil {
		return err
	}
	r.logger.Info("paper status changed", "id", id, "status", status)
	return nil
}

func (r *paperRepository) Delete(ctx context.Context, id int) error {
	del := r.builder().Delete(table).Where(entsql.EQ("id", id))
	if err := r.execAffectingOne(ctx, id, del); err != nil {
		return err
	}
	r.logger.Info("paper deleted", "id", id)
	return nil
}

func (r *paperRepository) Count(ctx context.Context, status constants.PaperStatus) (int, error) {
	sel := r.builder().Select(entsql.Count("*")).From(r.builder().Table(table))
	if status != "" {
		sel = sel.Where(entsql.EQ("status", string(status)))
	}
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("%w: count: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("%w: scan count: %v", common.ErrDatabase, err)
		}
	}
	return n, rows.Err()
}

func (r *paperRepository) execAffectingOne(ctx context.Context, id int, q entsql.Querier) error {
	query, args := q.Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, query, args, &res); err != nil {
		r.logger.Error("paper update failed", "id", id, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NewAppError("PAPER_NOT_FOUND", fmt.Sprintf("paper %d", id), common.ErrNotFound)
	}
	return nil
}

func (r *paperRepository) selectPapers(ctx context.Context, where *entsql.Predicate) ([]*entity.Paper, error) {
	query, args := r.builder().
		Select(paperColumns...).
		From(r.builder().Table(table)).
		Where(where).
		OrderBy(entsql.Desc("year"), entsql.Asc("id")).
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("paper query failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Paper
	for rows.Next() {
		var (
			p             entity.Paper
			exam, sem, st string
		)
		if err := rows.Scan(&p.ID, &p.CourseCode, &p.CourseName, &p.Year, &exam, &sem, &p.Note,
			&p.FileLink, &p.FromLibrary, &p.UploadedAt, &st); err != nil {
			return nil, fmt.Errorf("%w: scan paper: %v", common.ErrDatabase, err)
		}
		p.Exam = constants.Exam(exam)
		p.Semester = constants.Semester(sem)
		p.Status = constants.PaperStatus(st)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return out, nil
}
