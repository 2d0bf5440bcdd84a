package repository

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

func newTestRepo(t *testing.T) (PaperRepository, *DB) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	db, err := Open(context.Background(), common.DatabaseConfig{DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	repo := NewPaperRepository(db, logger)
	repo.(*paperRepository).now = func() time.Time {
		return time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)
	}
	return repo, db
}

func seed(t *testing.T, repo PaperRepository) []int {
	t.Helper()
	ids, err := repo.InsertBatch(context.Background(), []NewPaper{
		{CourseCode: "CS31003", CourseName: "Compilers", Year: 2021, Exam: constants.ExamMidsem, Semester: constants.Autumn, FileLink: "a.pdf", ContentHash: "h1"},
		{CourseCode: "CS31005", CourseName: "Algorithms-II", Year: 2022, Exam: constants.ExamEndsem, Semester: constants.Autumn, FileLink: "b.pdf"},
		{CourseCode: "CS39003", CourseName: "Compilers Laboratory", Year: 2023, Exam: constants.ExamEndsem, Semester: constants.Spring, FileLink: "c.pdf"},
		{CourseCode: "CS31003", CourseName: "Compilers", Year: 2019, Exam: constants.ExamEndsem, Semester: constants.Autumn, FileLink: "d.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 4)
	for _, id := range ids {
		require.NoError(t, repo.SetStatus(context.Background(), id, constants.PaperStatusApproved))
	}
	return ids
}

func TestMigrateIsIdempotent(t *testing.T) {
	_, db := newTestRepo(t)
	assert.NoError(t, db.Migrate(context.Background()))
	assert.NoError(t, db.HealthCheck(context.Background(), time.Second))
}

func TestInsertAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	d := autofill.Draft{CourseCode: "EC31004", CourseName: "Digital Communication", Year: 2021, Exam: constants.ExamMidsem, Semester: constants.Spring}
	id, err := repo.Insert(ctx, FromDraft(d, "staged/ec.pdf", "abc"))
	require.NoError(t, err)

	p, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "EC31004", p.CourseCode)
	assert.Equal(t, "Digital Communication", p.CourseName)
	assert.Equal(t, 2021, p.Year)
	assert.Equal(t, constants.ExamMidsem, p.Exam)
	assert.Equal(t, constants.Spring, p.Semester)
	assert.Equal(t, "staged/ec.pdf", p.FileLink)
	assert.Equal(t, constants.PaperStatusUnapproved, p.Status)
	assert.False(t, p.FromLibrary)
	assert.True(t, p.UploadedAt.Equal(time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)))

	byHash, err := repo.FindByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, id, byHash.ID)

	_, err = repo.FindByHash(ctx, "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.Get(ctx, id+100)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSearch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	ids := seed(t, repo)

	rs, err := repo.Search(ctx, "compilers", constants.ExamUnknown)
	require.NoError(t, err)
	got := make([]int, len(rs))
	for i, r := range rs {
		got[i] = r.ID
	}
	assert.Equal(t, []int{ids[2], ids[0], ids[3]}, got)

	rs, err = repo.Search(ctx, "cs31003", constants.ExamUnknown)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, ids[0], rs[0].ID)

	rs, err = repo.Search(ctx, "compilers", constants.ExamMidsem)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "a.pdf", rs[0].FileLink)

	require.NoError(t, repo.SetStatus(ctx, ids[0], constants.PaperStatusTrashed))
	rs, err = repo.Search(ctx, "CS31003", constants.ExamUnknown)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, ids[3], rs[0].ID)
}

func TestModeration(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	ids := seed(t, repo)

	id, err := repo.Insert(ctx, NewPaper{CourseCode: "MA20104", CourseName: "Probability and Statistics", Year: 2020, FileLink: "e.pdf"})
	require.NoError(t, err)

	pending, err := repo.ListByStatus(ctx, constants.PaperStatusUnapproved)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)

	ct := constants.Exam("ct2")
	note := "solutions"
	approved := constants.PaperStatusApproved
	require.NoError(t, repo.Edit(ctx, id, EditRequest{Exam: &ct, Note: &note, Status: &approved}))
	p, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ct, p.Exam)
	assert.Equal(t, "solutions", p.Note)
	assert.Equal(t, approved, p.Status)

	assert.ErrorIs(t, repo.Edit(ctx, id, EditRequest{}), common.ErrInvalidInput)
	assert.ErrorIs(t, repo.Edit(ctx, 9999, EditRequest{Note: &note}), common.ErrNotFound)

	n, err := repo.Count(ctx, constants.PaperStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, repo.SetStatus(ctx, ids[1], constants.PaperStatusTrashed))
	trashed, err := repo.ListByStatus(ctx, constants.PaperStatusTrashed)
	require.NoError(t, err)
	require.Len(t, trashed, 1)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), common.ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, ids[1], constants.PaperStatusApproved), common.ErrNotFound)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestSimilar(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	ids := seed(t, repo)

	ps, err := repo.Similar(ctx, SimilarQuery{CourseCode: "CS31003"})
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	y := 2019
	ps, err = repo.Similar(ctx, SimilarQuery{CourseCode: "CS31003", Year: &y})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, ids[3], ps[0].ID)

	mid := constants.ExamMidsem
	spring := constants.Spring
	ps, err = repo.Similar(ctx, SimilarQuery{CourseCode: "CS31003", Exam: &mid, Semester: &spring})
	require.NoError(t, err)
	assert.Empty(t, ps)
}
