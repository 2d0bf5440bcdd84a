package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

type fakeOCR struct{ text string }

func (f fakeOCR) FirstPageText(context.Context, []byte) (string, error) { return f.text, nil }

type harness struct {
	client *Client
	conn   *grpc.ClientConn
	papers repository.PaperRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	clock := func() time.Time { return time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC) }

	db, err := repository.Open(context.Background(), common.DatabaseConfig{DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	papers := repository.NewPaperRepository(db, logger)

	resolver := autofill.NewResolver(nil, fakeOCR{text: "MA20104\nSpring Semester 2021"}, autofill.WithClock(clock), autofill.WithLogger(logger))
	af := NewAutofillService(resolver, logger)
	af.now = clock
	srv, _ := NewGRPCServer(af, NewCatalogueService(papers, logger), logger)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{client: NewClient(conn), conn: conn, papers: papers}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestExtract(t *testing.T) {
	h := newHarness(t)

	var header metadata.MD
	out, err := h.client.Extract(context.Background(), "EC31004 Midsem 2021 Spring", grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"course_code": "EC31004",
		"year":        float64(2021),
		"exam":        "midsem",
		"semester":    "spring",
	}, out.AsMap())
	assert.NotEmpty(t, header.Get(RequestIDHeader))

	out, err = h.client.Extract(context.Background(), "random text with no structure")
	require.NoError(t, err)
	assert.Empty(t, out.AsMap())
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")

	var header metadata.MD
	_, err := h.client.Extract(ctx, "x", grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, header.Get(RequestIDHeader))
}

func TestResolve(t *testing.T) {
	h := newHarness(t)

	out, err := h.client.Resolve(context.Background(), mustStruct(t, map[string]any{
		"filename":   "CS31005_endsem.pdf",
		"pdf_base64": base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
	}))
	require.NoError(t, err)

	m := out.AsMap()
	d := m["draft"].(map[string]any)
	assert.Equal(t, "CS31005", d["course_code"])
	assert.Equal(t, "Algorithms-II", d["course_name"])
	assert.Equal(t, float64(2021), d["year"])
	assert.Equal(t, "endsem", d["exam"])
	assert.Equal(t, "spring", d["semester"])
	assert.NotContains(t, d, "File")
	assert.Empty(t, m["issues"])

	_, err = h.client.Resolve(context.Background(), mustStruct(t, map[string]any{"pdf_base64": ""}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.Resolve(context.Background(), mustStruct(t, map[string]any{"filename": "a.pdf", "pdf_base64": "%%%"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestResolveLargePDF(t *testing.T) {
	h := newHarness(t)

	pdf := make([]byte, 5<<20)
	copy(pdf, "%PDF-1.4")
	out, err := h.client.Resolve(context.Background(), mustStruct(t, map[string]any{
		"filename":   "MA20104_midsem_2022.pdf",
		"pdf_base64": base64.StdEncoding.EncodeToString(pdf),
	}))
	require.NoError(t, err)
	d := out.AsMap()["draft"].(map[string]any)
	assert.Equal(t, "MA20104", d["course_code"])
	assert.Equal(t, float64(2022), d["year"])

	_, err = h.client.Resolve(context.Background(), mustStruct(t, map[string]any{
		"filename":   "big.pdf",
		"pdf_base64": base64.StdEncoding.EncodeToString(make([]byte, MaxPDFBytes+1)),
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDeriveView(t *testing.T) {
	h := newHarness(t)

	records := []any{
		map[string]any{"id": 1, "course_name": "Economics", "year": 2021, "exam": "midsem", "filelink": "a"},
		map[string]any{"id": 2, "course_name": "Compilers", "course_code": "CS31003", "year": 2021, "exam": "ct1", "filelink": "b"},
		map[string]any{"id": 3, "course_name": "Algorithms-II", "year": 2019, "exam": "", "filelink": "c"},
	}
	out, err := h.client.DeriveView(context.Background(), mustStruct(t, map[string]any{
		"results":        records,
		"filter_by_year": 2021,
		"sort_by":        "year",
		"sort_order":     "descending",
	}))
	require.NoError(t, err)

	m := out.AsMap()
	rs := m["results"].([]any)
	require.Len(t, rs, 2)
	assert.Equal(t, float64(2), rs[0].(map[string]any)["id"])
	assert.Equal(t, float64(1), rs[1].(map[string]any)["id"])
	assert.Equal(t, []any{float64(2021), float64(2019)}, m["available_years"])
	cards := m["cards"].([]any)
	assert.Equal(t, "Compilers (CS31003)", cards[0].(map[string]any)["title"])
	assert.Equal(t, "CT1", cards[0].(map[string]any)["exam_tag"])

	_, err = h.client.DeriveView(context.Background(), mustStruct(t, map[string]any{
		"results": []any{map[string]any{"id": 1}},
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.DeriveView(context.Background(), mustStruct(t, map[string]any{"sort_by": "date"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCatalogue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id, err := h.papers.Insert(ctx, repository.NewPaper{CourseCode: "CS31003", CourseName: "Compilers", Year: 2021, Exam: constants.ExamMidsem, FileLink: "a.pdf"})
	require.NoError(t, err)

	out, err := h.client.ListPapers(ctx, mustStruct(t, map[string]any{}))
	require.NoError(t, err)
	assert.Len(t, out.AsMap()["papers"], 1)

	out, err = h.client.Search(ctx, mustStruct(t, map[string]any{"query": "compilers"}))
	require.NoError(t, err)
	assert.Empty(t, out.AsMap()["results"])

	require.NoError(t, h.client.SetStatus(ctx, mustStruct(t, map[string]any{"id": id, "status": "approved"})))

	out, err = h.client.Search(ctx, mustStruct(t, map[string]any{"query": "compilers", "sort_by": "course_name"}))
	require.NoError(t, err)
	assert.Len(t, out.AsMap()["results"], 1)

	err = h.client.SetStatus(ctx, mustStruct(t, map[string]any{"id": id + 10, "status": "trashed"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = h.client.SetStatus(ctx, mustStruct(t, map[string]any{"id": id, "status": "gone"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.Search(ctx, mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: AutofillServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
