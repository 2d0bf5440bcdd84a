package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/drafts"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
	"github.com/joseph-ayodele/papers-tracker/internal/results"
)

// MaxPDFBytes bounds the decoded upload accepted by Resolve.
const MaxPDFBytes = 20 << 20

type AutofillService struct {
	resolver *autofill.Resolver
	now      func() time.Time
	logger   *slog.Logger
}

func NewAutofillService(resolver *autofill.Resolver, logger *slog.Logger) *AutofillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutofillService{resolver: resolver, now: time.Now, logger: logger}
}

// Extract returns the fields found in the text; absent fields are omitted.
func (s *AutofillService) Extract(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	out, err := toStruct(autofill.Extract(req.GetValue()))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return out, nil
}

type resolveRequest struct {
	Filename  string `json:"filename"`
	PDFBase64 string `json:"pdf_base64"`
}

type resolveResponse struct {
	Draft  autofill.Draft      `json:"draft"`
	Issues []entity.FieldIssue `json:"issues"`
}

// Resolve takes {"filename", "pdf_base64"} and returns {"draft", "issues"}.
func (s *AutofillService) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := common.LoggerFromContext(ctx, s.logger)

	var in resolveRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, common.ToStatus(err)
	}
	if in.Filename == "" {
		return nil, common.InvalidArgumentError("filename is required")
	}
	if base64.StdEncoding.DecodedLen(len(in.PDFBase64)) > MaxPDFBytes {
		return nil, common.InvalidArgumentErrorf("pdf exceeds %d bytes", MaxPDFBytes)
	}
	pdf, err := base64.StdEncoding.DecodeString(in.PDFBase64)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("pdf_base64: %v", err)
	}

	d := s.resolver.Resolve(ctx, in.Filename, pdf)
	issues := drafts.Issues(d, s.now())
	logger.Info("draft resolved", "file", in.Filename, "course_code", d.CourseCode, "issues", len(issues))

	out, err := toStruct(resolveResponse{Draft: d, Issues: issues})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return out, nil
}

type viewRequest struct {
	FilterByYear *int   `json:"filter_by_year"`
	SortBy       string `json:"sort_by"`
	SortOrder    string `json:"sort_order"`
}

type viewResponse struct {
	Results        []entity.SearchResult `json:"results"`
	Cards          []results.Card        `json:"cards"`
	AvailableYears []int                 `json:"available_years"`
}

// DeriveView takes {"results": [...], "filter_by_year", "sort_by", "sort_order"}
// and returns the ordered view plus the year choices of the full set.
func (s *AutofillService) DeriveView(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := fieldJSON(req, "results")
	if err != nil {
		return nil, common.ToStatus(err)
	}
	var records []entity.SearchResult
	if raw != nil {
		if records, err = results.DecodeSearchPayload(raw); err != nil {
			return nil, common.ToStatus(err)
		}
	}

	var in viewRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, common.ToStatus(err)
	}
	st, err := parseState(in)
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}

	out, err := toStruct(buildView(records, st))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return out, nil
}

func parseState(in viewRequest) (results.State, error) {
	st, err := results.ParseState("", in.SortBy, in.SortOrder)
	if err != nil {
		return results.State{}, fmt.Errorf("view state: %w", err)
	}
	st.FilterByYear = in.FilterByYear
	return st, nil
}

func buildView(records []entity.SearchResult, st results.State) viewResponse {
	view := results.DeriveView(records, st)
	cards := make([]results.Card, len(view))
	for i, r := range view {
		cards[i] = results.CardFor(r)
	}
	return viewResponse{Results: view, Cards: cards, AvailableYears: results.AvailableYears(records)}
}
