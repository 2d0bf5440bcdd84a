package server

import (
	"context"
	"log/slog"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

type CatalogueService struct {
	papers repository.PaperRepository
	logger *slog.Logger
}

func NewCatalogueService(papers repository.PaperRepository, logger *slog.Logger) *CatalogueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogueService{papers: papers, logger: logger}
}

type searchRequest struct {
	Query string `json:"query"`
	Exam  string `json:"exam"`
	viewRequest
}

// Search takes {"query", "exam", "filter_by_year", "sort_by", "sort_order"} and
// returns the same shape as AutofillService.DeriveView.
func (s *CatalogueService) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := common.LoggerFromContext(ctx, s.logger)

	var in searchRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, common.ToStatus(err)
	}
	if in.Query == "" {
		return nil, common.InvalidArgumentError("query is required")
	}
	st, err := parseState(in.viewRequest)
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}

	records, err := s.papers.Search(ctx, in.Query, constants.Exam(in.Exam))
	if err != nil {
		logger.Error("search failed", "query", in.Query, "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := toStruct(buildView(records, st))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return out, nil
}

// ListPapers takes {"status"} (default unapproved) and returns {"papers": [...]}.
func (s *CatalogueService) ListPapers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Status string `json:"status"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, common.ToStatus(err)
	}
	status := constants.PaperStatusUnapproved
	if in.Status != "" {
		var ok bool
		if status, ok = constants.ParsePaperStatus(in.Status); !ok {
			return nil, common.InvalidArgumentErrorf("unknown status %q", in.Status)
		}
	}

	ps, err := s.papers.ListByStatus(ctx, status)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if ps == nil {
		ps = []*entity.Paper{}
	}
	out, err := toStruct(map[string]any{"papers": ps})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return out, nil
}

// SetStatus takes {"id", "status"}.
func (s *CatalogueService) SetStatus(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	logger := common.LoggerFromContext(ctx, s.logger)

	var in struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, common.ToStatus(err)
	}
	if in.ID <= 0 {
		return nil, common.InvalidArgumentError("id is required")
	}
	status, ok := constants.ParsePaperStatus(in.Status)
	if !ok {
		return nil, common.InvalidArgumentErrorf("unknown status %q", in.Status)
	}
	if err := s.papers.SetStatus(ctx, in.ID, status); err != nil {
		logger.Warn("set status failed", "id", in.ID, "status", status, "error", err)
		return nil, common.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}
