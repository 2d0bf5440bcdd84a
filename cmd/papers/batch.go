package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/drafts"
	"github.com/joseph-ayodele/papers-tracker/internal/export"
	"github.com/joseph-ayodele/papers-tracker/internal/ingest"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

// staged pairs an autofilled draft with where its bytes came from.
type staged struct {
	draft autofill.Draft
	path  string
	hash  string
}

func (a *app) runBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	dir := fs.String("dir", "", "directory to read question papers from (required)")
	out := fs.String("out", "", "output XLSX manifest path (optional, defaults to parent directory)")
	save := fs.Bool("save", false, "stage valid drafts in the catalogue as unapproved papers")
	noOCR := fs.Bool("no-ocr", false, "resolve from file names only")
	skipHidden := fs.Bool("skip-hidden", true, "skip dot-files and dot-directories")
	_ = fs.Parse(args)

	if *dir == "" {
		return errors.New("-dir is required")
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "papers_manifest.xlsx")
	}

	results, stats, err := ingest.NewFSIngestor(a.logger).IngestDirectory(ctx, *dir, *skipHidden)
	if err != nil {
		return err
	}
	a.logger.Info("directory ingested",
		"dir", *dir,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)

	batch, err := a.autofillResults(ctx, results, *noOCR)
	if err != nil {
		return err
	}

	ds := make([]autofill.Draft, len(batch))
	for i, s := range batch {
		ds[i] = s.draft
	}
	buf, err := export.NewService(a.logger).ManifestXLSX(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("%d drafts written to %s\n", len(ds), *out)

	if !*save {
		return nil
	}
	papers, closeDB, err := a.openCatalogue(ctx)
	if err != nil {
		return err
	}
	defer closeDB()
	n, err := a.stage(ctx, papers, batch)
	if err != nil {
		return err
	}
	fmt.Printf("%d papers staged for approval\n", n)
	return nil
}

// autofillResults resolves the usable ingest results as one unbounded batch.
func (a *app) autofillResults(ctx context.Context, results []ingest.IngestionResult, noOCR bool) ([]staged, error) {
	var usable []ingest.IngestionResult
	for _, r := range results {
		if r.Err != "" {
			a.logger.Warn("skipping unreadable file", "path", r.SourcePath, "error", r.Err)
			continue
		}
		if r.Deduplicated {
			continue
		}
		usable = append(usable, r)
	}
	if len(usable) == 0 {
		return nil, nil
	}

	r, err := a.resolver(noOCR)
	if err != nil {
		return nil, err
	}
	list := drafts.NewList(r,
		drafts.WithWorkers(a.cfg.Autofill.BatchWorkers),
		drafts.WithLimit(0),
		drafts.WithLogger(a.logger),
	)
	ds, err := list.AddBatch(ctx, ingest.Files(usable))
	if err != nil {
		return nil, err
	}

	out := make([]staged, len(ds))
	for i, d := range ds {
		out[i] = staged{draft: d, path: usable[i].SourcePath, hash: usable[i].HashHex}
	}
	return out, nil
}

// stage inserts the valid drafts that are not already catalogued, all or
// nothing, and returns how many were inserted.
func (a *app) stage(ctx context.Context, papers repository.PaperRepository, batch []staged) (int, error) {
	now := time.Now()
	ds := make([]autofill.Draft, len(batch))
	for i, s := range batch {
		ds[i] = s.draft
	}
	if err := drafts.ValidateAll(ds, now); err != nil {
		a.logger.Warn("invalid drafts not staged", "error", err)
	}

	var rows []repository.NewPaper
	for _, s := range batch {
		if !drafts.Valid(s.draft, now) {
			continue
		}
		if p, err := papers.FindByHash(ctx, s.hash); err == nil {
			a.logger.Info("already catalogued", "file", s.draft.FileName, "id", p.ID)
			continue
		} else if !errors.Is(err, common.ErrNotFound) {
			return 0, err
		}

		d := drafts.Sanitize(s.draft)
		year, sem, exam := d.Year, d.Semester, d.Exam
		similar, err := papers.Similar(ctx, repository.SimilarQuery{
			CourseCode: d.CourseCode, Year: &year, Semester: &sem, Exam: &exam,
		})
		if err != nil {
			return 0, err
		}
		if len(similar) > 0 {
			a.logger.Warn("similar paper exists", "file", s.draft.FileName, "similar_id", similar[0].ID)
		}
		rows = append(rows, repository.FromDraft(d, s.path, s.hash))
	}
	if len(rows) == 0 {
		return 0, nil
	}
	ids, err := papers.InsertBatch(ctx, rows)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
