package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/ingest"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

func (a *app) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	dir := fs.String("dir", "", "drop folder to watch (required)")
	initial := fs.Bool("initial", false, "autofill PDFs already in the folder")
	debounce := fs.Duration("debounce", 500*time.Millisecond, "quiet period before a batch is processed")
	save := fs.Bool("save", false, "stage valid drafts in the catalogue as unapproved papers")
	noOCR := fs.Bool("no-ocr", false, "resolve from file names only")
	_ = fs.Parse(args)

	if *dir == "" {
		return errors.New("-dir is required")
	}

	var papers repository.PaperRepository
	if *save {
		p, closeDB, err := a.openCatalogue(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		papers = p
	}

	batches, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: *initial,
		Debounce:    *debounce,
		SkipHidden:  true,
	}, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("watching drop folder", "dir", *dir)

	ing := ingest.NewFSIngestor(a.logger)
	for {
		select {
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "error", err)
		case paths, ok := <-batches:
			if !ok {
				return nil
			}
			results := make([]ingest.IngestionResult, 0, len(paths))
			for _, p := range paths {
				res, err := ing.IngestPath(ctx, p)
				if err != nil {
					res.Err = err.Error()
				}
				results = append(results, res)
			}
			batch, err := a.autofillResults(ctx, results, *noOCR)
			if err != nil {
				a.logger.Error("batch autofill failed", "files", len(paths), "error", err)
				continue
			}
			ds := make([]autofill.Draft, len(batch))
			for i, s := range batch {
				ds[i] = s.draft
			}
			if err := printJSON(reports(ds, time.Now())); err != nil {
				return err
			}
			if papers != nil {
				n, err := a.stage(ctx, papers, batch)
				if err != nil {
					a.logger.Error("staging failed", "error", err)
					continue
				}
				a.logger.Info("papers staged", "count", n)
			}
		}
	}
}
