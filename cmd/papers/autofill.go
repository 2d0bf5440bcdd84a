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
	"github.com/joseph-ayodele/papers-tracker/internal/drafts"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

type draftReport struct {
	Draft      autofill.Draft      `json:"draft"`
	Issues     []entity.FieldIssue `json:"issues,omitempty"`
	UploadName string              `json:"upload_name"`
}

func reports(ds []autofill.Draft, now time.Time) []draftReport {
	out := make([]draftReport, 0, len(ds))
	for _, d := range ds {
		out = append(out, draftReport{
			Draft:      d,
			Issues:     drafts.Issues(d, now),
			UploadName: drafts.UploadName(drafts.Sanitize(d)),
		})
	}
	return out
}

func (a *app) runAutofill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("autofill", flag.ExitOnError)
	noOCR := fs.Bool("no-ocr", false, "resolve from file names only")
	limit := fs.Int("limit", a.cfg.Autofill.MaxUploadLimit, "maximum number of files (0 = unlimited)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("at least one PDF is required")
	}

	files := make([]drafts.File, 0, fs.NArg())
	for _, p := range fs.Args() {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, drafts.File{Name: filepath.Base(p), Data: b})
	}

	r, err := a.resolver(*noOCR)
	if err != nil {
		return err
	}
	list := drafts.NewList(r,
		drafts.WithWorkers(a.cfg.Autofill.BatchWorkers),
		drafts.WithLimit(*limit),
		drafts.WithLogger(a.logger),
	)
	ds, err := list.AddBatch(ctx, files)
	if err != nil {
		return err
	}
	return printJSON(reports(ds, time.Now()))
}
