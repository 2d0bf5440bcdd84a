package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/entity"
	"github.com/joseph-ayodele/papers-tracker/internal/export"
	"github.com/joseph-ayodele/papers-tracker/internal/results"
)

func (a *app) runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "course name or code to search for")
	exam := fs.String("exam", "", "restrict to one exam type (midsem, endsem, ct)")
	year := fs.String("year", "", "show only this year (empty or null for all)")
	sortBy := fs.String("sort", "relevance", "relevance, course_name or year")
	order := fs.String("order", "descending", "ascending or descending")
	payload := fs.String("results", "", "read results from a saved search response instead of the catalogue")
	xlsx := fs.String("xlsx", "", "also write the view to this XLSX file")
	_ = fs.Parse(args)

	state, err := results.ParseState(*year, *sortBy, *order)
	if err != nil {
		return err
	}

	var records []entity.SearchResult
	switch {
	case *payload != "":
		raw, err := os.ReadFile(*payload)
		if err != nil {
			return fmt.Errorf("read results: %w", err)
		}
		if records, err = results.DecodeSearchPayload(raw); err != nil {
			return err
		}
	case *query != "":
		papers, closeDB, err := a.openCatalogue(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		if records, err = papers.Search(ctx, *query, constants.Exam(*exam)); err != nil {
			return err
		}
	default:
		return errors.New("-q or -results is required")
	}

	view := results.DeriveView(records, state)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tEXAM\tSEM\tNOTE")
	for _, r := range view {
		c := results.CardFor(r)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n", r.ID, c.Title, c.Year, c.ExamTag, c.SemesterTag, c.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d results; years: %v\n", len(view), len(records), results.AvailableYears(records))

	if *xlsx != "" {
		buf, err := export.NewService(a.logger).ResultsXLSX(view)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsx, buf, 0o644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	return nil
}
