// Command papers autofills, stages and searches question papers from the
// command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
	"github.com/joseph-ayodele/papers-tracker/internal/ocr"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
)

const usage = `usage: papers <command> [flags]

commands:
  autofill FILE...   resolve metadata for each PDF and print the drafts
  batch -dir D       autofill every PDF under D and write an upload manifest
  watch -dir D       autofill PDFs as they are dropped into D
  search -q Q        query the catalogue (or a saved search payload)
  moderate           list, approve, trash, restore, edit or delete papers
`

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type app struct {
	cfg    *common.Config
	logger *slog.Logger
}

func main() {
	if len(os.Args) < 2 {
		printError(usage)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	a := &app{cfg: cfg, logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "autofill":
		err = a.runAutofill(ctx, args)
	case "batch":
		err = a.runBatch(ctx, args)
	case "watch":
		err = a.runWatch(ctx, args)
	case "search":
		err = a.runSearch(ctx, args)
	case "moderate":
		err = a.runModerate(ctx, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		printError("unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

// resolver wires the course table and the OCR extractor. With noOCR set,
// drafts are resolved from file names only.
func (a *app) resolver(noOCR bool) (*autofill.Resolver, error) {
	table, err := courses.Load(a.cfg.Autofill.CoursesFile, a.logger)
	if err != nil {
		return nil, err
	}
	var rec autofill.TextRecognizer
	if !noOCR {
		rec = ocr.NewExtractor(ocr.ConfigFrom(a.cfg.OCR), a.logger)
	}
	return autofill.NewResolver(table, rec, autofill.WithLogger(a.logger)), nil
}

// openCatalogue opens and migrates the paper store. The returned func closes it.
func (a *app) openCatalogue(ctx context.Context) (repository.PaperRepository, func(), error) {
	db, err := repository.Open(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewPaperRepository(db, a.logger), db.Close, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
