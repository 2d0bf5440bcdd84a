package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <paper.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	x := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	res, err := x.FirstPage(ctx, path)
	if err != nil {
		logger.Error("first page extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("first page extracted",
		"method", res.Method,
		"confidence", res.Confidence,
		"bytes", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)

	out := struct {
		ocr.Result
		Details autofill.Details `json:"details"`
	}{Result: res, Details: autofill.Extract(res.Text)}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
