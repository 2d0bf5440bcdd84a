// Package ocr reads the first page of a question paper with the poppler
// tools and tesseract.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI of the first page, default 150
	PSM           int // e.g., 6 is good for uniform block of text

	// PreferTextLayer tries pdftotext before rendering; digitally produced
	// papers carry a text layer and skip OCR entirely.
	PreferTextLayer     bool
	EnableTSVConfidence bool
}

// ConfigFrom maps the environment-level OCR settings onto an extractor Config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftotext:           c.Pdftotext,
		Pdftoppm:            c.Pdftoppm,
		Tesseract:           c.Tesseract,
		TesseractLang:       c.TesseractLang,
		TessdataDir:         c.TessdataDir,
		DPI:                 c.DPI,
		PSM:                 c.PSM,
		PreferTextLayer:     c.PreferTextLayer,
		EnableTSVConfidence: c.TSVConfidence,
	}
}

// Method names reported in Result.
const (
	MethodTextLayer = "pdf-text"
	MethodOCR       = "pdf-ocr"
)

// minTextLayerChars is the shortest text layer trusted over OCR.
const minTextLayerChars = 20

type Result struct {
	Text       string
	Method     string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// FirstPageText satisfies autofill.TextRecognizer. The bytes are spooled to a
// temporary file for the external tools.
func (e *Extractor) FirstPageText(ctx context.Context, pdf []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "papers-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		return "", fmt.Errorf("spool pdf: %w", err)
	}
	res, err := e.FirstPage(ctx, path)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// FirstPage extracts the text of page one of the PDF at path.
func (e *Extractor) FirstPage(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	e.logger.Debug("starting first page extraction", "path", path, "prefer_text_layer", e.cfg.PreferTextLayer)

	var warns []string
	if e.cfg.PreferTextLayer {
		txt, w, err := e.pdfToText(ctx, path)
		warns = append(warns, w...)
		switch {
		case err != nil:
			warns = append(warns, err.Error())
		case len(txt) >= minTextLayerChars:
			return Result{
				Text:       txt,
				Method:     MethodTextLayer,
				Duration:   time.Since(start),
				Warnings:   warns,
				Confidence: heuristicConfidence(txt),
			}, nil
		default:
			e.logger.Debug("text layer too short, rendering page", "path", path, "chars", len(txt))
		}
	}

	res, err := e.pdfToOCR(ctx, path)
	res.Duration = time.Since(start)
	res.Warnings = append(warns, res.Warnings...)
	return res, err
}
