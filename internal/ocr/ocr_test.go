package ocr

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
)

type call struct {
	name string
	args []string
}

type stubRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
}

func (s *stubRunner) Run(_ context.Context, _ *slog.Logger, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	key := name
	if name == "tesseract" && args[len(args)-1] == "tsv" {
		key = "tesseract-tsv"
	}
	if err := s.errs[key]; err != nil {
		return nil, []byte(key + " failed"), err
	}
	return []byte(s.outputs[key]), nil, nil
}

func (s *stubRunner) names() []string {
	var out []string
	for _, c := range s.calls {
		out = append(out, c.name)
	}
	return out
}

func newTestExtractor(cfg Config, r *stubRunner) *Extractor {
	e := NewExtractor(cfg, slog.New(slog.DiscardHandler))
	e.runner = r
	return e
}

const header = "INDIAN INSTITUTE OF TECHNOLOGY\r\nMid-Semester Examination  2022\r\nCS 31005\tAlgorithms-II\r\n"

func TestFirstPageRendersAndRecognizes(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{"tesseract": header}}
	e := newTestExtractor(Config{TessdataDir: "/usr/share/tessdata", PSM: 6}, r)

	res, err := e.FirstPage(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"pdftoppm", "tesseract"}, r.names())
	pp := r.calls[0].args
	assert.Equal(t, []string{"-r", "150", "-png", "-f", "1", "-l", "1", "-singlefile", "/tmp/in.pdf"}, pp[:len(pp)-1])
	tess := r.calls[1].args
	assert.True(t, strings.HasSuffix(tess[0], "page.png"))
	assert.Equal(t, []string{"stdout", "-l", "eng", "--psm", "6", "--tessdata-dir", "/usr/share/tessdata"}, tess[1:])

	assert.Equal(t, MethodOCR, res.Method)
	assert.Equal(t, "INDIAN INSTITUTE OF TECHNOLOGY\nMid-Semester Examination 2022\nCS 31005 Algorithms-II", res.Text)
	assert.Greater(t, res.Confidence, float32(0.5))
}

func TestFirstPagePrefersTextLayer(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{"pdftotext": header + "\f"}}
	e := newTestExtractor(Config{PreferTextLayer: true}, r)

	res, err := e.FirstPage(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"pdftotext"}, r.names())
	assert.Equal(t, MethodTextLayer, res.Method)
	assert.Contains(t, res.Text, "CS 31005")
}

func TestFirstPageFallsBackWhenTextLayerEmpty(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{"pdftotext": "\f", "tesseract": header}}
	e := newTestExtractor(Config{PreferTextLayer: true}, r)

	res, err := e.FirstPage(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract"}, r.names())
	assert.Equal(t, MethodOCR, res.Method)
}

func TestFirstPageRenderFailure(t *testing.T) {
	r := &stubRunner{errs: map[string]error{"pdftoppm": errors.New("exit status 1")}}
	e := newTestExtractor(Config{}, r)

	_, err := e.FirstPage(context.Background(), "/tmp/in.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm")
	assert.Equal(t, []string{"pdftoppm"}, r.names())
}

func TestFirstPageTextSpoolsBytes(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{"tesseract": "EC31004 Endsem"}}
	e := newTestExtractor(Config{}, r)

	txt, err := e.FirstPageText(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "EC31004 Endsem", txt)
	pp := r.calls[0].args
	assert.True(t, strings.HasSuffix(pp[len(pp)-2], "upload.pdf"))
}

func TestTSVConfidenceBlend(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t90\tCS31005\n" +
		"5\t1\t1\t1\t1\t2\t70\t10\t50\t20\t70\tMidsem\n"
	assert.InDelta(t, 0.8, meanTSVConfidence(tsv), 1e-6)

	r := &stubRunner{outputs: map[string]string{"tesseract": "CS31005 Midsem", "tesseract-tsv": tsv}}
	e := newTestExtractor(Config{EnableTSVConfidence: true}, r)
	res, err := e.FirstPage(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	want := 0.7*float32(0.8) + 0.3*heuristicConfidence("CS31005 Midsem")
	assert.InDelta(t, want, res.Confidence, 1e-5)
}

func TestNormalize(t *testing.T) {
	in := "  CS31OO5\t\tCompilers  \r\n-----\r\n\r\n\r\n\r\nSpring 2O21\n"
	assert.Equal(t, "CS31005 Compilers\n\n\n\n\nSpring 2O21", Normalize(in))
	assert.Equal(t, "SCHOOL OOOOO", Normalize("SCHOOL OOOOO"))
	assert.Equal(t, "", Normalize(""))
}

func TestNormalizeKeepsLinePositions(t *testing.T) {
	raw := "INDIAN INSTITUTE OF TECHNOLOGY\n" +
		"==========\n" +
		"\n\n\n\n\n\n" +
		"__________\n" +
		"Instructions\n" +
		"Mid Semester 2022\n"

	out := Normalize(raw)
	assert.Len(t, strings.Split(out, "\n"), len(strings.Split(strings.TrimRight(raw, "\n"), "\n")))

	// the exam line sits on line 11, outside the header window either way
	d := autofill.Extract(out)
	assert.Nil(t, d.Exam)
	assert.Nil(t, d.Year)
	assert.Equal(t, autofill.Extract(raw), d)
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("lorem ipsum")
	high := heuristicConfidence("CS31005 Mid Semester 2022 Full Marks 50")
	assert.InDelta(t, 0.2, low, 1e-6)
	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, float32(1.0))
}
