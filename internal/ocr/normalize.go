package ocr

import (
	"regexp"
	"strings"
)

var (
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reBoxNoise   = regexp.MustCompile(`^[_\-=]{3,}$`)
	// course-code shaped tokens where tesseract read a zero as the letter O
	reCodeWithO = regexp.MustCompile(`\b([A-Z]{2} ?)([0-9O]{5})\b`)
)

// Normalize collapses noisy whitespace and fixes common OCR artifacts. It
// never adds or removes a line before the last non-blank one, so the header
// lines of a page stay where the recognizer put them; box rules are blanked.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		l = strings.ReplaceAll(l, "\r", "")
		l = reTabs.ReplaceAllString(l, " ")
		l = reMultiSpace.ReplaceAllString(l, " ")
		l = strings.TrimSpace(l)
		if reBoxNoise.MatchString(l) {
			l = ""
		}
		lines[i] = reCodeWithO.ReplaceAllStringFunc(l, fixCodeDigits)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func fixCodeDigits(tok string) string {
	m := reCodeWithO.FindStringSubmatch(tok)
	digits := m[2]
	if !strings.ContainsAny(digits, "0123456789") {
		return tok
	}
	return m[1] + strings.ReplaceAll(digits, "O", "0")
}
