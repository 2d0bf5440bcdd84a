package ocr

import (
	"regexp"
	"strings"
)

var (
	reHeaderCode  = regexp.MustCompile(`\b[A-Z]{2}\s*\d{5}\b`)
	reHeaderYear  = regexp.MustCompile(`\b2\d{3}\b`)
	reHeaderExam  = regexp.MustCompile(`(?i)\b(mid|end|class test)`)
	reHeaderMarks = regexp.MustCompile(`(?i)\b(full marks|marks|time|duration)\b`)
)

// heuristicConfidence scores how much a page looks like a question paper header.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reHeaderCode.MatchString(txt) {
		score += 0.25
	}
	if reHeaderYear.MatchString(txt) {
		score += 0.15
	}
	if reHeaderExam.MatchString(txt) {
		score += 0.15
	}
	if reHeaderMarks.MatchString(strings.ToLower(txt)) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
