// Package ingest finds question-paper PDFs on disk and turns them into
// batch inputs for autofill.
package ingest

import (
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/drafts"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	Name         string
	HashHex      string
	Size         int64
	ModifiedAt   time.Time
	Deduplicated bool // same content as an earlier file of this run
	Data         []byte
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Files returns the batch inputs of the successful, non-duplicate results in
// walk order.
func Files(results []IngestionResult) []drafts.File {
	var out []drafts.File
	for _, r := range results {
		if r.Err != "" || r.Deduplicated {
			continue
		}
		out = append(out, drafts.File{Name: r.Name, Data: r.Data})
	}
	return out
}
