package constants

// PaperStatus is the moderation state of a catalogued paper.
type PaperStatus string

// Stable values accepted by the CLI and the repository filters.
const (
	PaperStatusUnapproved PaperStatus = "unapproved" // staged, waiting for review
	PaperStatusApproved   PaperStatus = "approved"   // visible in search
	PaperStatusTrashed    PaperStatus = "trashed"    // soft-deleted, restorable
)

func ParsePaperStatus(s string) (PaperStatus, bool) {
	switch PaperStatus(s) {
	case PaperStatusUnapproved, PaperStatusApproved, PaperStatusTrashed:
		return PaperStatus(s), true
	}
	return "", false
}
