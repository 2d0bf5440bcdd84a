// Package drafts keeps the list of files staged for upload together with
// their autofilled metadata.
package drafts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/papers-tracker/constants"
	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

// Resolver autofills one file. *autofill.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, filename string, pdf []byte) autofill.Draft
}

// File is one picked upload.
type File struct {
	Name string
	Data []byte
}

// List is the ordered set of drafts of one upload session. It is owned by a
// single caller and is not safe for concurrent mutation.
type List struct {
	resolver Resolver
	logger   *slog.Logger
	workers  int
	limit    int

	items []autofill.Draft
}

type Option func(*List)

func WithWorkers(n int) Option {
	return func(l *List) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLimit caps the number of drafts held at once; 0 disables the cap.
func WithLimit(n int) Option {
	return func(l *List) {
		if n >= 0 {
			l.limit = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewList(resolver Resolver, opts ...Option) *List {
	l := &List{
		resolver: resolver,
		logger:   slog.Default(),
		workers:  4,
		limit:    10,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// AddBatch autofills every file concurrently and, once all are done, appends
// them in batch order. Nothing is appended when the batch is rejected.
func (l *List) AddBatch(ctx context.Context, files []File) ([]autofill.Draft, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		if !constants.IsAllowedFile(f.Name) {
			return nil, common.NewAppError("UNSUPPORTED_FILE",
				fmt.Sprintf("%q is not a PDF", f.Name), common.ErrInvalidInput)
		}
	}
	if l.limit > 0 && len(l.items)+len(files) > l.limit {
		return nil, common.NewAppError("UPLOAD_LIMIT",
			fmt.Sprintf("at most %d papers can be uploaded at a time", l.limit), common.ErrInvalidInput)
	}

	start := time.Now()
	batch := make([]autofill.Draft, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, f := range files {
		g.Go(func() error {
			batch[i] = l.resolver.Resolve(gctx, f.Name, f.Data)
			return nil
		})
	}
	// resolution never fails; Wait only joins the workers
	_ = g.Wait()

	l.items = append(slices.Clone(l.items), batch...)
	l.logger.Info("batch autofilled",
		"files", len(files),
		"drafts", len(l.items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return slices.Clone(batch), nil
}

// Drafts returns a copy of the current list.
func (l *List) Drafts() []autofill.Draft {
	return slices.Clone(l.items)
}

func (l *List) Len() int { return len(l.items) }

// Update replaces the draft with the same ID. It reports whether one was found.
func (l *List) Update(d autofill.Draft) bool {
	i := l.index(d.ID)
	if i < 0 {
		return false
	}
	next := slices.Clone(l.items)
	next[i] = d
	l.items = next
	return true
}

func (l *List) Remove(id uuid.UUID) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(slices.Clone(l.items), i, i+1)
	return true
}

// Clear empties the list after a successful upload.
func (l *List) Clear() { l.items = nil }

func (l *List) index(id uuid.UUID) int {
	return slices.IndexFunc(l.items, func(d autofill.Draft) bool { return d.ID == id })
}
