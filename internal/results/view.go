// Package results derives the displayed view of a search result set: year
// filtering, ordering and the tags shown on each result card. Everything here
// is pure and safe for concurrent use.
package results

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/papers-tracker/internal/entity"
)

type SortBy string

const (
	SortByRelevance  SortBy = "relevance"
	SortByCourseName SortBy = "course_name"
	SortByYear       SortBy = "year"
)

type SortOrder string

const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// State is the filter and sort selection of one search session.
type State struct {
	FilterByYear *int // nil = all years
	SortBy       SortBy
	SortOrder    SortOrder
}

// DefaultState is the selection applied whenever a new result set arrives.
func DefaultState() State {
	return State{SortBy: SortByRelevance, SortOrder: Descending}
}

// WithYear returns s filtering on year.
func (s State) WithYear(year int) State {
	s.FilterByYear = &year
	return s
}

// DeriveView filters records by year and orders them. The input is never
// modified; a new slice is returned on every call.
//
// Relevance keeps the order records were received in. Sorting by year while a
// year filter is active sorts by course name ascending instead.
func DeriveView(records []entity.SearchResult, state State) []entity.SearchResult {
	out := make([]entity.SearchResult, 0, len(records))
	for _, r := range records {
		if state.FilterByYear == nil || r.Year == *state.FilterByYear {
			out = append(out, r)
		}
	}

	sortBy, order := state.SortBy, state.SortOrder
	if sortBy == SortByYear && state.FilterByYear != nil {
		sortBy, order = SortByCourseName, Ascending
	}

	var compare func(a, b entity.SearchResult) int
	switch sortBy {
	case SortByCourseName:
		// collators keep internal buffers; one per call keeps DeriveView reentrant
		col := collate.New(language.English)
		compare = func(a, b entity.SearchResult) int {
			return col.CompareString(a.CourseName, b.CourseName)
		}
	case SortByYear:
		compare = func(a, b entity.SearchResult) int {
			return cmp.Compare(a.Year, b.Year)
		}
	default:
		return out
	}

	if order == Descending {
		asc := compare
		compare = func(a, b entity.SearchResult) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// AvailableYears lists the distinct years of records, newest first.
func AvailableYears(records []entity.SearchResult) []int {
	seen := make(map[int]struct{}, len(records))
	years := make([]int, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	return years
}

// ParseYearFilter reads the year control value; "", "null" and "all" clear the filter.
func ParseYearFilter(s string) (*int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "all":
		return nil, nil
	}
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid year filter %q: %w", s, err)
	}
	return &y, nil
}

func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case SortByRelevance, SortByCourseName, SortByYear:
		return v, nil
	case "":
		return SortByRelevance, nil
	}
	return "", fmt.Errorf("invalid sort key %q (want relevance, course_name or year)", s)
}

// ParseSortOrder accepts ascending/descending and their asc/desc short forms.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc":
		return Ascending, nil
	case "descending", "desc", "":
		return Descending, nil
	}
	return "", fmt.Errorf("invalid sort order %q (want ascending or descending)", s)
}

// ParseState builds a State from the three control values.
func ParseState(year, sortBy, order string) (State, error) {
	var st State
	var err error
	if st.FilterByYear, err = ParseYearFilter(year); err != nil {
		return State{}, err
	}
	if st.SortBy, err = ParseSortBy(sortBy); err != nil {
		return State{}, err
	}
	if st.SortOrder, err = ParseSortOrder(order); err != nil {
		return State{}, err
	}
	return st, nil
}
