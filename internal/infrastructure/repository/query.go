package repository

import (
	"fmt"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
)

// ListOptions is the request-level description of a filtered list read:
// exact-match filters, a single free-text search term, a sort key/direction,
// and a 1-based page with a page size.
type ListOptions struct {
	Filters   map[string]string
	Search    string
	SortBy    string
	Ascending bool
	Page      int
	Limit     int
}

// PageMeta is the pagination metadata returned alongside every page.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta derives the metadata for a page. TotalPages is
// ceil(total/limit); an empty result set yields zero pages.
func NewPageMeta(total int64, page, limit int) PageMeta {
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// querySpec is the closed set of filter and sort keys one entity recognizes.
// Keys are request-level names; values are column names handed to the store.
type querySpec struct {
	filterColumns map[string]string
	sortColumns   map[string]string
	searchColumn  string
	defaultSort   string
	defaultAsc    bool
}

// build validates opts against the spec and produces the store query plus the
// offset/limit range for the requested page. The range for page P with size L
// is [(P-1)*L, (P-1)*L + L - 1]; both bounds live in Offset/Limit here.
func (sp querySpec) build(model any, opts ListOptions) (database.Query, error) {
	if opts.Limit <= 0 {
		return database.Query{}, domain.ValidationError{Message: "limit must be greater than zero"}
	}
	if opts.Page < 1 {
		return database.Query{}, domain.ValidationError{Message: "page must be 1 or greater"}
	}

	where := map[string]any{}
	for key, value := range opts.Filters {
		if value == "" {
			continue
		}
		col, ok := sp.filterColumns[key]
		if !ok {
			return database.Query{}, domain.ValidationError{Message: fmt.Sprintf("unrecognized filter key '%s'", key)}
		}
		where[col] = value
	}

	order := sp.defaultSort
	asc := sp.defaultAsc
	if opts.SortBy != "" {
		col, ok := sp.sortColumns[opts.SortBy]
		if !ok {
			return database.Query{}, domain.ValidationError{Message: fmt.Sprintf("unrecognized sort key '%s'", opts.SortBy)}
		}
		order = col
		asc = opts.Ascending
	}

	q := database.Query{
		Model:       model,
		Where:       where,
		OrderColumn: order,
		Ascending:   asc,
		Offset:      (opts.Page - 1) * opts.Limit,
		Limit:       opts.Limit,
	}
	if opts.Search != "" {
		q.SearchColumn = sp.searchColumn
		q.SearchText = opts.Search
	}
	return q, nil
}
