package repository

import (
	"errors"
	"testing"

	"github.com/museumaceh/baservice/internal/domain"
)

var testSpec = querySpec{
	filterColumns: map[string]string{
		"category":  "category",
		"condition": "condition",
	},
	sortColumns: map[string]string{
		"name":      "name",
		"createdAt": "c_date",
	},
	searchColumn: "name",
	defaultSort:  "inventory_number",
	defaultAsc:   true,
}

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		total      int64
		page       int
		limit      int
		totalPages int
	}{
		{0, 1, 20, 0},
		{1, 1, 20, 1},
		{20, 1, 20, 1},
		{21, 2, 20, 2},
		{100, 3, 7, 15},
	}
	for _, c := range cases {
		meta := NewPageMeta(c.total, c.page, c.limit)
		if meta.TotalPages != c.totalPages {
			t.Errorf("total=%d limit=%d: expected %d pages, got %d", c.total, c.limit, c.totalPages, meta.TotalPages)
		}
		if meta.Total != c.total || meta.Page != c.page || meta.Limit != c.limit {
			t.Errorf("meta fields not echoed back: %+v", meta)
		}
	}
}

func TestQuerySpecBuildOffsets(t *testing.T) {
	// Page P with size L must start at row (P-1)*L so that consecutive
	// pages tile the result set without gaps or overlap.
	for page := 1; page <= 5; page++ {
		q, err := testSpec.build(nil, ListOptions{Page: page, Limit: 7})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if q.Offset != (page-1)*7 || q.Limit != 7 {
			t.Fatalf("page %d: got offset=%d limit=%d", page, q.Offset, q.Limit)
		}
	}
}

func TestQuerySpecBuildDefaults(t *testing.T) {
	q, err := testSpec.build(nil, ListOptions{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if q.OrderColumn != "inventory_number" || !q.Ascending {
		t.Fatalf("expected default sort, got %s asc=%v", q.OrderColumn, q.Ascending)
	}
	if q.SearchColumn != "" || q.SearchText != "" {
		t.Fatalf("no search requested but query carries one: %+v", q)
	}
}

func TestQuerySpecBuildSortAndSearch(t *testing.T) {
	q, err := testSpec.build(nil, ListOptions{
		Search: "rencong",
		SortBy: "createdAt",
		Page:   1,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if q.OrderColumn != "c_date" || q.Ascending {
		t.Fatalf("sort key not mapped: %s asc=%v", q.OrderColumn, q.Ascending)
	}
	if q.SearchColumn != "name" || q.SearchText != "rencong" {
		t.Fatalf("search not mapped: %+v", q)
	}
}

func TestQuerySpecBuildFilters(t *testing.T) {
	q, err := testSpec.build(nil, ListOptions{
		Filters: map[string]string{"condition": "Baik", "category": ""},
		Page:    1,
		Limit:   20,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(q.Where) != 1 || q.Where["condition"] != "Baik" {
		t.Fatalf("empty filter values must be dropped, got %+v", q.Where)
	}
}

func TestQuerySpecBuildRejectsUnknownKeys(t *testing.T) {
	_, err := testSpec.build(nil, ListOptions{
		Filters: map[string]string{"owner": "x"},
		Page:    1,
		Limit:   20,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown filter key: expected ValidationError, got %v", err)
	}

	_, err = testSpec.build(nil, ListOptions{SortBy: "owner", Page: 1, Limit: 20})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown sort key: expected ValidationError, got %v", err)
	}
}

func TestQuerySpecBuildRejectsBadRange(t *testing.T) {
	if _, err := testSpec.build(nil, ListOptions{Page: 0, Limit: 20}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("page 0: expected ValidationError, got %v", err)
	}
	if _, err := testSpec.build(nil, ListOptions{Page: 1, Limit: 0}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("limit 0: expected ValidationError, got %v", err)
	}
	if _, err := testSpec.build(nil, ListOptions{Page: 1, Limit: -5}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative limit: expected ValidationError, got %v", err)
	}
}
