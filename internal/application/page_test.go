package application

import (
	"errors"
	"testing"
)

func TestPageQueryNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		in          PageQuery
		wantPage    int
		wantPerPage int
	}{
		{"zero values take defaults", PageQuery{}, 1, 20},
		{"negative page clamps to first", PageQuery{Page: -3, PerPage: 10}, 1, 10},
		{"oversized per_page capped", PageQuery{Page: 2, PerPage: 500}, 2, 100},
		{"in range untouched", PageQuery{Page: 4, PerPage: 50}, 4, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.in.normalize(20, 100)
			if got.Page != tc.wantPage || got.PerPage != tc.wantPerPage {
				t.Fatalf("normalize = page %d per_page %d, want %d %d", got.Page, got.PerPage, tc.wantPage, tc.wantPerPage)
			}
		})
	}
}

func TestBuildPageOutOfRange(t *testing.T) {
	t.Parallel()

	q := PageQuery{Page: 5, PerPage: 10}

	// lenient: empty page, metadata intact
	p, err := buildPage[int](nil, q, 12)
	if err != nil {
		t.Fatalf("lenient out-of-range errored: %v", err)
	}
	if len(p.Items) != 0 || p.Total != 12 || p.TotalPages != 2 {
		t.Fatalf("lenient page = %+v", p)
	}

	// strict: not found
	q.Strict = true
	if _, err := buildPage[int](nil, q, 12); !errors.Is(err, ErrNotFound) {
		t.Fatalf("strict out-of-range err = %v, want ErrNotFound", err)
	}
}

func TestBuildPageEmptyCollection(t *testing.T) {
	t.Parallel()

	// page 1 of an empty collection is valid in both modes
	for _, strict := range []bool{false, true} {
		q := PageQuery{Page: 1, PerPage: 10, Strict: strict}
		p, err := buildPage[int](nil, q, 0)
		if err != nil {
			t.Fatalf("strict=%v: empty first page errored: %v", strict, err)
		}
		if len(p.Items) != 0 || p.TotalPages != 0 {
			t.Fatalf("strict=%v: page = %+v", strict, p)
		}
	}
}

func TestBuildPageTotalPages(t *testing.T) {
	t.Parallel()

	p, err := buildPage([]int{1, 2, 3}, PageQuery{Page: 1, PerPage: 10}, 21)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3 (ceil 21/10)", p.TotalPages)
	}
}
