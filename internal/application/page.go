package application

// PageQuery describes a pagination request. Pages are 1-based. Strict
// selects the out-of-range policy: a page past the end is ErrNotFound when
// strict, an empty page otherwise.
type PageQuery struct {
	Page    int
	PerPage int
	Strict  bool
}

// Page is one page of results plus the metadata UI page-widgets need.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// normalize clamps the query against configured bounds. A non-positive page
// becomes 1; a non-positive size takes the default; an oversized one is
// capped at max.
func (q PageQuery) normalize(def, max int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = def
	}
	if q.PerPage > max {
		q.PerPage = max
	}
	return q
}

func (q PageQuery) offset() int {
	return (q.Page - 1) * q.PerPage
}

// buildPage assembles the page envelope and applies the out-of-range policy.
// Page 1 of an empty collection is a valid empty page in both modes.
func buildPage[T any](items []T, q PageQuery, total int64) (Page[T], error) {
	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if q.Page > 1 && int64(q.offset()) >= total {
		if q.Strict {
			return Page[T]{}, ErrNotFound
		}
		items = nil
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
