package query

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxOffset bounds every window so offset arithmetic cannot overflow.
	// It is far past any table this service serves, so capped windows are empty.
	MaxOffset = 1<<31 - 1
)

// Window is the requested slice of a result set. It is either page based
// (page, page_size) or offset based (offset, limit), never both.
type Window struct {
	PageMode bool
	Page     int
	PageSize int
	Offset   int
	Limit    int
}

// ParseWindow picks page mode when page or page_size is present, offset mode otherwise.
// Malformed numbers fall back to defaults and out of range ones are clamped.
func ParseWindow(p Params) Window {
	page, size := p.Get("page"), p.Get("page_size")
	if page != "" || size != "" {
		return PageWindow(ParseIntDefault(page, 1), ParseIntDefault(size, DefaultPageSize))
	}

	return Window{
		Offset: Clamp(ParseIntDefault(p.Get("offset"), 0), 0, MaxOffset),
		Limit:  Clamp(ParseIntDefault(p.Get("limit"), 0), 0, MaxPageSize),
	}
}

// PageWindow clamps size to [1, MaxPageSize] and page to [1, MaxOffset/size+1].
func PageWindow(page, size int) Window {
	ps := Clamp(size, 1, MaxPageSize)
	pg := Clamp(page, 1, MaxOffset/ps+1)
	return Window{PageMode: true, Page: pg, PageSize: ps, Offset: (pg - 1) * ps, Limit: ps}
}

// Sliced is false for offset mode with limit 0, which returns every row.
func (w Window) Sliced() bool {
	return w.PageMode || w.Limit > 0
}

func (w Window) Scope(db *gorm.DB) *gorm.DB {
	if !w.Sliced() {
		return db
	}
	return db.Offset(w.Offset).Limit(w.Limit)
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
}

// Paginate computes the pagination block for total rows counted before slicing.
func (w Window) Paginate(total int64) Pagination {
	if w.PageMode {
		tp := ceilDiv(total, int64(w.PageSize))
		return Pagination{
			Total:      total,
			Page:       w.Page,
			PageSize:   w.PageSize,
			TotalPages: tp,
			HasNext:    int64(w.Page) < tp,
			HasPrev:    w.Page > 1,
			Offset:     w.Offset,
			Limit:      w.Limit,
		}
	}

	ps := w.Limit
	if ps == 0 {
		ps = int(max(total, 1))
	}
	return Pagination{
		Total:      total,
		Page:       w.Offset/ps + 1,
		PageSize:   ps,
		TotalPages: ceilDiv(total, int64(ps)),
		HasNext:    int64(w.Offset)+int64(ps) < total,
		HasPrev:    w.Offset > 0,
		Offset:     w.Offset,
		Limit:      w.Limit,
	}
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Page is the list envelope returned by every paginated listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	Ordering   Ordering   `json:"ordering"`
}
