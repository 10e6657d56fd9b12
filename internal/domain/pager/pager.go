// Package pager slices a sequence into a bounded page window.
package pager

// DefaultPageSize is used when no positive page size is given.
const DefaultPageSize = 10

// Window is one page of a sequence plus the metadata needed to render
// the pagination controls. Start and End are 1-based inclusive display
// bounds and are both 0 for an empty sequence.
type Window[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	Total      int  `json:"total"`
	Start      int  `json:"start"`
	End        int  `json:"end"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TotalPages returns max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	size = normalizeSize(size)
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Clamp moves page into [1, TotalPages(count, size)].
func Clamp(page, count, size int) int {
	total := TotalPages(count, size)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the window for page. Out-of-range pages are clamped,
// never rejected. The returned Items share the backing array of items.
func Paginate[T any](items []T, page, size int) Window[T] {
	size = normalizeSize(size)
	count := len(items)
	totalPages := TotalPages(count, size)
	page = Clamp(page, count, size)

	offset := (page - 1) * size
	end := min(offset+size, count)

	w := Window[T]{
		Items:      items[offset:end:end],
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      count,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	if count > 0 {
		w.Start = offset + 1
		w.End = end
	}
	if w.Items == nil {
		w.Items = []T{}
	}
	return w
}

func normalizeSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}
