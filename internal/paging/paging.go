// Package paging slices ordered results into fixed-size, 1-based pages.
package paging

const DefaultPageSize = 10

// TotalPages is ceil(count/size) with a floor of 1, so an empty result
// still has one (empty) page.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Clamp keeps page within [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Bounds returns the half-open index range [start, end) of page within
// count items. A page past the end yields start == end == count.
func Bounds(page, size, count int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return 0, 0
	}
	if page-1 > count/size {
		return count, count
	}
	start = (page - 1) * size
	if start >= count {
		return count, count
	}
	end = start + size
	if end > count {
		end = count
	}
	return start, end
}

// Slice returns a copy of page's items. Out-of-range pages give an
// empty, non-nil slice.
func Slice[T any](items []T, page, size int) []T {
	start, end := Bounds(page, size, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Page is the wire envelope for one page of results.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Of builds the envelope for page without clamping it.
func Of[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page[T]{
		Items:      Slice(items, page, size),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(items), size),
		TotalItems: len(items),
	}
}
