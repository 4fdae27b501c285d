// Package pagination turns page query parameters into bounds and offsets.
package pagination

import "math"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps page to at least 1 and replaces an out of range perPage
// with DefaultPerPage
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return page, perPage
}

// Offset returns the number of items before page. It saturates at
// math.MaxInt instead of overflowing.
func Offset(page, perPage int) int {
	page, perPage = Normalize(page, perPage)
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Bounds returns the slice bounds of page within total items. A page past
// the end yields start == end == total.
func Bounds(page, perPage, total int) (start, end int) {
	_, perPage = Normalize(page, perPage)
	start = Offset(page, perPage)
	if start >= total {
		return total, total
	}
	end = total
	if total-start > perPage {
		end = start + perPage
	}
	return start, end
}
