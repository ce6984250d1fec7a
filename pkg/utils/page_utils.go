package utils

// MaxPageSize bounds page_size on list endpoints.
const MaxPageSize = 200

// Paginate returns the page of items for 1-based page. A non-positive pageSize returns everything.
// Pages past the end are empty, whatever their number.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	pages := (len(items) + pageSize - 1) / pageSize
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ClampPageSize replaces a non-positive size with fallback and caps it at MaxPageSize.
func ClampPageSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
