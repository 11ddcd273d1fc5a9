package services

// Pagination describes one page of a filtered result set. Total is counted
// with the same predicate as the page fetch so the two cannot disagree.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

const maxPageLimit = 1000

// clampPage normalizes 1-based page/limit values and returns the offset.
// Missing limits fall back to the default; oversize limits clamp to the
// maximum rather than shrinking the page.
func clampPage(page, limit, defaultLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

// sortColumn resolves a caller-supplied sort key through a fixed allow-list.
// Unknown keys fall back silently to the default column; the returned value
// is always one of the map's literals, never caller input.
func sortColumn(allowed map[string]string, key, fallback string) string {
	if col, ok := allowed[key]; ok {
		return col
	}
	return fallback
}

// sortDirection normalizes an order parameter against a default.
func sortDirection(order string, defaultDesc bool) bool {
	switch order {
	case "asc", "ASC":
		return false
	case "desc", "DESC":
		return true
	}
	return defaultDesc
}
