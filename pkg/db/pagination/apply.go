package pagination

import "gorm.io/gorm"

// Apply adds the cursor predicate and limit to a query. It fetches one row
// beyond the page size so callers can detect whether more data exists.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	size := p.PageSize
	if size <= 0 {
		size = 50
	}

	if p.PageToken != "" {
		cursor, err := DecodeCursor(p.PageToken)
		if err == nil && cursor != nil && cursor.CreatedAt != "" && cursor.ID != "" {
			stmt = stmt.Where(
				"created_at < ? OR (created_at = ? AND id < ?)",
				cursor.CreatedAt,
				cursor.CreatedAt,
				cursor.ID,
			)
		}
	}

	return stmt.Limit(size + 1)
}
