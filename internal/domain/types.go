package domain

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// Normalize clamps page to >= 1 and pageSize to [1, max].
func (p Pagination) Normalize(def, max int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
	return p
}

// Offset is the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
