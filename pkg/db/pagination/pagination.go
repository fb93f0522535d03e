package pagination

import "gorm.io/gorm"

// Pagination is the query-string contract for list endpoints.
type Pagination struct {
	Page     int `form:"page,default=1" validate:"gte=1"`
	PageSize int `form:"page_size,default=25" validate:"gte=1,lte=250"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	HasMore    bool  `json:"has_more"`
}

// Normalize clamps out-of-range values to safe defaults.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 25
	}
	if p.PageSize > 250 {
		p.PageSize = 250
	}
	return p
}

// Apply adds the limit/offset clauses to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return stmt.Limit(p.PageSize).Offset((p.Page - 1) * p.PageSize)
}

// BuildPageInfo derives page metadata from the total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.Normalize()
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		HasMore:    int64(p.Page*p.PageSize) < total,
	}
}
