package store

import (
	"math"
	"strings"

	"github.com/phrazzld/users-api/internal/domain"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within a Postgres int4 for any limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// SortField is a column users may be ordered by.
type SortField string

// Sortable columns. Only these values ever reach SQL text.
const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByAge       SortField = "age"
	SortByCreatedAt SortField = "created_at"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortField returns the sort field named by s, or SortByCreatedAt when
// s is not a sortable column.
func ParseSortField(s string) SortField {
	switch f := SortField(s); f {
	case SortByName, SortByEmail, SortByAge, SortByCreatedAt:
		return f
	}
	return SortByCreatedAt
}

// ParseSortOrder returns the direction named by s (case-insensitive), or
// SortDesc when s is not recognised.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// ListParams filters, sorts and paginates a user listing. Empty Name and
// Email and nil age bounds mean "no filter".
type ListParams struct {
	Name      string
	Email     string
	MinAge    *int
	MaxAge    *int
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize returns a copy of p with defaults applied and page and limit
// clamped: page to [1, MaxPage], limit to [1, MaxLimit]. A zero limit means
// "not supplied" and becomes DefaultLimit. Age bounds are clamped to the
// int4 range so they always bind to the age column.
func (p ListParams) Normalize() ListParams {
	out := p
	switch {
	case out.Page < 1:
		out.Page = DefaultPage
	case out.Page > MaxPage:
		out.Page = MaxPage
	}
	switch {
	case out.Limit == 0:
		out.Limit = DefaultLimit
	case out.Limit < 1:
		out.Limit = 1
	case out.Limit > MaxLimit:
		out.Limit = MaxLimit
	}
	out.SortBy = ParseSortField(string(out.SortBy))
	if out.SortOrder != SortAsc {
		out.SortOrder = SortDesc
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Email = strings.TrimSpace(out.Email)
	out.MinAge = clampInt32(out.MinAge)
	out.MaxAge = clampInt32(out.MaxAge)
	return out
}

func clampInt32(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	switch {
	case n > math.MaxInt32:
		n = math.MaxInt32
	case n < math.MinInt32:
		n = math.MinInt32
	}
	return &n
}

// Offset returns the number of rows skipped before the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes where a page sits in the filtered result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives page navigation from the total number of matching
// rows. limit must be positive.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}

// Page is one page of a user listing.
type Page struct {
	Users      []*domain.User `json:"users"`
	Pagination Pagination     `json:"pagination"`
}
