package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// getPathID extracts a positive integer ID from the URL path parameter
// paramName. Only plain decimal digits are accepted.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, domain.ErrInvalidID
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parseListParams reads list filters, sorting and pagination from the query
// string. Unparseable numbers are ignored and fall back to defaults; the
// result is normalized.
func parseListParams(q url.Values) store.ListParams {
	p := store.ListParams{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		MinAge:    optionalInt(q.Get("minAge")),
		MaxAge:    optionalInt(q.Get("maxAge")),
		SortBy:    store.ParseSortField(q.Get("sortBy")),
		SortOrder: store.ParseSortOrder(q.Get("sortOrder")),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = limit
	}
	return p.Normalize()
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
