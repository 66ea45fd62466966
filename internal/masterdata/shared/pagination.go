package shared

import (
	"net/http"
	"strconv"
	"strings"

	internalShared "github.com/smart-inventory/inventory/internal/shared"
)

// ListFilters represents standard list filters.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// ParseListFilters reads ?page, ?limit and ?search.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return ListFilters{Page: page, Limit: limit, Search: strings.TrimSpace(q.Get("search"))}
}

// Offset returns the row offset of the requested page.
func (f ListFilters) Offset() int {
	return internalShared.Page{Number: f.Page, Size: f.Limit}.Offset()
}

// Pattern returns the ILIKE pattern for the search term, or "" for no filter.
func (f ListFilters) Pattern() string {
	if f.Search == "" {
		return ""
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(f.Search)
	return "%" + escaped + "%"
}

// WritePagination exposes the pagination metadata as response headers.
func WritePagination(w http.ResponseWriter, f ListFilters, total int) {
	p := internalShared.NewPage(f.Page, f.Limit, total)
	w.Header().Set("X-Total-Count", strconv.Itoa(p.Total))
	w.Header().Set("X-Total-Pages", strconv.Itoa(p.Pages()))
	w.Header().Set("X-Page", strconv.Itoa(p.Number))
}
