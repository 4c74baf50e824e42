package common

import (
	"net/http"
	"strconv"
)

// Page holds limit/offset pagination extracted from query parameters.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset query parameters, falling back to
// defaultLimit and clamping limit to [1, maxLimit].
func ParsePage(r *http.Request, defaultLimit, maxLimit int) Page {
	p := Page{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			p.Limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}

	p.Limit = ClampLimit(p.Limit, 1, maxLimit)
	return p
}

// ClampLimit bounds a caller-supplied result limit to [min, max].
func ClampLimit(limit, min, max int) int {
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
