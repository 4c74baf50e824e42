// Package search turns free-text queries into structured profile filters
// and re-ranks filtered results by semantic similarity. Every model-backed
// path degrades to a deterministic local fallback; parsing and searching
// never surface hard failures to callers.
package search

import "context"

// Filters is the structured filter record extracted from a free-text query.
type Filters struct {
	TextQuery    string   `json:"text_query"`
	Industry     string   `json:"industry"`
	Location     string   `json:"location"`
	School       string   `json:"school"`
	CareerStatus string   `json:"career_status"`
	Skills       []string `json:"skills"`
}

// Normalize replaces a nil skills slice so the record is always well-formed.
func (f *Filters) Normalize() {
	if f.Skills == nil {
		f.Skills = []string{}
	}
}

// QueryParser converts a free-text search phrase into structured filters.
type QueryParser interface {
	Parse(ctx context.Context, query string) (Filters, error)
}

// fallbackParser tries the remote parser first and degrades to the
// deterministic one on any failure.
type fallbackParser struct {
	remote    QueryParser
	heuristic QueryParser
}

// NewQueryParser composes the remote and heuristic parsers. The returned
// parser never fails: it degrades to the heuristic instead.
func NewQueryParser(remote, heuristic QueryParser) QueryParser {
	return &fallbackParser{remote: remote, heuristic: heuristic}
}

func (p *fallbackParser) Parse(ctx context.Context, query string) (Filters, error) {
	if p.remote != nil {
		if filters, err := p.remote.Parse(ctx, query); err == nil {
			filters.Normalize()
			return filters, nil
		}
	}
	filters, _ := p.heuristic.Parse(ctx, query)
	filters.Normalize()
	return filters, nil
}
