// Package supabase implements the persistence and auth ports on top of the
// hosted Supabase service. Every operation delegates to PostgREST table
// calls or auth endpoints; this process owns no authoritative state.
package supabase

import (
	"encoding/json"
	"fmt"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// NewClient constructs the shared store client. It is created once at
// startup and injected into the repositories; nothing reads it from
// ambient global state.
func NewClient(url, serviceKey string) (*supa.Client, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase: missing credentials")
	}

	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: creating client: %w", err)
	}
	return client, nil
}

// decodeRows unmarshals a PostgREST response body into a row slice.
func decodeRows[T any](data []byte) ([]T, error) {
	var rows []T
	if len(data) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "supabase: decoding rows")
	}
	return rows, nil
}

// decodeFirst unmarshals a PostgREST response body and returns its first
// row, or nil when the result set is empty.
func decodeFirst[T any](data []byte) (*T, error) {
	rows, err := decodeRows[T](data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
