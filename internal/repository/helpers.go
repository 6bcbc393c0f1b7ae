package repository

import (
	"encoding/json"
	"fmt"
)

// encodeJSON serializes a nested value for a TEXT column. Nil slices are
// stored as "[]" so they read back as empty, not null.
func encodeJSON[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON[T any](s, column string) ([]T, error) {
	var out []T
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so a user-supplied prefix matches literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// timestampLayout has fixed-width fractional seconds so stored timestamps
// sort lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
