//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
)

// Page is the paginated list envelope returned by the backend.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p != nil && p.Previous != nil && *p.Previous != ""
}

// PageParams selects a page of a list endpoint. Zero values are omitted from the query.
type PageParams struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Status   string `json:"status,omitempty"`
	Ordering string `json:"ordering,omitempty"`
}

// DefaultPageSize is the backend's page size when none is requested.
const DefaultPageSize = 20

// List decodes list endpoints that answer with either a paginated envelope
// or a bare array.
type List[T any] []T

// UnmarshalJSON accepts both `{"results": [...]}` and `[...]`.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	items, err := decodeList[T](data)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// unwrapEnvelope decodes `{"<key>": {...}, "message": ...}` into out, falling
// back to the bare object when key is absent. It returns the message.
func unwrapEnvelope(data []byte, key string, out any) (string, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return "", err
	}
	var message string
	if raw, ok := wrapped["message"]; ok {
		_ = json.Unmarshal(raw, &message)
	}
	body := bytes.TrimSpace(wrapped[key])
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		body = data
	}
	return message, json.Unmarshal(body, out)
}
