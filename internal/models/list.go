package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ListShape tells which response shape a List was decoded from
type ListShape int

const (
	ShapeFlat ListShape = iota
	ShapePaginated
)

// ErrUnknownListShape is returned for a body that is neither an array
// nor a paginated envelope
var ErrUnknownListShape = errors.New("list response is neither an array nor a paginated object")

// List is a collection response. The backend returns either a bare array
// or {count, next, previous, results}; both decode into Items.
type List[T any] struct {
	Shape    ListShape
	Items    []T
	Count    int
	Next     string
	Previous string
}

type paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  *[]T    `json:"results"`
}

// UnmarshalJSON decodes either shape
func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrUnknownListShape
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		*l = List[T]{Shape: ShapeFlat, Items: items, Count: len(items)}
		return nil
	case '{':
		var page paginated[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("decode page: %w", err)
		}
		if page.Results == nil {
			return ErrUnknownListShape
		}
		*l = List[T]{
			Shape: ShapePaginated,
			Items: *page.Results,
			Count: page.Count,
		}
		if page.Next != nil {
			l.Next = *page.Next
		}
		if page.Previous != nil {
			l.Previous = *page.Previous
		}
		return nil
	default:
		return ErrUnknownListShape
	}
}

// Len returns the number of decoded items
func (l *List[T]) Len() int {
	return len(l.Items)
}
