package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches a 401 response
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrNotFound matches a 404 response
	ErrNotFound = errors.New("backend: not found")
)

// APIError is a non-2xx response from the backend. Fields holds the
// error payload normalised to a list of messages per key, so that both
// {"error": "..."} and {"title": ["..."]} are reachable the same way.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	msg := e.First("error", "detail", "non_field_errors")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match the status sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// First returns the first message of the first key that has one
func (e *APIError) First(keys ...string) string {
	for _, k := range keys {
		if msgs := e.Fields[k]; len(msgs) > 0 && msgs[0] != "" {
			return msgs[0]
		}
	}
	return ""
}

// Message picks the user facing message for err. Field keys are tried
// in order, then the generic "error" key, then fallback. Transport
// errors and non-backend errors always give fallback.
func Message(err error, fallback string, fields ...string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	keys := append(append(make([]string, 0, len(fields)+1), fields...), "error")
	if msg := apiErr.First(keys...); msg != "" {
		return msg
	}
	return fallback
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
		Fields:     parseFields(body),
	}
}

// parseFields flattens a JSON error object. Values may be a string, a
// list of strings, or a list of anything else, which is stringified.
func parseFields(body []byte) map[string][]string {
	fields := make(map[string][]string)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fields
	}

	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		switch value[0] {
		case '"':
			var s string
			if json.Unmarshal(value, &s) == nil {
				fields[key] = []string{s}
			}
		case '[':
			var items []json.RawMessage
			if json.Unmarshal(value, &items) != nil {
				continue
			}
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				var s string
				if json.Unmarshal(item, &s) == nil {
					msgs = append(msgs, s)
				} else {
					msgs = append(msgs, strings.TrimSpace(string(item)))
				}
			}
			fields[key] = msgs
		}
	}
	return fields
}
