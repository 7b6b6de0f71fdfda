// Package reply turns raw model output into JSON values.
package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Markdown fence markers removed by Sanitize, longest first.
var fenceMarkers = []string{"```json", "```"}

// Sanitize trims s and removes every markdown JSON code-fence marker,
// wherever it appears.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range fenceMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	return strings.TrimSpace(s)
}

// ParseError reports model output that is not valid JSON.
type ParseError struct {
	Cleaned string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reply is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errTrailingData = errors.New("trailing data after JSON value")

// Parse sanitizes raw and decodes it as strict JSON. Numbers are kept as
// json.Number so large integers survive unchanged.
func Parse(raw string) (any, error) {
	cleaned := Sanitize(raw)
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParseError{Cleaned: cleaned, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return nil, &ParseError{Cleaned: cleaned, Err: err}
	}
	return v, nil
}

// ParseOr is Parse with a fallback: it never fails, returning fallback()
// when raw does not hold valid JSON.
func ParseOr(raw string, fallback func() map[string]any) (any, bool) {
	v, err := Parse(raw)
	if err != nil {
		return fallback(), false
	}
	return v, true
}

// InvalidJSON is the fallback body for the generate and edit routes.
func InvalidJSON() map[string]any {
	return map[string]any{"error": "Invalid JSON from AI"}
}
