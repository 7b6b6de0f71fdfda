package extract

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to test an *Error against one of these.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecode            = errors.New("decode failed")
	ErrNoText            = errors.New("no text found")
	ErrExtraction        = errors.New("extraction failed")
)

// Error is returned by Extract for every failure. Its message is safe to
// show to API clients.
type Error struct {
	Format Format
	Kind   error
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnsupportedFormat:
		return "Unsupported file type"
	case ErrDecode:
		return fmt.Sprintf("Unable to read %s file", e.Format.label())
	case ErrNoText:
		if e.Format == FormatImage {
			return "No readable text found in image"
		}
		return fmt.Sprintf("%s has no readable text", e.Format.label())
	default:
		cause := "unknown error"
		if e.Cause != nil {
			cause = e.Cause.Error()
		}
		return fmt.Sprintf("Unable to read %s: %s", e.Format.label(), cause)
	}
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func failed(f Format, kind, cause error) *Error {
	return &Error{Format: f, Kind: kind, Cause: cause}
}
