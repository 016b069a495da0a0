package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable matches errors for missing or unreadable banks.
	ErrSourceUnavailable = errors.New("question bank unavailable")

	// ErrSourceMalformed matches errors for banks that cannot be parsed or
	// lack a required field after all fallbacks.
	ErrSourceMalformed = errors.New("question bank malformed")
)

// SourceError describes a failure to load a question bank.
type SourceError struct {
	Path  string
	Field string // set when a required field could not be resolved
	Err   error

	Kind error // ErrSourceUnavailable or ErrSourceMalformed
}

func (e *SourceError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: missing field %q", e.Path, e.Kind, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unavailable(path string, err error) error {
	return &SourceError{Path: path, Err: err, Kind: ErrSourceUnavailable}
}

func malformed(path string, err error) error {
	return &SourceError{Path: path, Err: err, Kind: ErrSourceMalformed}
}

func missingField(path string, f Field) error {
	return &SourceError{Path: path, Field: string(f), Kind: ErrSourceMalformed}
}
