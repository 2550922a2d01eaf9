package registry

import (
	"errors"
	"fmt"
)

// Lookup errors. Callers must not treat a missing definition as an empty
// one; every lookup surfaces absence explicitly.
var (
	ErrEnumNotFound    = errors.New("enum not found")
	ErrProductNotFound = errors.New("product not found")
	ErrFieldNotFound   = errors.New("field not found")
)

// LoadError reports a malformed or conflicting declarative source. It is
// fatal: a registry is never partially constructed.
type LoadError struct {
	Source string // source name (file path for directory loads)
	Msg    string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry source %s: %s: %v", e.Source, e.Msg, e.Err)
	}
	return fmt.Sprintf("registry source %s: %s", e.Source, e.Msg)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErrorf(source string, format string, args ...any) *LoadError {
	return &LoadError{Source: source, Msg: fmt.Sprintf(format, args...)}
}
