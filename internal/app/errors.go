package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/appforge-dev/appforge/internal/extensions"
)

// ErrUnsupportedType is matched by UnknownTypeError through errors.Is.
var ErrUnsupportedType = errors.New("unsupported extension type")

// ValidationError is an extension configuration that failed its schema.
type ValidationError struct {
	Path     string
	Category extensions.Category
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s extension configuration %s: %v", e.Category, e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownTypeError is a configuration whose type has no specification. It is
// reported like a validation error.
type UnknownTypeError struct {
	Path     string
	Category extensions.Category
	Type     string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: unsupported %s extension type %q", e.Path, e.Category, e.Type)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnsupportedType }

// SpecificationLookupError is a failed remote catalog fetch. Local
// specifications stay usable.
type SpecificationLookupError struct {
	Category extensions.Category
	Type     string
	Err      error
}

func (e *SpecificationLookupError) Error() string {
	return fmt.Sprintf("looking up %s specification %q: %v", e.Category, e.Type, e.Err)
}

func (e *SpecificationLookupError) Unwrap() error { return e.Err }

// DuplicateIdentifierError is a second extension with an already used local
// identifier in the same category. The first extension is kept.
type DuplicateIdentifierError struct {
	Category        extensions.Category
	LocalIdentifier string
	Path            string
	FirstPath       string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate %s extension %q at %s (already defined at %s)",
		e.Category, e.LocalIdentifier, e.Path, e.FirstPath)
}

// LoadErrors collects non-fatal load errors keyed by file path, in the order
// they were first recorded. It is safe for concurrent use.
type LoadErrors struct {
	mu    sync.Mutex
	paths []string
	errs  map[string]error
}

// NewLoadErrors returns an empty collection.
func NewLoadErrors() *LoadErrors {
	return &LoadErrors{errs: map[string]error{}}
}

// Add records err for path. A second error for the same path is joined to the first.
func (l *LoadErrors) Add(path string, err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.errs == nil {
		l.errs = map[string]error{}
	}
	if prev, ok := l.errs[path]; ok {
		l.errs[path] = errors.Join(prev, err)
		return
	}
	l.paths = append(l.paths, path)
	l.errs[path] = err
}

// Get returns the error recorded for path.
func (l *LoadErrors) Get(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[path]
}

// Paths returns the paths with errors in recording order.
func (l *LoadErrors) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

// Len returns the number of paths with errors.
func (l *LoadErrors) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.paths)
}

// IsEmpty reports whether no error was recorded.
func (l *LoadErrors) IsEmpty() bool { return l.Len() == 0 }

// Errors returns the recorded errors in order.
func (l *LoadErrors) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]error, len(l.paths))
	for i, p := range l.paths {
		out[i] = l.errs[p]
	}
	return out
}

// Err joins every recorded error, or returns nil.
func (l *LoadErrors) Err() error {
	return errors.Join(l.Errors()...)
}

func (l *LoadErrors) String() string {
	var b strings.Builder
	for i, err := range l.Errors() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}
