package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Schema validates a single value.
type Schema interface {
	// Validate checks value found at path and returns the normalized value
	// together with every issue it found. The returned value is only
	// meaningful when no issues are reported.
	Validate(value any, path Path) (any, []Issue)

	// Describe returns a short human-readable description of the accepted shape.
	Describe() string
}

// absentHandler is implemented by schemas that accept a missing object field.
type absentHandler interface {
	// absent returns the value to store for a missing field and whether the
	// field should be present in the output at all.
	absent(path Path) (any, bool, []Issue)
}

// Path locates a value inside a document. Array indexes are stored in their
// decimal form.
type Path []string

// Child returns a new path with key appended.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Index returns a new path with the array index i appended.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// String renders the path as a JSON pointer ("/extensionPoints/0/target").
// The root path renders as the empty string.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	return "/" + strings.Join(p, "/")
}

// Parse validates input against s. On success it returns a new document with
// defaults applied and numbers normalized; input is left untouched.
func Parse(s Schema, input any) (any, error) {
	out, issues := s.Validate(input, nil)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return out, nil
}

// ParseObject is Parse for schemas whose result is an object document.
func ParseObject(s Schema, input any) (map[string]any, error) {
	out, err := Parse(s, input)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema %s did not produce an object", s.Describe())
	}
	return m, nil
}

// Decode validates input against s and decodes the result into target, which
// must be a pointer. Struct fields are matched using `mapstructure` tags.
func Decode(s Schema, input any, target any) error {
	out, err := Parse(s, input)
	if err != nil {
		return err
	}
	return DecodeValue(out, target)
}

// DecodeValue decodes an already validated document into target.
func DecodeValue(value any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decoding validated value: %w", err)
	}
	return nil
}
