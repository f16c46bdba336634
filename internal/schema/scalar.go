package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type stringSchema struct{}

// String accepts string values.
func String() Schema { return stringSchema{} }

func (stringSchema) Describe() string { return "string" }

func (s stringSchema) Validate(value any, path Path) (any, []Issue) {
	str, ok := value.(string)
	if !ok {
		return nil, []Issue{typeIssue(path, s.Describe(), value)}
	}
	return str, nil
}

type numberSchema struct{}

// Number accepts any numeric value and normalizes it to float64.
func Number() Schema { return numberSchema{} }

func (numberSchema) Describe() string { return "number" }

func (s numberSchema) Validate(value any, path Path) (any, []Issue) {
	f, ok := asFloat(value)
	if !ok {
		return nil, []Issue{typeIssue(path, s.Describe(), value)}
	}
	return f, nil
}

type intSchema struct{}

// Int accepts integral numeric values and normalizes them to int64.
func Int() Schema { return intSchema{} }

func (intSchema) Describe() string { return "integer" }

func (s intSchema) Validate(value any, path Path) (any, []Issue) {
	if _, isNum := asFloat(value); !isNum {
		return nil, []Issue{typeIssue(path, s.Describe(), value)}
	}
	n, ok := asInt(value)
	if !ok && isWhole(value) {
		return nil, []Issue{{
			Path:     path.String(),
			Code:     CodeOutOfRange,
			Expected: s.Describe(),
			Received: fmt.Sprint(value),
			Message:  "Number must fit in a 64-bit integer",
		}}
	}
	if !ok {
		return nil, []Issue{{
			Path:     path.String(),
			Code:     CodeNotInteger,
			Expected: s.Describe(),
			Received: fmt.Sprint(value),
			Message:  "Expected integer, received float",
		}}
	}
	return n, nil
}

// isWhole reports whether a numeric value has no fractional part.
func isWhole(v any) bool {
	f, ok := asFloat(v)
	return ok && f == math.Trunc(f)
}

type booleanSchema struct{}

// Boolean accepts true and false.
func Boolean() Schema { return booleanSchema{} }

func (booleanSchema) Describe() string { return "boolean" }

func (s booleanSchema) Validate(value any, path Path) (any, []Issue) {
	b, ok := value.(bool)
	if !ok {
		return nil, []Issue{typeIssue(path, s.Describe(), value)}
	}
	return b, nil
}

type anySchema struct{}

// Any accepts every present value and returns a deep copy of it.
func Any() Schema { return anySchema{} }

func (anySchema) Describe() string { return "any" }

func (anySchema) Validate(value any, _ Path) (any, []Issue) {
	return Clone(value), nil
}

type literalSchema struct {
	values []any
}

// Literal accepts values equal to one of the given scalars.
func Literal(values ...any) Schema {
	normalized := make([]any, len(values))
	for i, v := range values {
		normalized[i] = normalizeScalar(v)
	}
	return literalSchema{values: normalized}
}

// Enum accepts one of the given strings.
func Enum(values ...string) Schema {
	lits := make([]any, len(values))
	for i, v := range values {
		lits[i] = v
	}
	return literalSchema{values: lits}
}

func (l literalSchema) Describe() string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		if str, ok := v.(string); ok {
			parts[i] = strconv.Quote(str)
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " | ")
}

func (l literalSchema) Validate(value any, path Path) (any, []Issue) {
	candidate := normalizeScalar(value)
	for _, v := range l.values {
		if reflect.DeepEqual(v, candidate) {
			return candidate, nil
		}
	}
	return nil, []Issue{{
		Path:     path.String(),
		Code:     CodeInvalidLiteral,
		Expected: l.Describe(),
		Received: fmt.Sprint(value),
		Message:  printer.Sprintf("Invalid literal value, expected %s", l.Describe()),
	}}
}
