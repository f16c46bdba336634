// Package schema provides declarative validators that turn untyped
// configuration documents into fully defaulted values.
//
// A Schema describes the shape of a value: scalars, literals, arrays, objects
// (optionally open via a catch-all), unions, optional fields, and defaults.
// Parse walks an input document and returns either a new, normalized document
// or a *ValidationError that lists every violated constraint with its path.
// Inputs are never mutated. Decode additionally maps the validated document
// onto a typed Go struct.
package schema
