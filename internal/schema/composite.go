package schema

import (
	"strings"
)

// Fields maps object keys to the schemas of their values.
type Fields map[string]Schema

// ObjectSchema validates string-keyed maps. Unknown keys are dropped unless a
// catch-all schema is set, in which case they are kept and validated against it.
type ObjectSchema struct {
	fields   Fields
	catchall Schema
}

// Object returns a schema for objects with the given fields.
func Object(fields Fields) *ObjectSchema {
	return &ObjectSchema{fields: copyFields(fields)}
}

// Extend returns a new object schema with fields added or replaced.
func (o *ObjectSchema) Extend(fields Fields) *ObjectSchema {
	merged := copyFields(o.fields)
	for name, s := range fields {
		merged[name] = s
	}
	return &ObjectSchema{fields: merged, catchall: o.catchall}
}

// Catchall returns a new object schema that keeps undeclared keys, validating
// each of their values against s.
func (o *ObjectSchema) Catchall(s Schema) *ObjectSchema {
	return &ObjectSchema{fields: copyFields(o.fields), catchall: s}
}

// Field returns the schema declared for name.
func (o *ObjectSchema) Field(name string) (Schema, bool) {
	s, ok := o.fields[name]
	return s, ok
}

// FieldNames returns the declared field names in lexical order.
func (o *ObjectSchema) FieldNames() []string {
	return sortedKeys(o.fields)
}

func (o *ObjectSchema) Describe() string {
	names := o.FieldNames()
	if o.catchall != nil {
		names = append(names, "[key: "+o.catchall.Describe()+"]")
	}
	return "object{" + strings.Join(names, ", ") + "}"
}

func (o *ObjectSchema) Validate(value any, path Path) (any, []Issue) {
	m, ok := asMap(value)
	if !ok {
		return nil, []Issue{typeIssue(path, "object", value)}
	}

	out := make(map[string]any, len(o.fields))
	var issues []Issue

	for _, name := range o.FieldNames() {
		field := o.fields[name]
		fieldPath := path.Child(name)

		raw, present := m[name]
		if !present || raw == nil {
			v, keep, fieldIssues := absentValue(field, fieldPath)
			issues = append(issues, fieldIssues...)
			if keep {
				out[name] = v
			}
			continue
		}

		v, fieldIssues := field.Validate(raw, fieldPath)
		if len(fieldIssues) > 0 {
			issues = append(issues, fieldIssues...)
			continue
		}
		out[name] = v
	}

	if o.catchall != nil {
		for _, key := range sortedKeys(m) {
			if _, declared := o.fields[key]; declared || m[key] == nil {
				continue
			}
			v, extraIssues := o.catchall.Validate(m[key], path.Child(key))
			if len(extraIssues) > 0 {
				issues = append(issues, extraIssues...)
				continue
			}
			out[key] = v
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func copyFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for name, s := range fields {
		out[name] = s
	}
	return out
}

// absentValue resolves a missing object field.
func absentValue(s Schema, path Path) (any, bool, []Issue) {
	if h, ok := s.(absentHandler); ok {
		return h.absent(path)
	}
	return nil, false, []Issue{requiredIssue(path, s.Describe())}
}

type arraySchema struct {
	elem Schema
}

// Array accepts lists whose elements all satisfy elem.
func Array(elem Schema) Schema { return arraySchema{elem: elem} }

func (a arraySchema) Describe() string { return "array<" + a.elem.Describe() + ">" }

func (a arraySchema) Validate(value any, path Path) (any, []Issue) {
	items, ok := asSlice(value)
	if !ok {
		return nil, []Issue{typeIssue(path, "array", value)}
	}

	out := make([]any, len(items))
	var issues []Issue
	for i, item := range items {
		v, itemIssues := a.elem.Validate(item, path.Index(i))
		if len(itemIssues) > 0 {
			issues = append(issues, itemIssues...)
			continue
		}
		out[i] = v
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

type unionSchema struct {
	options []Schema
}

// Union accepts values matching at least one option. Options are tried in
// order and the first match determines the result.
func Union(options ...Schema) Schema { return unionSchema{options: options} }

func (u unionSchema) Describe() string {
	parts := make([]string, len(u.options))
	for i, opt := range u.options {
		parts[i] = opt.Describe()
	}
	return strings.Join(parts, " | ")
}

func (u unionSchema) Validate(value any, path Path) (any, []Issue) {
	branches := make([][]Issue, 0, len(u.options))
	for _, opt := range u.options {
		v, issues := opt.Validate(value, path)
		if len(issues) == 0 {
			return v, nil
		}
		branches = append(branches, issues)
	}
	return nil, []Issue{{
		Path:     path.String(),
		Code:     CodeInvalidUnion,
		Expected: u.Describe(),
		Received: typeName(value),
		Message:  printer.Sprintf("Invalid input, expected %s", u.Describe()),
		Branches: branches,
	}}
}

type optionalSchema struct {
	inner Schema
}

// Optional marks an object field as optional: when absent it is omitted from
// the result instead of being reported as required.
func Optional(s Schema) Schema { return optionalSchema{inner: s} }

func (o optionalSchema) Describe() string { return o.inner.Describe() + "?" }

func (o optionalSchema) Validate(value any, path Path) (any, []Issue) {
	return o.inner.Validate(value, path)
}

func (optionalSchema) absent(Path) (any, bool, []Issue) {
	return nil, false, nil
}

type defaultSchema struct {
	inner Schema
	value any
}

// Default fills an absent object field with value, validated through s.
func Default(s Schema, value any) Schema { return defaultSchema{inner: s, value: value} }

func (d defaultSchema) Describe() string { return d.inner.Describe() }

func (d defaultSchema) Validate(value any, path Path) (any, []Issue) {
	return d.inner.Validate(value, path)
}

func (d defaultSchema) absent(path Path) (any, bool, []Issue) {
	v, issues := d.inner.Validate(Clone(d.value), path)
	return v, len(issues) == 0, issues
}
