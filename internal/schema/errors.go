package schema

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Code classifies a validation issue.
type Code string

const (
	CodeRequired       Code = "required"
	CodeInvalidType    Code = "invalid_type"
	CodeInvalidLiteral Code = "invalid_literal"
	CodeInvalidUnion   Code = "invalid_union"
	CodeNotInteger     Code = "not_integer"
	CodeOutOfRange     Code = "out_of_range"
)

const issueCountKey = "%d validation issues"

var printer *message.Printer

func init() {
	_ = message.Set(language.English, issueCountKey,
		plural.Selectf(1, "%d",
			"=1", "1 validation issue",
			"other", "%d validation issues",
		))
	printer = message.NewPrinter(language.English)
}

// Issue is a single violated constraint.
type Issue struct {
	Path     string // JSON pointer of the offending value ("" for the root)
	Code     Code
	Expected string
	Received string
	Message  string

	// Branches holds the issues of every rejected union option, in option order.
	Branches [][]Issue
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError reports every issue found while validating a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return printer.Sprintf(issueCountKey, len(e.Issues)) + ": " + strings.Join(parts, "; ")
}

// Paths returns the path of every issue in order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		paths[i] = issue.Path
	}
	return paths
}

func requiredIssue(path Path, expected string) Issue {
	return Issue{
		Path:     path.String(),
		Code:     CodeRequired,
		Expected: expected,
		Received: "undefined",
		Message:  "Required",
	}
}

func typeIssue(path Path, expected string, value any) Issue {
	received := typeName(value)
	return Issue{
		Path:     path.String(),
		Code:     CodeInvalidType,
		Expected: expected,
		Received: received,
		Message:  printer.Sprintf("Expected %s, received %s", expected, received),
	}
}
