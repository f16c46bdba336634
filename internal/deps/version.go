package deps

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Status is the result of checking one required dependency.
type Status string

const (
	StatusSatisfied   Status = "satisfied"
	StatusUnsatisfied Status = "unsatisfied"
	StatusMissing     Status = "missing"
)

// Satisfies reports whether the lowest version allowed by declared (a
// package.json range such as "^0.21.0") falls within required.
func Satisfies(required, declared string) (bool, error) {
	constraint, err := semver.NewConstraint(required)
	if err != nil {
		return false, fmt.Errorf("parsing required range %q: %w", required, err)
	}
	v, err := lowestVersion(declared)
	if err != nil {
		return false, fmt.Errorf("parsing declared version %q: %w", declared, err)
	}
	return constraint.Check(v), nil
}

// Check looks up name in dependencies and compares it against required.
func Check(dependencies map[string]string, name, required string) (Status, error) {
	declared, ok := dependencies[name]
	if !ok {
		return StatusMissing, nil
	}
	ok, err := Satisfies(required, declared)
	if err != nil {
		return "", err
	}
	if !ok {
		return StatusUnsatisfied, nil
	}
	return StatusSatisfied, nil
}

// lowestVersion strips range operators and a leading "v" and parses what is
// left. Wildcards become zeros: "1.x" -> 1.0.0.
func lowestVersion(declared string) (*semver.Version, error) {
	v := strings.TrimSpace(declared)
	// Only the first alternative of "a || b" and the lower bound of "a - b".
	v, _, _ = strings.Cut(v, "||")
	v, _, _ = strings.Cut(strings.TrimSpace(v), " ")
	v = strings.TrimLeft(v, "^~>=<v ")
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	core = strings.NewReplacer("x", "0", "X", "0", "*", "0").Replace(core)
	return semver.NewVersion(core + suffix)
}
