package deps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageJSON is the subset of package.json the CLI reads.
type PackageJSON struct {
	Name            string            `json:"name"`
	PackageManager  string            `json:"packageManager"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Workspaces      json.RawMessage   `json:"workspaces"`
}

// ReadPackageJSON parses directory/package.json. A missing file yields
// os.ErrNotExist.
func ReadPackageJSON(directory string) (*PackageJSON, error) {
	path := filepath.Join(directory, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pkg, nil
}

// ReadNodeDependencies returns dependencies and devDependencies merged, dev
// entries winning. A project without package.json has no dependencies.
func ReadNodeDependencies(directory string) (map[string]string, error) {
	pkg, err := ReadPackageJSON(directory)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, version := range pkg.Dependencies {
		out[name] = version
	}
	for name, version := range pkg.DevDependencies {
		out[name] = version
	}
	return out, nil
}

// UsesWorkspaces reports whether the project declares npm/yarn workspaces or
// has a pnpm workspace file.
func UsesWorkspaces(directory string) (bool, error) {
	if _, err := os.Stat(filepath.Join(directory, "pnpm-workspace.yaml")); err == nil {
		return true, nil
	}

	pkg, err := ReadPackageJSON(directory)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ws := strings.TrimSpace(string(pkg.Workspaces))
	return ws != "" && ws != "null" && ws != "[]" && ws != "{}", nil
}
