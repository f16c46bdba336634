package deps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// PackageManager is a Node.js package manager.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	PNPM PackageManager = "pnpm"
)

// lockfiles maps lockfile names to their package manager, checked in order.
var lockfiles = []struct {
	name string
	pm   PackageManager
}{
	{"yarn.lock", Yarn},
	{"pnpm-lock.yaml", PNPM},
	{"package-lock.json", NPM},
}

// DetectPackageManager inspects lockfiles, then the packageManager field of
// package.json, and falls back to npm.
func DetectPackageManager(directory string) (PackageManager, error) {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(directory, lf.name)); err == nil {
			return lf.pm, nil
		}
	}

	pkg, err := ReadPackageJSON(directory)
	if errors.Is(err, os.ErrNotExist) {
		return NPM, nil
	}
	if err != nil {
		return "", err
	}

	// "pnpm@8.6.0" -> pnpm
	name, _, _ := strings.Cut(pkg.PackageManager, "@")
	switch PackageManager(name) {
	case Yarn, PNPM, NPM:
		return PackageManager(name), nil
	default:
		return NPM, nil
	}
}
