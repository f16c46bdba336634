package loader

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/appforge-dev/appforge/internal/branding"
	"github.com/appforge-dev/appforge/internal/extensions"
)

// Format is the encoding of a configuration file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// extensionFileSuffixes lists accepted file suffixes in precedence order.
var extensionFileSuffixes = []struct {
	suffix string
	format Format
}{
	{"toml", FormatTOML},
	{"yaml", FormatYAML},
	{"yml", FormatYAML},
	{"json", FormatJSON},
}

// candidate is a discovered extension configuration file.
type candidate struct {
	category extensions.Category
	path     string // absolute
	format   Format
}

// discoverExtensions globs every extension configuration file below root.
// Results follow the order of patterns, then categories, then file paths.
func discoverExtensions(fsys fs.FS, root string, patterns []string) ([]candidate, error) {
	var out []candidate
	seen := map[string]bool{}

	for _, pattern := range patterns {
		for _, category := range extensions.Categories {
			base := branding.ExtensionConfigBase(string(category))
			var found []candidate
			for _, s := range extensionFileSuffixes {
				glob := path.Join(filepath.ToSlash(pattern), base+"."+s.suffix)
				matches, err := doublestar.Glob(fsys, glob)
				if err != nil {
					return nil, fmt.Errorf("bad extension directory pattern %q: %w", pattern, err)
				}
				for _, m := range matches {
					found = append(found, candidate{
						category: category,
						path:     filepath.Join(root, filepath.FromSlash(m)),
						format:   s.format,
					})
				}
			}
			sort.SliceStable(found, func(i, j int) bool { return found[i].path < found[j].path })
			for _, c := range found {
				if seen[c.path] {
					continue
				}
				seen[c.path] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// discoverWebs globs web configuration files below root.
func discoverWebs(fsys fs.FS, root string, patterns []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		glob := path.Join(filepath.ToSlash(pattern), branding.WebConfigFile())
		matches, err := doublestar.Glob(fsys, glob)
		if err != nil {
			return nil, fmt.Errorf("bad web directory pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			p := filepath.Join(root, filepath.FromSlash(m))
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}
