package extensions

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/language"
)

// MaxLocalesBundleSize caps the combined size of an extension's locale files.
const MaxLocalesBundleSize = 16 * 1024

const defaultLocaleSuffix = ".default"

// LoadLocalesConfig reads locales/*.json below directory and returns the
// localization section of a deploy payload:
//
//	{"default_locale": "en", "translations": {"en": "<base64>", ...}}
//
// An extension without locale files gets an empty map. handle names the
// extension in error messages.
func LoadLocalesConfig(directory, handle string) (map[string]any, error) {
	return loadLocales(os.DirFS(directory), handle)
}

func loadLocales(fsys fs.FS, handle string) (map[string]any, error) {
	files, err := doublestar.Glob(fsys, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("listing locales of %s: %w", handle, err)
	}
	if len(files) == 0 {
		return map[string]any{}, nil
	}
	sort.Strings(files)

	var defaults []string
	translations := map[string]any{}
	seen := map[string]string{}
	total := 0
	for _, file := range files {
		code := strings.TrimSuffix(path.Base(file), ".json")
		if strings.HasSuffix(code, defaultLocaleSuffix) {
			code = strings.TrimSuffix(code, defaultLocaleSuffix)
			defaults = append(defaults, code)
		}
		if _, err := language.Parse(code); err != nil {
			return nil, fmt.Errorf("%s: invalid locale code %q in %s", handle, code, file)
		}
		if prev, ok := seen[code]; ok {
			return nil, fmt.Errorf("%s: duplicate locale code %q in %s and %s", handle, code, prev, file)
		}
		seen[code] = file

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("%s: %s is not valid JSON", handle, file)
		}
		total += len(data)
		if total > MaxLocalesBundleSize {
			return nil, fmt.Errorf("%s: locale files exceed %d bytes", handle, MaxLocalesBundleSize)
		}
		translations[code] = base64.StdEncoding.EncodeToString(data)
	}

	switch len(defaults) {
	case 0:
		return nil, fmt.Errorf("%s: missing default locale, add a locales/<code>.default.json file", handle)
	case 1:
	default:
		return nil, fmt.Errorf("%s: only one default locale is allowed, found %s", handle, strings.Join(defaults, ", "))
	}

	return map[string]any{
		"default_locale": defaults[0],
		"translations":   translations,
	}, nil
}
