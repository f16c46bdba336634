package extensions

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadLocalesConfig(t *testing.T) {
	dir := t.TempDir()
	locales := filepath.Join(dir, "locales")
	if err := os.MkdirAll(locales, 0o755); err != nil {
		t.Fatal(err)
	}
	en := `{"greeting":"Hello"}`
	fr := `{"greeting":"Bonjour"}`
	if err := os.WriteFile(filepath.Join(locales, "en.default.json"), []byte(en), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(locales, "fr.json"), []byte(fr), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadLocalesConfig(dir, "checkout_ui")
	if err != nil {
		t.Fatalf("LoadLocalesConfig error: %v", err)
	}
	want := map[string]any{
		"default_locale": "en",
		"translations": map[string]any{
			"en": base64.StdEncoding.EncodeToString([]byte(en)),
			"fr": base64.StdEncoding.EncodeToString([]byte(fr)),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadLocalesConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLocalesConfig_NoLocales(t *testing.T) {
	got, err := LoadLocalesConfig(t.TempDir(), "checkout_ui")
	if err != nil {
		t.Fatalf("LoadLocalesConfig error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadLocalesConfig = %v, want empty map", got)
	}
}

func TestLoadLocales_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing default",
			files:   fstest.MapFS{"locales/en.json": {Data: []byte(`{}`)}},
			wantErr: "missing default locale",
		},
		{
			name: "two defaults",
			files: fstest.MapFS{
				"locales/en.default.json": {Data: []byte(`{}`)},
				"locales/fr.default.json": {Data: []byte(`{}`)},
			},
			wantErr: "only one default locale",
		},
		{
			name: "duplicate code",
			files: fstest.MapFS{
				"locales/en.json":         {Data: []byte(`{"a":"1"}`)},
				"locales/en.default.json": {Data: []byte(`{"a":"2"}`)},
			},
			wantErr: `duplicate locale code "en" in locales/en.default.json and locales/en.json`,
		},
		{
			name:    "invalid json",
			files:   fstest.MapFS{"locales/en.default.json": {Data: []byte(`{`)}},
			wantErr: "not valid JSON",
		},
		{
			name:    "invalid code",
			files:   fstest.MapFS{"locales/e!.default.json": {Data: []byte(`{}`)}},
			wantErr: "invalid locale code",
		},
		{
			name: "too large",
			files: fstest.MapFS{
				"locales/en.default.json": {Data: []byte(`{"k":"` + strings.Repeat("a", MaxLocalesBundleSize) + `"}`)},
			},
			wantErr: "exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadLocales(tt.files, "checkout_ui")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("loadLocales error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
