package appconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestLoad_Valid(t *testing.T) {
	tests := []struct {
		file string
		want Configuration
	}{
		{
			file: "valid-app.toml",
			want: Configuration{
				Name:                 "my-app",
				Scopes:               "write_products,read_orders",
				ExtensionDirectories: []string{"extensions/*", "custom/*"},
				WebDirectories:       []string{"web", "web/*"},
			},
		},
		{
			file: "valid-minimal.toml",
			want: Configuration{
				ExtensionDirectories: []string{"extensions/*"},
				WebDirectories:       []string{"web", "web/*"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := Load(testPath(tt.file))
			if err != nil {
				t.Fatalf("Load(%s) error: %v", tt.file, err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		file      string
		wantPaths []string
	}{
		{"invalid-bad-scopes.toml", []string{"/scopes"}},
		{"invalid-bad-directories.toml", []string{"/extension_directories", "/web_directories/0"}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Load(testPath(tt.file))
			var invalid *InvalidError
			if !errors.As(err, &invalid) {
				t.Fatalf("Load(%s) error = %v, want *InvalidError", tt.file, err)
			}
			var paths []string
			for _, issue := range invalid.Issues {
				paths = append(paths, issue.Path)
				if issue.Message == "" {
					t.Errorf("issue at %s has an empty message", issue.Path)
				}
			}
			if diff := cmp.Diff(tt.wantPaths, paths); diff != "" {
				t.Errorf("issue paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(testPath("invalid-not-toml.toml"))
	if err == nil {
		t.Fatal("expected error for invalid TOML, got nil")
	}
	var invalid *InvalidError
	if errors.As(err, &invalid) {
		t.Errorf("syntax errors should not be reported as schema issues: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(testPath("nonexistent.toml")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestLoadWeb(t *testing.T) {
	got, err := LoadWeb(testPath("valid-web.toml"))
	if err != nil {
		t.Fatalf("LoadWeb error: %v", err)
	}
	want := WebConfiguration{Type: WebBackend, Commands: WebCommands{Dev: "npm run dev", Build: "npm run build"}}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("LoadWeb mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadWeb(testPath("invalid-web-missing-dev.toml"))
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("LoadWeb error = %v, want *InvalidError", err)
	}
	if len(invalid.Issues) < 2 {
		t.Errorf("got %d issues, want type and commands.dev issues", len(invalid.Issues))
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find on empty dir error = %v, want ErrNotFound", err)
	}

	path := filepath.Join(dir, "appforge.app.toml")
	if err := os.WriteFile(path, []byte(`scopes = ""`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != path {
		t.Errorf("Find() = %q, want %q", got, path)
	}
}

func TestValidate_SchemaCompiles(t *testing.T) {
	for _, name := range []string{appSchema, webSchema} {
		s, err := getSchema(name)
		if err != nil {
			t.Fatalf("getSchema(%s) error: %v", name, err)
		}
		if s == nil {
			t.Fatalf("getSchema(%s) returned nil schema", name)
		}
	}
}
