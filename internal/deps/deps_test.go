package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadNodeDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"dependencies": {"react": "^17.0.0", "shared": "1.0.0"},
		"devDependencies": {"typescript": "~4.9.0", "shared": "2.0.0"}
	}`)

	got, err := ReadNodeDependencies(dir)
	if err != nil {
		t.Fatalf("ReadNodeDependencies error: %v", err)
	}
	want := map[string]string{"react": "^17.0.0", "typescript": "~4.9.0", "shared": "2.0.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadNodeDependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNodeDependencies_Missing(t *testing.T) {
	got, err := ReadNodeDependencies(t.TempDir())
	if err != nil {
		t.Fatalf("ReadNodeDependencies error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadNodeDependencies = %v, want empty", got)
	}
}

func TestReadNodeDependencies_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{`)
	if _, err := ReadNodeDependencies(dir); err == nil {
		t.Fatal("expected error for invalid package.json, got nil")
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  PackageManager
	}{
		{"yarn lockfile", map[string]string{"yarn.lock": ""}, Yarn},
		{"pnpm lockfile", map[string]string{"pnpm-lock.yaml": ""}, PNPM},
		{"npm lockfile", map[string]string{"package-lock.json": "{}"}, NPM},
		{"packageManager field", map[string]string{"package.json": `{"packageManager":"pnpm@8.6.0"}`}, PNPM},
		{"unknown packageManager", map[string]string{"package.json": `{"packageManager":"bun@1.0.0"}`}, NPM},
		{"nothing", nil, NPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			got, err := DetectPackageManager(dir)
			if err != nil {
				t.Fatalf("DetectPackageManager error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectPackageManager() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsesWorkspaces(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  bool
	}{
		{"workspaces array", map[string]string{"package.json": `{"workspaces":["extensions/*"]}`}, true},
		{"workspaces object", map[string]string{"package.json": `{"workspaces":{"packages":["web"]}}`}, true},
		{"empty workspaces", map[string]string{"package.json": `{"workspaces":[]}`}, false},
		{"no workspaces", map[string]string{"package.json": `{}`}, false},
		{"pnpm workspace", map[string]string{"pnpm-workspace.yaml": "packages: []"}, true},
		{"no package.json", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			got, err := UsesWorkspaces(dir)
			if err != nil {
				t.Fatalf("UsesWorkspaces error: %v", err)
			}
			if got != tt.want {
				t.Errorf("UsesWorkspaces() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		required string
		declared string
		want     bool
		wantErr  bool
	}{
		{"caret match", "^0.20.0", "^0.20.3", true, false},
		{"caret too new", "^0.20.0", "^0.21.0", false, false},
		{"exact", "^1.0.1", "1.2.0", true, false},
		{"tilde", "^1.0.0", "~1.4.2", true, false},
		{"v prefix", "^1.0.0", "v1.0.0", true, false},
		{"wildcard", "^1.0.0", "1.x", true, false},
		{"or range", "^2.0.0", "^2.1.0 || ^3.0.0", true, false},
		{"bad required", "not a range", "1.0.0", false, true},
		{"bad declared", "^1.0.0", "latest", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Satisfies(tt.required, tt.declared)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.required, tt.declared, got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	deps := map[string]string{"@appforge/checkout-ui-extensions-react": "^0.20.1"}

	tests := []struct {
		name     string
		required string
		want     Status
	}{
		{"@appforge/checkout-ui-extensions-react", "^0.20.0", StatusSatisfied},
		{"@appforge/checkout-ui-extensions-react", "^1.0.0", StatusUnsatisfied},
		{"@appforge/admin-ui-extensions-react", "^1.0.1", StatusMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.required, func(t *testing.T) {
			got, err := Check(deps, tt.name, tt.required)
			if err != nil {
				t.Fatalf("Check error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}
