package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/app/apptest"
	"github.com/appforge-dev/appforge/internal/extensions"
)

func TestApp_HasExtensions(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(*app.Options)
		wantUI  bool
		wantAny bool
	}{
		{
			name: "ui and theme",
			opts: func(o *app.Options) {
				o.UIExtensions = []*extensions.UIExtension{apptest.UIExtension(t, apptest.UIOptions{})}
				o.ThemeExtensions = []*extensions.ThemeExtension{apptest.ThemeExtension(t, "")}
			},
			wantUI:  true,
			wantAny: true,
		},
		{
			name:    "function only",
			opts:    func(o *app.Options) { o.FunctionExtensions = []*extensions.FunctionExtension{apptest.FunctionExtension(t, "")} },
			wantUI:  false,
			wantAny: true,
		},
		{
			name:    "empty",
			opts:    func(*app.Options) {},
			wantUI:  false,
			wantAny: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := apptest.App(t, tt.opts)
			if got := a.HasUIExtensions(); got != tt.wantUI {
				t.Errorf("HasUIExtensions() = %v, want %v", got, tt.wantUI)
			}
			if got := a.HasExtensions(); got != tt.wantAny {
				t.Errorf("HasExtensions() = %v, want %v", got, tt.wantAny)
			}
		})
	}
}

func TestApp_DuplicateLocalIdentifiers(t *testing.T) {
	dir := filepath.Join(apptest.ProjectDirectory, "extensions", "checkout")
	first := apptest.UIExtension(t, apptest.UIOptions{Directory: dir})
	second := apptest.UIExtension(t, apptest.UIOptions{Directory: filepath.Join(apptest.ProjectDirectory, "other", "checkout")})
	third := apptest.UIExtension(t, apptest.UIOptions{Directory: filepath.Join(apptest.ProjectDirectory, "extensions", "unique")})

	a := apptest.App(t, func(o *app.Options) {
		o.UIExtensions = []*extensions.UIExtension{first, second, third}
	})

	ui := a.UIExtensions()
	if len(ui) != 2 || ui[0] != first || ui[1] != third {
		t.Fatalf("UIExtensions() = %v, want [first third]", ui)
	}
	if got := a.Errors().Len(); got != 1 {
		t.Fatalf("Errors().Len() = %d, want 1", got)
	}

	var dup *app.DuplicateIdentifierError
	if !errors.As(a.Errors().Err(), &dup) {
		t.Fatalf("error = %v, want *DuplicateIdentifierError", a.Errors().Err())
	}
	if dup.LocalIdentifier != "checkout" || dup.Category != extensions.CategoryUI {
		t.Errorf("DuplicateIdentifierError = %+v", dup)
	}
	if dup.Path != second.ConfigurationPath() || dup.FirstPath != first.ConfigurationPath() {
		t.Errorf("paths = %q, %q; want %q, %q", dup.Path, dup.FirstPath, second.ConfigurationPath(), first.ConfigurationPath())
	}
}

func TestApp_SameLocalIdentifierAcrossCategories(t *testing.T) {
	a := apptest.App(t, func(o *app.Options) {
		o.UIExtensions = []*extensions.UIExtension{apptest.UIExtension(t, apptest.UIOptions{Directory: "/tmp/project/extensions/shared"})}
		o.ThemeExtensions = []*extensions.ThemeExtension{apptest.ThemeExtension(t, "/tmp/project/extensions/shared")}
	})
	if !a.Errors().IsEmpty() {
		t.Errorf("unexpected errors: %v", a.Errors().Err())
	}
	if got := len(a.AllExtensions()); got != 2 {
		t.Errorf("len(AllExtensions()) = %d, want 2", got)
	}
}

func TestApp_AllExtensionsOrder(t *testing.T) {
	fn := apptest.FunctionExtension(t, "/tmp/project/extensions/fn")
	theme := apptest.ThemeExtension(t, "/tmp/project/extensions/theme")
	ui := apptest.UIExtension(t, apptest.UIOptions{})

	a := apptest.App(t, func(o *app.Options) {
		o.FunctionExtensions = []*extensions.FunctionExtension{fn}
		o.ThemeExtensions = []*extensions.ThemeExtension{theme}
		o.UIExtensions = []*extensions.UIExtension{ui}
	})

	var got []string
	for _, e := range a.AllExtensions() {
		got = append(got, e.LocalIdentifier())
	}
	if diff := cmp.Diff([]string{"test-ui-extension", "theme", "fn"}, got); diff != "" {
		t.Errorf("AllExtensions order mismatch (-want +got):\n%s", diff)
	}

	e, ok := a.ExtensionByID("theme")
	if !ok || e.Category() != extensions.CategoryTheme {
		t.Errorf("ExtensionByID(theme) = %v, %v", e, ok)
	}
	if _, ok := a.ExtensionByID("missing"); ok {
		t.Error("ExtensionByID(missing) found an extension")
	}
}

func TestApp_UpdateDependenciesReplacesMap(t *testing.T) {
	reader := func(_ context.Context, dir string) (map[string]string, error) {
		if dir != apptest.ProjectDirectory {
			t.Errorf("reader called with %q", dir)
		}
		return map[string]string{"react": "^18.0.0"}, nil
	}
	a := apptest.App(t, func(o *app.Options) {
		o.NodeDependencies = map[string]string{"react": "^17.0.0", "stale": "1.0.0"}
		o.DependencyReader = reader
	})

	if err := a.UpdateDependencies(context.Background()); err != nil {
		t.Fatalf("UpdateDependencies error: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"react": "^18.0.0"}, a.NodeDependencies()); diff != "" {
		t.Errorf("NodeDependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_UpdateDependenciesError(t *testing.T) {
	wantErr := errors.New("lockfile unreadable")
	a := apptest.App(t, func(o *app.Options) {
		o.NodeDependencies = map[string]string{"react": "^17.0.0"}
		o.DependencyReader = func(context.Context, string) (map[string]string, error) { return nil, wantErr }
	})

	if err := a.UpdateDependencies(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("UpdateDependencies error = %v, want %v", err, wantErr)
	}
	if got := a.NodeDependencies()["react"]; got != "^17.0.0" {
		t.Errorf("dependencies changed after a failed update: react = %q", got)
	}
}

func TestApp_Defaults(t *testing.T) {
	a := app.New(app.Options{Directory: "/tmp/project"})
	if got := a.IDEnvironmentVariableName(); got != "APPFORGE_API_KEY" {
		t.Errorf("IDEnvironmentVariableName() = %q, want %q", got, "APPFORGE_API_KEY")
	}
	if got := a.PackageManager(); got != "npm" {
		t.Errorf("PackageManager() = %q, want npm", got)
	}
	if a.Errors() == nil || !a.Errors().IsEmpty() {
		t.Error("Errors() should be an empty collection")
	}
	if a.Dotenv() != nil {
		t.Error("Dotenv() should be nil")
	}
}

func TestLoadErrors(t *testing.T) {
	errs := app.NewLoadErrors()
	errs.Add("b.toml", errors.New("first"))
	errs.Add("a.toml", &app.UnknownTypeError{Path: "a.toml", Category: extensions.CategoryUI, Type: "nope"})
	errs.Add("b.toml", errors.New("second"))
	errs.Add("c.toml", nil)

	if diff := cmp.Diff([]string{"b.toml", "a.toml"}, errs.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(errs.Get("a.toml"), app.ErrUnsupportedType) {
		t.Errorf("errors.Is(UnknownTypeError, ErrUnsupportedType) = false")
	}
	if got := errs.Get("b.toml").Error(); got != "first\nsecond" {
		t.Errorf("joined error = %q, want %q", got, "first\nsecond")
	}
}
