// Package apptest builds Apps and extension instances for tests. Every helper
// starts from realistic defaults and takes functional overrides.
package apptest

import (
	"path/filepath"
	"testing"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/appconfig"
	"github.com/appforge-dev/appforge/internal/deps"
	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/extensions/specifications"
)

// ProjectDirectory is the default app directory of test apps.
const ProjectDirectory = "/tmp/project"

// App returns an App with default values; mutate applies overrides.
func App(t testing.TB, mutate ...func(*app.Options)) *app.App {
	t.Helper()
	opts := app.Options{
		Name:                      "App",
		IDEnvironmentVariableName: "APPFORGE_API_KEY",
		Directory:                 ProjectDirectory,
		PackageManager:            deps.Yarn,
		Configuration:             appconfig.Configuration{Scopes: "", ExtensionDirectories: []string{}},
		ConfigurationPath:         filepath.Join(ProjectDirectory, "appforge.app.toml"),
		NodeDependencies:          map[string]string{},
	}
	for _, m := range mutate {
		m(&opts)
	}
	return app.New(opts)
}

// UIOptions overrides parts of a test UI extension.
type UIOptions struct {
	Directory     string
	Configuration map[string]any
	Spec          *extensions.Spec
}

// UIExtension returns a product_subscription UI extension in
// /tmp/project/extensions/test-ui-extension unless overridden.
func UIExtension(t testing.TB, o UIOptions) *extensions.UIExtension {
	t.Helper()
	if o.Directory == "" {
		o.Directory = filepath.Join(ProjectDirectory, "extensions", "test-ui-extension")
	}
	if o.Spec == nil {
		o.Spec = specifications.ProductSubscription
	}
	if o.Configuration == nil {
		o.Configuration = map[string]any{
			"name":       "test-ui-extension",
			"type":       o.Spec.Identifier(),
			"metafields": []any{},
			"capabilities": map[string]any{
				"block_progress": false,
				"network_access": false,
			},
		}
	}

	ext, err := extensions.NewUIExtension(extensions.InstanceOptions{
		Configuration:     parse(t, o.Spec, o.Configuration),
		ConfigurationPath: filepath.Join(o.Directory, "appforge.ui.extension.toml"),
		Directory:         o.Directory,
		Specification:     o.Spec,
	})
	if err != nil {
		t.Fatalf("apptest.UIExtension: %v", err)
	}
	return ext
}

// ThemeExtension returns a theme extension named "theme extension name".
func ThemeExtension(t testing.TB, directory string) *extensions.ThemeExtension {
	t.Helper()
	if directory == "" {
		directory = "./my-extension"
	}
	spec := specifications.ThemeAppExtension
	ext, err := extensions.NewThemeExtension(extensions.InstanceOptions{
		Configuration:     parse(t, spec, map[string]any{"name": "theme extension name", "type": "theme"}),
		ConfigurationPath: filepath.Join(directory, "appforge.theme.extension.toml"),
		Directory:         directory,
		Specification:     spec,
	})
	if err != nil {
		t.Fatalf("apptest.ThemeExtension: %v", err)
	}
	return ext
}

// FunctionExtension returns a product_discounts function extension.
func FunctionExtension(t testing.TB, directory string) *extensions.FunctionExtension {
	t.Helper()
	if directory == "" {
		directory = "./my-function"
	}
	spec := specifications.ProductDiscounts
	ext, err := extensions.NewFunctionExtension(extensions.InstanceOptions{
		Configuration: parse(t, spec, map[string]any{
			"name":            "test function extension",
			"description":     "description",
			"type":            "product_discounts",
			"build":           map[string]any{"command": `echo "hello world"`},
			"apiVersion":      "2022-07",
			"configurationUi": true,
		}),
		ConfigurationPath: filepath.Join(directory, "appforge.function.extension.toml"),
		Directory:         directory,
		Specification:     spec,
	})
	if err != nil {
		t.Fatalf("apptest.FunctionExtension: %v", err)
	}
	return ext
}

func parse(t testing.TB, spec *extensions.Spec, raw map[string]any) extensions.Configuration {
	t.Helper()
	cfg, err := spec.ParseConfiguration(raw)
	if err != nil {
		t.Fatalf("parsing %s configuration: %v", spec.Identifier(), err)
	}
	return cfg
}
