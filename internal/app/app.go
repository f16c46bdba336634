package app

import (
	"context"
	"fmt"

	"github.com/appforge-dev/appforge/internal/appconfig"
	"github.com/appforge-dev/appforge/internal/branding"
	"github.com/appforge-dev/appforge/internal/deps"
	"github.com/appforge-dev/appforge/internal/extensions"
)

// DependencyReader re-reads the declared Node.js dependencies of directory.
type DependencyReader func(ctx context.Context, directory string) (map[string]string, error)

// ReadNodeDependencies is the default DependencyReader.
func ReadNodeDependencies(_ context.Context, directory string) (map[string]string, error) {
	return deps.ReadNodeDependencies(directory)
}

// Web is a web process of the app (frontend or backend).
type Web struct {
	Directory         string                     `json:"directory"`
	ConfigurationPath string                     `json:"configuration_path"`
	Configuration     appconfig.WebConfiguration `json:"configuration"`
}

// Dotenv holds the variables parsed from the app's .env file.
type Dotenv struct {
	Path      string            `json:"path"`
	Variables map[string]string `json:"variables"`
}

// Options are the inputs of New. Zero values get sensible defaults.
type Options struct {
	Name                      string
	IDEnvironmentVariableName string
	Directory                 string
	PackageManager            deps.PackageManager
	Configuration             appconfig.Configuration
	ConfigurationPath         string
	NodeDependencies          map[string]string
	Webs                      []Web
	UIExtensions              []*extensions.UIExtension
	ThemeExtensions           []*extensions.ThemeExtension
	FunctionExtensions        []*extensions.FunctionExtension
	UsesWorkspaces            bool
	Dotenv                    *Dotenv
	Errors                    *LoadErrors
	DependencyReader          DependencyReader
}

// App is the aggregate root of a loaded project.
type App struct {
	name              string
	idEnvVar          string
	directory         string
	packageManager    deps.PackageManager
	configuration     appconfig.Configuration
	configurationPath string
	nodeDependencies  map[string]string
	webs              []Web
	ui                []*extensions.UIExtension
	theme             []*extensions.ThemeExtension
	function          []*extensions.FunctionExtension
	usesWorkspaces    bool
	dotenv            *Dotenv
	errors            *LoadErrors
	readDependencies  DependencyReader
}

// New builds an App. Extensions sharing a local identifier within a category
// are reported as DuplicateIdentifierError; the first one is kept.
func New(opts Options) *App {
	a := &App{
		name:              opts.Name,
		idEnvVar:          opts.IDEnvironmentVariableName,
		directory:         opts.Directory,
		packageManager:    opts.PackageManager,
		configuration:     opts.Configuration,
		configurationPath: opts.ConfigurationPath,
		nodeDependencies:  copyStrings(opts.NodeDependencies),
		webs:              append([]Web(nil), opts.Webs...),
		usesWorkspaces:    opts.UsesWorkspaces,
		dotenv:            opts.Dotenv,
		errors:            opts.Errors,
		readDependencies:  opts.DependencyReader,
	}
	if a.idEnvVar == "" {
		a.idEnvVar = branding.EnvVar("API_KEY")
	}
	if a.packageManager == "" {
		a.packageManager = deps.NPM
	}
	if a.errors == nil {
		a.errors = NewLoadErrors()
	}
	if a.readDependencies == nil {
		a.readDependencies = ReadNodeDependencies
	}

	a.ui = dedupe(opts.UIExtensions, a.errors)
	a.theme = dedupe(opts.ThemeExtensions, a.errors)
	a.function = dedupe(opts.FunctionExtensions, a.errors)
	return a
}

func dedupe[E extensions.Extension](list []E, errs *LoadErrors) []E {
	out := make([]E, 0, len(list))
	first := map[string]E{}
	for _, ext := range list {
		id := ext.LocalIdentifier()
		if prev, ok := first[id]; ok {
			path := errorPath(ext)
			errs.Add(path, &DuplicateIdentifierError{
				Category:        ext.Category(),
				LocalIdentifier: id,
				Path:            path,
				FirstPath:       errorPath(prev),
			})
			continue
		}
		first[id] = ext
		out = append(out, ext)
	}
	return out
}

func errorPath(ext extensions.Extension) string {
	if p := ext.ConfigurationPath(); p != "" {
		return p
	}
	return ext.Directory()
}

// Name returns the app name.
func (a *App) Name() string { return a.name }

// IDEnvironmentVariableName names the variable holding the app's API key.
func (a *App) IDEnvironmentVariableName() string { return a.idEnvVar }

// Directory returns the project root.
func (a *App) Directory() string { return a.directory }

// PackageManager returns the detected package manager.
func (a *App) PackageManager() deps.PackageManager { return a.packageManager }

// Configuration returns the app configuration.
func (a *App) Configuration() appconfig.Configuration {
	c := a.configuration
	c.ExtensionDirectories = append([]string(nil), c.ExtensionDirectories...)
	c.WebDirectories = append([]string(nil), c.WebDirectories...)
	return c
}

// ConfigurationPath returns the path of the app configuration file.
func (a *App) ConfigurationPath() string { return a.configurationPath }

// NodeDependencies returns the declared dependencies (name to version range).
func (a *App) NodeDependencies() map[string]string { return copyStrings(a.nodeDependencies) }

// Webs returns the app's web processes.
func (a *App) Webs() []Web { return append([]Web(nil), a.webs...) }

// UsesWorkspaces reports whether the project uses package manager workspaces.
func (a *App) UsesWorkspaces() bool { return a.usesWorkspaces }

// Dotenv returns the parsed .env file, or nil.
func (a *App) Dotenv() *Dotenv {
	if a.dotenv == nil {
		return nil
	}
	return &Dotenv{Path: a.dotenv.Path, Variables: copyStrings(a.dotenv.Variables)}
}

// Errors returns the non-fatal load errors.
func (a *App) Errors() *LoadErrors { return a.errors }

// UIExtensions returns the UI extensions in discovery order.
func (a *App) UIExtensions() []*extensions.UIExtension {
	return append([]*extensions.UIExtension(nil), a.ui...)
}

// ThemeExtensions returns the theme extensions in discovery order.
func (a *App) ThemeExtensions() []*extensions.ThemeExtension {
	return append([]*extensions.ThemeExtension(nil), a.theme...)
}

// FunctionExtensions returns the function extensions in discovery order.
func (a *App) FunctionExtensions() []*extensions.FunctionExtension {
	return append([]*extensions.FunctionExtension(nil), a.function...)
}

// HasUIExtensions reports whether the app has at least one UI extension.
func (a *App) HasUIExtensions() bool { return len(a.ui) > 0 }

// HasExtensions reports whether the app has any extension.
func (a *App) HasExtensions() bool {
	return len(a.ui)+len(a.theme)+len(a.function) > 0
}

// AllExtensions returns UI, theme and function extensions, in that order.
func (a *App) AllExtensions() []extensions.Extension {
	out := make([]extensions.Extension, 0, len(a.ui)+len(a.theme)+len(a.function))
	for _, e := range a.ui {
		out = append(out, e)
	}
	for _, e := range a.theme {
		out = append(out, e)
	}
	for _, e := range a.function {
		out = append(out, e)
	}
	return out
}

// ExtensionByID finds an extension by local identifier.
func (a *App) ExtensionByID(localIdentifier string) (extensions.Extension, bool) {
	for _, e := range a.AllExtensions() {
		if e.LocalIdentifier() == localIdentifier {
			return e, true
		}
	}
	return nil, false
}

// UpdateDependencies re-reads the dependency map and replaces the current one.
func (a *App) UpdateDependencies(ctx context.Context) error {
	fresh, err := a.readDependencies(ctx, a.directory)
	if err != nil {
		return fmt.Errorf("updating dependencies of %s: %w", a.directory, err)
	}
	a.nodeDependencies = copyStrings(fresh)
	return nil
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
