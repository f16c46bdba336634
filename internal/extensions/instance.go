package extensions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/appforge-dev/appforge/internal/branding"
)

// ErrDevSessionScoped is returned when a dev UUID is scoped a second time.
var ErrDevSessionScoped = errors.New("dev UUID already scoped to a session")

// Extension is the behavior shared by every extension instance. The set of
// implementations is closed: *UIExtension, *ThemeExtension and *FunctionExtension.
type Extension interface {
	Category() Category
	// Identifier is the configured type, falling back to the spec identifier.
	Identifier() string
	// LocalIdentifier is the name of the extension's directory.
	LocalIdentifier() string
	Name() string
	Directory() string
	ConfigurationPath() string
	Configuration() Configuration
	Specification() *Spec
	RemoteSpecification() *RemoteSpecification
	IDEnvironmentVariableName() string
	DeployConfig(ctx context.Context) (map[string]any, error)
	PublishURL(ctx context.Context, opts PublishURLOptions) (string, error)

	sealed()
}

// InstanceOptions are the inputs of the instance constructors. Configuration
// must already have passed the specification's schema.
type InstanceOptions struct {
	Configuration       Configuration
	ConfigurationPath   string
	EntryPath           string
	Directory           string
	Specification       *Spec
	RemoteSpecification *RemoteSpecification

	// Overrides for derived values.
	OutputBundlePath          string
	IDEnvironmentVariableName string

	// Metadata is only used by function extensions.
	Metadata FunctionMetadata
}

type instance struct {
	config            Configuration
	configurationPath string
	directory         string
	localIdentifier   string
	idEnvVar          string
	spec              *Spec
	remote            *RemoteSpecification
}

func newInstance(opts InstanceOptions, category Category) (instance, error) {
	if opts.Specification == nil {
		return instance{}, errors.New("extension specification is required")
	}
	if got := opts.Specification.Category(); got != category {
		return instance{}, fmt.Errorf("specification %s is a %s specification, not %s",
			opts.Specification.Identifier(), got, category)
	}
	if opts.Directory == "" {
		return instance{}, fmt.Errorf("%s extension: directory is required", opts.Specification.Identifier())
	}

	local := filepath.Base(filepath.Clean(opts.Directory))
	inst := instance{
		config:            NewConfiguration(opts.Configuration.values),
		configurationPath: opts.ConfigurationPath,
		directory:         opts.Directory,
		localIdentifier:   local,
		idEnvVar:          opts.IDEnvironmentVariableName,
		spec:              opts.Specification,
	}
	if inst.idEnvVar == "" {
		inst.idEnvVar = IDEnvironmentVariableName(local)
	}
	if opts.RemoteSpecification != nil {
		r := *opts.RemoteSpecification
		inst.remote = &r
	}
	return inst, nil
}

// IDEnvironmentVariableName returns the variable holding the registered ID of
// the extension in the given directory, e.g. APPFORGE_MY_EXTENSION_ID.
func IDEnvironmentVariableName(localIdentifier string) string {
	return branding.EnvPrefix() + "_" + constantize(localIdentifier) + "_ID"
}

func (i *instance) Identifier() string {
	if typ := i.config.Type(); typ != "" {
		return typ
	}
	return i.spec.Identifier()
}

func (i *instance) LocalIdentifier() string { return i.localIdentifier }
func (i *instance) Name() string { return i.config.Name() }
func (i *instance) Directory() string { return i.directory }
func (i *instance) ConfigurationPath() string { return i.configurationPath }
func (i *instance) Configuration() Configuration { return NewConfiguration(i.config.values) }
func (i *instance) Specification() *Spec { return i.spec }
func (i *instance) IDEnvironmentVariableName() string { return i.idEnvVar }

func (i *instance) RemoteSpecification() *RemoteSpecification {
	if i.remote == nil {
		return nil
	}
	r := *i.remote
	return &r
}

// DeployConfig builds the deploy payload through the specification's transform.
func (i *instance) DeployConfig(ctx context.Context) (map[string]any, error) {
	payload, err := i.spec.DeployConfig(ctx, i.Configuration(), i.directory)
	if err != nil {
		return nil, fmt.Errorf("deploy config for %s: %w", i.localIdentifier, err)
	}
	return payload, nil
}

// PublishURL returns the dashboard URL of the deployed extension.
func (i *instance) PublishURL(ctx context.Context, opts PublishURLOptions) (string, error) {
	return i.spec.PublishURL(ctx, opts)
}

func (i *instance) sealed() {}

// UIExtension is an extension rendered inside a platform surface.
type UIExtension struct {
	instance
	entrySourceFilePath string
	outputBundlePath    string

	mu      sync.Mutex
	devUUID string
	scoped  bool
}

// NewUIExtension builds a UI extension instance.
func NewUIExtension(opts InstanceOptions) (*UIExtension, error) {
	inst, err := newInstance(opts, CategoryUI)
	if err != nil {
		return nil, err
	}
	ext := &UIExtension{
		instance:            inst,
		entrySourceFilePath: opts.EntryPath,
		outputBundlePath:    opts.OutputBundlePath,
		devUUID:             "dev-" + uuid.NewString(),
	}
	if ext.entrySourceFilePath == "" {
		ext.entrySourceFilePath = filepath.Join(opts.Directory, "src", "index.js")
	}
	if ext.outputBundlePath == "" {
		ext.outputBundlePath = filepath.Join(opts.Directory, "dist", "main.js")
	}
	return ext, nil
}

// Category returns CategoryUI.
func (e *UIExtension) Category() Category { return CategoryUI }

// EntrySourceFilePath is the file the bundler starts from.
func (e *UIExtension) EntrySourceFilePath() string { return e.entrySourceFilePath }

// OutputBundlePath is where the built bundle is written.
func (e *UIExtension) OutputBundlePath() string { return e.outputBundlePath }

// DevUUID identifies the extension in a dev preview session.
func (e *UIExtension) DevUUID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.devUUID
}

// ScopeDevSession replaces the generated dev UUID with one assigned by a dev
// session. It can be called once per instance.
func (e *UIExtension) ScopeDevSession(id string) error {
	if id == "" {
		return errors.New("dev session UUID must not be empty")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scoped {
		return fmt.Errorf("%s: %w", e.localIdentifier, ErrDevSessionScoped)
	}
	e.devUUID = id
	e.scoped = true
	return nil
}

// ResourceURL returns the storefront URL the extension is previewed against.
func (e *UIExtension) ResourceURL(opts ResourceURLOptions) string {
	return ResourceURL(e.Identifier(), opts)
}

// ThemeExtension is a theme app extension.
type ThemeExtension struct {
	instance
}

// NewThemeExtension builds a theme extension instance.
func NewThemeExtension(opts InstanceOptions) (*ThemeExtension, error) {
	inst, err := newInstance(opts, CategoryTheme)
	if err != nil {
		return nil, err
	}
	return &ThemeExtension{instance: inst}, nil
}

// Category returns CategoryTheme.
func (e *ThemeExtension) Category() Category { return CategoryTheme }

// FunctionExtension is a server-side function compiled to WebAssembly.
type FunctionExtension struct {
	instance
	typed    FunctionConfiguration
	metadata FunctionMetadata
}

// NewFunctionExtension builds a function extension instance.
func NewFunctionExtension(opts InstanceOptions) (*FunctionExtension, error) {
	inst, err := newInstance(opts, CategoryFunction)
	if err != nil {
		return nil, err
	}
	ext := &FunctionExtension{instance: inst, metadata: opts.Metadata}
	if err := inst.config.Decode(&ext.typed); err != nil {
		return nil, fmt.Errorf("decoding function configuration %s: %w", inst.localIdentifier, err)
	}
	if ext.metadata.SchemaVersions == nil {
		ext.metadata.SchemaVersions = map[string]SchemaVersion{}
	}
	return ext, nil
}

// Category returns CategoryFunction.
func (e *FunctionExtension) Category() Category { return CategoryFunction }

// FunctionConfiguration returns the typed configuration.
func (e *FunctionExtension) FunctionConfiguration() FunctionConfiguration { return e.typed }

// BuildWasmPath is the compiled module: build.path when configured,
// dist/index.wasm otherwise.
func (e *FunctionExtension) BuildWasmPath() string {
	if e.typed.Build.Path != "" {
		return filepath.Join(e.directory, e.typed.Build.Path)
	}
	return filepath.Join(e.directory, "dist", "index.wasm")
}

// InputQueryPath is the GraphQL input query of the function.
func (e *FunctionExtension) InputQueryPath() string {
	return filepath.Join(e.directory, "input.graphql")
}

// Metadata returns the parsed metadata.json contents.
func (e *FunctionExtension) Metadata() FunctionMetadata {
	versions := make(map[string]SchemaVersion, len(e.metadata.SchemaVersions))
	for k, v := range e.metadata.SchemaVersions {
		versions[k] = v
	}
	return FunctionMetadata{SchemaVersions: versions}
}

var (
	_ Extension = (*UIExtension)(nil)
	_ Extension = (*ThemeExtension)(nil)
	_ Extension = (*FunctionExtension)(nil)
)
