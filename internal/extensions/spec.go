package extensions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/appforge-dev/appforge/internal/schema"
)

// ErrInvalidDescriptor is returned by NewSpec for malformed descriptors.
var ErrInvalidDescriptor = errors.New("invalid extension descriptor")

// DeployConfigFunc turns a validated configuration into a deploy payload.
// directory is the extension's source directory.
type DeployConfigFunc func(ctx context.Context, config Configuration, directory string) (map[string]any, error)

// PublishURLFunc builds the dashboard URL of a deployed extension.
type PublishURLFunc func(ctx context.Context, spec *Spec, opts PublishURLOptions) (string, error)

// Dependency is an npm package an extension needs at build time.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"` // semver range, e.g. "^0.20.0"
}

// Descriptor declares an extension specification.
type Descriptor struct {
	Identifier         string
	ExternalIdentifier string
	ExternalName       string
	GraphQLType        string
	Category           Category
	Surface            Surface
	Dependency         *Dependency
	PartnersWebID      string
	Schema             *schema.ObjectSchema
	DeployConfig       DeployConfigFunc
	PublishURL         PublishURLFunc
}

// RemoteSpecification is platform-side metadata about a specification,
// fetched from the remote catalog.
type RemoteSpecification struct {
	Identifier         string `json:"identifier"`
	Name               string `json:"name"`
	ExternalIdentifier string `json:"externalIdentifier"`
	ExternalName       string `json:"externalName"`
	GraphQLType        string `json:"graphQLType"`
	Gated              bool   `json:"gated"`
	RegistrationLimit  int    `json:"registrationLimit"`
	Surface            string `json:"surface"`
}

// Spec is an immutable extension specification.
type Spec struct {
	identifier         string
	externalIdentifier string
	externalName       string
	graphQLType        string
	category           Category
	surface            Surface
	extraSurfaces      []Surface
	dependency         *Dependency
	partnersWebID      string
	schema             *schema.ObjectSchema
	deployConfig       DeployConfigFunc
	publishURL         PublishURLFunc
	remote             bool
}

// NewSpec validates d and builds a Spec from it.
func NewSpec(d Descriptor) (*Spec, error) {
	if strings.TrimSpace(d.Identifier) == "" {
		return nil, fmt.Errorf("%w: identifier must be a non-empty string", ErrInvalidDescriptor)
	}
	if d.Schema == nil {
		return nil, fmt.Errorf("%w: %s: schema is required", ErrInvalidDescriptor, d.Identifier)
	}
	if _, err := ParseCategory(string(d.Category)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, d.Identifier, err)
	}

	surface := d.Surface
	if surface == "" {
		surface = SurfaceUnknown
	}
	if _, ok := ParseSurface(string(surface)); !ok {
		return nil, fmt.Errorf("%w: %s: unknown surface %q", ErrInvalidDescriptor, d.Identifier, surface)
	}

	var dep *Dependency
	if d.Dependency != nil {
		if d.Dependency.Name == "" {
			return nil, fmt.Errorf("%w: %s: dependency name is required", ErrInvalidDescriptor, d.Identifier)
		}
		if _, err := semver.NewConstraint(d.Dependency.Version); err != nil {
			return nil, fmt.Errorf("%w: %s: dependency %s version %q: %v",
				ErrInvalidDescriptor, d.Identifier, d.Dependency.Name, d.Dependency.Version, err)
		}
		copied := *d.Dependency
		dep = &copied
	}

	s := &Spec{
		identifier:         d.Identifier,
		externalIdentifier: orDefault(d.ExternalIdentifier, d.Identifier),
		externalName:       orDefault(d.ExternalName, humanize(d.Identifier)),
		graphQLType:        orDefault(d.GraphQLType, d.Identifier),
		category:           d.Category,
		surface:            surface,
		dependency:         dep,
		partnersWebID:      orDefault(d.PartnersWebID, d.Identifier),
		schema:             d.Schema,
		deployConfig:       d.DeployConfig,
		publishURL:         d.PublishURL,
	}
	if s.deployConfig == nil {
		s.deployConfig = defaultDeployConfig
	}
	if s.publishURL == nil {
		s.publishURL = defaultPublishURL
	}
	return s, nil
}

// MustNewSpec is NewSpec for package-level declarations; it panics on error.
func MustNewSpec(d Descriptor) *Spec {
	s, err := NewSpec(d)
	if err != nil {
		panic(err)
	}
	return s
}

// Identifier is the value of the `type` field that selects this spec.
func (s *Spec) Identifier() string { return s.identifier }

// ExternalIdentifier is the presentation identifier.
func (s *Spec) ExternalIdentifier() string { return s.externalIdentifier }

// ExternalName is the presentation name.
func (s *Spec) ExternalName() string { return s.externalName }

// GraphQLType is the platform-assigned type name used by the API.
func (s *Spec) GraphQLType() string { return s.graphQLType }

// Category returns the registry category of the spec.
func (s *Spec) Category() Category { return s.category }

// Surface returns the primary surface.
func (s *Spec) Surface() Surface { return s.surface }

// Surfaces returns the primary surface followed by any surfaces reported by
// the remote catalog.
func (s *Spec) Surfaces() []Surface {
	return append([]Surface{s.surface}, s.extraSurfaces...)
}

// Dependency returns the build-time npm dependency, or nil.
func (s *Spec) Dependency() *Dependency {
	if s.dependency == nil {
		return nil
	}
	d := *s.dependency
	return &d
}

// PartnersWebID is the key used to register the extension with the platform.
func (s *Spec) PartnersWebID() string { return s.partnersWebID }

// Schema returns the configuration schema.
func (s *Spec) Schema() *schema.ObjectSchema { return s.schema }

// IsRemote reports whether remote catalog metadata has been merged in.
func (s *Spec) IsRemote() bool { return s.remote }

// ParseConfiguration validates a raw configuration document against the spec's schema.
func (s *Spec) ParseConfiguration(raw map[string]any) (Configuration, error) {
	values, err := schema.ParseObject(s.schema, raw)
	if err != nil {
		return Configuration{}, err
	}
	return Configuration{values: values}, nil
}

// DeployConfig runs the spec's deploy transform.
func (s *Spec) DeployConfig(ctx context.Context, config Configuration, directory string) (map[string]any, error) {
	return s.deployConfig(ctx, config, directory)
}

// PublishURL builds the dashboard URL of an extension of this spec.
func (s *Spec) PublishURL(ctx context.Context, opts PublishURLOptions) (string, error) {
	return s.publishURL(ctx, s, opts)
}

// WithRemote returns a copy of s carrying descriptive metadata from the remote
// catalog. The schema and transforms are never replaced.
func (s *Spec) WithRemote(r RemoteSpecification) *Spec {
	merged := *s
	merged.remote = true
	merged.extraSurfaces = append([]Surface(nil), s.extraSurfaces...)

	if r.GraphQLType != "" {
		merged.graphQLType = r.GraphQLType
	}
	if r.ExternalIdentifier != "" {
		merged.externalIdentifier = r.ExternalIdentifier
	}
	if r.ExternalName != "" {
		merged.externalName = r.ExternalName
	}
	if surface, ok := ParseSurface(r.Surface); ok && surface != s.surface && !containsSurface(merged.extraSurfaces, surface) {
		merged.extraSurfaces = append(merged.extraSurfaces, surface)
	}
	return &merged
}

// defaultDeployConfig keeps only the generic fields, dropping absent ones.
func defaultDeployConfig(_ context.Context, config Configuration, _ string) (map[string]any, error) {
	payload := map[string]any{}
	for _, key := range []string{"type", "extensionPoints", "capabilities", "metafields"} {
		if v, ok := config.Value(key); ok {
			payload[key] = v
		}
	}
	return Compact(payload), nil
}

// Compact removes nil-valued keys. Absent and null are treated alike on the wire.
func Compact(payload map[string]any) map[string]any {
	for k, v := range payload {
		if v == nil {
			delete(payload, k)
		}
	}
	return payload
}

func containsSurface(list []Surface, s Surface) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// humanize turns "checkout_ui_extension" into "Checkout Ui Extension".
func humanize(identifier string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(identifier, "_", " "))
}
