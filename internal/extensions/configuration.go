package extensions

import (
	"github.com/appforge-dev/appforge/internal/schema"
)

// Configuration is an extension configuration document that has passed its
// specification's schema. It is read-only: every accessor hands out copies.
type Configuration struct {
	values map[string]any
}

// NewConfiguration wraps an already validated document.
func NewConfiguration(values map[string]any) Configuration {
	if values == nil {
		return Configuration{values: map[string]any{}}
	}
	return Configuration{values: schema.Clone(values).(map[string]any)}
}

// Name returns the configured extension name.
func (c Configuration) Name() string {
	name, _ := c.values["name"].(string)
	return name
}

// Type returns the configured extension type.
func (c Configuration) Type() string {
	typ, _ := c.values["type"].(string)
	return typ
}

// Value returns a copy of the value stored at key.
func (c Configuration) Value(key string) (any, bool) {
	v, ok := c.values[key]
	if !ok {
		return nil, false
	}
	return schema.Clone(v), true
}

// Values returns a copy of the whole document.
func (c Configuration) Values() map[string]any {
	return schema.Clone(c.values).(map[string]any)
}

// Decode maps the document onto a typed struct using `mapstructure` tags.
func (c Configuration) Decode(target any) error {
	return schema.DecodeValue(c.Values(), target)
}

// Metafield identifies a metafield an extension reads.
type Metafield struct {
	Namespace string `mapstructure:"namespace" json:"namespace"`
	Key       string `mapstructure:"key" json:"key"`
}

// Capabilities are the optional runtime permissions of a UI extension.
type Capabilities struct {
	NetworkAccess *bool `mapstructure:"network_access" json:"network_access,omitempty"`
	BlockProgress *bool `mapstructure:"block_progress" json:"block_progress,omitempty"`
}

// ExtensionPointTarget is one entry of the target/module extension point format.
type ExtensionPointTarget struct {
	Target     string      `mapstructure:"target" json:"target"`
	Module     string      `mapstructure:"module" json:"module"`
	Metafields []Metafield `mapstructure:"metafields" json:"metafields"`
}

// FunctionConfiguration is the typed view of a function extension configuration.
type FunctionConfiguration struct {
	Name            string        `mapstructure:"name"`
	Type            string        `mapstructure:"type"`
	Description     string        `mapstructure:"description"`
	Build           FunctionBuild `mapstructure:"build"`
	ConfigurationUI bool          `mapstructure:"configurationUi"`
	UI              *FunctionUI   `mapstructure:"ui"`
	APIVersion      string        `mapstructure:"apiVersion"`
}

// FunctionBuild describes how a function is compiled.
type FunctionBuild struct {
	Command string `mapstructure:"command"`
	Path    string `mapstructure:"path"`
}

// FunctionUI points at the admin pages used to create and edit a function.
type FunctionUI struct {
	Paths *FunctionUIPaths `mapstructure:"paths"`
}

// FunctionUIPaths are the admin page paths of a function.
type FunctionUIPaths struct {
	Create  string `mapstructure:"create" json:"create"`
	Details string `mapstructure:"details" json:"details"`
}

// FunctionMetadata is read from a function's metadata.json.
type FunctionMetadata struct {
	SchemaVersions map[string]SchemaVersion `mapstructure:"schemaVersions" json:"schemaVersions"`
}

// SchemaVersion is the version of one function API schema. Components are
// plain numbers, so fractional values such as 1.5 are kept as written.
type SchemaVersion struct {
	Major float64 `mapstructure:"major" json:"major"`
	Minor float64 `mapstructure:"minor" json:"minor"`
}
