// Package branding provides compile-time identity values for the CLI.
//
// The identity lives in branding.yaml next to this file and is baked into the
// binary with //go:embed. Project file names (app, extension, and web
// configuration files) are derived from the configuration prefix so a fork only
// has to change one value.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	PartnersFQDN string `yaml:"partners_fqdn"`
	ConfigPrefix string `yaml:"config_prefix"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:      "appforge",
			DisplayName:  "AppForge",
			Description:  "Build and deploy platform app extensions",
			HomeDir:      ".appforge",
			EnvPrefix:    "APPFORGE",
			GoModule:     "github.com/appforge-dev/appforge",
			PartnersFQDN: "partners.appforge.dev",
			ConfigPrefix: "appforge",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "appforge").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "AppForge").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".appforge").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "APPFORGE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// PartnersFQDN returns the default host of the partners dashboard and API.
func PartnersFQDN() string { load(); return defaults.PartnersFQDN }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("API_KEY") → "APPFORGE_API_KEY".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

// AppConfigFile returns the app configuration file name (e.g., "appforge.app.toml").
func AppConfigFile() string { load(); return defaults.ConfigPrefix + ".app.toml" }

// WebConfigFile returns the web configuration file name (e.g., "appforge.web.toml").
func WebConfigFile() string { load(); return defaults.ConfigPrefix + ".web.toml" }

// ExtensionConfigBase returns the extension configuration file name without its
// format suffix for a category, e.g., "appforge.ui.extension".
func ExtensionConfigBase(category string) string {
	load()
	return defaults.ConfigPrefix + "." + category + ".extension"
}
