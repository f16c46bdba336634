package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/appforge-dev/appforge/internal/branding"
)

// Default directories scanned when the app configuration names none.
var (
	DefaultExtensionDirectories = []string{"extensions/*"}
	DefaultWebDirectories       = []string{"web", "web/*"}
)

// ErrNotFound is returned when a directory holds no app configuration file.
var ErrNotFound = errors.New("app configuration not found")

// Configuration is the app-level configuration file.
type Configuration struct {
	Name                 string   `toml:"name" json:"name,omitempty"`
	ClientID             string   `toml:"client_id" json:"client_id,omitempty"`
	Scopes               string   `toml:"scopes" json:"scopes"`
	ExtensionDirectories []string `toml:"extension_directories" json:"extension_directories"`
	WebDirectories       []string `toml:"web_directories" json:"web_directories"`
}

// WebType distinguishes the frontend and backend web processes.
type WebType string

const (
	WebFrontend WebType = "frontend"
	WebBackend  WebType = "backend"
)

// WebConfiguration is a web configuration file.
type WebConfiguration struct {
	Type     WebType     `toml:"type" json:"type"`
	Commands WebCommands `toml:"commands" json:"commands"`
}

// WebCommands are the commands that build and serve a web process.
type WebCommands struct {
	Build string `toml:"build" json:"build,omitempty"`
	Dev   string `toml:"dev" json:"dev"`
}

// InvalidError is returned when a file fails schema validation.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		loc := issue.Path
		if loc == "" {
			loc = "/"
		}
		parts[i] = loc + ": " + issue.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Path, strings.Join(parts, "; "))
}

// Find returns the app configuration file inside directory.
func Find(directory string) (string, error) {
	path := filepath.Join(directory, branding.AppConfigFile())
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w in %s: expected %s", ErrNotFound, directory, branding.AppConfigFile())
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

// Load reads, validates and decodes an app configuration file.
func Load(path string) (*Configuration, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse validates and decodes app configuration bytes. path is only used in
// error messages.
func Parse(path string, data []byte) (*Configuration, error) {
	result, err := ValidateApp(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}

	var cfg Configuration
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.ExtensionDirectories) == 0 {
		cfg.ExtensionDirectories = append([]string(nil), DefaultExtensionDirectories...)
	}
	if len(cfg.WebDirectories) == 0 {
		cfg.WebDirectories = append([]string(nil), DefaultWebDirectories...)
	}
	return &cfg, nil
}

// LoadWeb reads, validates and decodes a web configuration file.
func LoadWeb(path string) (*WebConfiguration, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	result, err := ValidateWeb(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}

	var cfg WebConfiguration
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
