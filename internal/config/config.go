package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/appforge-dev/appforge/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyPartnersURL          = "partners_url"
	KeyPartnersToken        = "partners_token"
	KeyRemoteSpecifications = "remote_specifications"
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"
	KeyLogFile              = "log_file"
	KeyLoadConcurrency      = "load_concurrency"
)

// ErrUnknownKey is returned when reading or writing a key that is not a setting.
var ErrUnknownKey = errors.New("unknown config key")

// Settings is the typed view of the user configuration.
type Settings struct {
	PartnersURL          string `mapstructure:"partners_url" json:"partners_url"`
	PartnersToken        string `mapstructure:"partners_token" json:"-"`
	RemoteSpecifications bool   `mapstructure:"remote_specifications" json:"remote_specifications"`
	LogLevel             string `mapstructure:"log_level" json:"log_level"`
	LogFormat            string `mapstructure:"log_format" json:"log_format"`
	LogFile              string `mapstructure:"log_file" json:"log_file"`
	LoadConcurrency      int    `mapstructure:"load_concurrency" json:"load_concurrency"`
}

var defaults = map[string]any{
	KeyPartnersURL:          "",
	KeyPartnersToken:        "",
	KeyRemoteSpecifications: false,
	KeyLogLevel:             "warn",
	KeyLogFormat:            "console",
	KeyLogFile:              "",
	KeyLoadConcurrency:      8,
}

// Keys returns the known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dir returns the path to the config directory (~/.appforge/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.appforge/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Store reads and writes settings from one config file plus the environment.
type Store struct {
	path string
	v    *viper.Viper
}

// Open loads the config file at path, or FilePath() when path is empty. A
// missing file is not an error.
func Open(path string) (*Store, error) {
	if path == "" {
		path = FilePath()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return &Store{path: path, v: v}, nil
}

// Path returns the config file path.
func (s *Store) Path() string { return s.path }

// Get returns a setting as a string.
func (s *Store) Get(key string) (string, error) {
	if _, ok := defaults[key]; !ok {
		return "", fmt.Errorf("%w %q (known keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return s.v.GetString(key), nil
}

// Set writes a key-value pair to the config file. Only values stored in the
// file are persisted; defaults and environment overrides are not.
func (s *Store) Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w %q (known keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !isNotExist(err) {
		return fmt.Errorf("reading config file %s: %w", s.path, err)
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.v.Set(key, value)
	return nil
}

// Settings decodes and validates the effective settings.
func (s *Store) Settings() (Settings, error) {
	var out Settings
	if err := s.v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if out.LogFormat != "console" && out.LogFormat != "json" {
		return Settings{}, fmt.Errorf("%s must be console or json, got %q", KeyLogFormat, out.LogFormat)
	}
	if out.LoadConcurrency < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative", KeyLoadConcurrency)
	}
	return out, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
