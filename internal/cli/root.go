package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/branding"
	"github.com/appforge-dev/appforge/internal/config"
	"github.com/appforge-dev/appforge/internal/loader"
	"github.com/appforge-dev/appforge/internal/logging"
	"github.com/appforge-dev/appforge/internal/partners"
	"github.com/appforge-dev/appforge/internal/registry"
)

// BuildInfo is injected via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// session carries state shared by the commands of one invocation.
type session struct {
	build      BuildInfo
	configPath string
	logLevel   string

	store    *config.Store
	settings config.Settings
	logger   *zap.Logger
	closeLog func() error
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	return NewRootCommand(BuildInfo{Version: version, Commit: commit, Date: date}).Execute()
}

// NewRootCommand builds the full command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	s := &session{build: build}

	root := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` inspects app projects: it discovers extension configuration files,
resolves them against the extension specification registry and renders deploy payloads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version must work even with a broken config file.
			if cmd.Name() == "version" {
				s.logger = zap.NewNop()
				return nil
			}
			return s.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.closeLog != nil {
				return s.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(
		newAppCmd(s),
		newSpecsCmd(s),
		newConfigCmd(s),
		newVersionCmd(s),
	)
	return root
}

func (s *session) setup(cmd *cobra.Command) error {
	store, err := config.Open(s.configPath)
	if err != nil {
		return err
	}
	settings, err := store.Settings()
	if err != nil {
		return fmt.Errorf("invalid settings in %s: %w", store.Path(), err)
	}
	if s.logLevel != "" {
		settings.LogLevel = s.logLevel
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		File:   settings.LogFile,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	s.store = store
	s.settings = settings
	s.logger = logger
	s.closeLog = closeLog
	return nil
}

// registries builds the specification registries, backed by the partners
// catalog when remote specifications are enabled.
func (s *session) registries() (*registry.Set, error) {
	opts := []registry.Option{registry.WithLogger(s.logger)}
	if s.settings.RemoteSpecifications {
		client := partners.New(partners.Options{
			BaseURL: s.settings.PartnersURL,
			Token:   s.settings.PartnersToken,
			Logger:  s.logger,
		})
		s.logger.Debug("using remote extension specifications", zap.String("url", client.URL()))
		opts = append(opts, registry.WithRemoteCatalog(client))
	}
	return registry.Default(opts...)
}

func (s *session) loadApp(ctx context.Context, args []string) (*app.App, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	set, err := s.registries()
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, loader.Options{
		Directory:   dir,
		Registries:  set,
		Logger:      s.logger,
		Concurrency: s.settings.LoadConcurrency,
	})
}
