package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/extensions"
)

// appInfo is the JSON shape of `app info`.
type appInfo struct {
	Name                      string          `json:"name"`
	Directory                 string          `json:"directory"`
	ConfigurationPath         string          `json:"configuration_path"`
	PackageManager            string          `json:"package_manager"`
	UsesWorkspaces            bool            `json:"uses_workspaces"`
	IDEnvironmentVariableName string          `json:"id_environment_variable_name"`
	Extensions                []extensionInfo `json:"extensions"`
	Webs                      []app.Web       `json:"webs"`
	Errors                    []loadError     `json:"errors"`
}

type extensionInfo struct {
	Category                  extensions.Category `json:"category"`
	LocalIdentifier           string              `json:"local_identifier"`
	Type                      string              `json:"type"`
	Name                      string              `json:"name"`
	GraphQLType               string              `json:"graphql_type"`
	Surface                   extensions.Surface  `json:"surface"`
	Directory                 string              `json:"directory"`
	ConfigurationPath         string              `json:"configuration_path"`
	IDEnvironmentVariableName string              `json:"id_environment_variable_name"`
}

type loadError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func newAppCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Inspect an app project",
	}
	cmd.AddCommand(newAppInfoCmd(s), newAppDeployConfigCmd(s))
	return cmd
}

func newAppInfoCmd(s *session) *cobra.Command {
	var asJSON, strict bool

	cmd := &cobra.Command{
		Use:   "info [dir]",
		Short: "Show the extensions, webs and load errors of an app",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp(cmd.Context(), args)
			if err != nil {
				return err
			}
			info := newAppInfo(a)

			if asJSON {
				err = printJSON(cmd, info)
			} else {
				err = printAppInfo(cmd, info)
			}
			if err != nil {
				return err
			}
			if strict && !a.Errors().IsEmpty() {
				return fmt.Errorf("app loaded with %d error(s)", a.Errors().Len())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any extension failed to load")
	return cmd
}

func newAppInfo(a *app.App) appInfo {
	info := appInfo{
		Name:                      a.Name(),
		Directory:                 a.Directory(),
		ConfigurationPath:         a.ConfigurationPath(),
		PackageManager:            string(a.PackageManager()),
		UsesWorkspaces:            a.UsesWorkspaces(),
		IDEnvironmentVariableName: a.IDEnvironmentVariableName(),
		Extensions:                []extensionInfo{},
		Webs:                      a.Webs(),
		Errors:                    []loadError{},
	}
	if info.Webs == nil {
		info.Webs = []app.Web{}
	}
	for _, ext := range a.AllExtensions() {
		spec := ext.Specification()
		info.Extensions = append(info.Extensions, extensionInfo{
			Category:                  ext.Category(),
			LocalIdentifier:           ext.LocalIdentifier(),
			Type:                      spec.Identifier(),
			Name:                      ext.Name(),
			GraphQLType:               spec.GraphQLType(),
			Surface:                   spec.Surface(),
			Directory:                 ext.Directory(),
			ConfigurationPath:         ext.ConfigurationPath(),
			IDEnvironmentVariableName: ext.IDEnvironmentVariableName(),
		})
	}
	for _, path := range a.Errors().Paths() {
		info.Errors = append(info.Errors, loadError{Path: path, Error: a.Errors().Get(path).Error()})
	}
	return info
}

func printAppInfo(cmd *cobra.Command, info appInfo) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", info.Name)
	fmt.Fprintf(w, "Directory:\t%s\n", info.Directory)
	fmt.Fprintf(w, "Configuration:\t%s\n", info.ConfigurationPath)
	fmt.Fprintf(w, "Package manager:\t%s\n", info.PackageManager)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(info.Extensions) == 0 {
		fmt.Fprintln(out, "No extensions found.")
	} else {
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tLOCAL ID\tTYPE\tNAME\tENV VAR")
		for _, e := range info.Extensions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Category, e.LocalIdentifier, e.Type, e.Name, e.IDEnvironmentVariableName)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(info.Webs) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WEB\tTYPE\tDEV COMMAND")
		for _, web := range info.Webs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", web.Directory, web.Configuration.Type, web.Configuration.Commands.Dev)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(info.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(info.Errors))
		for _, e := range info.Errors {
			fmt.Fprintf(out, "  %s: %s\n", e.Path, e.Error)
		}
	}
	return nil
}

func newAppDeployConfigCmd(s *session) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "deploy-config [dir]",
		Short: "Print the deploy payload of each extension as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp(cmd.Context(), args)
			if err != nil {
				return err
			}

			var selected []extensions.Extension
			if only != "" {
				ext, ok := a.ExtensionByID(only)
				if !ok {
					return fmt.Errorf("extension %q not found in %s", only, a.Directory())
				}
				selected = append(selected, ext)
			} else {
				selected = a.AllExtensions()
			}

			payloads := make(map[string]map[string]any, len(selected))
			for _, ext := range selected {
				payload, err := ext.DeployConfig(cmd.Context())
				if err != nil {
					return err
				}
				payloads[ext.LocalIdentifier()] = payload
			}
			return printJSON(cmd, payloads)
		},
	}
	cmd.Flags().StringVar(&only, "extension", "", "Only print the payload of this extension (local identifier)")
	return cmd
}
