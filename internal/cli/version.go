package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appforge-dev/appforge/internal/branding"
)

func newVersionCmd(s *session) *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), s.build.Version)
				return nil
			}
			if asJSON {
				return printJSON(cmd, map[string]string{
					"version": s.build.Version,
					"commit":  s.build.Commit,
					"date":    s.build.Date,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit: %s, built: %s)\n",
				branding.CLIName(), s.build.Version, s.build.Commit, s.build.Date)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version info as JSON")
	return cmd
}
