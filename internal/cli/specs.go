package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/appforge-dev/appforge/internal/extensions"
)

// specEntry is one specification row.
type specEntry struct {
	Category           extensions.Category `json:"category"`
	Identifier         string              `json:"identifier"`
	ExternalIdentifier string              `json:"external_identifier"`
	ExternalName       string              `json:"external_name"`
	GraphQLType        string              `json:"graphql_type"`
	PartnersWebID      string              `json:"partners_web_id"`
	Surfaces           []string            `json:"surfaces"`
	Dependency         string              `json:"dependency,omitempty"`
	Remote             bool                `json:"remote"`
}

func newSpecsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Inspect extension specifications",
	}

	var categoryFilter string
	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the extension specifications known to the CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only extensions.Category
			if categoryFilter != "" {
				c, err := extensions.ParseCategory(categoryFilter)
				if err != nil {
					return err
				}
				only = c
			}

			set, err := s.registries()
			if err != nil {
				return err
			}

			var entries []specEntry
			for _, local := range set.Specs() {
				if only != "" && local.Category() != only {
					continue
				}
				// Lookup merges remote metadata and falls back to the local definition.
				res := set.Lookup(cmd.Context(), local.Category(), local.Identifier())
				spec := local
				if res.Found {
					spec = res.Spec
				}
				entries = append(entries, newSpecEntry(spec))
			}

			if asJSON {
				if entries == nil {
					entries = []specEntry{}
				}
				return printJSON(cmd, entries)
			}
			return printSpecsTable(cmd, entries)
		},
	}
	list.Flags().StringVar(&categoryFilter, "category", "", "Filter by category (ui, theme, function)")
	list.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.AddCommand(list)
	return cmd
}

func newSpecEntry(spec *extensions.Spec) specEntry {
	e := specEntry{
		Category:           spec.Category(),
		Identifier:         spec.Identifier(),
		ExternalIdentifier: spec.ExternalIdentifier(),
		ExternalName:       spec.ExternalName(),
		GraphQLType:        spec.GraphQLType(),
		PartnersWebID:      spec.PartnersWebID(),
		Remote:             spec.IsRemote(),
	}
	for _, surface := range spec.Surfaces() {
		e.Surfaces = append(e.Surfaces, string(surface))
	}
	if dep := spec.Dependency(); dep != nil {
		e.Dependency = dep.Name + "@" + dep.Version
	}
	return e
}

func printSpecsTable(cmd *cobra.Command, entries []specEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No specifications found.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tIDENTIFIER\tNAME\tGRAPHQL TYPE\tSURFACE\tDEPENDENCY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Category, e.Identifier, e.ExternalName, e.GraphQLType,
			strings.Join(e.Surfaces, ","), orDash(e.Dependency))
	}
	return w.Flush()
}
