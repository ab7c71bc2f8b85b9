// Package template provides CLI command implementations for the template command group.
package template

import (
	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
)

// NewTemplateCmd creates the template command group.
func NewTemplateCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "template",
		Short: "Project template operations",
		Long:  `Resolve project templates and list the known template aliases.`,
	}

	c.AddCommand(NewResolveCmd(gc))
	c.AddCommand(NewListCmd(gc))

	return c
}
