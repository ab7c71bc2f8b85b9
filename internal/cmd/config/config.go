// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Bundler and CLI configuration",
		Long:  `Assemble, compare, and initialize configuration.`,
	}

	c.AddCommand(NewBuildCmd(gc))
	c.AddCommand(NewDiffCmd(gc))
	c.AddCommand(NewInitCmd(gc))

	return c
}
