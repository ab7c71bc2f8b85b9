package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	"github.com/pwakit/buildpack/internal/output"
)

// NewBuildCmd creates the config build command.
func NewBuildCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		bf         cmdutil.BuildFlags
		outputFlag string
	)

	c := &cobra.Command{
		Use:   "build [path]",
		Short: "Assemble the bundler configuration",
		Long: `Assemble the bundler configuration of a project and print it.

The project's buildpack.cue and .env files are read from the project root.

Arguments:
  path    Path to the project root (default: current directory)

Examples:
  # Development configuration of the current project
  buildpack config build

  # Production configuration as JSON
  buildpack config build ./storefront --mode production -o json

  # Opt an installed package into CSS modules
  buildpack config build --flag cssModules=node_modules/@acme/venia-ui

  # Configuration for the interactive dev server
  buildpack config build --serve`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runBuild(c, args, &bf, outputFlag)
		},
	}

	bf.AddTo(c, true)
	c.Flags().StringVarP(&outputFlag, "output", "o", "yaml", "Output format: yaml, json")

	return c
}

func runBuild(c *cobra.Command, args []string, bf *cmdutil.BuildFlags, outputFmt string) error {
	format, ok := output.ParseOutputFormat(outputFmt)
	if !ok || format == output.FormatTable {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitValidationError,
			Err:  fmt.Errorf("invalid output format %q (valid: yaml, json)", outputFmt),
		}
	}

	cfg, err := cmdutil.AssembleProject(c.Context(), cmdutil.AssembleOpts{
		Args:  args,
		Flags: bf,
	})
	if err != nil {
		return cmdutil.Fail("assembling configuration", err)
	}

	return output.Encode(c.OutOrStdout(), format, cfg)
}
