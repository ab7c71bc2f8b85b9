package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/bundler"
	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	"github.com/pwakit/buildpack/internal/output"
)

// NewDiffCmd creates the config diff command.
func NewDiffCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		bf        cmdutil.BuildFlags
		fromFlag  string
		toFlag    string
		colorFlag bool
	)

	c := &cobra.Command{
		Use:   "diff [path]",
		Short: "Compare the configurations of two build modes",
		Long: `Compare the bundler configurations a project gets in two build modes.

Arguments:
  path    Path to the project root (default: current directory)

Examples:
  # What changes between development and production
  buildpack config diff

  # Reverse the comparison
  buildpack config diff --from production --to development`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			useColor := colorFlag
			if !c.Flags().Changed("color") {
				useColor = output.IsTTY()
			}
			return runDiff(c, args, &bf, fromFlag, toFlag, useColor)
		},
	}

	bf.AddTo(c, false)
	c.Flags().StringVar(&fromFlag, "from", string(bundler.ModeDevelopment), "Mode on the left side")
	c.Flags().StringVar(&toFlag, "to", string(bundler.ModeProduction), "Mode on the right side")
	c.Flags().BoolVar(&colorFlag, "color", false, "Colorize the report (default: when stderr is a terminal)")

	return c
}

func runDiff(c *cobra.Command, args []string, bf *cmdutil.BuildFlags, from, to string, useColor bool) error {
	render := func(mode string) ([]byte, error) {
		cfg, err := cmdutil.AssembleProject(c.Context(), cmdutil.AssembleOpts{
			Args:  args,
			Flags: bf,
			Mode:  mode,
		})
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := output.Encode(&buf, output.FormatYAML, cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	fromDoc, err := render(from)
	if err != nil {
		return cmdutil.Fail(fmt.Sprintf("assembling %s configuration", from), err)
	}
	toDoc, err := render(to)
	if err != nil {
		return cmdutil.Fail(fmt.Sprintf("assembling %s configuration", to), err)
	}

	report, err := output.DiffYAML(from, fromDoc, to, toDoc, useColor)
	if err != nil {
		return cmdutil.Fail("comparing configurations", err)
	}

	w := c.OutOrStdout()
	if report == "" {
		fmt.Fprintf(w, "No differences between %s and %s\n", from, to)
		return nil
	}
	fmt.Fprintln(w, report)
	return nil
}
