package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	"github.com/pwakit/buildpack/internal/output"
	"github.com/pwakit/buildpack/internal/template"
)

// NewResolveCmd creates the template resolve command.
func NewResolveCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a template name to a directory",
		Long: `Resolve a template name to a directory on disk.

The name may be an alias, an installed package name, or a path. When no
local copy exists the package is downloaded from the registry and unpacked
into the cache. The directory is printed to stdout.

Examples:
  # Resolve the default storefront template
  buildpack template resolve venia-concept

  # Resolve a package against a private registry
  buildpack template resolve @acme/storefront --registry https://npm.acme.dev`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c, gc, args[0])
		},
	}

	return c
}

func runResolve(c *cobra.Command, gc *cmdtypes.GlobalConfig, name string) error {
	resolver, err := cmdutil.NewTemplateResolver(gc)
	if err != nil {
		return cmdutil.Fail("configuring template resolver", err)
	}

	var res template.Result
	err = output.RunWithSpinner(c.Context(), func() error {
		var lookupErr error
		res, lookupErr = resolver.Lookup(c.Context(), name)
		return lookupErr
	}, output.WithTitle(fmt.Sprintf("Resolving %s", name)))
	if err != nil {
		return cmdutil.Fail("resolving template", err)
	}

	// stdout carries only the directory so the command composes in scripts.
	fmt.Fprintln(c.ErrOrStderr(), output.FormatStatusLine(res.Name, string(res.Source)))
	fmt.Fprintln(c.ErrOrStderr(), output.FormatResolved(res.Name, res.Dir))
	fmt.Fprintln(c.OutOrStdout(), res.Dir)
	return nil
}
