package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	"github.com/pwakit/buildpack/internal/output"
)

// NewListCmd creates the template list command.
func NewListCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List known template aliases",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			resolver, err := cmdutil.NewTemplateResolver(gc)
			if err != nil {
				return cmdutil.Fail("configuring template resolver", err)
			}

			tbl := output.NewTable("NAME", "PACKAGE", "DIR")
			for _, a := range resolver.Aliases().List() {
				pkg := a.Package
				if pkg == "" {
					pkg = "-"
				}
				tbl.Row(a.Name, pkg, a.Dir)
			}
			fmt.Fprintln(c.OutOrStdout(), tbl.String())
			return nil
		},
	}

	return c
}
