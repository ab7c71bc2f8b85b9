// Package manifest provides CLI command implementations for the manifest command group.
package manifest

import (
	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
)

// NewManifestCmd creates the manifest command group.
func NewManifestCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "manifest",
		Short: "Asset manifest operations",
	}

	c.AddCommand(NewClassifyCmd(gc))

	return c
}
