package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	"github.com/pwakit/buildpack/internal/config"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

const configHeader = "# buildpack CLI configuration\n# Environment variables with the BUILDPACK_ prefix override these values.\n\n"

// NewInitCmd creates the config init command.
func NewInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new configuration file",
		Long: `Create a new buildpack configuration file with default values.

The configuration file is created at ~/.buildpack/config.yaml by default.
Use --config flag to specify a different location.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, gc, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return c
}

func runInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, force bool) error {
	configFile := gc.ConfigPath
	if configFile == "" {
		var err error
		if configFile, err = config.GetConfigFile(); err != nil {
			return fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := config.ExpandPath(configFile)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.ConfigFileExists(expandedPath)
	if err != nil {
		return cmdutil.Fail("checking config file", permissionError("checking config file", expandedPath, err))
	}
	if exists && !force {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitValidationError,
			Err:  fmt.Errorf("config file already exists at %s (use --force to overwrite)", expandedPath),
		}
	}

	if err := config.EnsureDir(expandedPath); err != nil {
		return cmdutil.Fail("creating config directory", permissionError("creating config directory", expandedPath, err))
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(expandedPath, data, 0o644); err != nil {
		return cmdutil.Fail("writing config file", permissionError("writing config file", expandedPath, err))
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+expandedPath))
	return nil
}

func permissionError(action, path string, err error) error {
	return oerrors.NewPermissionError(
		fmt.Sprintf("%s: %v", action, err),
		map[string]string{"Path": path},
		"Use --config to choose a writable location.")
}
