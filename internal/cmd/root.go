// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/pwakit/buildpack/internal/cmd/config"
	manifestcmd "github.com/pwakit/buildpack/internal/cmd/manifest"
	templatecmd "github.com/pwakit/buildpack/internal/cmd/template"
	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/config"
	"github.com/pwakit/buildpack/internal/output"
)

// NewRootCmd creates the root command for the buildpack CLI.
func NewRootCmd() *cobra.Command {
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "buildpack",
		Short: "Front-end build configuration toolkit",
		Long: `buildpack assembles bundler configurations for storefront projects,
resolves project templates, and inspects asset manifests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, gc)
		},
	}

	f := &gc.Flags
	rootCmd.PersistentFlags().StringVar(&f.Config, "config", "", "Path to config file (env: BUILDPACK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&f.Registry, "registry", "", "Package registry URL (env: BUILDPACK_REGISTRY)")
	rootCmd.PersistentFlags().StringVar(&f.CacheDir, "cache-dir", "", "Template cache directory (env: BUILDPACK_CACHE_DIR)")
	rootCmd.PersistentFlags().StringVar(&f.TemplatesDir, "templates-dir", "", "Local template checkouts (env: BUILDPACK_TEMPLATES_DIR)")
	rootCmd.PersistentFlags().BoolVar(&f.Timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(configcmd.NewConfigCmd(gc))
	rootCmd.AddCommand(templatecmd.NewTemplateCmd(gc))
	rootCmd.AddCommand(manifestcmd.NewManifestCmd(gc))
	rootCmd.AddCommand(NewVersionCmd(gc))

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: gc.Flags.Config,
	})
	if err != nil {
		return err
	}
	gc.ConfigPath = configPath.Value

	// A broken config file must not block commands such as config init.
	cfg, loadErr := config.NewLoader().Load(gc.ConfigPath)
	if loadErr != nil {
		cfg = &config.Config{}
	}
	gc.Config = cfg

	logCfg := output.LogConfig{
		Verbose: gc.Flags.Verbose,
	}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(gc.Flags.Timestamps)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if loadErr != nil {
		output.Warn("ignoring config file", "path", gc.ConfigPath, "error", loadErr)
	}

	resolved, err := config.Resolve(config.ResolveOptions{
		RegistryFlag:     gc.Flags.Registry,
		CacheDirFlag:     gc.Flags.CacheDir,
		TemplatesDirFlag: gc.Flags.TemplatesDir,
		Config:           cfg,
	})
	if err != nil {
		return err
	}
	gc.Resolved = resolved

	if gc.Flags.Verbose {
		config.LogResolvedValues(append([]config.ResolvedValue{configPath}, resolved.Values()...))
	}

	return nil
}
