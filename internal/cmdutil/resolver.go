package cmdutil

import (
	"os"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/config"
	"github.com/pwakit/buildpack/internal/template"
)

// NewTemplateResolver builds a template resolver from the resolved CLI
// configuration.
func NewTemplateResolver(gc *cmdtypes.GlobalConfig) (*template.Resolver, error) {
	cfg := gc.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	resolved := gc.Resolved
	if resolved == nil {
		var err error
		resolved, err = config.Resolve(config.ResolveOptions{
			RegistryFlag:     gc.Flags.Registry,
			CacheDirFlag:     gc.Flags.CacheDir,
			TemplatesDirFlag: gc.Flags.TemplatesDir,
			Config:           cfg,
		})
		if err != nil {
			return nil, err
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return template.NewResolver(template.Options{
		Aliases:      cfg.Aliases(),
		TemplatesDir: resolved.TemplatesDir.Value,
		WorkDir:      wd,
		CacheDir:     resolved.CacheDir.Value,
		Registry:     template.NewNPMRegistry(resolved.Registry.Value),
	})
}
