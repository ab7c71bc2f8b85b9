package bundler

import (
	"encoding/json"
	"path/filepath"

	"github.com/pwakit/buildpack/internal/manifest"
)

// Plugin is a bundler plugin and its options.
type Plugin interface {
	PluginName() string
}

// PluginList is the ordered plugin set of a configuration.
type PluginList []Plugin

// MarshalJSON writes each plugin as {"name": ..., "options": ...}.
func (pl PluginList) MarshalJSON() ([]byte, error) {
	type named struct {
		Name    string `json:"name"`
		Options Plugin `json:"options"`
	}
	out := make([]named, 0, len(pl))
	for _, p := range pl {
		out = append(out, named{Name: p.PluginName(), Options: p})
	}
	return json.Marshal(out)
}

// Find returns the first plugin with the given name.
func (pl PluginList) Find(name string) (Plugin, bool) {
	for _, p := range pl {
		if p.PluginName() == name {
			return p, true
		}
	}
	return nil, false
}

// Plugin names.
const (
	RootComponentsPluginName = "RootComponentsPlugin"
	EnvironmentPluginName    = "EnvironmentPlugin"
	UpwardIncludePluginName  = "UpwardIncludePlugin"
	AssetManifestPluginName  = "WebpackAssetsManifest"
)

// RootComponentsPlugin discovers root components and emits each as its
// own chunk.
type RootComponentsPlugin struct {
	Dirs    []string `json:"rootComponentsDirs"`
	Context string   `json:"context"`
}

// PluginName implements Plugin.
func (*RootComponentsPlugin) PluginName() string { return RootComponentsPluginName }

// EnvironmentPlugin injects variables into client code.
type EnvironmentPlugin struct {
	Vars map[string]string `json:"vars"`
}

// PluginName implements Plugin.
func (*EnvironmentPlugin) PluginName() string { return EnvironmentPluginName }

// UpwardIncludePlugin copies files referenced by the UPWARD definition
// into the build output.
type UpwardIncludePlugin struct {
	Dirs []string `json:"upwardDirs"`
}

// PluginName implements Plugin.
func (*UpwardIncludePlugin) PluginName() string { return UpwardIncludePluginName }

// AssetManifestPlugin writes the asset manifest after each compilation and
// annotates it with the classified bundle returned by Transform.
type AssetManifestPlugin struct {
	Output      string `json:"output"`
	Entrypoints bool   `json:"entrypoints"`
	PublicPath  string `json:"publicPath"`

	Transform func(*manifest.Manifest) manifest.ClassifiedBundle `json:"-"`
}

// PluginName implements Plugin.
func (*AssetManifestPlugin) PluginName() string { return AssetManifestPluginName }

// rootComponentDirs expands every module directory into the three
// conventional locations of a RootComponents folder.
func rootComponentDirs(moduleDirs []string) []string {
	dirs := make([]string, 0, len(moduleDirs)*3)
	for _, dir := range moduleDirs {
		dirs = append(dirs,
			filepath.Join(dir, "RootComponents"),
			filepath.Join(dir, "src", "RootComponents"),
			filepath.Join(dir, "lib", "RootComponents"),
		)
	}
	return dirs
}

// basePlugins builds the plugin set shared by every mode.
func basePlugins(req BuildRequest, project ProjectConfig) PluginList {
	flags := req.FeatureFlags

	env := make(map[string]string)
	for k, v := range project.Env() {
		env[k] = v
	}

	return PluginList{
		&RootComponentsPlugin{
			Dirs:    rootComponentDirs(append(flags.Paths(FlagRootComponents), req.Context)),
			Context: req.Context,
		},
		&EnvironmentPlugin{Vars: env},
		&UpwardIncludePlugin{
			Dirs: append(flags.Paths(FlagUpward), req.Context),
		},
		&AssetManifestPlugin{
			Output:      "asset-manifest.json",
			Entrypoints: true,
			PublicPath:  "/",
			Transform:   manifest.Classify,
		},
	}
}
