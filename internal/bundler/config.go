package bundler

import (
	"encoding/json"
)

// Configuration is the bundler configuration for one build. Its JSON form
// follows the bundler's own option names.
type Configuration struct {
	Mode         Mode              `json:"mode"`
	Context      string            `json:"context"`
	Entry        map[string]string `json:"entry"`
	Output       Output            `json:"output"`
	Module       Module            `json:"module"`
	Resolve      Resolve           `json:"resolve"`
	Plugins      PluginList        `json:"plugins"`
	Devtool      Devtool           `json:"devtool"`
	Optimization Optimization      `json:"optimization"`
	Performance  *Performance      `json:"performance,omitempty"`
	DevServer    *DevServer        `json:"devServer,omitempty"`
}

// Output controls where and under which names artifacts are written.
type Output struct {
	Path                          string `json:"path"`
	PublicPath                    string `json:"publicPath"`
	Filename                      string `json:"filename"`
	ChunkFilename                 string `json:"chunkFilename"`
	StrictModuleExceptionHandling bool   `json:"strictModuleExceptionHandling"`
}

// Module holds the ordered module transform rules.
type Module struct {
	Rules Rules `json:"rules"`
}

// Resolve controls how import specifiers are located.
type Resolve struct {
	Modules    []string          `json:"modules"`
	MainFiles  []string          `json:"mainFiles"`
	Extensions []string          `json:"extensions"`
	Alias      map[string]string `json:"alias"`
}

// Devtool names the source map strategy. The zero value disables source
// maps and is written as false.
type Devtool string

// Source map strategies.
const (
	DevtoolNone          Devtool = ""
	DevtoolSourceMap     Devtool = "source-map"
	DevtoolEvalSourceMap Devtool = "eval-source-map"
)

// Enabled reports whether source maps are produced.
func (d Devtool) Enabled() bool {
	return d != DevtoolNone
}

// MarshalJSON writes false for disabled source maps.
func (d Devtool) MarshalJSON() ([]byte, error) {
	if !d.Enabled() {
		return []byte("false"), nil
	}
	return json.Marshal(string(d))
}

// Optimization controls chunk naming, splitting and minimization.
type Optimization struct {
	ModuleIDs          string      `json:"moduleIds,omitempty"`
	NodeEnv            string      `json:"nodeEnv,omitempty"`
	Minimize           *bool       `json:"minimize,omitempty"`
	OccurrenceOrder    bool        `json:"occurrenceOrder,omitempty"`
	UsedExports        bool        `json:"usedExports,omitempty"`
	ConcatenateModules bool        `json:"concatenateModules,omitempty"`
	SideEffects        bool        `json:"sideEffects,omitempty"`
	Minimizer          []Minimizer `json:"minimizer,omitempty"`
	SplitChunks        SplitChunks `json:"splitChunks"`
}

// Minimizes reports whether minimization is enabled.
func (o Optimization) Minimizes() bool {
	return o.Minimize != nil && *o.Minimize
}

// SplitChunks groups modules into shared chunks.
type SplitChunks struct {
	CacheGroups map[string]CacheGroup `json:"cacheGroups"`
}

// CacheGroup selects modules by path pattern into a named chunk.
type CacheGroup struct {
	// Test is a regular expression matched against the module path.
	Test   string `json:"test"`
	Chunks string `json:"chunks"`
}

// Minimizer configures the script minifier.
type Minimizer struct {
	Name     string        `json:"name"`
	Parallel bool          `json:"parallel"`
	Cache    bool          `json:"cache"`
	Options  TerserOptions `json:"terserOptions"`
}

// TerserOptions are passed to the minifier unchanged.
type TerserOptions struct {
	Ecma       int             `json:"ecma"`
	Parse      ParseOptions    `json:"parse"`
	Compress   CompressOptions `json:"compress"`
	Output     PrintOptions    `json:"output"`
	KeepFnames bool            `json:"keep_fnames"`
}

// ParseOptions sets the language level accepted by the minifier's parser.
type ParseOptions struct {
	Ecma int `json:"ecma"`
}

// CompressOptions controls the compressor.
type CompressOptions struct {
	DropConsole bool `json:"drop_console"`
}

// PrintOptions controls the printed output.
type PrintOptions struct {
	Ecma       int  `json:"ecma"`
	Semicolons bool `json:"semicolons"`
}

// Performance controls asset size warnings.
type Performance struct {
	Hints string `json:"hints"`
}

// DevServer is filled in by a DevServerConfigurator.
type DevServer struct {
	Host              string            `json:"host"`
	Port              int               `json:"port"`
	HTTPS             bool              `json:"https"`
	Hot               bool              `json:"hot"`
	PublicPath        string            `json:"publicPath"`
	GraphQLPlayground bool              `json:"graphqlPlayground"`
	UpwardPath        string            `json:"upwardPath,omitempty"`
	Proxy             map[string]string `json:"proxy,omitempty"`
	Extra             map[string]any    `json:"extra,omitempty"`
}
