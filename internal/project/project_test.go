package project

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwakit/buildpack/internal/bundler"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/output"
)

const sampleProject = `
devServer: {
	host: "shop.local"
	port: 8080
}
customOrigin: {
	host: "custom.local"
}
backend: backendUrl: "https://backend.test"
upwardJs: upwardPath: "upward.yml"
env: {
	MAGENTO_BACKEND_EDITION: "CE"
	IMAGE_CACHE_DAYS:        3
}
features: {
	cssModules: ["node_modules/@acme/venia-ui"]
	upward: ["/opt/upward"]
}
vendor: ["react", "redux"]
`

func writeProject(t *testing.T, cue, env string) string {
	t.Helper()
	dir := t.TempDir()
	if cue != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cue), 0o644))
	}
	if env != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte(env), 0o644))
	}
	return dir
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.Section("devServer"))
	assert.Empty(t, cfg.Env())
	assert.Empty(t, cfg.SectionNames())

	flags, err := cfg.FeatureFlags()
	require.NoError(t, err)
	assert.Empty(t, flags)

	vendor, err := cfg.Vendor()
	require.NoError(t, err)
	assert.Nil(t, vendor)
}

func TestLoad_Sections(t *testing.T) {
	cfg, err := Load(writeProject(t, sampleProject, ""))
	require.NoError(t, err)

	dev := cfg.Section("devServer")
	assert.Equal(t, "shop.local", dev["host"])
	assert.EqualValues(t, 8080, dev["port"])

	merged := cfg.Sections("devServer", "customOrigin")
	assert.Equal(t, "custom.local", merged["host"], "later sections win")
	assert.EqualValues(t, 8080, merged["port"])

	assert.Empty(t, cfg.Section("missing"))
	assert.Empty(t, cfg.Section("vendor"), "non-struct sections are empty")

	assert.Equal(t, []string{"backend", "customOrigin", "devServer", "env", "features", "upwardJs", "vendor"}, cfg.SectionNames())
}

func TestLoad_Env(t *testing.T) {
	dir := writeProject(t, sampleProject, "MAGENTO_BACKEND_URL=https://backend.test\nMAGENTO_BACKEND_EDITION=EE\n")
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"MAGENTO_BACKEND_URL":     "https://backend.test",
		"MAGENTO_BACKEND_EDITION": "CE",
		"IMAGE_CACHE_DAYS":        "3",
	}, cfg.Env())
}

func TestLoad_EnvOnly(t *testing.T) {
	cfg, err := Load(writeProject(t, "", "A=1\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, cfg.Env())
}

func TestLoad_FeatureFlagsAndVendor(t *testing.T) {
	dir := writeProject(t, sampleProject, "")
	cfg, err := Load(dir)
	require.NoError(t, err)

	flags, err := cfg.FeatureFlags()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cfg.Dir(), "node_modules", "@acme", "venia-ui")}, flags.Paths(bundler.FlagCSSModules))
	assert.Equal(t, []string{filepath.FromSlash("/opt/upward")}, flags.Paths(bundler.FlagUpward))

	vendor, err := cfg.Vendor()
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "redux"}, vendor)
}

func TestLoad_InvalidCUE(t *testing.T) {
	tests := []struct {
		name string
		cue  string
	}{
		{"syntax error", "devServer: {"},
		{"conflict", "port: 1\nport: 2\n"},
		{"incomplete", "port: int\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.cue, "")
			_, err := Load(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrValidation)

			var detail *oerrors.DetailError
			require.ErrorAs(t, err, &detail)
			assert.Equal(t, filepath.Join(dir, FileName), detail.Location)
		})
	}
}

func TestLoad_BadFeatureShape(t *testing.T) {
	cfg, err := Load(writeProject(t, "features: cssModules: \"src\"\n", ""))
	require.NoError(t, err)

	_, err = cfg.FeatureFlags()
	assert.Error(t, err)
}

func TestSection_LogsUnusableSection(t *testing.T) {
	var buf bytes.Buffer
	output.SetupLoggingTo(&buf, output.LogConfig{})
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })

	dir := writeProject(t, "devServer: \"localhost:8080\"\nbackend: backendUrl: \"https://backend.test\"\n", "")
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Empty(t, cfg.Section("devServer"))
	assert.Contains(t, buf.String(), "not a struct")
	assert.Contains(t, buf.String(), "devServer")

	buf.Reset()
	assert.Equal(t, map[string]any{"backendUrl": "https://backend.test"}, cfg.Section("backend"))
	assert.Empty(t, cfg.Section("missing"))
	assert.Empty(t, buf.String())
}
