package template

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/config"
	"github.com/pwakit/buildpack/internal/template"
	"github.com/pwakit/buildpack/internal/testutil"
)

func globalConfig(t *testing.T, templatesDir string) *cmdtypes.GlobalConfig {
	t.Helper()
	gc := &cmdtypes.GlobalConfig{
		Config: &config.Config{
			Templates: []template.Alias{{Name: "acme", Package: "@acme/storefront", Dir: "acme-storefront"}},
		},
	}
	gc.Flags.TemplatesDir = templatesDir
	gc.Flags.CacheDir = t.TempDir()
	gc.Flags.Registry = "http://127.0.0.1:1"
	return gc
}

func TestTemplateList(t *testing.T) {
	c := NewTemplateCmd(globalConfig(t, t.TempDir()))
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"list"})
	require.NoError(t, c.Execute())

	text := out.String()
	assert.Contains(t, text, "NAME")
	assert.Contains(t, text, "venia-concept")
	assert.Contains(t, text, "@magento/venia-concept")
	assert.Contains(t, text, "@acme/storefront")
	assert.Less(t, strings.Index(text, "acme"), strings.Index(text, "venia-concept"))
}

func TestTemplateResolve_Local(t *testing.T) {
	templatesDir := t.TempDir()
	dir := testutil.NewTemplate(t, templatesDir, "acme-storefront")

	c := NewTemplateCmd(globalConfig(t, templatesDir))
	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs([]string{"resolve", "acme"})
	require.NoError(t, c.Execute())

	assert.Equal(t, dir+"\n", out.String())
	assert.Contains(t, errOut.String(), "local")
}

func TestTemplateResolve_Unreachable(t *testing.T) {
	c := NewTemplateCmd(globalConfig(t, t.TempDir()))
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"resolve", "acme"})

	err := c.Execute()
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitConnectivityError, exitCodeOf(err))
}

func exitCodeOf(err error) int {
	if e, ok := err.(*cmdtypes.ExitError); ok {
		return e.Code
	}
	return -1
}
