package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pwakit/buildpack/internal/cmdtypes"
	"github.com/pwakit/buildpack/internal/cmdutil"
	oerrors "github.com/pwakit/buildpack/internal/errors"
	"github.com/pwakit/buildpack/internal/manifest"
	"github.com/pwakit/buildpack/internal/output"
)

// NewClassifyCmd creates the manifest classify command.
func NewClassifyCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	var outputFlag string

	c := &cobra.Command{
		Use:   "classify <file>",
		Short: "Sort manifest artifacts into load and prefetch tiers",
		Long: `Read an asset manifest written by the bundler and classify its artifacts.

Scripts of the client entry point are loaded eagerly. Root component
chunks are prefetched. With -o json the manifest is rewritten with the
bundles section and one section per file type added.

Examples:
  buildpack manifest classify dist/asset-manifest.json
  buildpack manifest classify dist/asset-manifest.json -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runClassify(c, args[0], outputFlag)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "json", "Output format: json, table")

	return c
}

func runClassify(c *cobra.Command, file, outputFmt string) error {
	format, ok := output.ParseOutputFormat(outputFmt)
	if !ok || format == output.FormatYAML {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitValidationError,
			Err:  fmt.Errorf("invalid output format %q (valid: json, table)", outputFmt),
		}
	}

	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cmdutil.Fail("reading manifest",
				oerrors.NewNotFoundError("manifest file does not exist", file, ""))
		}
		return cmdutil.Fail("reading manifest", err)
	}
	defer f.Close()

	m, err := manifest.Decode(f)
	if err != nil {
		return cmdutil.Fail("reading manifest", errors.Join(oerrors.ErrValidation, err))
	}
	b := manifest.Classify(m)

	w := c.OutOrStdout()
	if format == output.FormatJSON {
		return manifest.Encode(w, m, b)
	}

	tbl := output.NewTable("FILE", "TIER")
	for _, name := range b.Load {
		tbl.Row(name, output.StatusLoad)
	}
	for _, name := range b.Prefetch {
		tbl.Row(name, output.StatusPrefetch)
	}
	fmt.Fprintln(w, tbl.String())
	return nil
}
