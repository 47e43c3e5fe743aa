package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/cache"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format), "-" for stdout, or base path
	formats    []string // output formats: svg, css, json, dot, png, pdf
	width      float64  // viewport width, 0 for config/document/default
	height     float64  // viewport height
	handleSize float64  // handle thickness for resizable spaces without one
	resizes    []pipeline.ResizeStep
	labels     bool // draw labels in SVG output
	handles    bool // draw resize handles in SVG output
	detailed   bool // list edge sizes in DOT labels
	noCache    bool // disable the artifact cache
	refresh    bool // re-render even when cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		resizeStrs []string
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [layout]",
		Short: "Render a layout document to SVG, CSS, JSON, DOT, PNG or PDF",
		Long: `Render mounts a layout document, replays any --resize drags through the
resize controller and writes the resolved layout in each requested format.

Resizes take the form id=dx,dy: the space's handle is pressed at its
centre, moved by (dx, dy) and released.`,
		Example: `  spaces render app.toml
  spaces render app.toml -f svg,css --labels --handles
  spaces render app.toml --resize sidebar=40,0 -f css -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			steps, err := parseResizes(resizeStrs)
			if err != nil {
				return err
			}
			opts.resizes = steps
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), - for stdout, or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), css, json, dot, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from document, then 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from document, then 600)")
	cmd.Flags().Float64Var(&opts.handleSize, "handle-size", 0, "resize handle thickness for spaces that do not set one")
	cmd.Flags().StringArrayVarP(&resizeStrs, "resize", "r", nil, "drag a space's handle: id=dx,dy (repeatable)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw space labels (svg)")
	cmd.Flags().BoolVar(&opts.handles, "handles", false, "draw resize handles (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list edge sizes in node labels (dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when outputs are cached")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender loads the layout at input and writes every requested artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, _, err := spacesio.Import(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded layout", "path", input, "spaces", len(doc.Spaces))

	popts := c.renderPipelineOptions(ctx, opts)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+displayName(doc, input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, doc, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	if nc, ok := runner.Cache.(*cache.NullCache); ok {
		logger.Debug("cache disabled", "uncached_bytes", nc.Dropped())
	}

	paths, err := c.writeArtifacts(result, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", displayName(doc, input))
	printStats(result.Stats.SpaceCount, result.Stats.ResizeCount, result.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done("Rendered "+displayName(doc, input), "formats", result.Formats())
	return nil
}

// renderPipelineOptions layers the render flags over the config defaults.
func (c *CLI) renderPipelineOptions(ctx context.Context, opts renderOpts) pipeline.Options {
	popts := c.pipelineOptions(ctx)
	if opts.width > 0 {
		popts.Width = opts.width
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}
	if opts.handleSize > 0 {
		popts.HandleSize = opts.handleSize
	}
	if len(opts.formats) > 0 {
		popts.Formats = opts.formats
	}
	popts.Resizes = opts.resizes
	popts.Labels = opts.labels
	popts.Handles = opts.handles
	popts.Detailed = opts.detailed
	popts.Refresh = opts.refresh
	return popts
}

// writeArtifacts writes each artifact of result and returns the paths
// written. A single format goes to output verbatim ("-" is stdout); several
// formats go to <base>.<format>.
func (c *CLI) writeArtifacts(result *pipeline.Result, input, output string) ([]string, error) {
	formats := result.Formats()
	if len(formats) == 1 && output != "" {
		if output == "-" {
			_, err := c.Out.Write(result.Artifacts[formats[0]])
			return nil, err
		}
		if err := writeFile(output, result.Artifacts[formats[0]]); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}
	if output == "-" {
		return nil, fmt.Errorf("cannot write %d formats to stdout", len(formats))
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .css, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput returns a writer for the given path, or stdout if path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// displayName prefers the document's name over its path.
func displayName(doc *spacesio.Document, path string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return filepath.Base(path)
}
