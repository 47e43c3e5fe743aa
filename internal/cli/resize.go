package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
)

// resizeOpts holds the flags of the resize command.
type resizeOpts struct {
	renderOpts
	space string // space whose handle is dragged
	by    string // dx,dy relative to the handle centre
	from  string // x,y press point in page coordinates
	to    string // x,y release point in page coordinates
}

// resizeCommand creates the resize command, which performs one drag and
// prints the rules of the spaces it changed.
func (c *CLI) resizeCommand() *cobra.Command {
	var opts resizeOpts

	cmd := &cobra.Command{
		Use:   "resize [layout]",
		Short: "Drag one resize handle and show the styles that changed",
		Long: `Resize mounts a layout, drags one handle through the resize controller and
prints the CSS rule of every space whose styles changed.

Either name the space with --space and move its handle --by dx,dy, or give
page coordinates with --from and --to. The press point must lie on a handle.`,
		Example: `  spaces resize app.toml --space sidebar --by 40,0
  spaces resize app.toml --from 197,100 --to 260,100`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResize(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.space, "space", "s", "", "space whose handle is dragged")
	cmd.Flags().StringVar(&opts.by, "by", "", "drag distance dx,dy from the handle centre")
	cmd.Flags().StringVar(&opts.from, "from", "", "press point x,y")
	cmd.Flags().StringVar(&opts.to, "to", "", "release point x,y")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from document, then 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from document, then 600)")
	cmd.Flags().Float64Var(&opts.handleSize, "handle-size", 0, "resize handle thickness for spaces that do not set one")

	return cmd
}

func (c *CLI) runResize(ctx context.Context, input string, opts resizeOpts) error {
	doc, _, err := spacesio.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Layout(ctx, doc, c.renderPipelineOptions(ctx, opts.renderOpts))
	if err != nil {
		return err
	}

	before := snapshotRules(result)
	id, err := dragFromFlags(result, opts)
	if err != nil {
		return err
	}

	boxes, err := geometry.Measure(result.Root, result.Viewport)
	if err != nil {
		return err
	}
	sp, _ := result.Store.GetSpace(id)
	box, _ := geometry.Find(boxes, id)

	printSuccess("%s", formatDrag(id, sp.CrossSize().Resized))
	printDetail("%s now at %s", id, formatRect(box.Rect))

	changed := changedRules(result, before)
	if len(changed) == 0 {
		printInfo("No styles changed")
		return nil
	}
	fmt.Fprintln(c.Out)
	for _, rule := range changed {
		fmt.Fprint(c.Out, rule)
	}
	return nil
}

// dragFromFlags performs the drag described by opts and returns the id of
// the dragged space.
func dragFromFlags(result *pipeline.Result, opts resizeOpts) (string, error) {
	if opts.from != "" {
		if opts.to == "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "--from needs --to")
		}
		from, err := pipeline.ParsePoint(opts.from)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "--from")
		}
		to, err := pipeline.ParsePoint(opts.to)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "--to")
		}
		return pipeline.DragAt(result.Store, result.Boxes, from, to)
	}

	if opts.space == "" || opts.by == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "give --space and --by, or --from and --to")
	}
	delta, err := pipeline.ParsePoint(opts.by)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "--by")
	}
	step := pipeline.ResizeStep{Space: opts.space, Delta: delta}
	return opts.space, pipeline.Drag(result.Store, result.Boxes, step)
}

// snapshotRules copies every rule currently in the result's sheet.
func snapshotRules(result *pipeline.Result) map[string]string {
	rules := make(map[string]string)
	for _, sp := range result.Store.GetSpaces() {
		if rule, ok := result.Sheet.Rule(sp.ID); ok {
			rules[sp.ID] = rule
		}
	}
	return rules
}

// changedRules returns the rules that differ from before, in mount order.
func changedRules(result *pipeline.Result, before map[string]string) []string {
	var out []string
	for _, sp := range result.Store.GetSpaces() {
		rule, ok := result.Sheet.Rule(sp.ID)
		if ok && rule != before[sp.ID] {
			out = append(out, strings.TrimRight(rule, "\n")+"\n")
		}
	}
	return out
}
