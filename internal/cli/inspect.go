package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
	"github.com/BenJenkinson/react-spaces/pkg/render/css"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// inspectCommand creates the inspect command, which prints the mounted
// tree with every edge's adjustment list and resolved box.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		resizeStrs []string
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:               "inspect [layout]",
		Short:             "Show each space's edges, adjustments and resolved box",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseResizes(resizeStrs)
			if err != nil {
				return err
			}
			opts.resizes = steps
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from document, then 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from document, then 600)")
	cmd.Flags().Float64Var(&opts.handleSize, "handle-size", 0, "resize handle thickness for spaces that do not set one")
	cmd.Flags().StringArrayVarP(&resizeStrs, "resize", "r", nil, "drag a space's handle first: id=dx,dy (repeatable)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts renderOpts) error {
	doc, _, err := spacesio.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Layout(ctx, doc, c.renderPipelineOptions(ctx, opts))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, StyleTitle.Render(displayName(doc, input)))
	fmt.Fprintf(c.Out, "%s\n\n", StyleDim.Render("viewport "+formatViewport(result.Viewport)))
	fmt.Fprintln(c.Out, inspectTable(result, doc.Labels()))
	return nil
}

// inspectTable renders one row per resolved box, indented by depth.
func inspectTable(result *pipeline.Result, labels map[string]string) string {
	rows := make([][]string, 0, len(result.Boxes))
	resizing := make(map[int]bool)
	for _, b := range result.Boxes {
		sp, ok := result.Store.GetSpace(b.ID)
		if !ok {
			continue
		}
		if sp.Resizing {
			resizing[len(rows)] = true
		}
		rows = append(rows, inspectRow(b, sp, labels[b.ID]))
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Space", "Type", "Order", "Z", "Left", "Top", "Right", "Bottom", "Width", "Height", "Box").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case resizing[row]:
				return base.Foreground(colorYellow)
			case col == 0:
				return base.Foreground(colorCyan)
			case col == 10:
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}

func inspectRow(b geometry.Box, sp *spaces.Space, label string) []string {
	name := strings.Repeat("  ", b.Depth) + sp.ID
	if label != "" && label != sp.ID {
		name += " (" + label + ")"
	}
	typ := sp.Type.String()
	if sp.Type == spaces.TypeAnchored {
		typ += " " + sp.Anchor.String()
	}
	return []string{
		name,
		typ,
		strconv.Itoa(sp.Order),
		strconv.Itoa(sp.ZIndex),
		sizeCell(sp.Left),
		sizeCell(sp.Top),
		sizeCell(sp.Right),
		sizeCell(sp.Bottom),
		sizeCell(sp.Width),
		sizeCell(sp.Height),
		formatRect(b.Rect),
	}
}

// sizeCell renders a size field the way the style sheet would, or "-" when the
// property is left out.
func sizeCell(info spaces.SizeInfo) string {
	if v := css.Value(info); v != "" {
		return v
	}
	return "-"
}
