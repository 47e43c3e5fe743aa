package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/BenJenkinson/react-spaces/pkg/render"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the type, anchor, order and edge sizes to node labels.
	// When false, only the label (or ID) is shown.
	Detailed bool

	// Labels maps space IDs to display names.
	Labels map[string]string
}

// typeFill colours nodes by space type.
var typeFill = map[spaces.Type]string{
	spaces.TypeFill:     "white",
	spaces.TypeAnchored: "lightblue",
	spaces.TypeFixed:    "lightyellow",
	spaces.TypeViewPort: "lightyellow",
}

// ToDOT converts a space tree to Graphviz DOT format. Parents point to their
// children in mount order. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Spaces that are being resized are drawn with a dashed outline.
func ToDOT(root *spaces.Space, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges []string
	var walk func(*spaces.Space)
	walk = func(s *spaces.Space) {
		label := fmtLabel(s, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(fmtAttrs(s, label), ", "))
		for _, c := range s.Children {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", s.ID, c.ID))
			walk(c)
		}
	}
	walk(root)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s *spaces.Space, opts Options) string {
	name := s.ID
	if l, ok := opts.Labels[s.ID]; ok && l != "" {
		name = l
	}
	if !opts.Detailed {
		return name
	}

	kind := s.Type.String()
	if s.Type == spaces.TypeAnchored {
		kind += " " + s.Anchor.String()
	}
	parts := []string{kind, fmt.Sprintf("order: %d", s.Order)}
	if s.ZIndex != 0 {
		parts = append(parts, fmt.Sprintf("zIndex: %d", s.ZIndex))
	}
	for _, a := range spaces.Anchors {
		if v := fmtSize(s.Edge(a)); v != "" {
			parts = append(parts, a.String()+": "+v)
		}
	}
	if v := fmtSize(&s.Width); v != "" {
		parts = append(parts, "width: "+v)
	}
	if v := fmtSize(&s.Height); v != "" {
		parts = append(parts, "height: "+v)
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// fmtSize lists the terms of a size as "a + b + c".
func fmtSize(info *spaces.SizeInfo) string {
	var terms []string
	if info.Size.IsSet() {
		terms = append(terms, info.Size.String())
	}
	for _, u := range info.Adjusted {
		terms = append(terms, u.String())
	}
	if info.Resized != 0 {
		terms = append(terms, spaces.Px(info.Resized).String())
	}
	return strings.Join(terms, " + ")
}

func fmtAttrs(s *spaces.Space, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := typeFill[s.Type]; ok && fill != "white" {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if s.Resizing {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
