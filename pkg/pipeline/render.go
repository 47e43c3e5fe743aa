package pipeline

import (
	"context"
	"fmt"

	"github.com/BenJenkinson/react-spaces/pkg/render"
	"github.com/BenJenkinson/react-spaces/pkg/render/nodelink"
	"github.com/BenJenkinson/react-spaces/pkg/render/sink"
)

// Render generates output artifacts in the requested formats from a laid
// out result.
func Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(result.Boxes, buildSVGOptions(result, opts)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.ToPNG(svgOnce(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svgOnce())
		case FormatJSON:
			data, err = sink.RenderJSON(result.Boxes, buildJSONOptions(result, opts)...)
		case FormatCSS:
			data = result.Sheet.Bytes()
		case FormatDOT:
			data = []byte(nodelink.ToDOT(result.Root, nodelink.Options{
				Detailed: opts.Detailed,
				Labels:   result.Document.Labels(),
			}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(result *Result, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithSize(result.Viewport.W, result.Viewport.H),
	}
	if result.Document.Name != "" {
		svgOpts = append(svgOpts, sink.WithTitle(result.Document.Name))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels(result.Document.Labels()))
	}
	if opts.Handles {
		svgOpts = append(svgOpts, sink.WithHandles())
	}
	return svgOpts
}

// buildJSONOptions attaches the viewport, labels and each space's CSS rule.
func buildJSONOptions(result *Result, opts Options) []sink.JSONOption {
	rules := make(map[string]string, len(result.Boxes))
	for _, b := range result.Boxes {
		if rule, ok := result.Sheet.Rule(b.ID); ok {
			rules[b.ID] = rule
		}
	}
	jsonOpts := []sink.JSONOption{
		sink.WithJSONName(result.Document.Name),
		sink.WithJSONViewport(result.Viewport.W, result.Viewport.H),
		sink.WithJSONStyles(rules),
	}
	if opts.Labels {
		jsonOpts = append(jsonOpts, sink.WithJSONLabels(result.Document.Labels()))
	}
	return jsonOpts
}
