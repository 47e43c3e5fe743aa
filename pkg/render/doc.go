// Package render turns resolved layouts into artifacts.
//
// # Overview
//
// The subpackages each cover one output:
//
//   - [css]: a style sink producing one CSS rule per space, with adjustment
//     lists kept as calc() sums
//   - [sink]: SVG and JSON documents drawn from resolved pixel boxes
//   - [nodelink]: the space tree as a Graphviz diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(boxes, opts...)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [css]: github.com/BenJenkinson/react-spaces/pkg/render/css
// [sink]: github.com/BenJenkinson/react-spaces/pkg/render/sink
// [nodelink]: github.com/BenJenkinson/react-spaces/pkg/render/nodelink
package render
