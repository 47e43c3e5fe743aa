// Package nodelink renders a space tree as a node-link diagram.
//
// # Overview
//
// Each space is a box, coloured by type, with arrows from parents to their
// children in mount order. The diagram is a debugging aid: with
// [Options].Detailed set, every label lists the space's anchor, order and
// the full size expression of each edge, including adjustment lists and drag
// offsets, so the effect of a recalculation can be read off directly.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// Rendering uses the Graphviz WebAssembly build bundled with go-graphviz, so
// no system Graphviz installation is needed. PDF and PNG need rsvg-convert.
package nodelink
