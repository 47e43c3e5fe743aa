package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

const spaceCSS = `
    .space { stroke: #4a4a4a; stroke-width: 1; }
    .space.resizing { stroke: #d9480f; stroke-width: 2; stroke-dasharray: 4 2; }
    .handle { fill: #868e96; opacity: 0.6; }
    .space-text { font-family: ui-monospace, monospace; fill: #212529; }`

// depthFill shades spaces by nesting depth, wrapping for deep trees.
var depthFill = []string{"#f8f9fa", "#e7f5ff", "#ebfbee", "#fff9db", "#f3f0ff", "#fff0f6"}

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 16.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	labels        map[string]string
	showLabels    bool
	showHandles   bool
	title         string
}

// WithSize sets the canvas size. Without it the canvas is the bounding box
// of all boxes.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithLabels draws a label in every box, using labels[id] when present and
// the space ID otherwise.
func WithLabels(labels map[string]string) SVGOption {
	return func(r *svgRenderer) { r.showLabels = true; r.labels = labels }
}

func WithHandles() SVGOption           { return func(r *svgRenderer) { r.showHandles = true } }
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws boxes in the order given, which for [geometry.Resolve]
// output is parents first and siblings by zIndex.
func RenderSVG(boxes []geometry.Box, opts ...SVGOption) []byte {
	r := newSVGRenderer(boxes, opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", spaceCSS)

	for _, b := range boxes {
		renderBox(&buf, b)
	}
	if r.showHandles {
		for _, b := range boxes {
			if b.HasHandle && !b.Handle.Empty() {
				renderHandle(&buf, b)
			}
		}
	}
	if r.showLabels {
		for _, b := range boxes {
			renderText(&buf, b, r.label(b.ID))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(boxes []geometry.Box, opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 || r.height <= 0 {
		for _, b := range boxes {
			r.width = max(r.width, b.Rect.Right())
			r.height = max(r.height, b.Rect.Bottom())
		}
	}
	return r
}

func (r *svgRenderer) label(id string) string {
	if l, ok := r.labels[id]; ok && l != "" {
		return l
	}
	return id
}

func renderBox(buf *bytes.Buffer, b geometry.Box) {
	if b.Rect.Empty() {
		return
	}
	class := "space " + b.Type.String()
	if b.Resizing {
		class += " resizing"
	}
	fmt.Fprintf(buf, `  <rect id="space-%s" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		escapeXML(b.ID), class, b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, depthFill[b.Depth%len(depthFill)])
}

func renderHandle(buf *bytes.Buffer, b geometry.Box) {
	cursor := "ew-resize"
	if spaces.OrientationOf(b.Anchor) == spaces.Vertical {
		cursor = "ns-resize"
	}
	fmt.Fprintf(buf, `  <rect class="handle" data-space="%s" data-resize="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" style="cursor: %s"/>`+"\n",
		escapeXML(b.ID), b.ResizeType, b.Handle.X, b.Handle.Y, b.Handle.W, b.Handle.H, cursor)
}

func renderText(buf *bytes.Buffer, b geometry.Box, label string) {
	if b.Rect.Empty() {
		return
	}
	size := fontSizeFor(b.Rect.W, b.Rect.H, len(label))
	fmt.Fprintf(buf, `  <text class="space-text" data-space="%s" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		escapeXML(b.ID), b.Rect.X+4, b.Rect.Y+size+2, size, escapeXML(truncate(label, b.Rect.W, size)))
}

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func truncate(label string, width, fontSize float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	if len(label) <= maxChars {
		return label
	}
	return label[:maxChars-2] + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
