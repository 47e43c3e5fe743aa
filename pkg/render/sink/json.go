package sink

import (
	"encoding/json"

	"github.com/BenJenkinson/react-spaces/pkg/geometry"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name          string
	width, height float64
	labels        map[string]string
	css           map[string]string
}

// WithJSONName records the layout name.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONViewport records the viewport the boxes were resolved against.
func WithJSONViewport(w, h float64) JSONOption {
	return func(r *jsonRenderer) { r.width, r.height = w, h }
}

// WithJSONLabels attaches display labels to the boxes.
func WithJSONLabels(labels map[string]string) JSONOption {
	return func(r *jsonRenderer) { r.labels = labels }
}

// WithJSONStyles attaches each space's CSS rule, keyed by space ID.
func WithJSONStyles(css map[string]string) JSONOption {
	return func(r *jsonRenderer) { r.css = css }
}

type jsonOutput struct {
	Name   string      `json:"name,omitempty"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Spaces []jsonSpace `json:"spaces"`
}

type jsonSpace struct {
	ID       string      `json:"id"`
	Parent   string      `json:"parent,omitempty"`
	Label    string      `json:"label,omitempty"`
	Depth    int         `json:"depth"`
	Type     string      `json:"type"`
	Anchor   string      `json:"anchor,omitempty"`
	Order    int         `json:"order,omitempty"`
	ZIndex   int         `json:"zIndex,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Resizing bool        `json:"resizing,omitempty"`
	Handle   *jsonHandle `json:"handle,omitempty"`
	CSS      string      `json:"css,omitempty"`
}

type jsonHandle struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON encodes boxes as an indented JSON document. The viewport
// defaults to the bounding box of all boxes.
func RenderJSON(boxes []geometry.Box, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Name: r.name, Width: r.width, Height: r.height, Spaces: make([]jsonSpace, 0, len(boxes))}
	for _, b := range boxes {
		if r.width <= 0 || r.height <= 0 {
			out.Width = max(out.Width, b.Rect.Right())
			out.Height = max(out.Height, b.Rect.Bottom())
		}
		js := jsonSpace{
			ID:       b.ID,
			Parent:   b.ParentID,
			Label:    r.labels[b.ID],
			Depth:    b.Depth,
			Type:     b.Type.String(),
			Anchor:   b.Anchor.String(),
			Order:    b.Order,
			ZIndex:   b.ZIndex,
			X:        b.Rect.X,
			Y:        b.Rect.Y,
			Width:    b.Rect.W,
			Height:   b.Rect.H,
			Resizing: b.Resizing,
			CSS:      r.css[b.ID],
		}
		if b.HasHandle {
			js.Handle = &jsonHandle{
				Type:   b.ResizeType.String(),
				X:      b.Handle.X,
				Y:      b.Handle.Y,
				Width:  b.Handle.W,
				Height: b.Handle.H,
			}
		}
		out.Spaces = append(out.Spaces, js)
	}
	return json.MarshalIndent(out, "", "  ")
}
