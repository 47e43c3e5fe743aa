// Package geometry resolves a mounted space tree to pixel boxes.
//
// It plays the part a browser plays for CSS: it takes each space's size
// fields (requested size, adjustment list and drag offset), turns every
// length into pixels against the parent box, and places the space with the
// usual absolute-positioning rules. Renderers that cannot hand calc()
// expressions to a layout engine (SVG, JSON, the terminal UI) use it.
//
// Supported length forms are pixel numbers, "Npx", "N%" (of the parent
// width for left, right and width, of the parent height otherwise),
// "Nvw"/"Nvh" (of the viewport) and "Nem"/"Nrem" (16px each). Anything else
// is an INVALID_SIZE error.
//
// Negative results are kept as they are; renderers decide what to do with
// boxes that have no area.
package geometry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// FontSize is the pixel size of one em.
const FontSize = 16

// Box is the resolved geometry of one space.
type Box struct {
	ID       string
	ParentID string
	Depth    int
	Type     spaces.Type
	Anchor   spaces.Anchor
	Order    int
	ZIndex   int
	Rect     spaces.Rect
	Resizing bool

	// Handle is the drag strip on the inner edge of a resizable anchored
	// space. HasHandle is false for every other space.
	Handle     spaces.Rect
	HasHandle  bool
	ResizeType spaces.ResizeType
}

type resolver struct {
	viewport spaces.Rect
	boxes    []Box
}

// Resolve walks root depth-first and returns one box per space in drawing
// order: parents before children, siblings by ascending zIndex and then
// mount order. All rects are in viewport coordinates.
func Resolve(root *spaces.Space, viewport spaces.Rect) ([]Box, error) {
	r := &resolver{viewport: viewport}
	if err := r.walk(root, viewport, 0); err != nil {
		return nil, err
	}
	return r.boxes, nil
}

// Measure resolves root and records each box as the space's Dimension. It
// must not run while another goroutine mutates the tree.
func Measure(root *spaces.Space, viewport spaces.Rect) ([]Box, error) {
	boxes, err := Resolve(root, viewport)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]spaces.Rect, len(boxes))
	for _, b := range boxes {
		byID[b.ID] = b.Rect
	}
	var visit func(*spaces.Space)
	visit = func(s *spaces.Space) {
		s.Dimension = byID[s.ID]
		for _, c := range s.Children {
			visit(c)
		}
	}
	visit(root)
	return boxes, nil
}

func (r *resolver) walk(s *spaces.Space, parent spaces.Rect, depth int) error {
	if s.Type == spaces.TypeViewPort {
		parent = r.viewport
	}
	rect, err := r.place(s, parent)
	if err != nil {
		return err
	}

	box := Box{
		ID:       s.ID,
		ParentID: s.ParentID,
		Depth:    depth,
		Type:     s.Type,
		Anchor:   s.Anchor,
		Order:    s.Order,
		ZIndex:   s.ZIndex,
		Rect:     rect,
		Resizing: s.Resizing,
	}
	if s.Resizable && s.Type == spaces.TypeAnchored {
		if rt, ok := spaces.ResizeTypeOf(s.Anchor); ok {
			box.Handle = handle(rect, s.Anchor, s.HandleSize)
			box.HasHandle = true
			box.ResizeType = rt
		}
	}
	r.boxes = append(r.boxes, box)

	children := slices.Clone(s.Children)
	slices.SortStableFunc(children, func(a, b *spaces.Space) int { return a.ZIndex - b.ZIndex })
	for _, c := range children {
		if err := r.walk(c, rect, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) place(s *spaces.Space, parent spaces.Rect) (spaces.Rect, error) {
	left, err := r.edge(s, "left", s.Left, parent.W)
	if err != nil {
		return spaces.Rect{}, err
	}
	right, err := r.edge(s, "right", s.Right, parent.W)
	if err != nil {
		return spaces.Rect{}, err
	}
	width, err := r.edge(s, "width", s.Width, parent.W)
	if err != nil {
		return spaces.Rect{}, err
	}
	top, err := r.edge(s, "top", s.Top, parent.H)
	if err != nil {
		return spaces.Rect{}, err
	}
	bottom, err := r.edge(s, "bottom", s.Bottom, parent.H)
	if err != nil {
		return spaces.Rect{}, err
	}
	height, err := r.edge(s, "height", s.Height, parent.H)
	if err != nil {
		return spaces.Rect{}, err
	}

	var x, w, y, h float64
	if s.Type == spaces.TypeFixed {
		x, w = flow(left, right, width, parent.W)
		y, h = flow(top, bottom, height, parent.H)
	} else {
		x, w = axis(left, right, width, parent.W)
		y, h = axis(top, bottom, height, parent.H)
	}
	return spaces.Rect{X: parent.X + x, Y: parent.Y + y, W: w, H: h}, nil
}

// axis places one dimension with absolute-positioning rules. When start,
// end and size are all given, end is ignored.
func axis(start, end, size *float64, parent float64) (pos, length float64) {
	switch {
	case start != nil && size != nil:
		return *start, *size
	case start != nil && end != nil:
		return *start, parent - *start - *end
	case end != nil && size != nil:
		return parent - *end - *size, *size
	case size != nil:
		return 0, *size
	case start != nil:
		return *start, parent - *start
	case end != nil:
		return 0, parent - *end
	}
	return 0, parent
}

// flow places a relatively positioned space: offsets shift it without
// changing its size, which defaults to the parent's.
func flow(start, end, size *float64, parent float64) (pos, length float64) {
	length = parent
	if size != nil {
		length = *size
	}
	switch {
	case start != nil:
		pos = *start
	case end != nil:
		pos = -*end
	}
	return pos, length
}

func handle(r spaces.Rect, anchor spaces.Anchor, size float64) spaces.Rect {
	if size <= 0 {
		size = spaces.DefaultHandleSize
	}
	switch anchor {
	case spaces.AnchorLeft:
		return spaces.Rect{X: r.Right() - size, Y: r.Y, W: size, H: r.H}
	case spaces.AnchorRight:
		return spaces.Rect{X: r.X, Y: r.Y, W: size, H: r.H}
	case spaces.AnchorTop:
		return spaces.Rect{X: r.X, Y: r.Bottom() - size, W: r.W, H: size}
	case spaces.AnchorBottom:
		return spaces.Rect{X: r.X, Y: r.Y, W: r.W, H: size}
	}
	return spaces.Rect{}
}

// edge sums a size field to pixels. It returns nil when the field is empty.
func (r *resolver) edge(s *spaces.Space, prop string, info spaces.SizeInfo, ref float64) (*float64, error) {
	if !info.Size.IsSet() && len(info.Adjusted) == 0 && info.Resized == 0 {
		return nil, nil
	}
	var total float64
	if info.Size.IsSet() {
		v, err := r.length(info.Size, ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSize, err, "space %q: %s", s.ID, prop)
		}
		total += v
	}
	for _, a := range info.Adjusted {
		v, err := r.length(a, ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSize, err, "space %q: %s adjustment", s.ID, prop)
		}
		total += v
	}
	total += info.Resized
	return &total, nil
}

// Length converts a single unit to pixels. ref is the parent length that
// percentages are taken of.
func Length(u spaces.SizeUnit, ref float64, viewport spaces.Rect) (float64, error) {
	return (&resolver{viewport: viewport}).length(u, ref)
}

func (r *resolver) length(u spaces.SizeUnit, ref float64) (float64, error) {
	if px, ok := u.Pixels(); ok {
		return px, nil
	}
	expr, ok := u.Expression()
	if !ok {
		return 0, nil
	}
	s := strings.TrimSpace(expr)
	units := []struct {
		suffix string
		scale  float64
	}{
		{"rem", FontSize},
		{"px", 1},
		{"em", FontSize},
		{"vw", r.viewport.W / 100},
		{"vh", r.viewport.H / 100},
		{"%", ref / 100},
		{"", 1},
	}
	for _, unit := range units {
		if !strings.HasSuffix(s, unit.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, unit.suffix)), 64)
		if err != nil {
			break
		}
		return v * unit.scale, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSize, "unsupported length %q", expr)
}

// =============================================================================
// Queries
// =============================================================================

// Find returns the box of the space with the given id.
func Find(boxes []Box, id string) (Box, bool) {
	for _, b := range boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// HitHandle returns the top-most box whose resize handle contains p.
func HitHandle(boxes []Box, p spaces.Point) (Box, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].HasHandle && boxes[i].Handle.Contains(p) {
			return boxes[i], true
		}
	}
	return Box{}, false
}

// HitBox returns the top-most box containing p.
func HitBox(boxes []Box, p spaces.Point) (Box, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Rect.Contains(p) {
			return boxes[i], true
		}
	}
	return Box{}, false
}
