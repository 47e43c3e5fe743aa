package spaces

import "slices"

// DefaultHandleSize is the thickness in pixels of a resize handle when a
// space does not set its own.
const DefaultHandleSize = 5

// Props are the caller-controlled properties of a space. Zero values are
// the defaults: order 0, zIndex 0, not scrollable, no centring.
type Props struct {
	ID            string
	Type          Type
	Anchor        Anchor
	Order         int
	ZIndex        int
	Scrollable    bool
	CenterContent CenterType

	// Requested edge and axis sizes.
	Left, Top, Right, Bottom SizeUnit
	Width, Height            SizeUnit

	// Resizable gives an anchored space a drag handle on its inner edge.
	Resizable  bool
	HandleSize float64
}

// Space is one rectangular region of the layout tree. Spaces are created by
// [Store.CreateSpace] and mutated in place for their whole lifetime; the
// Store never copies or replaces them.
//
// A space does not own its parent. ParentID is resolved through the Store.
type Space struct {
	ID            string
	Type          Type
	Anchor        Anchor
	Orientation   Orientation
	Position      Position
	Order         int
	ZIndex        int
	Scrollable    bool
	CenterContent CenterType
	Resizing      bool
	Resizable     bool
	HandleSize    float64

	Left, Top, Right, Bottom SizeInfo
	Width, Height            SizeInfo

	ParentID string
	Children []*Space // mount order

	// Dimension is the last measured bounding box. It is written by
	// whatever renders the space and never read by the recalculation.
	Dimension Rect

	update       func()
	updateParent func()
}

// Update invokes the callback supplied at creation, if any.
func (s *Space) Update() {
	if s.update != nil {
		s.update()
	}
}

// UpdateParent invokes the parent's update callback, if the parent was
// mounted when this space was created.
func (s *Space) UpdateParent() {
	if s.updateParent != nil {
		s.updateParent()
	}
}

// Edge returns the size field for the given anchor, or nil for AnchorNone.
func (s *Space) Edge(a Anchor) *SizeInfo {
	switch a {
	case AnchorLeft:
		return &s.Left
	case AnchorTop:
		return &s.Top
	case AnchorRight:
		return &s.Right
	case AnchorBottom:
		return &s.Bottom
	}
	return nil
}

// CrossSize returns the size a space contributes to its anchored siblings:
// its height when it stacks vertically and its width otherwise.
func (s *Space) CrossSize() *SizeInfo {
	if s.Orientation == Vertical {
		return &s.Height
	}
	return &s.Width
}

// AnchoredChildren returns the children pinned to anchor in stacking layer
// zIndex, in mount order.
func (s *Space) AnchoredChildren(anchor Anchor, zIndex int) []*Space {
	return anchored(s.Children, anchor, zIndex)
}

// AdjustEdge replaces the adjustment list of the edge selected by anchor.
// It reports false, leaving the space untouched, when the new list is
// structurally equal to the current one or when anchor is AnchorNone.
func AdjustEdge(s *Space, anchor Anchor, adjusted []SizeUnit) bool {
	edge := s.Edge(anchor)
	if edge == nil || adjustmentsEqual(edge.Adjusted, adjusted) {
		return false
	}
	edge.Adjusted = adjusted
	return true
}

// AdjustAnchor adjusts the edge the space is anchored to. Spaces that are
// not anchored, or have no anchor, are never changed.
func (s *Space) AdjustAnchor(adjusted []SizeUnit) bool {
	if s.Type != TypeAnchored {
		return false
	}
	return AdjustEdge(s, s.Anchor, adjusted)
}

// adjustmentsEqual treats nil and empty lists as equal.
func adjustmentsEqual(a, b []SizeUnit) bool {
	return slices.Equal(a, b)
}

// contribution appends what sibling adds to an adjustment list.
func contribution(list []SizeUnit, sibling *Space) []SizeUnit {
	size := sibling.CrossSize()
	if size.Size.Contributes() {
		list = append(list, size.Size)
	}
	if size.Resized != 0 {
		list = append(list, Px(size.Resized))
	}
	return list
}

func newSizeInfo(u SizeUnit) SizeInfo {
	return SizeInfo{Size: u}
}
