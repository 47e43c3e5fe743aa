package spaces

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Type is the placement kind of a space.
type Type int

const (
	// TypeFill occupies whatever area its anchored siblings leave free.
	TypeFill Type = iota
	// TypeAnchored pins the space to one edge of its parent.
	TypeAnchored
	// TypeFixed is a positioning root laid out in normal flow.
	TypeFixed
	// TypeViewPort is a positioning root fixed to the viewport.
	TypeViewPort
)

var typeNames = map[Type]string{
	TypeFill:     "fill",
	TypeAnchored: "anchored",
	TypeFixed:    "fixed",
	TypeViewPort: "viewport",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts the textual form of a Type ("fill", "anchored",
// "fixed", "viewport"). Matching is case-insensitive.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return TypeFill, fmt.Errorf("unknown space type %q", s)
}

// Anchor is the parent edge an anchored space is pinned to. The zero value
// AnchorNone means no anchor has been assigned.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorLeft
	AnchorTop
	AnchorRight
	AnchorBottom
)

// Anchors lists the four edges in the order the recalculation pass visits
// them for fill spaces.
var Anchors = [...]Anchor{AnchorLeft, AnchorTop, AnchorRight, AnchorBottom}

var anchorNames = map[Anchor]string{
	AnchorNone:   "",
	AnchorLeft:   "left",
	AnchorTop:    "top",
	AnchorRight:  "right",
	AnchorBottom: "bottom",
}

func (a Anchor) String() string {
	if s, ok := anchorNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor converts "left", "top", "right" or "bottom" to an Anchor.
// The empty string yields AnchorNone.
func ParseAnchor(s string) (Anchor, error) {
	for a, name := range anchorNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return AnchorNone, fmt.Errorf("unknown anchor %q", s)
}

// Orientation is the stacking axis implied by an anchor.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// OrientationOf returns Vertical for top and bottom anchors and Horizontal
// for everything else, including AnchorNone.
func OrientationOf(a Anchor) Orientation {
	if a == AnchorTop || a == AnchorBottom {
		return Vertical
	}
	return Horizontal
}

// Position is the CSS positioning mode derived from a space's Type.
type Position string

const (
	PositionFixed    Position = "fixed"
	PositionRelative Position = "relative"
	PositionAbsolute Position = "absolute"
)

// PositionOf maps ViewPort to fixed, Fixed to relative and every other type
// to absolute.
func PositionOf(t Type) Position {
	switch t {
	case TypeViewPort:
		return PositionFixed
	case TypeFixed:
		return PositionRelative
	default:
		return PositionAbsolute
	}
}

// CenterType controls how a space centres its content.
type CenterType string

const (
	CenterNone               CenterType = "none"
	CenterVertical           CenterType = "vertical"
	CenterHorizontalVertical CenterType = "horizontalVertical"
)

// ParseCenterType accepts "", "none", "vertical" and "horizontalVertical"
// (or "both").
func ParseCenterType(s string) (CenterType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CenterNone, nil
	case "vertical":
		return CenterVertical, nil
	case "horizontalvertical", "both":
		return CenterHorizontalVertical, nil
	}
	return CenterNone, fmt.Errorf("unknown center type %q", s)
}

// =============================================================================
// Sizes
// =============================================================================

type unitKind uint8

const (
	unitUnset unitKind = iota
	unitPixels
	unitExpr
)

// SizeUnit is a requested length: unset, a number of pixels, or a CSS
// length expression such as "50%" or "10rem". The zero value is unset.
//
// SizeUnit is comparable, so two adjustment lists are equal exactly when
// slices.Equal reports so.
type SizeUnit struct {
	kind unitKind
	px   float64
	expr string
}

// Unset is the zero SizeUnit.
var Unset SizeUnit

// Px returns a pixel length.
func Px(v float64) SizeUnit { return SizeUnit{kind: unitPixels, px: v} }

// Expr returns a CSS length expression.
func Expr(s string) SizeUnit { return SizeUnit{kind: unitExpr, expr: s} }

// ParseSizeUnit interprets a bare number as pixels and anything else as an
// expression. The empty string is Unset.
func ParseSizeUnit(s string) SizeUnit {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Px(v)
	}
	return Expr(s)
}

// IsSet reports whether the unit carries a value.
func (u SizeUnit) IsSet() bool { return u.kind != unitUnset }

// Pixels returns the pixel value when the unit is a number.
func (u SizeUnit) Pixels() (float64, bool) { return u.px, u.kind == unitPixels }

// Expression returns the expression when the unit is a string.
func (u SizeUnit) Expression() (string, bool) { return u.expr, u.kind == unitExpr }

// Contributes reports whether a sibling's size takes part in an adjustment
// list. Zero pixels and empty expressions do not.
func (u SizeUnit) Contributes() bool {
	switch u.kind {
	case unitPixels:
		return u.px != 0
	case unitExpr:
		return u.expr != ""
	}
	return false
}

// String renders the unit as a CSS length. Unset renders as "".
func (u SizeUnit) String() string {
	switch u.kind {
	case unitPixels:
		return strconv.FormatFloat(u.px, 'f', -1, 64) + "px"
	case unitExpr:
		return u.expr
	}
	return ""
}

// MarshalJSON encodes pixels as a number, expressions as a string and
// Unset as null.
func (u SizeUnit) MarshalJSON() ([]byte, error) {
	switch u.kind {
	case unitPixels:
		return json.Marshal(u.px)
	case unitExpr:
		return json.Marshal(u.expr)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, a string or null.
func (u *SizeUnit) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return u.set(v)
}

// UnmarshalTOML lets layout documents write sizes as integers, floats or
// strings.
func (u *SizeUnit) UnmarshalTOML(v any) error { return u.set(v) }

func (u *SizeUnit) set(v any) error {
	switch x := v.(type) {
	case nil:
		*u = Unset
	case float64:
		*u = Px(x)
	case int64:
		*u = Px(float64(x))
	case int:
		*u = Px(float64(x))
	case string:
		*u = Expr(x)
	default:
		return fmt.Errorf("size must be a number or a string, got %T", v)
	}
	return nil
}

// SizeInfo is one of the six size fields of a space: the requested size,
// the lengths contributed by siblings that the space must be pushed past,
// and the pixel delta applied by a drag.
type SizeInfo struct {
	Size     SizeUnit
	Adjusted []SizeUnit
	Resized  float64
}

// Rect is a measured or resolved box in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Point is a pointer coordinate in page space.
type Point struct {
	X, Y float64
}
