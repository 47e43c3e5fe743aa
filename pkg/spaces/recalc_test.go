package spaces

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

// anchoredSpace builds an anchored space whose cross-axis size is size.
func anchoredSpace(id string, anchor Anchor, order, zIndex int, size SizeUnit) *Space {
	s := &Space{
		ID:          id,
		Type:        TypeAnchored,
		Anchor:      anchor,
		Orientation: OrientationOf(anchor),
		Order:       order,
		ZIndex:      zIndex,
	}
	s.CrossSize().Size = size
	return s
}

func fillSpace(id string, order, zIndex int) *Space {
	return &Space{ID: id, Type: TypeFill, Order: order, ZIndex: zIndex}
}

func TestRecalculateStackingOrder(t *testing.T) {
	a := anchoredSpace("a", AnchorLeft, 0, 0, Px(10))
	b := anchoredSpace("b", AnchorLeft, 1, 0, Px(20))
	c := anchoredSpace("c", AnchorLeft, 2, 0, Px(30))

	// Mount order deliberately differs from stacking order.
	Apply(Recalculate([]*Space{c, a, b}))

	assertAdjusted(t, a.Left.Adjusted)
	assertAdjusted(t, b.Left.Adjusted, Px(10))
	assertAdjusted(t, c.Left.Adjusted, Px(10), Px(20))
}

func TestRecalculateEqualOrderTie(t *testing.T) {
	a := anchoredSpace("a", AnchorTop, 0, 0, Px(25))
	b := anchoredSpace("b", AnchorTop, 0, 0, Px(40))

	Apply(Recalculate([]*Space{a, b}))

	// order <= order holds both ways, so each includes the other.
	assertAdjusted(t, a.Top.Adjusted, Px(40))
	assertAdjusted(t, b.Top.Adjusted, Px(25))
}

func TestRecalculateFillIgnoresOrder(t *testing.T) {
	left1 := anchoredSpace("l1", AnchorLeft, 5, 0, Px(100))
	left2 := anchoredSpace("l2", AnchorLeft, 9, 0, Expr("10%"))
	top := anchoredSpace("t", AnchorTop, 7, 0, Px(25))
	bottom := anchoredSpace("b", AnchorBottom, 0, 0, Px(50))
	fill := fillSpace("f", 0, 0)

	Apply(Recalculate([]*Space{fill, left1, left2, top, bottom}))

	assertAdjusted(t, fill.Left.Adjusted, Px(100), Expr("10%"))
	assertAdjusted(t, fill.Top.Adjusted, Px(25))
	assertAdjusted(t, fill.Right.Adjusted)
	assertAdjusted(t, fill.Bottom.Adjusted, Px(50))
}

func TestRecalculateZIndexIsolation(t *testing.T) {
	low := anchoredSpace("low", AnchorLeft, 0, 0, Px(10))
	high := anchoredSpace("high", AnchorLeft, 1, 1, Px(20))
	lowFill := fillSpace("lowFill", 0, 0)
	highFill := fillSpace("highFill", 0, 1)

	Apply(Recalculate([]*Space{low, high, lowFill, highFill}))

	assertAdjusted(t, high.Left.Adjusted)
	assertAdjusted(t, lowFill.Left.Adjusted, Px(10))
	assertAdjusted(t, highFill.Left.Adjusted, Px(20))
}

func TestRecalculateContributions(t *testing.T) {
	tests := []struct {
		name    string
		size    SizeUnit
		resized float64
		want    []SizeUnit
	}{
		{"size only", Px(200), 0, []SizeUnit{Px(200)}},
		{"size and drag", Px(200), 15, []SizeUnit{Px(200), Px(15)}},
		{"negative drag", Expr("20%"), -30, []SizeUnit{Expr("20%"), Px(-30)}},
		{"zero size skipped", Px(0), 12, []SizeUnit{Px(12)}},
		{"unset size skipped", Unset, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side := anchoredSpace("side", AnchorRight, 0, 0, tt.size)
			side.Width.Resized = tt.resized
			fill := fillSpace("fill", 0, 0)

			Apply(Recalculate([]*Space{side, fill}))
			assertAdjusted(t, fill.Right.Adjusted, tt.want...)
		})
	}
}

func TestRecalculateIsPure(t *testing.T) {
	a := anchoredSpace("a", AnchorLeft, 0, 0, Px(10))
	b := anchoredSpace("b", AnchorLeft, 1, 0, Px(20))
	fill := fillSpace("f", 0, 0)
	children := []*Space{a, b, fill}

	changes := Recalculate(children)
	assert.Equal(t, len(changes), 2)
	assertAdjusted(t, b.Left.Adjusted)
	assertAdjusted(t, fill.Left.Adjusted)

	// Planning twice yields the same plan because nothing was applied.
	assert.Equal(t, len(Recalculate(children)), 2)

	dirty := Apply(changes)
	assert.Equal(t, len(dirty), 2)
	assert.Equal(t, dirty[0] == b, true)
	assert.Equal(t, dirty[1] == fill, true)

	// Once applied the pass is a fixed point.
	assert.Equal(t, len(Recalculate(children)), 0)
}

func TestRecalculateSkipsRootsAndUnanchored(t *testing.T) {
	left := anchoredSpace("l", AnchorLeft, 0, 0, Px(10))
	fixed := &Space{ID: "fixed", Type: TypeFixed}
	viewport := &Space{ID: "vp", Type: TypeViewPort}
	loose := &Space{ID: "loose", Type: TypeAnchored}

	changes := Recalculate([]*Space{left, fixed, viewport, loose})
	assert.Equal(t, len(changes), 0)
}

func TestApplyReportsEachSpaceOnce(t *testing.T) {
	top := anchoredSpace("t", AnchorTop, 0, 0, Px(25))
	left := anchoredSpace("l", AnchorLeft, 0, 0, Px(100))
	fill := fillSpace("f", 0, 0)

	dirty := Apply(Recalculate([]*Space{top, left, fill}))
	assert.Equal(t, len(dirty), 1)
	assert.Equal(t, dirty[0].ID, "f")
}
