package spaces

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

type resizeFixture struct {
	store   *Store
	src     *Dispatcher
	space   *Space
	updates int
}

func newResizeFixture(anchor Anchor) *resizeFixture {
	f := &resizeFixture{store: NewStore(), src: NewDispatcher()}
	f.space = f.store.CreateSpace("", Props{ID: "side", Type: TypeAnchored, Anchor: anchor, Width: Px(100), Height: Px(100)}, func() {
		f.updates++
	})
	f.store.AddSpace(f.space)
	return f
}

func mouse(x, y float64) MouseEvent { return MouseEvent{PageX: x, PageY: y} }

func TestResizeMonotonicity(t *testing.T) {
	tests := []struct {
		name   string
		anchor Anchor
		rt     ResizeType
		to     Point
	}{
		{"left grows rightwards", AnchorLeft, ResizeLeft, Point{130, 100}},
		{"right grows leftwards", AnchorRight, ResizeRight, Point{70, 100}},
		{"top grows downwards", AnchorTop, ResizeTop, Point{100, 130}},
		{"bottom grows upwards", AnchorBottom, ResizeBottom, Point{100, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResizeFixture(tt.anchor)
			size := f.space.CrossSize()
			size.Resized = 5

			f.store.StartMouseResize(tt.rt, f.space, size, f.src, mouse(100, 100))
			f.src.Dispatch(MouseMove, mouse(tt.to.X, tt.to.Y))

			assert.Equal(t, size.Resized, float64(35))
		})
	}
}

func TestResizeLifecycle(t *testing.T) {
	f := newResizeFixture(AnchorLeft)
	size := &f.space.Width

	sess := f.store.StartMouseResize(ResizeLeft, f.space, size, f.src, mouse(100, 100))
	if sess == nil {
		t.Fatal("StartMouseResize returned nil")
	}
	assert.Equal(t, f.space.Resizing, true)
	assert.Equal(t, sess.Origin, Point{100, 100})
	assert.Equal(t, sess.Baseline, float64(0))
	assert.Equal(t, f.src.Len(MouseMove), 1)
	assert.Equal(t, f.src.Len(MouseUp), 1)

	f.src.Dispatch(MouseMove, mouse(110, 300))
	f.src.Dispatch(MouseMove, mouse(90, 0))
	assert.Equal(t, size.Resized, float64(-10))
	assert.Equal(t, f.updates, 2)

	f.src.Dispatch(MouseUp, mouse(90, 0))
	assert.Equal(t, f.space.Resizing, false)
	assert.Equal(t, f.updates, 3)
	assert.Equal(t, sess.Active(), false)
	assert.Equal(t, f.src.Len(MouseMove), 0)
	assert.Equal(t, f.src.Len(MouseUp), 0)

	// Later events reach nobody.
	f.src.Dispatch(MouseMove, mouse(500, 0))
	assert.Equal(t, size.Resized, float64(-10))

	// A second drag starts from the value the first one left.
	f.store.StartMouseResize(ResizeLeft, f.space, size, f.src, mouse(0, 0))
	f.src.Dispatch(MouseMove, mouse(25, 0))
	assert.Equal(t, size.Resized, float64(15))
}

func TestResizeLastWriterWins(t *testing.T) {
	f := newResizeFixture(AnchorLeft)
	size := &f.space.Width

	first := f.store.StartMouseResize(ResizeLeft, f.space, size, f.src, mouse(0, 0))
	f.src.Dispatch(MouseMove, mouse(10, 0))
	second := f.store.StartMouseResize(ResizeLeft, f.space, size, f.src, mouse(100, 0))

	assert.Equal(t, first.Active(), false)
	assert.Equal(t, second.Active(), true)
	assert.Equal(t, second.Baseline, float64(10))
	assert.Equal(t, f.src.Len(MouseMove), 1)

	active, ok := f.store.Resizer().Active(f.space)
	assert.Equal(t, ok, true)
	assert.Equal(t, active == second, true)

	f.src.Dispatch(MouseMove, mouse(105, 0))
	assert.Equal(t, size.Resized, float64(15))
}

func TestResizeIndependentSpaces(t *testing.T) {
	s, src := NewStore(), NewDispatcher()
	a := s.CreateSpace("", Props{ID: "a", Type: TypeAnchored, Anchor: AnchorLeft}, nil)
	b := s.CreateSpace("", Props{ID: "b", Type: TypeAnchored, Anchor: AnchorTop}, nil)
	s.AddSpace(a)
	s.AddSpace(b)

	s.StartMouseResize(ResizeLeft, a, &a.Width, src, mouse(0, 0))
	s.StartMouseResize(ResizeTop, b, &b.Height, src, mouse(0, 0))
	src.Dispatch(MouseMove, mouse(20, 40))

	assert.Equal(t, a.Width.Resized, float64(20))
	assert.Equal(t, b.Height.Resized, float64(40))
}

func TestResizeCancelKeepsOffset(t *testing.T) {
	f := newResizeFixture(AnchorBottom)
	size := &f.space.Height

	sess := f.store.StartMouseResize(ResizeBottom, f.space, size, f.src, mouse(0, 100))
	f.src.Dispatch(MouseMove, mouse(0, 80))
	updates := f.updates

	sess.Cancel()
	sess.Cancel()

	assert.Equal(t, size.Resized, float64(20))
	assert.Equal(t, f.space.Resizing, false)
	assert.Equal(t, f.updates, updates)
	assert.Equal(t, f.src.Len(MouseMove), 0)
	assert.Equal(t, f.src.Len(MouseUp), 0)
}

func TestRemoveSpaceCancelsResize(t *testing.T) {
	f := newResizeFixture(AnchorLeft)
	sess := f.store.StartMouseResize(ResizeLeft, f.space, &f.space.Width, f.src, mouse(0, 0))

	f.store.RemoveSpace(f.space)

	assert.Equal(t, sess.Active(), false)
	assert.Equal(t, f.space.Resizing, false)
	assert.Equal(t, f.src.Len(MouseMove), 0)
	_, ok := f.store.Resizer().Active(f.space)
	assert.Equal(t, ok, false)
}

func TestResizeHooks(t *testing.T) {
	f := newResizeFixture(AnchorRight)

	vetoed := f.store.StartMouseResize(ResizeRight, f.space, &f.space.Width, f.src, mouse(0, 0),
		WithOnResizeStart(func() bool { return false }))
	if vetoed != nil {
		t.Fatal("a vetoed resize should not start")
	}
	assert.Equal(t, f.space.Resizing, false)
	assert.Equal(t, f.src.Len(MouseMove), 0)

	var final float64
	ended := 0
	f.store.StartMouseResize(ResizeRight, f.space, &f.space.Width, f.src, mouse(50, 0),
		WithOnResizeStart(func() bool { return true }),
		WithOnResizeEnd(func(v float64) { final = v; ended++ }))
	f.src.Dispatch(MouseMove, mouse(20, 0))
	f.src.Dispatch(MouseUp, mouse(20, 0))
	f.src.Dispatch(MouseUp, mouse(20, 0))

	assert.Equal(t, final, float64(30))
	assert.Equal(t, ended, 1)
}

func TestTouchResize(t *testing.T) {
	f := newResizeFixture(AnchorTop)
	size := &f.space.Height
	touch := func(x, y float64) TouchEvent {
		return TouchEvent{Touches: []TouchPoint{{PageX: x, PageY: y}, {PageX: 999, PageY: 999}}}
	}

	f.store.StartTouchResize(ResizeTop, f.space, size, f.src, touch(10, 10))
	// Mouse events do not drive a touch drag.
	f.src.Dispatch(MouseMove, mouse(10, 90))
	assert.Equal(t, size.Resized, float64(0))

	f.src.Dispatch(TouchMove, touch(10, 35))
	// A move without touch points is ignored.
	f.src.Dispatch(TouchMove, TouchEvent{})
	assert.Equal(t, size.Resized, float64(25))

	f.src.Dispatch(TouchEnd, TouchEvent{})
	assert.Equal(t, f.space.Resizing, false)
	assert.Equal(t, f.src.Len(TouchMove), 0)
}

func TestResizeWithoutOriginCoordinate(t *testing.T) {
	f := newResizeFixture(AnchorTop)
	sess := f.store.StartTouchResize(ResizeTop, f.space, &f.space.Height, f.src, TouchEvent{})
	if sess != nil {
		t.Error("a touch start without touches should not start a drag")
	}
}

func TestResizeUpdateDrivesRecalculation(t *testing.T) {
	s, src := NewStore(), NewDispatcher()
	root := s.CreateSpace("", Props{ID: "root", Type: TypeFixed}, nil)
	s.AddSpace(root)

	var side *Space
	side = s.CreateSpace("root", Props{ID: "side", Type: TypeAnchored, Anchor: AnchorLeft, Width: Px(200), Resizable: true}, func() {
		s.UpdateStyles(side)
	})
	s.AddSpace(side)
	fill := s.CreateSpace("root", Props{ID: "fill", Type: TypeFill}, nil)
	s.AddSpace(fill)

	s.StartMouseResize(ResizeLeft, side, &side.Width, src, mouse(200, 50))
	src.Dispatch(MouseMove, mouse(260, 50))

	assertAdjusted(t, fill.Left.Adjusted, Px(200), Px(60))

	src.Dispatch(MouseUp, mouse(260, 50))
	assertAdjusted(t, fill.Left.Adjusted, Px(200), Px(60))
}

func TestResizeNotifiesParent(t *testing.T) {
	s, src := NewStore(), NewDispatcher()
	parentUpdates := 0
	root := s.CreateSpace("", Props{ID: "root", Type: TypeFixed}, func() { parentUpdates++ })
	s.AddSpace(root)
	side := s.CreateSpace("root", Props{ID: "side", Type: TypeAnchored, Anchor: AnchorLeft}, nil)
	s.AddSpace(side)

	s.StartMouseResize(ResizeLeft, side, &side.Width, src, mouse(0, 0))
	src.Dispatch(MouseUp, mouse(0, 0))

	assert.Equal(t, parentUpdates, 2)
}

func TestResizeTypeOf(t *testing.T) {
	for _, a := range Anchors {
		rt, ok := ResizeTypeOf(a)
		assert.Equal(t, ok, true)
		assert.Equal(t, rt.String(), a.String())
	}
	_, ok := ResizeTypeOf(AnchorNone)
	assert.Equal(t, ok, false)
}
