package pipeline

import (
	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// HandleCentre returns the midpoint of a box's resize handle.
func HandleCentre(b geometry.Box) spaces.Point {
	return spaces.Point{X: b.Handle.X + b.Handle.W/2, Y: b.Handle.Y + b.Handle.H/2}
}

// Drag replays step as a mouse drag: press at the centre of the space's
// handle, one move by step.Delta, release. boxes must be the current
// geometry of the store's tree.
func Drag(store *spaces.Store, boxes []geometry.Box, step ResizeStep) error {
	sp, ok := store.GetSpace(step.Space)
	if !ok {
		return errors.New(errors.ErrCodeSpaceNotFound, "no space %q", step.Space)
	}
	box, ok := geometry.Find(boxes, step.Space)
	if !ok || !box.HasHandle {
		return errors.New(errors.ErrCodeInvalidInput, "space %q is not resizable", step.Space)
	}
	from := HandleCentre(box)
	to := spaces.Point{X: from.X + step.Delta.X, Y: from.Y + step.Delta.Y}
	return drag(store, sp, box, from, to)
}

// DragAt presses at from, which must lie on a resize handle, moves to to
// and releases. It returns the id of the space whose handle was pressed.
func DragAt(store *spaces.Store, boxes []geometry.Box, from, to spaces.Point) (string, error) {
	box, ok := geometry.HitHandle(boxes, from)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "no resize handle at %g,%g", from.X, from.Y)
	}
	sp, ok := store.GetSpace(box.ID)
	if !ok {
		return "", errors.New(errors.ErrCodeSpaceNotFound, "no space %q", box.ID)
	}
	return box.ID, drag(store, sp, box, from, to)
}

func drag(store *spaces.Store, sp *spaces.Space, box geometry.Box, from, to spaces.Point) error {
	d := spaces.NewDispatcher()
	sess := store.StartMouseResize(box.ResizeType, sp, sp.CrossSize(), d, spaces.MouseEvent{PageX: from.X, PageY: from.Y})
	if sess == nil {
		return errors.New(errors.ErrCodeInternal, "resize of %q did not start", sp.ID)
	}
	d.Dispatch(spaces.MouseMove, spaces.MouseEvent{PageX: to.X, PageY: to.Y})
	d.Dispatch(spaces.MouseUp, spaces.MouseEvent{PageX: to.X, PageY: to.Y})

	store.UpdateStyles(sp)
	return nil
}
