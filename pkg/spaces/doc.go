// Package spaces computes, incrementally, the geometry of a tree of nested
// rectangular regions that tile a container.
//
// # Overview
//
// A [Space] is either a positioning root ([TypeViewPort], [TypeFixed]), a
// region pinned to one edge of its parent ([TypeAnchored]) or a region that
// takes whatever its anchored siblings leave ([TypeFill]). Each space has
// six [SizeInfo] fields (left, top, right, bottom, width, height) holding
// the requested size, an adjustment list and a drag offset.
//
// The package never does pixel arithmetic. Instead of summing sibling sizes
// it records, per edge, the list of lengths the space must be pushed past,
// and leaves it to a [StyleSink] to turn that list into final positions
// (a CSS calc() expression, or resolved pixels).
//
// # Store
//
// The [Store] owns all mounted spaces:
//
//	store := spaces.NewStore(spaces.WithSink(sheet))
//	side := store.CreateSpace("app", spaces.Props{
//	    Type: spaces.TypeAnchored, Anchor: spaces.AnchorLeft, Width: spaces.Px(200),
//	}, nil)
//	store.AddSpace(side)
//
// Adding, removing or updating a space recalculates the adjustment lists of
// its siblings. [Recalculate] plans a pass without touching the spaces and
// [Apply] writes it, so the algorithm can be tested on its own.
//
// Stacking rules:
//
//   - Anchored spaces with the same anchor and zIndex stack by Order. A
//     space is pushed past every such sibling whose order is not greater
//     than its own; two siblings with equal order push each other.
//   - Fill spaces are pushed past every anchored sibling in their zIndex,
//     on all four edges, regardless of order.
//   - Different zIndex values never interact.
//
// # Resizing
//
// A [Resizer] runs pointer drags. [Store.StartMouseResize] and
// [Store.StartTouchResize] subscribe to an [EventSource] (a [Dispatcher] in
// tests and terminals) until the end event arrives; each move sets the drag
// offset and calls the space's update callback. Callers that want siblings
// to follow call [Store.UpdateStyles] from that callback.
package spaces
