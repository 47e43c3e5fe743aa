package spaces

// Change is one edge of one space whose adjustment list must be replaced.
type Change struct {
	Space    *Space
	Anchor   Anchor
	Adjusted []SizeUnit
}

// Recalculate plans the adjustment pass over the direct children of one
// parent. It reads the children but never modifies them, and returns one
// Change per edge whose new list differs from the current one, in children
// order and, for fill spaces, in [Anchors] order.
//
// A fill space is pushed past every anchored sibling in its own zIndex, on
// all four edges. An anchored space is pushed past the anchored siblings
// sharing its anchor and zIndex whose order is not greater than its own.
// Other types are never adjusted.
func Recalculate(children []*Space) []Change {
	var changes []Change
	for _, space := range children {
		switch space.Type {
		case TypeFill:
			for _, anchor := range Anchors {
				var adjusted []SizeUnit
				for _, sib := range anchored(children, anchor, space.ZIndex) {
					adjusted = contribution(adjusted, sib)
				}
				if !adjustmentsEqual(space.Edge(anchor).Adjusted, adjusted) {
					changes = append(changes, Change{Space: space, Anchor: anchor, Adjusted: adjusted})
				}
			}
		case TypeAnchored:
			edge := space.Edge(space.Anchor)
			if edge == nil {
				continue
			}
			var adjusted []SizeUnit
			for _, sib := range anchored(children, space.Anchor, space.ZIndex) {
				// Equal orders include each other.
				if sib.ID != space.ID && sib.Order <= space.Order {
					adjusted = contribution(adjusted, sib)
				}
			}
			if !adjustmentsEqual(edge.Adjusted, adjusted) {
				changes = append(changes, Change{Space: space, Anchor: space.Anchor, Adjusted: adjusted})
			}
		}
	}
	return changes
}

// Apply writes planned changes and returns the changed spaces, each once,
// in the order they first appear.
func Apply(changes []Change) []*Space {
	var dirty []*Space
	seen := make(map[*Space]bool, len(changes))
	for _, c := range changes {
		if !AdjustEdge(c.Space, c.Anchor, c.Adjusted) {
			continue
		}
		if !seen[c.Space] {
			seen[c.Space] = true
			dirty = append(dirty, c.Space)
		}
	}
	return dirty
}

func anchored(children []*Space, anchor Anchor, zIndex int) []*Space {
	var out []*Space
	for _, c := range children {
		if c.Type == TypeAnchored && c.Anchor == anchor && c.ZIndex == zIndex {
			out = append(out, c)
		}
	}
	return out
}
