package io

import (
	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// Document is a layout: a viewport size and the spaces to mount into it.
type Document struct {
	Name   string  `toml:"name" json:"name,omitempty"`
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`
	Spaces []Node  `toml:"space" json:"spaces"`
}

// Node describes one space. Parent is empty for the root.
type Node struct {
	ID         string  `toml:"id" json:"id"`
	Parent     string  `toml:"parent" json:"parent,omitempty"`
	Label      string  `toml:"label" json:"label,omitempty"`
	Type       string  `toml:"type" json:"type"`
	Anchor     string  `toml:"anchor" json:"anchor,omitempty"`
	Order      int     `toml:"order" json:"order,omitempty"`
	ZIndex     int     `toml:"z_index" json:"zIndex,omitempty"`
	Scrollable bool    `toml:"scrollable" json:"scrollable,omitempty"`
	Center     string  `toml:"center" json:"center,omitempty"`
	Resizable  bool    `toml:"resizable" json:"resizable,omitempty"`
	HandleSize float64 `toml:"handle_size" json:"handleSize,omitempty"`

	Size   spaces.SizeUnit `toml:"size" json:"size,omitzero"`
	Left   spaces.SizeUnit `toml:"left" json:"left,omitzero"`
	Top    spaces.SizeUnit `toml:"top" json:"top,omitzero"`
	Right  spaces.SizeUnit `toml:"right" json:"right,omitzero"`
	Bottom spaces.SizeUnit `toml:"bottom" json:"bottom,omitzero"`
	Width  spaces.SizeUnit `toml:"width" json:"width,omitzero"`
	Height spaces.SizeUnit `toml:"height" json:"height,omitzero"`
}

// DisplayLabel returns Label, or the id when no label is set.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Props converts the node to store props, applying the size shorthand.
func (n Node) Props() (spaces.Props, error) {
	typ, err := spaces.ParseType(n.Type)
	if err != nil {
		return spaces.Props{}, errors.Wrap(errors.ErrCodeInvalidType, err, "space %q", n.ID)
	}
	anchor, err := spaces.ParseAnchor(n.Anchor)
	if err != nil {
		return spaces.Props{}, errors.Wrap(errors.ErrCodeInvalidAnchor, err, "space %q", n.ID)
	}
	center, err := spaces.ParseCenterType(n.Center)
	if err != nil {
		return spaces.Props{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "space %q", n.ID)
	}

	p := spaces.Props{
		ID:            n.ID,
		Type:          typ,
		Anchor:        anchor,
		Order:         n.Order,
		ZIndex:        n.ZIndex,
		Scrollable:    n.Scrollable,
		CenterContent: center,
		Resizable:     n.Resizable,
		HandleSize:    n.HandleSize,
	}

	zero := spaces.Px(0)
	switch {
	case typ == spaces.TypeAnchored && anchor == spaces.AnchorLeft:
		p.Left, p.Top, p.Bottom, p.Width = zero, zero, zero, n.Size
	case typ == spaces.TypeAnchored && anchor == spaces.AnchorRight:
		p.Right, p.Top, p.Bottom, p.Width = zero, zero, zero, n.Size
	case typ == spaces.TypeAnchored && anchor == spaces.AnchorTop:
		p.Top, p.Left, p.Right, p.Height = zero, zero, zero, n.Size
	case typ == spaces.TypeAnchored && anchor == spaces.AnchorBottom:
		p.Bottom, p.Left, p.Right, p.Height = zero, zero, zero, n.Size
	case typ == spaces.TypeFill || typ == spaces.TypeViewPort:
		p.Left, p.Top, p.Right, p.Bottom = zero, zero, zero, zero
	}

	override := func(dst *spaces.SizeUnit, v spaces.SizeUnit) {
		if v.IsSet() {
			*dst = v
		}
	}
	override(&p.Left, n.Left)
	override(&p.Top, n.Top)
	override(&p.Right, n.Right)
	override(&p.Bottom, n.Bottom)
	override(&p.Width, n.Width)
	override(&p.Height, n.Height)
	return p, nil
}

// Validate checks that the document can be mounted: exactly one root, ids
// valid and unique, parents declared before their children, types and
// anchors known, an anchor on every anchored space and on no other, and
// every length string well formed.
func (d *Document) Validate() error {
	if len(d.Spaces) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout has no spaces")
	}
	if d.Width < 0 || d.Height < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "viewport size cannot be negative")
	}

	seen := make(map[string]bool, len(d.Spaces))
	roots := 0
	for _, n := range d.Spaces {
		if err := errors.ValidateSpaceID(n.ID); err != nil {
			return err
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate space id %q", n.ID)
		}
		if n.Parent == "" {
			roots++
		} else if !seen[n.Parent] {
			return errors.New(errors.ErrCodeSpaceNotFound, "space %q: parent %q is not declared before it", n.ID, n.Parent)
		}
		seen[n.ID] = true

		p, err := n.Props()
		if err != nil {
			return err
		}
		if p.Type == spaces.TypeAnchored && p.Anchor == spaces.AnchorNone {
			return errors.New(errors.ErrCodeInvalidAnchor, "space %q: anchored spaces need an anchor", n.ID)
		}
		if p.Type != spaces.TypeAnchored && p.Anchor != spaces.AnchorNone {
			return errors.New(errors.ErrCodeInvalidAnchor, "space %q: only anchored spaces take an anchor", n.ID)
		}
		for _, u := range []spaces.SizeUnit{n.Size, n.Left, n.Top, n.Right, n.Bottom, n.Width, n.Height} {
			if expr, ok := u.Expression(); ok {
				if err := errors.ValidateSizeExpr(expr); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidSize, err, "space %q", n.ID)
				}
			}
		}
	}
	if roots != 1 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout needs exactly one root space, found %d", roots)
	}
	return nil
}

// Labels maps space ids to display labels.
func (d *Document) Labels() map[string]string {
	out := make(map[string]string, len(d.Spaces))
	for _, n := range d.Spaces {
		out[n.ID] = n.DisplayLabel()
	}
	return out
}
