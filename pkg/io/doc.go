// Package io reads and writes layout documents.
//
// # Overview
//
// A layout document is a flat list of spaces, each naming its parent, in
// the order they are mounted. It is the on-disk counterpart of the space
// store's flat collection and is written in TOML or JSON:
//
//	name = "demo"
//	width = 800
//	height = 600
//
//	[[space]]
//	id = "app"
//	type = "fixed"
//	height = 400
//
//	[[space]]
//	id = "title"
//	parent = "app"
//	type = "anchored"
//	anchor = "top"
//	order = 1
//	size = 25
//
// Sizes are numbers (pixels) or length strings ("25%", "10rem").
//
// # Size Shorthand
//
// Like the Left/Top/Right/Bottom/Fill components of the original layout
// library, anchored and fill spaces get their edge offsets filled in:
//
//   - anchored left:   left = 0, top = 0, bottom = 0, width = size
//   - anchored right:  right = 0, top = 0, bottom = 0, width = size
//   - anchored top:    top = 0, left = 0, right = 0, height = size
//   - anchored bottom: bottom = 0, left = 0, right = 0, height = size
//   - fill, viewport:  left = top = right = bottom = 0
//
// Any edge or axis given explicitly overrides the shorthand.
//
// # Import
//
// Use [Import] to read a file (the extension picks the format), or
// [ReadTOML] and [ReadJSON] for any io.Reader. Every reader validates the
// document with [Document.Validate].
//
// # Mounting
//
// [Mount] creates and adds every space to a [spaces.Store] in document
// order and returns the root.
//
// # Export
//
// [WriteJSON] and [Export] write a document back out as JSON. Drag offsets
// are runtime state and are never written.
package io
