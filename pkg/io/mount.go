package io

import (
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// UpdateFunc returns the update callback for a space about to be created.
// It may return nil.
type UpdateFunc func(id string) func()

// Mount validates doc and adds every space to store in document order,
// parents before children. It returns the root space.
func Mount(store *spaces.Store, doc *Document, update UpdateFunc) (*spaces.Space, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	var root *spaces.Space
	for _, n := range doc.Spaces {
		p, err := n.Props()
		if err != nil {
			return nil, err
		}
		var fn func()
		if update != nil {
			fn = update(n.ID)
		}
		sp := store.CreateSpace(n.Parent, p, fn)
		store.AddSpace(sp)
		if n.Parent == "" {
			root = sp
		}
	}
	return root, nil
}
