package diagram

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidItemID is returned by [Build] when an item has an empty id.
	ErrInvalidItemID = errors.New("item ID must not be empty")

	// ErrDuplicateItemID is returned by [Build] when two items share an id.
	// Item ids are unique across the whole document, both maps included.
	ErrDuplicateItemID = errors.New("duplicate item ID")

	// ErrItemNotFound is returned by Registry lookups that report errors
	// when the id does not resolve.
	ErrItemNotFound = errors.New("item not found")
)

// entry is the per-item record held by a Registry.
type entry struct {
	item   *Item
	parent *Item // nil for root items
	side   Side
	column int
	depth  int // 0 for root items
}

// Registry is a derived, non-owning id index over one [Tree]. It is
// valid only as long as the tree it was built from is unchanged; every
// structural mutation requires a rebuild.
type Registry struct {
	entries map[string]*entry
}

// Build indexes every item of the tree by id.
// Returns ErrInvalidItemID or ErrDuplicateItemID (wrapped with the
// offending id) if the tree violates id invariants; no partial registry
// is returned.
func Build(t *Tree) (*Registry, error) {
	r := &Registry{entries: make(map[string]*entry)}
	var buildErr error
	t.Walk(func(side Side, it, parent *Item, column, depth int) bool {
		if it.ID == "" {
			buildErr = ErrInvalidItemID
			return false
		}
		if _, exists := r.entries[it.ID]; exists {
			buildErr = fmt.Errorf("%w: %s", ErrDuplicateItemID, it.ID)
			return false
		}
		r.entries[it.ID] = &entry{item: it, parent: parent, side: side, column: column, depth: depth}
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return r, nil
}

// Item returns the item with the given id.
func (r *Registry) Item(id string) (*Item, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.item, true
}

// Parent returns the structural parent of the item, or nil for roots.
// The second result is false if the id is unknown.
func (r *Registry) Parent(id string) (*Item, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.parent, true
}

// ParentID returns the id of the item's structural parent, or "" for
// root items and unknown ids.
func (r *Registry) ParentID(id string) string {
	e, ok := r.entries[id]
	if !ok || e.parent == nil {
		return ""
	}
	return e.parent.ID
}

// Side returns which map the item lives in.
func (r *Registry) Side(id string) (Side, bool) {
	e, ok := r.entries[id]
	if !ok {
		return SideObjectMap, false
	}
	return e.side, true
}

// Column returns the column index of the item's root ancestor.
func (r *Registry) Column(id string) (int, bool) {
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.column, true
}

// Depth returns the item's nesting level: 0 for root items, increasing
// per nesting depth.
func (r *Registry) Depth(id string) (int, bool) {
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.depth, true
}

// Len returns the number of indexed items.
func (r *Registry) Len() int { return len(r.entries) }

// IDs returns all indexed ids in sorted order.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// EffectiveTitle resolves the item's displayed title. For instances the
// title is read from the instanceOf target at call time, so edits to
// the original propagate live. Returns ErrItemNotFound (wrapped) if the
// id or the referenced target does not resolve.
func (r *Registry) EffectiveTitle(id string) (string, error) {
	e, ok := r.entries[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !e.item.IsInstance() {
		return e.item.Title, nil
	}
	target, ok := r.entries[e.item.InstanceOf]
	if !ok {
		return "", fmt.Errorf("%w: instanceOf target %s", ErrItemNotFound, e.item.InstanceOf)
	}
	return target.item.Title, nil
}

// Path renders the human-readable path from the item's map root down to
// the item, joining effective titles with " > ". Used for display only.
func (r *Registry) Path(id string) (string, error) {
	e, ok := r.entries[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	var titles []string
	for cur := e; cur != nil; {
		title, err := r.EffectiveTitle(cur.item.ID)
		if err != nil {
			return "", err
		}
		titles = append(titles, title)
		if cur.parent == nil {
			break
		}
		cur = r.entries[cur.parent.ID]
	}
	slices.Reverse(titles)
	path := titles[0]
	for _, t := range titles[1:] {
		path += " > " + t
	}
	return path, nil
}
