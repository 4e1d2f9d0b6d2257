package diagram

import "slices"

// Kind identifies the element type of an item. Object and Page are
// root-level kinds; Info, Function and Case only appear nested below
// a root item.
type Kind string

// Item kinds. The values double as XML element names.
const (
	KindObject   Kind = "Object"
	KindPage     Kind = "Page"
	KindInfo     Kind = "Info"
	KindFunction Kind = "Function"
	KindCase     Kind = "Case"
)

// Root reports whether the kind is a root-level kind.
func (k Kind) Root() bool { return k == KindObject || k == KindPage }

// Nested reports whether the kind is a nested kind.
func (k Kind) Nested() bool { return k == KindInfo || k == KindFunction || k == KindCase }

// Valid reports whether the kind is one of the five item kinds.
func (k Kind) Valid() bool { return k.Root() || k.Nested() }

// Side identifies which map an item belongs to.
type Side int

const (
	// SideObjectMap is the backend perspective, rooted in Objects.
	SideObjectMap Side = iota
	// SideSiteMap is the frontend perspective, rooted in Pages.
	SideSiteMap
)

// String returns the map name as used in the document format.
func (s Side) String() string {
	if s == SideSiteMap {
		return "SiteMap"
	}
	return "ObjectMap"
}

// RootKind returns the root item kind of the map.
func (s Side) RootKind() Kind {
	if s == SideSiteMap {
		return KindPage
	}
	return KindObject
}

// Item is a node in either map. Ownership is strictly by the parent's
// Children slice; LinkTo and InstanceOf are id references resolved
// through a [Registry].
//
// Exactly one of Title and InstanceOf is set: items carrying InstanceOf
// are instances and have no title of their own.
type Item struct {
	ID         string
	Kind       Kind
	Title      string
	InstanceOf string
	LinkTo     []string
	Children   []*Item
}

// IsInstance reports whether the item borrows its title via instanceOf.
func (it *Item) IsInstance() bool { return it.InstanceOf != "" }

// HasLink reports whether the item links to the given id.
func (it *Item) HasLink(id string) bool { return slices.Contains(it.LinkTo, id) }

// Clone returns a deep copy of the item and its subtree.
func (it *Item) Clone() *Item {
	cp := &Item{
		ID:         it.ID,
		Kind:       it.Kind,
		Title:      it.Title,
		InstanceOf: it.InstanceOf,
		LinkTo:     slices.Clone(it.LinkTo),
	}
	if len(it.Children) > 0 {
		cp.Children = make([]*Item, len(it.Children))
		for i, c := range it.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return cp
}

// Walk visits the item and its descendants in document order.
// The walk stops early if fn returns false.
func (it *Item) Walk(fn func(*Item) bool) bool {
	if !fn(it) {
		return false
	}
	for _, c := range it.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
