package diagram

// Column is a presentational grouping of root items. Column membership
// and sibling order are significant for serialization but never for
// diffing.
type Column struct {
	Items []*Item
}

// Tree is the whole document: one forest of columns per map.
type Tree struct {
	ObjectMap []Column
	SiteMap   []Column
}

// Columns returns the forest for the given side.
func (t *Tree) Columns(side Side) []Column {
	if side == SideSiteMap {
		return t.SiteMap
	}
	return t.ObjectMap
}

// SetColumns replaces the forest for the given side.
func (t *Tree) SetColumns(side Side, cols []Column) {
	if side == SideSiteMap {
		t.SiteMap = cols
	} else {
		t.ObjectMap = cols
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	cp := &Tree{}
	for _, side := range [...]Side{SideObjectMap, SideSiteMap} {
		cols := make([]Column, len(t.Columns(side)))
		for i, col := range t.Columns(side) {
			cols[i].Items = make([]*Item, len(col.Items))
			for j, it := range col.Items {
				cols[i].Items[j] = it.Clone()
			}
		}
		cp.SetColumns(side, cols)
	}
	return cp
}

// Visit is the callback for [Tree.Walk]. parent is nil for root items;
// column is the item's column index; depth is 0 for roots and increases
// per nesting level. Returning false stops the walk.
type Visit func(side Side, item, parent *Item, column, depth int) bool

// Walk visits every item of both maps in document order: Object Map
// first, then Site Map, columns left to right, parents before children.
func (t *Tree) Walk(fn Visit) {
	for _, side := range [...]Side{SideObjectMap, SideSiteMap} {
		if !t.WalkSide(side, fn) {
			return
		}
	}
}

// WalkSide visits every item of one map in document order.
// Returns false if the walk was stopped early.
func (t *Tree) WalkSide(side Side, fn Visit) bool {
	var walk func(it, parent *Item, column, depth int) bool
	walk = func(it, parent *Item, column, depth int) bool {
		if !fn(side, it, parent, column, depth) {
			return false
		}
		for _, c := range it.Children {
			if !walk(c, it, column, depth+1) {
				return false
			}
		}
		return true
	}
	for col, column := range t.Columns(side) {
		for _, it := range column.Items {
			if !walk(it, nil, col, 0) {
				return false
			}
		}
	}
	return true
}
