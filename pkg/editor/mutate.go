package editor

import (
	"slices"

	"github.com/archmap/archmap/pkg/diagram"
)

// Insert adds item (and its subtree) as the last child of parentID.
// The whole subtree is validated first; on any rejection the tree is
// unchanged.
func (s *Session) Insert(parentID string, item *diagram.Item) error {
	parent, ok := s.reg.Item(parentID)
	if !ok {
		return mutErrf(NotFound, parentID, "parent does not exist")
	}
	side, _ := s.reg.Side(parentID)
	depth, _ := s.reg.Depth(parentID)
	if !item.Kind.Nested() {
		return mutErrf(InvalidItem, item.ID, "<%s> cannot be nested under %q", item.Kind, parentID)
	}
	if err := s.validateSubtree(item, side, depth+1); err != nil {
		return err
	}

	s.snapshot()
	parent.Children = append(parent.Children, item)
	s.rebuild()
	return nil
}

// InsertRoot adds item as a root of the given map. column may equal the
// current column count, which opens a new column.
func (s *Session) InsertRoot(side diagram.Side, column int, item *diagram.Item) error {
	if item.Kind != side.RootKind() {
		return mutErrf(InvalidItem, item.ID, "<%s> cannot root %s", item.Kind, side)
	}
	cols := s.tree.Columns(side)
	if column < 0 || column > len(cols) {
		return mutErrf(InvalidItem, item.ID, "column %d out of range 0..%d", column, len(cols))
	}
	if err := s.validateSubtree(item, side, 0); err != nil {
		return err
	}

	s.snapshot()
	if column == len(cols) {
		cols = append(cols, diagram.Column{})
	}
	cols[column].Items = append(cols[column].Items, item)
	s.tree.SetColumns(side, cols)
	s.rebuild()
	return nil
}

// Delete removes the item, every descendant of it, and — transitively —
// every instance whose target was removed, together with the instances'
// descendants. Surviving items lose any linkTo edge into the removed
// set, so link resolution stays total.
func (s *Session) Delete(id string) error {
	target, ok := s.reg.Item(id)
	if !ok {
		return mutErrf(NotFound, id, "cannot delete unknown item")
	}

	removed := map[string]bool{}
	mark := func(it *diagram.Item) {
		it.Walk(func(n *diagram.Item) bool {
			removed[n.ID] = true
			return true
		})
	}
	mark(target)
	// Cascade to instances of anything removed, until stable.
	for {
		grew := false
		s.tree.Walk(func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
			if !removed[it.ID] && it.IsInstance() && removed[it.InstanceOf] {
				mark(it)
				grew = true
			}
			return true
		})
		if !grew {
			break
		}
	}

	s.snapshot()
	for _, side := range [...]diagram.Side{diagram.SideObjectMap, diagram.SideSiteMap} {
		cols := s.tree.Columns(side)
		for c := range cols {
			cols[c].Items = pruneItems(cols[c].Items, removed)
		}
		s.tree.SetColumns(side, cols)
	}
	s.tree.Walk(func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
		it.LinkTo = slices.DeleteFunc(it.LinkTo, func(ref string) bool { return removed[ref] })
		return true
	})
	s.rebuild()
	return nil
}

// pruneItems filters a sibling slice, recursing into survivors.
func pruneItems(items []*diagram.Item, removed map[string]bool) []*diagram.Item {
	kept := items[:0]
	for _, it := range items {
		if removed[it.ID] {
			continue
		}
		it.Children = pruneItems(it.Children, removed)
		kept = append(kept, it)
	}
	return kept
}

// Move reparents a nested item under newParentID within the same map.
func (s *Session) Move(id, newParentID string) error {
	item, ok := s.reg.Item(id)
	if !ok {
		return mutErrf(NotFound, id, "cannot move unknown item")
	}
	parent, ok := s.reg.Item(newParentID)
	if !ok {
		return mutErrf(NotFound, newParentID, "move target does not exist")
	}
	if item.Kind.Root() {
		return mutErrf(InvalidItem, id, "root items move between columns, not parents")
	}
	itemSide, _ := s.reg.Side(id)
	parentSide, _ := s.reg.Side(newParentID)
	if itemSide != parentSide {
		return mutErrf(CrossMapLink, id, "cannot move across maps")
	}
	inside := false
	item.Walk(func(n *diagram.Item) bool {
		if n.ID == newParentID {
			inside = true
			return false
		}
		return true
	})
	if inside {
		return mutErrf(InvalidItem, id, "cannot move under own descendant %q", newParentID)
	}
	parentDepth, _ := s.reg.Depth(newParentID)
	if itemSide == diagram.SideObjectMap && parentDepth+1+height(item) > 1 {
		return mutErrf(NestingDepthExceeded, id, "Object Map items nest at most one level below an Object")
	}

	s.snapshot()
	s.detach(id)
	parent.Children = append(parent.Children, item)
	s.rebuild()
	return nil
}

// MoveToColumn reassigns a root item's column. This is presentational
// only and is never reported by the diff engine.
func (s *Session) MoveToColumn(id string, column int) error {
	item, ok := s.reg.Item(id)
	if !ok {
		return mutErrf(NotFound, id, "cannot move unknown item")
	}
	if p, _ := s.reg.Parent(id); p != nil {
		return mutErrf(InvalidItem, id, "only root items occupy columns")
	}
	side, _ := s.reg.Side(id)
	cols := s.tree.Columns(side)
	if column < 0 || column > len(cols) {
		return mutErrf(InvalidItem, id, "column %d out of range 0..%d", column, len(cols))
	}

	s.snapshot()
	s.detach(id)
	cols = s.tree.Columns(side)
	if column == len(cols) {
		cols = append(cols, diagram.Column{})
	}
	cols[column].Items = append(cols[column].Items, item)
	s.tree.SetColumns(side, cols)
	s.rebuild()
	return nil
}

// SetTitle renames a non-instance item. Instances derive their title
// from their instanceOf target and cannot be renamed directly.
func (s *Session) SetTitle(id, title string) error {
	item, ok := s.reg.Item(id)
	if !ok {
		return mutErrf(NotFound, id, "cannot rename unknown item")
	}
	if item.IsInstance() {
		return mutErrf(InvalidItem, id, "instances derive their title from %q", item.InstanceOf)
	}
	if title == "" {
		return mutErrf(InvalidItem, id, "title must not be empty")
	}
	if item.Title == title {
		return nil
	}

	s.snapshot()
	item.Title = title
	return nil
}

// AddLink appends a linkTo edge. Adding an existing edge is a no-op;
// linkTo is an ordered set.
func (s *Session) AddLink(from, to string) error {
	src, ok := s.reg.Item(from)
	if !ok {
		return mutErrf(NotFound, from, "link source does not exist")
	}
	toSide, ok := s.reg.Side(to)
	if !ok {
		return mutErrf(DanglingLinkTarget, from, "linkTo %q does not resolve", to)
	}
	fromSide, _ := s.reg.Side(from)
	if fromSide != toSide {
		return mutErrf(CrossMapLink, from, "linkTo %q crosses maps", to)
	}
	if src.HasLink(to) {
		return nil
	}

	s.snapshot()
	src.LinkTo = append(src.LinkTo, to)
	return nil
}

// RemoveLink drops a linkTo edge. Removing an absent edge is a no-op.
func (s *Session) RemoveLink(from, to string) error {
	src, ok := s.reg.Item(from)
	if !ok {
		return mutErrf(NotFound, from, "link source does not exist")
	}
	if !src.HasLink(to) {
		return nil
	}

	s.snapshot()
	src.LinkTo = slices.DeleteFunc(src.LinkTo, func(ref string) bool { return ref == to })
	return nil
}

// detach removes the item from its parent's children or its column.
// The caller has already verified the id resolves.
func (s *Session) detach(id string) *diagram.Item {
	item, _ := s.reg.Item(id)
	if parent, _ := s.reg.Parent(id); parent != nil {
		parent.Children = slices.DeleteFunc(parent.Children, func(c *diagram.Item) bool { return c.ID == id })
		return item
	}
	side, _ := s.reg.Side(id)
	cols := s.tree.Columns(side)
	for c := range cols {
		cols[c].Items = slices.DeleteFunc(cols[c].Items, func(it *diagram.Item) bool { return it.ID == id })
	}
	s.tree.SetColumns(side, cols)
	return item
}

// validateSubtree checks an incoming subtree against the live tree:
// id shape and uniqueness, attribute shape, nesting depth for the
// Object Map, and reference resolution. baseDepth is the depth the
// subtree root will occupy.
func (s *Session) validateSubtree(root *diagram.Item, side diagram.Side, baseDepth int) error {
	incoming := map[string]bool{}
	var verr error
	var walk func(it *diagram.Item, depth int) bool
	walk = func(it *diagram.Item, depth int) bool {
		switch {
		case it.ID == "":
			verr = mutErrf(InvalidItem, "", "item is missing an id")
		case incoming[it.ID]:
			verr = mutErrf(DuplicateID, it.ID, "id repeated in inserted subtree")
		default:
			if _, exists := s.reg.Item(it.ID); exists {
				verr = mutErrf(DuplicateID, it.ID, "id already used in the document")
			}
		}
		if verr != nil {
			return false
		}
		incoming[it.ID] = true

		if depth > baseDepth && !it.Kind.Nested() {
			verr = mutErrf(InvalidItem, it.ID, "<%s> cannot be nested", it.Kind)
			return false
		}
		if side == diagram.SideObjectMap && depth > 1 {
			verr = mutErrf(NestingDepthExceeded, it.ID, "Object Map items nest at most one level below an Object")
			return false
		}
		if it.IsInstance() && it.Title != "" {
			verr = mutErrf(InvalidItem, it.ID, "instance must not carry a title")
			return false
		}
		if !it.IsInstance() && it.Title == "" {
			verr = mutErrf(InvalidItem, it.ID, "<%s> is missing a title", it.Kind)
			return false
		}
		if it.IsInstance() {
			if err := s.validateInstanceTarget(it); err != nil {
				verr = err
				return false
			}
		}
		for _, ref := range it.LinkTo {
			if incoming[ref] {
				continue
			}
			refSide, ok := s.reg.Side(ref)
			if !ok {
				verr = mutErrf(DanglingLinkTarget, it.ID, "linkTo %q does not resolve", ref)
				return false
			}
			if refSide != side {
				verr = mutErrf(CrossMapLink, it.ID, "linkTo %q crosses maps", ref)
				return false
			}
		}
		for _, c := range it.Children {
			if !walk(c, depth+1) {
				return false
			}
		}
		return true
	}
	walk(root, baseDepth)
	if verr != nil {
		return verr
	}
	return nil
}

// validateInstanceTarget requires instanceOf to reference a titled
// nested item of the Object Map that already exists in the document.
func (s *Session) validateInstanceTarget(it *diagram.Item) error {
	target, ok := s.reg.Item(it.InstanceOf)
	if !ok {
		return mutErrf(DanglingLinkTarget, it.ID, "instanceOf %q does not resolve", it.InstanceOf)
	}
	side, _ := s.reg.Side(it.InstanceOf)
	if side != diagram.SideObjectMap || !target.Kind.Nested() || target.IsInstance() {
		return mutErrf(DanglingLinkTarget, it.ID, "instanceOf %q must reference a nested Object Map item", it.InstanceOf)
	}
	return nil
}

// height returns the number of nesting levels below the item.
func height(it *diagram.Item) int {
	max := 0
	for _, c := range it.Children {
		if h := height(c) + 1; h > max {
			max = h
		}
	}
	return max
}
