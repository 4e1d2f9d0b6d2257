package diff

import (
	"testing"

	"github.com/archmap/archmap/pkg/diagram"
	"github.com/archmap/archmap/pkg/document"
)

const docV1 = `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <Diagram>
    <ObjectMap>
      <Column>
        <Object id="o1" title="User">
          <Info id="i1" title="Name"/>
        </Object>
      </Column>
    </ObjectMap>
    <SiteMap>
      <Column>
        <Page id="p1" title="Home">
          <Info id="inst1" instanceOf="i1"/>
        </Page>
      </Column>
    </SiteMap>
  </Diagram>
</xml>
`

func mustParse(t *testing.T, doc string) *diagram.Tree {
	t.Helper()
	tree, _, err := document.Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestDiffIdenticalTreesIsEmpty(t *testing.T) {
	a := mustParse(t, docV1)
	b := mustParse(t, docV1)
	changes, err := Diff(a, b)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("Diff(A,A) = %v, want empty", changes)
	}
}

func TestDiffTitleEditAndAddition(t *testing.T) {
	// V2 renames i1 and adds a Function f1 under p1.
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)
	reg, _ := diagram.Build(v2)
	i1, _ := reg.Item("i1")
	i1.Title = "Name2"
	p1, _ := reg.Item("p1")
	p1.Children = append(p1.Children, &diagram.Item{ID: "f1", Kind: diagram.KindFunction, Title: "Search"})

	changes, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("Diff() = %d changes, want 2: %v", len(changes), changes)
	}

	mod := changes[0]
	if mod.Op != OpModified || mod.ID != "i1" {
		t.Errorf("changes[0] = %+v, want Modified(i1)", mod)
	}
	if !mod.TitleChanged || mod.OldTitle != "Name" || mod.NewTitle != "Name2" {
		t.Errorf("title delta = %q→%q, want Name→Name2", mod.OldTitle, mod.NewTitle)
	}

	add := changes[1]
	if add.Op != OpAdded || add.ID != "f1" {
		t.Errorf("changes[1] = %+v, want Added(f1)", add)
	}
	if add.Path != "Home > Search" {
		t.Errorf("added path = %q, want %q", add.Path, "Home > Search")
	}
}

func TestDiffSymmetry(t *testing.T) {
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)
	reg, _ := diagram.Build(v2)
	p1, _ := reg.Item("p1")
	p1.Children = append(p1.Children, &diagram.Item{ID: "f1", Kind: diagram.KindFunction, Title: "Search"})
	o1, _ := reg.Item("o1")
	o1.Children = nil // removes i1; inst1 keeps pointing at nothing in v2...
	// keep the document valid: drop the instance too
	p1.Children = p1.Children[1:]

	forward, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff(v1,v2) error = %v", err)
	}
	backward, err := Diff(v2, v1)
	if err != nil {
		t.Fatalf("Diff(v2,v1) error = %v", err)
	}

	added := idsByOp(forward, OpAdded)
	removedBack := idsByOp(backward, OpRemoved)
	if !equalSets(added, removedBack) {
		t.Errorf("Diff(A,B).added = %v, Diff(B,A).removed = %v", added, removedBack)
	}
	removed := idsByOp(forward, OpRemoved)
	addedBack := idsByOp(backward, OpAdded)
	if !equalSets(removed, addedBack) {
		t.Errorf("Diff(A,B).removed = %v, Diff(B,A).added = %v", removed, addedBack)
	}
}

func TestDiffMove(t *testing.T) {
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)

	// Move inst1 from p1 to a new page p2 in the same column.
	reg, _ := diagram.Build(v2)
	p1, _ := reg.Item("p1")
	inst := p1.Children[0]
	p1.Children = nil
	v2.SiteMap[0].Items = append(v2.SiteMap[0].Items,
		&diagram.Item{ID: "p2", Kind: diagram.KindPage, Title: "Profile", Children: []*diagram.Item{inst}})

	changes, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	var moved *Change
	for i := range changes {
		if changes[i].ID == "inst1" {
			moved = &changes[i]
		}
	}
	if moved == nil {
		t.Fatalf("no change for inst1 in %v", changes)
	}
	if moved.Op != OpMoved {
		t.Fatalf("inst1 op = %v, want moved", moved.Op)
	}
	if moved.OldParent != "p1" || moved.NewParent != "p2" {
		t.Errorf("parent delta = %q→%q, want p1→p2", moved.OldParent, moved.NewParent)
	}
}

func TestDiffIgnoresPresentationalChanges(t *testing.T) {
	t.Run("column move", func(t *testing.T) {
		v1 := mustParse(t, docV1)
		v2 := mustParse(t, docV1)
		// Move p1 into a new second column: parent is still "map root".
		p1 := v2.SiteMap[0].Items[0]
		v2.SiteMap[0].Items = nil
		v2.SiteMap = append(v2.SiteMap, diagram.Column{Items: []*diagram.Item{p1}})

		changes, err := Diff(v1, v2)
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if len(changes) != 0 {
			t.Errorf("column move reported: %v", changes)
		}
	})

	t.Run("sibling reorder", func(t *testing.T) {
		v1 := mustParse(t, docV1)
		v2 := mustParse(t, docV1)
		o1 := v2.ObjectMap[0].Items[0]
		o1.Children = append(o1.Children, &diagram.Item{ID: "i2", Kind: diagram.KindInfo, Title: "Email"})
		v1o1 := v1.ObjectMap[0].Items[0]
		v1o1.Children = append([]*diagram.Item{{ID: "i2", Kind: diagram.KindInfo, Title: "Email"}}, v1o1.Children...)

		changes, err := Diff(v1, v2)
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if len(changes) != 0 {
			t.Errorf("sibling reorder reported: %v", changes)
		}
	})

	t.Run("link reorder", func(t *testing.T) {
		v1 := mustParse(t, docV1)
		v2 := mustParse(t, docV1)
		reg1, _ := diagram.Build(v1)
		reg2, _ := diagram.Build(v2)
		p1a, _ := reg1.Item("p1")
		p1b, _ := reg2.Item("p1")
		p1a.LinkTo = []string{"p1", "inst1"}
		p1b.LinkTo = []string{"inst1", "p1"}

		changes, err := Diff(v1, v2)
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if len(changes) != 0 {
			t.Errorf("link reorder reported: %v", changes)
		}
	})
}

func TestDiffLinkDeltas(t *testing.T) {
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)
	reg1, _ := diagram.Build(v1)
	reg2, _ := diagram.Build(v2)
	p1a, _ := reg1.Item("p1")
	p1b, _ := reg2.Item("p1")
	p1a.LinkTo = []string{"inst1"}
	p1b.LinkTo = []string{"p1"}

	changes, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("Diff() = %v, want one change", changes)
	}
	c := changes[0]
	if c.Op != OpModified || c.Links == nil {
		t.Fatalf("change = %+v, want Modified with link delta", c)
	}
	if len(c.Links.Added) != 1 || c.Links.Added[0] != "p1" {
		t.Errorf("Links.Added = %v, want [p1]", c.Links.Added)
	}
	if len(c.Links.Removed) != 1 || c.Links.Removed[0] != "inst1" {
		t.Errorf("Links.Removed = %v, want [inst1]", c.Links.Removed)
	}
}

func TestDiffInstanceRetarget(t *testing.T) {
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)

	// Give both versions a second Info and retarget inst1 in v2.
	for _, tree := range []*diagram.Tree{v1, v2} {
		o1 := tree.ObjectMap[0].Items[0]
		o1.Children = append(o1.Children, &diagram.Item{ID: "i2", Kind: diagram.KindInfo, Title: "Email"})
	}
	reg2, _ := diagram.Build(v2)
	inst, _ := reg2.Item("inst1")
	inst.InstanceOf = "i2"

	changes, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("Diff() = %v, want one change", changes)
	}
	c := changes[0]
	if c.Op != OpModified || !c.InstanceChanged {
		t.Fatalf("change = %+v, want Modified with instanceOf delta", c)
	}
	if c.OldInstanceOf != "i1" || c.NewInstanceOf != "i2" {
		t.Errorf("instanceOf delta = %q→%q, want i1→i2", c.OldInstanceOf, c.NewInstanceOf)
	}
}

func TestDiffOrdering(t *testing.T) {
	// Object Map changes sort before Site Map changes.
	v1 := mustParse(t, docV1)
	v2 := mustParse(t, docV1)
	reg, _ := diagram.Build(v2)
	o1, _ := reg.Item("o1")
	o1.Children = append(o1.Children, &diagram.Item{ID: "i2", Kind: diagram.KindInfo, Title: "Email"})
	p1, _ := reg.Item("p1")
	p1.Children = append(p1.Children, &diagram.Item{ID: "f1", Kind: diagram.KindFunction, Title: "Search"})

	changes, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("Diff() = %v, want 2 changes", changes)
	}
	if changes[0].Map != diagram.SideObjectMap.String() || changes[1].Map != diagram.SideSiteMap.String() {
		t.Errorf("order = [%s, %s], want ObjectMap first", changes[0].Map, changes[1].Map)
	}
}

func idsByOp(changes []Change, op Op) []string {
	var ids []string
	for _, c := range changes {
		if c.Op == op {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}
