package route

import (
	"testing"

	"github.com/archmap/archmap/pkg/diagram"
)

func TestDefaultGeometry(t *testing.T) {
	tree := &diagram.Tree{
		SiteMap: []diagram.Column{
			{Items: []*diagram.Item{
				{ID: "p1", Kind: diagram.KindPage, Title: "Home", Children: []*diagram.Item{
					{ID: "f1", Kind: diagram.KindFunction, Title: "Search"},
				}},
			}},
			{Items: []*diagram.Item{
				{ID: "p2", Kind: diagram.KindPage, Title: "Settings"},
			}},
			{},
		},
	}

	opts := DefaultLayoutOpts()
	geom := DefaultGeometry(tree, diagram.SideSiteMap, opts)

	if len(geom.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(geom.Columns))
	}

	// Columns advance by width + spacing.
	c0, c1 := geom.Columns[0], geom.Columns[1]
	if c0.Left != opts.Margin || c0.Right != opts.Margin+opts.ColumnWidth {
		t.Errorf("column 0 band = [%v, %v]", c0.Left, c0.Right)
	}
	if want := c0.Left + opts.ColumnWidth + opts.ColumnSpacing; c1.Left != want {
		t.Errorf("column 1 left = %v, want %v", c1.Left, want)
	}

	// Items stack in document order: f1 sits below p1.
	p1, f1 := geom.Items["p1"], geom.Items["f1"]
	if p1.Column != 0 || f1.Column != 0 {
		t.Errorf("columns = %d, %d, want 0, 0", p1.Column, f1.Column)
	}
	if want := p1.Box.Top + opts.ItemHeight + opts.ItemGap; f1.Box.Top != want {
		t.Errorf("f1 top = %v, want %v", f1.Box.Top, want)
	}

	// Column bottom ends at its last item.
	if c0.Bottom != f1.Box.Bottom() {
		t.Errorf("column 0 bottom = %v, want %v", c0.Bottom, f1.Box.Bottom())
	}

	// Empty columns collapse to the margin.
	if geom.Columns[2].Bottom != opts.Margin {
		t.Errorf("empty column bottom = %v, want %v", geom.Columns[2].Bottom, opts.Margin)
	}
}

func TestDefaultGeometryRoutable(t *testing.T) {
	tree := &diagram.Tree{
		SiteMap: []diagram.Column{
			{Items: []*diagram.Item{{ID: "p1", Kind: diagram.KindPage, Title: "A", LinkTo: []string{"p2"}}}},
			{Items: []*diagram.Item{{ID: "p2", Kind: diagram.KindPage, Title: "B"}}},
		},
	}
	reg, err := diagram.Build(tree)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	geom := DefaultGeometry(tree, diagram.SideSiteMap, DefaultLayoutOpts())
	paths, err := Route(tree, reg, diagram.SideSiteMap, geom, Options{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(paths) != 1 || paths[0].Scenario != ScenarioAdjacent {
		t.Fatalf("paths = %+v, want one adjacent path", paths)
	}
}
