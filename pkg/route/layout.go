package route

import "github.com/archmap/archmap/pkg/diagram"

// LayoutOpts controls the synthetic geometry produced by
// [DefaultGeometry]. Callers with a real renderer supply their own
// Geometry instead.
type LayoutOpts struct {
	ColumnWidth   float64
	ColumnSpacing float64
	ItemHeight    float64
	ItemGap       float64
	Margin        float64
}

// DefaultLayoutOpts returns the standard layout parameters.
func DefaultLayoutOpts() LayoutOpts {
	return LayoutOpts{
		ColumnWidth:   160,
		ColumnSpacing: 80,
		ItemHeight:    40,
		ItemGap:       12,
		Margin:        20,
	}
}

// DefaultGeometry derives box geometry for one map of a diagram by
// stacking items in document order. Nested items stay inside their
// column's horizontal band, so routing lanes are not affected by
// nesting.
func DefaultGeometry(t *diagram.Tree, side diagram.Side, opts LayoutOpts) Geometry {
	cols := t.Columns(side)
	geom := Geometry{
		Columns: make([]ColumnBox, len(cols)),
		Items:   make(map[string]ItemBox, len(cols)*4),
		Margin:  opts.Margin,
	}

	for c := range cols {
		left := opts.Margin + float64(c)*(opts.ColumnWidth+opts.ColumnSpacing)
		geom.Columns[c] = ColumnBox{Left: left, Right: left + opts.ColumnWidth}

		y := opts.Margin
		var place func(items []*diagram.Item)
		place = func(items []*diagram.Item) {
			for _, it := range items {
				geom.Items[it.ID] = ItemBox{
					Column: c,
					Box:    Box{Top: y, Height: opts.ItemHeight},
				}
				y += opts.ItemHeight + opts.ItemGap
				place(it.Children)
			}
		}
		place(cols[c].Items)

		bottom := y - opts.ItemGap
		if len(cols[c].Items) == 0 {
			bottom = opts.Margin
		}
		geom.Columns[c].Bottom = bottom
	}

	return geom
}
