package route

// Point is a coordinate in the rendering surface's user units.
// Y grows downward, matching screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an item's vertical extent as assigned by the external layout
// collaborator.
type Box struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the box.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Top + b.Height/2 }

// ItemBox places one visible item: which on-screen column it occupies
// and its vertical box inside that column.
type ItemBox struct {
	Column int `json:"column"`
	Box    Box `json:"box"`
}

// ColumnBox is one column's horizontal extent and its lowest edge.
type ColumnBox struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Geometry is the router's external input for one map.
type Geometry struct {
	// Columns lists the on-screen columns left to right; edges index
	// into this slice via ItemBox.Column.
	Columns []ColumnBox `json:"columns"`
	// Items maps item id to its placed box.
	Items map[string]ItemBox `json:"items"`
	// Margin is the lane clearance used beside the outermost columns
	// and below columns when a path dives under them.
	Margin float64 `json:"margin"`
}

// laneRight returns the x of the lane to the right of column c: the
// midpoint to the next column, or Margin past the last column's edge.
func (g Geometry) laneRight(c int) float64 {
	if c+1 < len(g.Columns) {
		return (g.Columns[c].Right + g.Columns[c+1].Left) / 2
	}
	return g.Columns[c].Right + g.Margin
}

// laneLeft returns the x of the lane to the left of column c.
func (g Geometry) laneLeft(c int) float64 {
	if c > 0 {
		return (g.Columns[c-1].Right + g.Columns[c].Left) / 2
	}
	return g.Columns[c].Left - g.Margin
}

// below returns the y just under the lowest edge of columns lo..hi.
func (g Geometry) below(lo, hi int) float64 {
	y := g.Columns[lo].Bottom
	for c := lo + 1; c <= hi; c++ {
		if g.Columns[c].Bottom > y {
			y = g.Columns[c].Bottom
		}
	}
	return y + g.Margin
}
