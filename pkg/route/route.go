package route

import (
	"errors"
	"fmt"

	"github.com/archmap/archmap/pkg/diagram"
)

// ErrEndpointNotFound is returned when a linkTo endpoint is missing
// from the registry or from the supplied geometry. Links are validated
// at parse and mutation time, so hitting this is a defect in the
// caller, not bad user input.
var ErrEndpointNotFound = errors.New("edge endpoint not found")

// CornerRadius is the fixed rounding radius applied at every corner
// transition of a routed path.
const CornerRadius = 8.0

// Scenario identifies which routing shape an edge selected.
type Scenario int

const (
	// ScenarioSameOrLeft routes edges whose target is in the same
	// column or any column to the left, self-links included.
	ScenarioSameOrLeft Scenario = iota
	// ScenarioAdjacent routes edges into the directly adjacent column
	// to the right.
	ScenarioAdjacent
	// ScenarioMultiRight routes edges that skip at least one column to
	// the right.
	ScenarioMultiRight
)

// String returns a stable name for logging and JSON output.
func (s Scenario) String() string {
	switch s {
	case ScenarioAdjacent:
		return "adjacent"
	case ScenarioMultiRight:
		return "multi-column-right"
	default:
		return "same-or-left"
	}
}

// MarshalText emits the scenario name, so JSON output carries
// "adjacent" instead of an opaque integer.
func (s Scenario) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Path is one routed edge: an orthogonal polyline through its corner
// points, plus rendering metadata. Pixel drawing belongs to the
// rendering collaborator.
type Path struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Scenario Scenario `json:"scenario"`
	Points   []Point  `json:"points"`
	Radius   float64  `json:"radius"`
	Selected bool     `json:"selected,omitempty"`
	Class    string   `json:"class,omitempty"`
}

// Options carries the per-frame rendering metadata attached to paths.
type Options struct {
	// SelectedID flags every edge touching this item as selected.
	SelectedID string
	// Classes maps item ids to a diff-color class; an edge takes the
	// source's class, falling back to the target's.
	Classes map[string]string
}

// Route computes paths for every linkTo edge of one map, in document
// order (owning item first, then its attribute order). It mutates
// nothing and is safe to call once per frame.
func Route(tree *diagram.Tree, reg *diagram.Registry, side diagram.Side, geom Geometry, opts Options) ([]Path, error) {
	var paths []Path
	var routeErr error
	tree.WalkSide(side, func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
		for _, target := range it.LinkTo {
			p, err := routeEdge(it.ID, target, reg, geom)
			if err != nil {
				routeErr = err
				return false
			}
			p.Selected = opts.SelectedID != "" && (it.ID == opts.SelectedID || target == opts.SelectedID)
			if c, ok := opts.Classes[it.ID]; ok {
				p.Class = c
			} else {
				p.Class = opts.Classes[target]
			}
			paths = append(paths, p)
		}
		return true
	})
	if routeErr != nil {
		return nil, routeErr
	}
	return paths, nil
}

func routeEdge(from, to string, reg *diagram.Registry, geom Geometry) (Path, error) {
	src, err := endpoint(from, reg, geom)
	if err != nil {
		return Path{}, err
	}
	dst, err := endpoint(to, reg, geom)
	if err != nil {
		return Path{}, err
	}

	p := Path{From: from, To: to, Radius: CornerRadius}
	sy := src.Box.CenterY()
	ty := dst.Box.CenterY()
	cs, ct := src.Column, dst.Column
	exit := Point{geom.Columns[cs].Right, sy}
	enter := Point{geom.Columns[ct].Left, ty}

	switch {
	case ct <= cs:
		p.Scenario = ScenarioSameOrLeft
		lane := geom.laneRight(cs)
		back := geom.laneLeft(ct)
		dive := geom.below(ct, cs)
		p.Points = []Point{
			exit,
			{lane, sy},
			{lane, dive},
			{back, dive},
			{back, ty},
			enter,
		}
	case ct == cs+1:
		p.Scenario = ScenarioAdjacent
		if sy == ty {
			p.Points = []Point{exit, enter}
			break
		}
		lane := geom.laneRight(cs)
		p.Points = []Point{exit, {lane, sy}, {lane, ty}, enter}
	default:
		p.Scenario = ScenarioMultiRight
		lane := geom.laneRight(cs)
		back := geom.laneLeft(ct)
		dive := geom.below(cs+1, ct-1)
		p.Points = []Point{
			exit,
			{lane, sy},
			{lane, dive},
			{back, dive},
			{back, ty},
			enter,
		}
	}
	return p, nil
}

// endpoint resolves an edge end against registry and geometry.
func endpoint(id string, reg *diagram.Registry, geom Geometry) (ItemBox, error) {
	if _, ok := reg.Item(id); !ok {
		return ItemBox{}, fmt.Errorf("%w: %q not in registry", ErrEndpointNotFound, id)
	}
	box, ok := geom.Items[id]
	if !ok {
		return ItemBox{}, fmt.Errorf("%w: %q has no geometry", ErrEndpointNotFound, id)
	}
	if box.Column < 0 || box.Column >= len(geom.Columns) {
		return ItemBox{}, fmt.Errorf("%w: %q references column %d of %d", ErrEndpointNotFound, id, box.Column, len(geom.Columns))
	}
	return box, nil
}
