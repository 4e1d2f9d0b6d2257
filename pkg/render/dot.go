package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/archmap/archmap/pkg/diagram"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes item ids and kinds in node labels.
	// When false, only the effective title is shown.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT format. Each map becomes a
// cluster, containment becomes dashed edges, linkTo becomes solid
// arrows, and instanceOf becomes dotted cross-cluster edges. The
// resulting DOT string can be rendered using [RenderSVG].
//
// Instance labels resolve through the registry, so the output always
// shows live titles.
func ToDOT(t *diagram.Tree, reg *diagram.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("\n")

	for _, side := range [...]diagram.Side{diagram.SideObjectMap, diagram.SideSiteMap} {
		fmt.Fprintf(&buf, "  subgraph cluster_%s {\n", strings.ToLower(side.String()))
		fmt.Fprintf(&buf, "    label=%q;\n", side.String())
		buf.WriteString("    style=dashed;\n")
		t.WalkSide(side, func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
			label := fmtLabel(it, reg, opts.Detailed)
			attrs := fmtAttrs(it, label)
			fmt.Fprintf(&buf, "    %q [%s];\n", it.ID, strings.Join(attrs, ", "))
			return true
		})
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	t.Walk(func(_ diagram.Side, it, parent *diagram.Item, _, _ int) bool {
		if parent != nil {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", parent.ID, it.ID)
		}
		for _, ref := range it.LinkTo {
			fmt.Fprintf(&buf, "  %q -> %q;\n", it.ID, ref)
		}
		if it.IsInstance() {
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=empty];\n", it.ID, it.InstanceOf)
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it *diagram.Item, reg *diagram.Registry, detailed bool) string {
	title, err := reg.EffectiveTitle(it.ID)
	if err != nil {
		title = it.Title
	}
	if !detailed {
		return title
	}
	return fmt.Sprintf("%s\n%s (%s)", title, it.ID, it.Kind)
}

func fmtAttrs(it *diagram.Item, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if it.IsInstance() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}
