package document

import (
	"strings"

	"github.com/archmap/archmap/pkg/diagram"
)

// header is the fixed first line of every generated document.
const header = `<?xml version="1.0" encoding="UTF-8"?>`

// indentUnit is one nesting level of indentation.
const indentUnit = "  "

// Generate serializes a tree into the diagram XML format. Output is
// byte-deterministic: attributes are emitted as id, then title or
// instanceOf, then linkTo; indentation is two spaces per level; items
// without children self-close. Instances never emit a title attribute.
//
// For any tree satisfying the model invariants,
// Parse(Generate(t)) yields a tree structurally equal to t.
func Generate(t *diagram.Tree) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n<xml>\n")
	b.WriteString(indentUnit + "<Diagram>\n")
	writeSection(&b, diagram.SideObjectMap, t.ObjectMap)
	writeSection(&b, diagram.SideSiteMap, t.SiteMap)
	b.WriteString(indentUnit + "</Diagram>\n")
	b.WriteString("</xml>\n")
	return b.String()
}

func writeSection(b *strings.Builder, side diagram.Side, cols []diagram.Column) {
	indent := strings.Repeat(indentUnit, 2)
	if len(cols) == 0 {
		b.WriteString(indent + "<" + side.String() + "/>\n")
		return
	}
	b.WriteString(indent + "<" + side.String() + ">\n")
	for _, col := range cols {
		writeColumn(b, col)
	}
	b.WriteString(indent + "</" + side.String() + ">\n")
}

func writeColumn(b *strings.Builder, col diagram.Column) {
	indent := strings.Repeat(indentUnit, 3)
	if len(col.Items) == 0 {
		b.WriteString(indent + "<Column/>\n")
		return
	}
	b.WriteString(indent + "<Column>\n")
	for _, it := range col.Items {
		writeItem(b, it, 4)
	}
	b.WriteString(indent + "</Column>\n")
}

func writeItem(b *strings.Builder, it *diagram.Item, level int) {
	indent := strings.Repeat(indentUnit, level)
	b.WriteString(indent + "<" + string(it.Kind))
	b.WriteString(` id="` + escapeAttr(it.ID) + `"`)
	if it.IsInstance() {
		b.WriteString(` instanceOf="` + escapeAttr(it.InstanceOf) + `"`)
	} else {
		b.WriteString(` title="` + escapeAttr(it.Title) + `"`)
	}
	if len(it.LinkTo) > 0 {
		b.WriteString(` linkTo="` + escapeAttr(strings.Join(it.LinkTo, ",")) + `"`)
	}
	if len(it.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for _, c := range it.Children {
		writeItem(b, c, level+1)
	}
	b.WriteString(indent + "</" + string(it.Kind) + ">\n")
}

// attrEscaper covers the five characters with meaning inside a
// double-quoted XML attribute value.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
