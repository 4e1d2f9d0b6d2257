package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/archmap/archmap/pkg/diagram"
)

// Parse reads an XML document and returns the tree together with its
// registry. Parsing is all-or-nothing: any violation aborts with a
// single *ParseError and no partial tree.
func Parse(text string) (*diagram.Tree, *diagram.Registry, error) {
	p := &parser{
		dec:       xml.NewDecoder(strings.NewReader(text)),
		lineEnds:  lineEnds(text),
		itemLines: make(map[string]int),
	}
	tree, err := p.parseDocument()
	if err != nil {
		return nil, nil, err
	}
	reg, err := diagram.Build(tree)
	if err != nil {
		// Duplicate and empty ids are caught during the token walk;
		// reaching this is a defect in the walk itself.
		return nil, nil, &ParseError{Code: DuplicateID, Cause: err}
	}
	if err := p.validate(tree, reg); err != nil {
		return nil, nil, err
	}
	return tree, reg, nil
}

// parser tracks decoder state and per-item line numbers during one parse.
type parser struct {
	dec       *xml.Decoder
	lineEnds  []int64
	itemLines map[string]int
}

// lineEnds returns the byte offset just past each line of text.
func lineEnds(text string) []int64 {
	var ends []int64
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			ends = append(ends, int64(i))
		}
	}
	return append(ends, int64(len(text)))
}

// line converts a byte offset into a 1-based line number.
func (p *parser) line(offset int64) int {
	return sort.Search(len(p.lineEnds), func(i int) bool { return p.lineEnds[i] >= offset }) + 1
}

// here returns the line of the most recently decoded token.
func (p *parser) here() int {
	off := p.dec.InputOffset()
	if off > 0 {
		off--
	}
	return p.line(off)
}

// next returns the next structural token, skipping comments, directives
// and processing instructions. Whitespace-only character data is
// skipped; any other text aborts the parse.
func (p *parser) next() (xml.Token, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, p.markupErr(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, parseErrf(MalformedMarkup, "", p.here(), "unexpected text content")
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
			// skipped
		default:
			return tok, nil
		}
	}
}

// markupErr wraps a decoder error as a MalformedMarkup ParseError.
func (p *parser) markupErr(err error) *ParseError {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Code: MalformedMarkup, Line: syn.Line, Detail: syn.Msg, Cause: err}
	}
	if errors.Is(err, io.EOF) {
		return parseErrf(MalformedMarkup, "", p.here(), "unexpected end of document")
	}
	return &ParseError{Code: MalformedMarkup, Line: p.here(), Cause: err}
}

func (p *parser) parseDocument() (*diagram.Tree, error) {
	if _, err := p.expectStart("xml"); err != nil {
		return nil, err
	}
	if _, err := p.expectStart("Diagram"); err != nil {
		return nil, err
	}

	tree := &diagram.Tree{}
	seen := map[string]bool{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var side diagram.Side
			switch t.Name.Local {
			case diagram.SideObjectMap.String():
				side = diagram.SideObjectMap
			case diagram.SideSiteMap.String():
				side = diagram.SideSiteMap
			default:
				return nil, parseErrf(MalformedMarkup, "", p.here(), "unexpected element <%s> in <Diagram>", t.Name.Local)
			}
			if seen[t.Name.Local] {
				return nil, parseErrf(MalformedMarkup, "", p.here(), "duplicate <%s> section", t.Name.Local)
			}
			seen[t.Name.Local] = true
			cols, err := p.parseSection(side)
			if err != nil {
				return nil, err
			}
			tree.SetColumns(side, cols)
		case xml.EndElement:
			// </Diagram>; consume the closing </xml> and finish.
			if err := p.expectEnd(); err != nil {
				return nil, err
			}
			return tree, nil
		}
	}
}

// expectStart consumes the next token and requires it to open the named
// element.
func (p *parser) expectStart(name string) (xml.StartElement, error) {
	tok, err := p.next()
	if err != nil {
		return xml.StartElement{}, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok || start.Name.Local != name {
		return xml.StartElement{}, parseErrf(MalformedMarkup, "", p.here(), "expected <%s>", name)
	}
	return start, nil
}

// expectEnd consumes the next token and requires it to be a closing tag.
func (p *parser) expectEnd() error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if _, ok := tok.(xml.EndElement); !ok {
		return parseErrf(MalformedMarkup, "", p.here(), "expected closing tag")
	}
	return nil
}

func (p *parser) parseSection(side diagram.Side) ([]diagram.Column, error) {
	var cols []diagram.Column
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "Column" {
				return nil, parseErrf(MalformedMarkup, "", p.here(), "unexpected element <%s> in <%s>", t.Name.Local, side)
			}
			col, err := p.parseColumn(side)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		case xml.EndElement:
			return cols, nil
		}
	}
}

func (p *parser) parseColumn(side diagram.Side) (diagram.Column, error) {
	var col diagram.Column
	for {
		tok, err := p.next()
		if err != nil {
			return diagram.Column{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			item, err := p.parseItem(t, side, 0)
			if err != nil {
				return diagram.Column{}, err
			}
			col.Items = append(col.Items, item)
		case xml.EndElement:
			return col, nil
		}
	}
}

func (p *parser) parseItem(start xml.StartElement, side diagram.Side, depth int) (*diagram.Item, error) {
	line := p.here()
	kind := diagram.Kind(start.Name.Local)
	if !kind.Valid() {
		return nil, parseErrf(MalformedMarkup, "", line, "unexpected element <%s>", start.Name.Local)
	}
	if depth == 0 && kind != side.RootKind() {
		return nil, parseErrf(InvalidNesting, "", line, "<%s> is not a valid root of %s", kind, side)
	}
	if depth > 0 && !kind.Nested() {
		return nil, parseErrf(InvalidNesting, "", line, "<%s> cannot be nested", kind)
	}

	item := &diagram.Item{Kind: kind}
	hasTitle := false
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			item.ID = attr.Value
		case "title":
			item.Title = attr.Value
			hasTitle = true
		case "instanceOf":
			item.InstanceOf = attr.Value
		case "linkTo":
			item.LinkTo = splitLinks(attr.Value)
		default:
			return nil, parseErrf(MalformedMarkup, item.ID, line, "unknown attribute %q on <%s>", attr.Name.Local, kind)
		}
	}
	if item.ID == "" {
		return nil, parseErrf(MissingRequiredAttribute, "", line, "<%s> is missing an id", kind)
	}
	if prev, dup := p.itemLines[item.ID]; dup {
		return nil, parseErrf(DuplicateID, item.ID, line, "id already used at line %d", prev)
	}
	p.itemLines[item.ID] = line
	if item.InstanceOf != "" && hasTitle {
		return nil, parseErrf(MissingRequiredAttribute, item.ID, line, "instance must not carry a title")
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := p.parseItem(t, side, depth+1)
			if err != nil {
				return nil, err
			}
			item.Children = append(item.Children, child)
		case xml.EndElement:
			return item, nil
		}
	}
}

// splitLinks parses the comma-separated linkTo attribute value.
func splitLinks(value string) []string {
	var links []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	return links
}

// validate runs the semantic checks that need the whole tree: attribute
// shape, nesting depth, instanceOf resolution and link targets.
func (p *parser) validate(tree *diagram.Tree, reg *diagram.Registry) *ParseError {
	var verr *ParseError
	tree.Walk(func(side diagram.Side, it, _ *diagram.Item, _, depth int) bool {
		line := p.itemLines[it.ID]

		if it.Kind.Root() && it.IsInstance() {
			verr = parseErrf(MissingRequiredAttribute, it.ID, line, "root items carry a title, not instanceOf")
			return false
		}
		if !it.IsInstance() && it.Title == "" {
			verr = parseErrf(MissingRequiredAttribute, it.ID, line, "<%s> is missing a title", it.Kind)
			return false
		}
		if side == diagram.SideObjectMap && depth > 1 {
			verr = parseErrf(InvalidNesting, it.ID, line, "Object Map items nest at most one level below an Object")
			return false
		}
		if it.IsInstance() {
			if err := checkInstanceTarget(reg, it); err != nil {
				verr = parseErrf(DanglingReference, it.ID, line, "%s", err)
				return false
			}
		}
		for _, ref := range it.LinkTo {
			refSide, ok := reg.Side(ref)
			if !ok {
				verr = parseErrf(DanglingReference, it.ID, line, "linkTo %q does not resolve", ref)
				return false
			}
			if refSide != side {
				verr = parseErrf(DanglingReference, it.ID, line, "linkTo %q crosses maps", ref)
				return false
			}
		}
		return true
	})
	return verr
}

// checkInstanceTarget verifies that instanceOf points at a titled
// nested item inside the Object Map.
func checkInstanceTarget(reg *diagram.Registry, it *diagram.Item) error {
	target, ok := reg.Item(it.InstanceOf)
	if !ok {
		return fmt.Errorf("instanceOf %q does not resolve", it.InstanceOf)
	}
	side, _ := reg.Side(it.InstanceOf)
	if side != diagram.SideObjectMap || !target.Kind.Nested() {
		return fmt.Errorf("instanceOf %q must reference a nested Object Map item", it.InstanceOf)
	}
	if target.IsInstance() {
		return fmt.Errorf("instanceOf %q references another instance", it.InstanceOf)
	}
	return nil
}
