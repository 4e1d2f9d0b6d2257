package document

import (
	"errors"
	"strings"
	"testing"
)

const validDoc = `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <Diagram>
    <ObjectMap>
      <Column>
        <Object id="o1" title="User">
          <Info id="i1" title="Name"/>
          <Info id="i2" title="Email"/>
        </Object>
      </Column>
    </ObjectMap>
    <SiteMap>
      <Column>
        <Page id="p1" title="Home">
          <Info id="inst1" instanceOf="i1"/>
        </Page>
      </Column>
      <Column>
        <Page id="p2" title="Settings">
          <Function id="f1" title="Save" linkTo="p1,f1"/>
        </Page>
      </Column>
    </SiteMap>
  </Diagram>
</xml>
`

func TestParseValidDocument(t *testing.T) {
	tree, reg, err := Parse(validDoc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(tree.ObjectMap); got != 1 {
		t.Errorf("ObjectMap columns = %d, want 1", got)
	}
	if got := len(tree.SiteMap); got != 2 {
		t.Errorf("SiteMap columns = %d, want 2", got)
	}
	if got := reg.Len(); got != 7 {
		t.Errorf("registry size = %d, want 7", got)
	}

	title, err := reg.EffectiveTitle("inst1")
	if err != nil || title != "Name" {
		t.Errorf("EffectiveTitle(inst1) = %q, %v; want %q", title, err, "Name")
	}

	fn, ok := reg.Item("f1")
	if !ok {
		t.Fatal("f1 not in registry")
	}
	if len(fn.LinkTo) != 2 || fn.LinkTo[0] != "p1" || fn.LinkTo[1] != "f1" {
		t.Errorf("f1.LinkTo = %v, want [p1 f1]", fn.LinkTo)
	}
}

func TestParseSelfLinkAllowed(t *testing.T) {
	// f1 links to itself in validDoc; cycles through p1 are also fine.
	doc := strings.Replace(validDoc, `linkTo="p1,f1"`, `linkTo="f1"`, 1)
	if _, _, err := Parse(doc); err != nil {
		t.Fatalf("Parse() error = %v, want nil for self-link", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
		code   Code
		itemID string
	}{
		{
			name:   "unclosed element",
			mutate: func(s string) string { return strings.Replace(s, "</Object>", "", 1) },
			code:   MalformedMarkup,
		},
		{
			name:   "stray text content",
			mutate: func(s string) string { return strings.Replace(s, "<Column>", "<Column>oops", 1) },
			code:   MalformedMarkup,
		},
		{
			name:   "unknown element",
			mutate: func(s string) string { return strings.Replace(s, `<Info id="i2" title="Email"/>`, `<Widget id="w1"/>`, 1) },
			code:   MalformedMarkup,
		},
		{
			name:   "duplicate id",
			mutate: func(s string) string { return strings.Replace(s, `id="i2"`, `id="i1"`, 1) },
			code:   DuplicateID,
			itemID: "i1",
		},
		{
			name:   "missing id",
			mutate: func(s string) string { return strings.Replace(s, ` id="i2"`, ``, 1) },
			code:   MissingRequiredAttribute,
		},
		{
			name:   "missing title on non-instance",
			mutate: func(s string) string { return strings.Replace(s, ` title="Email"`, ``, 1) },
			code:   MissingRequiredAttribute,
			itemID: "i2",
		},
		{
			name: "instance with title",
			mutate: func(s string) string {
				return strings.Replace(s, `instanceOf="i1"`, `title="Nope" instanceOf="i1"`, 1)
			},
			code:   MissingRequiredAttribute,
			itemID: "inst1",
		},
		{
			name: "instance target missing",
			mutate: func(s string) string {
				return strings.Replace(s, `instanceOf="i1"`, `instanceOf="ghost"`, 1)
			},
			code:   DanglingReference,
			itemID: "inst1",
		},
		{
			name: "instance target is a root item",
			mutate: func(s string) string {
				return strings.Replace(s, `instanceOf="i1"`, `instanceOf="o1"`, 1)
			},
			code:   DanglingReference,
			itemID: "inst1",
		},
		{
			name: "instance target in site map",
			mutate: func(s string) string {
				return strings.Replace(s, `instanceOf="i1"`, `instanceOf="f1"`, 1)
			},
			code:   DanglingReference,
			itemID: "inst1",
		},
		{
			name: "object map nesting too deep",
			mutate: func(s string) string {
				return strings.Replace(s,
					`<Info id="i1" title="Name"/>`,
					`<Info id="i1" title="Name"><Case id="c1" title="Deep"/></Info>`, 1)
			},
			code:   InvalidNesting,
			itemID: "c1",
		},
		{
			name: "nested root kind",
			mutate: func(s string) string {
				return strings.Replace(s,
					`<Info id="i2" title="Email"/>`,
					`<Object id="o2" title="Inner"/>`, 1)
			},
			code: InvalidNesting,
		},
		{
			name:   "wrong root kind for map",
			mutate: func(s string) string { return strings.Replace(s, `<Page id="p1"`, `<Object id="p1"`, 1) },
			code:   InvalidNesting,
		},
		{
			name:   "dangling link",
			mutate: func(s string) string { return strings.Replace(s, `linkTo="p1,f1"`, `linkTo="ghost"`, 1) },
			code:   DanglingReference,
			itemID: "f1",
		},
		{
			name:   "cross-map link",
			mutate: func(s string) string { return strings.Replace(s, `linkTo="p1,f1"`, `linkTo="i1"`, 1) },
			code:   DanglingReference,
			itemID: "f1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.mutate(validDoc))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %T, want *ParseError", err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %v, want %v (err: %v)", perr.Code, tt.code, perr)
			}
			if tt.itemID != "" && perr.ItemID != tt.itemID {
				t.Errorf("ItemID = %q, want %q (err: %v)", perr.ItemID, tt.itemID, perr)
			}
		})
	}
}

func TestParseIsAllOrNothing(t *testing.T) {
	// A violation on the very last item must not leak a partial tree.
	doc := strings.Replace(validDoc, `linkTo="p1,f1"`, `linkTo="missing"`, 1)
	tree, reg, err := Parse(doc)
	if err == nil {
		t.Fatal("Parse() succeeded, want error")
	}
	if tree != nil || reg != nil {
		t.Error("Parse() returned a partial tree alongside the error")
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	doc := strings.Replace(validDoc, `id="i2"`, `id="i1"`, 1)
	_, _, err := Parse(doc)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %T, want *ParseError", err)
	}
	// The second i1 sits on line 8 of the document.
	if perr.Line != 8 {
		t.Errorf("Line = %d, want 8", perr.Line)
	}
}

func TestParseEmptySections(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <Diagram>
    <ObjectMap/>
    <SiteMap/>
  </Diagram>
</xml>
`
	tree, reg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(tree.ObjectMap) != 0 || len(tree.SiteMap) != 0 {
		t.Error("expected empty forests")
	}
	if reg.Len() != 0 {
		t.Errorf("registry size = %d, want 0", reg.Len())
	}
}
