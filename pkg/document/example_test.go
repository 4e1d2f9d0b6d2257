package document_test

import (
	"fmt"

	"github.com/archmap/archmap/pkg/document"
)

func ExampleParse() {
	text := `<?xml version="1.0" encoding="UTF-8"?>
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
	_, reg, err := document.Parse(text)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Instances resolve their title through the registry.
	title, _ := reg.EffectiveTitle("inst1")
	fmt.Println(reg.Len(), "items; inst1 is titled", title)
	// Output: 4 items; inst1 is titled Name
}

func ExampleGenerate() {
	// Whitespace and attribute order vary on input...
	text := `<?xml version="1.0" encoding="UTF-8"?>
<xml><Diagram><ObjectMap><Column>
  <Object title="User" id="o1"/>
</Column></ObjectMap><SiteMap/></Diagram></xml>`

	tree, _, err := document.Parse(text)
	if err != nil {
		fmt.Println(err)
		return
	}

	// ...but generation is canonical.
	fmt.Print(document.Generate(tree))
	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <xml>
	//   <Diagram>
	//     <ObjectMap>
	//       <Column>
	//         <Object id="o1" title="User"/>
	//       </Column>
	//     </ObjectMap>
	//     <SiteMap/>
	//   </Diagram>
	// </xml>
}
