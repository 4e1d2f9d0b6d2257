package diff_test

import (
	"fmt"

	"github.com/archmap/archmap/pkg/diff"
	"github.com/archmap/archmap/pkg/document"
)

func ExampleDiff() {
	oldDoc := `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <Diagram>
    <ObjectMap>
      <Column>
        <Object id="o1" title="User">
          <Info id="i1" title="Name"/>
        </Object>
      </Column>
    </ObjectMap>
    <SiteMap/>
  </Diagram>
</xml>
`
	newDoc := `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <Diagram>
    <ObjectMap>
      <Column>
        <Object id="o1" title="User">
          <Info id="i1" title="Full Name"/>
          <Info id="i2" title="Email"/>
        </Object>
      </Column>
    </ObjectMap>
    <SiteMap/>
  </Diagram>
</xml>
`
	oldTree, _, _ := document.Parse(oldDoc)
	newTree, _, _ := document.Parse(newDoc)

	changes, err := diff.Diff(oldTree, newTree)
	if err != nil {
		fmt.Println(err)
		return
	}
	// Changes come back sorted by map, then path.
	for _, ch := range changes {
		fmt.Println(ch.Op, ch.ID)
	}
	// Output:
	// added i2
	// modified i1
}
