package dictree_test

import (
	"fmt"

	"github.com/bastiangx/hope/pkg/dictree"
)

func ExampleTree_LookupString() {
	tree := dictree.New()
	err := tree.Build([]dictree.SymbolCode{
		{Symbol: "a", Code: dictree.Code{Value: 0, Len: 2}},
		{Symbol: "ab", Code: dictree.Code{Value: 1, Len: 2}},
		{Symbol: "b", Code: dictree.Code{Value: 2, Len: 2}},
	})
	if err != nil {
		panic(err)
	}
	for _, q := range []string{"a", "ab", "ac"} {
		code, n := tree.LookupString(q)
		fmt.Println(q, code, n)
	}
	// Output:
	// a 00 1
	// ab 01 2
	// ac 01 1
}
