// File: gradient/example_test.go
package gradient_test

import (
	"fmt"

	"github.com/katalvlaran/swarmrole/gradient"
	"github.com/katalvlaran/swarmrole/topology"
)

// ExampleBuild prints the gradient table of a five-agent triangle-grid strip.
// Row s lists every agent's hop distance to source s; the table is symmetric.
//
//	  3 ─ 4
//	 / \ /
//	0 ─ 1 ─ 2
func ExampleBuild() {
	topo, _ := topology.Build([]topology.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}})
	f, err := gradient.Build(topo)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for s := 0; s < f.Len(); s++ {
		fmt.Println(f.Row(s))
	}
	fmt.Println("diameter:", f.Diameter())

	// Output:
	// [0 1 2 1 2]
	// [1 0 1 1 1]
	// [2 1 0 2 1]
	// [1 1 2 0 1]
	// [2 1 1 1 0]
	// diameter: 2
}
