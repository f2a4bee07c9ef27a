package connectivity_test

import (
	"fmt"

	"github.com/katalvlaran/p4forest/connectivity"
	"github.com/katalvlaran/p4forest/overlap"
	"github.com/katalvlaran/p4forest/quadrant"
)

// ExampleNewBrick builds a 2x2 bounded brick and looks up the face shared
// between its first two trees.
func ExampleNewBrick() {
	conn, _ := connectivity.NewBrick(quadrant.Dim2, 2, 2, 0, [3]bool{})
	ft, ok := conn.FaceTransform(0, overlap.FaceIndex(0, 1))
	fmt.Println(ok, ft.NeighborTree)
	// Output: true 1
}
