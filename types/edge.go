package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores an edge's two vertex indices in one comparable value. An edge
between vertices [4] and [0] is always stored as [0,4], ascending, so the edge
shared by two quads has the same key from either side.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Two 32 bit unsigned halves, low index in the low half
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

// GetVertices returns the ascending vertex pair, descending when rev is set
func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[1] = int(ek >> 32)
	verts[0] = int(ek & math.MaxUint32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// Edges returns the four edge keys of the quad in rotational order
func (q Quad) Edges() (edges [4]EdgeKey) {
	for j := 0; j < 4; j++ {
		edges[j] = NewEdgeKey([2]int{q.Verts[j], q.Verts[(j+1)%4]})
	}
	return
}
