package types

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

/*
EdgeKey is an always positive number that stores an edge's node indices in a way that can be compared
An edge between nodes [4] and [1] will always be stored as [1,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Packs two node indices into two 32 bit unsigned integers to act as a hash
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
EdgeInt stores the edge's node indices in the given order, the sign carries the direction
Used to tell whether a local edge runs against its canonical (ascending) global edge
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	var (
		limit = math.MaxUint32 >> 1 // leaves room for the sign bit of an int64
		sign  bool
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		sign = true
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeInt(i1 + i2<<32)
	if sign {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	var (
		eTmp EdgeInt
		sign bool
	)
	if e < 0 {
		sign = true
		e = -e
	}
	eTmp = e >> 32
	verts[1] = int(eTmp)
	verts[0] = int(e - eTmp*(1<<32))
	if sign {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (e EdgeInt) Reversed() bool { return e < 0 }

func (e EdgeInt) GetKey() (ek EdgeKey) {
	ek = NewEdgeKey(e.GetVertices())
	return
}

// FaceKey identifies a face by its sorted node indices, independent of winding and starting node
type FaceKey string

func NewFaceKey(verts []int) FaceKey {
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return FaceKey(strings.Join(parts, ","))
}

func (fk FaceKey) GetVertices() (verts []int) {
	if len(fk) == 0 {
		return
	}
	for _, s := range strings.Split(string(fk), ",") {
		v, err := strconv.Atoi(s)
		if err != nil {
			panic(fmt.Errorf("malformed face key %q: %w", string(fk), err))
		}
		verts = append(verts, v)
	}
	return
}
