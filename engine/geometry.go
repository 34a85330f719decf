package engine

import (
	"fmt"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-gl/mathgl/mgl32"
)

// ColorVertex matches the vxcolor shader input layout:
//
//	vPos: vec3
//	vCol: vec3
type ColorVertex struct {
	Pos mgl32.Vec3
	Col mgl32.Vec3
}

// UVVertex matches the vxuv shader input layout:
//
//	vPos: vec3
//	vUV:  vec2
type UVVertex struct {
	Pos mgl32.Vec3
	UV  mgl32.Vec2
}

var (
	colorWhite = mgl32.Vec3{1, 1, 1}
)

const cubeUnit = 0.25

var TriangleVertices = []ColorVertex{
	{mgl32.Vec3{-0.6, -0.4, 0}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0.6, -0.4, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0.6, 0}, mgl32.Vec3{0, 0, 1}},
}

/*
	axes (right handed, camera looks from -z towards the origin):

	       Y
	       |
	       |
	X -----+
	      /
	     Z

	cube faces, viewed from outside:

	  Front:         Back:
	    0-------1      5-------4
	    |       |      |       |
	    2-------3      7-------6

	  Top:           Bottom:
	    4-------5      6-------7
	    |       |      |       |
	    0-------1      2-------3

	  Left:          Right:
	    4-------0      1-------5
	    |       |      |       |
	    6-------2      3-------7
*/
var CubeVertices = []ColorVertex{
	// front (z = -u)
	{mgl32.Vec3{cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-cubeUnit, -cubeUnit, -cubeUnit}, colorWhite},

	// back (z = +u)
	{mgl32.Vec3{cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec3{0, 1, 1}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec3{1, 0, 1}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec3{1, 1, 0}},
	{mgl32.Vec3{-cubeUnit, -cubeUnit, cubeUnit}, colorWhite},
}

// counter-clockwise is front facing
var CubeIndices = []uint32{
	// front
	2, 1, 0,
	2, 3, 1,
	// back
	7, 4, 5,
	7, 6, 4,
	// top
	0, 5, 4,
	0, 1, 5,
	// bottom
	2, 6, 7,
	2, 7, 3,
	// left
	6, 0, 4,
	6, 2, 0,
	// right
	3, 5, 1,
	3, 7, 5,
}

// Each face has its own four vertices so it can carry its own uvs.
// Per face the order is bottom-left, bottom-right, top-right, top-left as
// seen from outside the cube.
var UVCubeVertices = []UVVertex{
	// front (z = -u)
	{mgl32.Vec3{cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{-cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{0, 1}},

	// back (z = +u)
	{mgl32.Vec3{-cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{0, 1}},

	// top (y = +u)
	{mgl32.Vec3{cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{0, 1}},

	// bottom (y = -u)
	{mgl32.Vec3{-cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{-cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{0, 1}},

	// left (x = -u)
	{mgl32.Vec3{-cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{-cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{-cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{0, 1}},

	// right (x = +u)
	{mgl32.Vec3{cubeUnit, -cubeUnit, cubeUnit}, mgl32.Vec2{0, 0}},
	{mgl32.Vec3{cubeUnit, -cubeUnit, -cubeUnit}, mgl32.Vec2{1, 0}},
	{mgl32.Vec3{cubeUnit, cubeUnit, -cubeUnit}, mgl32.Vec2{1, 1}},
	{mgl32.Vec3{cubeUnit, cubeUnit, cubeUnit}, mgl32.Vec2{0, 1}},
}

var UVCubeIndices = []uint32{
	0, 1, 2, 0, 2, 3, // front
	4, 5, 6, 4, 6, 7, // back
	8, 9, 10, 8, 10, 11, // top
	12, 13, 14, 12, 14, 15, // bottom
	16, 17, 18, 16, 18, 19, // left
	20, 21, 22, 20, 22, 23, // right
}

// Attribute describes where one named shader input lives inside a vertex record.
type Attribute struct {
	Name   string
	Size   int32 // number of float32 components
	Offset uintptr
}

// Mesh is a read-only view of a vertex table and its optional index table,
// carrying everything needed to upload and decode it on the device.
type Mesh struct {
	Name        string
	data        unsafe.Pointer
	size        int
	Stride      int32
	VertexCount int
	Attributes  []Attribute
	Indices     []uint32
}

func NewColorMesh(name string, vertices []ColorVertex, indices []uint32) Mesh {
	var v ColorVertex
	m := Mesh{
		Name:        name,
		Stride:      int32(unsafe.Sizeof(v)),
		VertexCount: len(vertices),
		Attributes: []Attribute{
			{Name: "vPos", Size: 3, Offset: unsafe.Offsetof(v.Pos)},
			{Name: "vCol", Size: 3, Offset: unsafe.Offsetof(v.Col)},
		},
		Indices: indices,
	}
	if len(vertices) > 0 {
		m.data = unsafe.Pointer(&vertices[0])
		m.size = len(vertices) * int(m.Stride)
	}
	return m
}

func NewUVMesh(name string, vertices []UVVertex, indices []uint32) Mesh {
	var v UVVertex
	m := Mesh{
		Name:        name,
		Stride:      int32(unsafe.Sizeof(v)),
		VertexCount: len(vertices),
		Attributes: []Attribute{
			{Name: "vPos", Size: 3, Offset: unsafe.Offsetof(v.Pos)},
			{Name: "vUV", Size: 2, Offset: unsafe.Offsetof(v.UV)},
		},
		Indices: indices,
	}
	if len(vertices) > 0 {
		m.data = unsafe.Pointer(&vertices[0])
		m.size = len(vertices) * int(m.Stride)
	}
	return m
}

var (
	TriangleMesh = NewColorMesh("triangle", TriangleVertices, nil)
	CubeMesh     = NewColorMesh("cube", CubeVertices, CubeIndices)
	UVCubeMesh   = NewUVMesh("uvcube", UVCubeVertices, UVCubeIndices)
)

// Bytes returns the raw vertex records exactly as they are uploaded.
func (m Mesh) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return unsafe.Slice((*byte)(m.data), m.size)
}

func (m Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// ElementCount is the number of vertices a draw call consumes.
func (m Mesh) ElementCount() int32 {
	if m.Indexed() {
		return int32(len(m.Indices))
	}
	return int32(m.VertexCount)
}

func (m Mesh) TriangleCount() int {
	return int(m.ElementCount()) / 3
}

// Validate checks the index table against the vertex table: complete
// triangles, no index out of range and no unreferenced vertex.
func (m Mesh) Validate() error {
	if m.VertexCount == 0 {
		return fmt.Errorf("%v: no vertices", m.Name)
	}

	if !m.Indexed() {
		if m.VertexCount%3 != 0 {
			return fmt.Errorf("%v: vertex count %d is not a multiple of 3", m.Name, m.VertexCount)
		}
		return nil
	}

	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%v: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}

	used := bitset.New(uint(m.VertexCount))
	for i, idx := range m.Indices {
		if int(idx) >= m.VertexCount {
			return fmt.Errorf("%v: index %d at %d out of range (%d vertices)", m.Name, idx, i, m.VertexCount)
		}
		used.Set(uint(idx))
	}

	if n := used.Count(); n != uint(m.VertexCount) {
		return fmt.Errorf("%v: %d of %d vertices unreferenced", m.Name, uint(m.VertexCount)-n, m.VertexCount)
	}
	return nil
}
