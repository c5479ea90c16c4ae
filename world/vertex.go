package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/matthewjberger/gl-examples/geometry"
)

// Vertex is the interleaved attribute set every loaded mesh shares.
// Attributes a primitive does not provide keep their defaults: white
// color, full weight on the first joint.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV0      mgl32.Vec2
	UV1      mgl32.Vec2
	Joints0  mgl32.Vec4
	Weights0 mgl32.Vec4
	Color0   mgl32.Vec3
}

const floatsPerVertex = 21

// VertexLayout maps Vertex onto shader attribute locations 0 through 6.
func VertexLayout() geometry.Layout {
	return geometry.Layout{
		Stride: floatsPerVertex * 4,
		Attributes: []geometry.Attribute{
			{Location: 0, Size: 3, Offset: 0},
			{Location: 1, Size: 3, Offset: 12},
			{Location: 2, Size: 2, Offset: 24},
			{Location: 3, Size: 2, Offset: 32},
			{Location: 4, Size: 4, Offset: 40},
			{Location: 5, Size: 4, Offset: 56},
			{Location: 6, Size: 3, Offset: 72},
		},
	}
}

// Flatten interleaves vertices in layout order for upload.
func Flatten(vertices []Vertex) []float32 {
	flat := make([]float32, 0, len(vertices)*floatsPerVertex)
	for _, v := range vertices {
		flat = append(flat, v.Position[:]...)
		flat = append(flat, v.Normal[:]...)
		flat = append(flat, v.UV0[:]...)
		flat = append(flat, v.UV1[:]...)
		flat = append(flat, v.Joints0[:]...)
		flat = append(flat, v.Weights0[:]...)
		flat = append(flat, v.Color0[:]...)
	}
	return flat
}

func defaultVertex(position mgl32.Vec3) Vertex {
	return Vertex{
		Position: position,
		Weights0: mgl32.Vec4{1, 0, 0, 0},
		Color0:   mgl32.Vec3{1, 1, 1},
	}
}
