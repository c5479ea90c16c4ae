package geometry

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute is one entry of an interleaved vertex layout. Size counts
// float components, Offset is in bytes from the vertex start.
type Attribute struct {
	Location uint32
	Size     int32
	Offset   int
}

// Layout describes how interleaved float vertex data maps to shader
// attribute locations.
type Layout struct {
	Stride     int32
	Attributes []Attribute
}

// Validate reports layouts whose attributes overrun the stride or
// collide on a location.
func (l Layout) Validate() error {
	if l.Stride <= 0 {
		return fmt.Errorf("vertex layout: stride %d must be positive", l.Stride)
	}
	seen := make(map[uint32]bool, len(l.Attributes))
	for _, attr := range l.Attributes {
		if attr.Size < 1 || attr.Size > 4 {
			return fmt.Errorf("vertex layout: attribute %d has %d components", attr.Location, attr.Size)
		}
		if attr.Offset < 0 || int32(attr.Offset)+attr.Size*4 > l.Stride {
			return fmt.Errorf("vertex layout: attribute %d overruns stride %d", attr.Location, l.Stride)
		}
		if seen[attr.Location] {
			return fmt.Errorf("vertex layout: attribute location %d used twice", attr.Location)
		}
		seen[attr.Location] = true
	}
	return nil
}

// Geometry owns a vertex array with an interleaved vertex buffer and a
// 32-bit index buffer.
type Geometry struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	instanceVBO uint32
	indexCount  int32
}

// New uploads vertex and index data. Requires a current GL context.
func New(vertices []float32, indices []uint32, layout Layout) (*Geometry, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	g := &Geometry{indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	for _, attr := range layout.Attributes {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointerWithOffset(attr.Location, attr.Size, gl.FLOAT, false, layout.Stride, uintptr(attr.Offset))
	}

	gl.BindVertexArray(0)
	return g, nil
}

// AttachInstanceMatrices uploads per-instance model matrices as four
// consecutive vec4 attributes starting at location.
func (g *Geometry) AttachInstanceMatrices(location uint32, matrices []mgl32.Mat4) {
	flat := flattenMatrices(matrices)

	gl.BindVertexArray(g.vao)
	gl.GenBuffers(1, &g.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.instanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(flat)*4, gl.Ptr(flat), gl.STATIC_DRAW)

	for i := uint32(0); i < 4; i++ {
		loc := location + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, 64, uintptr(i*16))
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.BindVertexArray(0)
}

func (g *Geometry) Bind() {
	gl.BindVertexArray(g.vao)
}

// Draw renders the full index range as triangles.
func (g *Geometry) Draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

// DrawRange renders count indices starting at first, for geometry
// pooling several meshes in one buffer.
func (g *Geometry) DrawRange(first, count int32) {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, uintptr(first)*4)
}

// DrawInstanced renders count instances of the full index range.
func (g *Geometry) DrawInstanced(count int32) {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil, count)
}

func (g *Geometry) IndexCount() int32 { return g.indexCount }

func (g *Geometry) Destroy() {
	if g.instanceVBO != 0 {
		gl.DeleteBuffers(1, &g.instanceVBO)
	}
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
}

func flattenMatrices(matrices []mgl32.Mat4) []float32 {
	flat := make([]float32, 0, len(matrices)*16)
	for _, m := range matrices {
		flat = append(flat, m[:]...)
	}
	return flat
}
