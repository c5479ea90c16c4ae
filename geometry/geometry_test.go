package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutValidate(t *testing.T) {
	valid := Layout{
		Stride: 32,
		Attributes: []Attribute{
			{Location: 0, Size: 3, Offset: 0},
			{Location: 1, Size: 3, Offset: 12},
			{Location: 2, Size: 2, Offset: 24},
		},
	}
	require.NoError(t, valid.Validate())
}

func TestLayoutValidateRejectsOverrun(t *testing.T) {
	l := Layout{
		Stride:     16,
		Attributes: []Attribute{{Location: 0, Size: 4, Offset: 4}},
	}
	assert.Error(t, l.Validate())
}

func TestLayoutValidateRejectsDuplicateLocation(t *testing.T) {
	l := Layout{
		Stride: 24,
		Attributes: []Attribute{
			{Location: 0, Size: 3, Offset: 0},
			{Location: 0, Size: 3, Offset: 12},
		},
	}
	assert.Error(t, l.Validate())
}

func TestLayoutValidateRejectsBadSizeAndStride(t *testing.T) {
	assert.Error(t, Layout{Stride: 0}.Validate())
	assert.Error(t, Layout{
		Stride:     16,
		Attributes: []Attribute{{Location: 0, Size: 5, Offset: 0}},
	}.Validate())
}

func TestFlattenMatrices(t *testing.T) {
	a := mgl32.Ident4()
	b := mgl32.Translate3D(1, 2, 3)

	flat := flattenMatrices([]mgl32.Mat4{a, b})
	require.Len(t, flat, 32)
	assert.InDelta(t, 1, float64(flat[0]), 1e-6)
	// Column-major: translation occupies the last column of the
	// second matrix.
	assert.InDelta(t, 1, float64(flat[16+12]), 1e-6)
	assert.InDelta(t, 2, float64(flat[16+13]), 1e-6)
	assert.InDelta(t, 3, float64(flat[16+14]), 1e-6)
}
