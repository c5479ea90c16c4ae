package texture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageConvertsAndFlips(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	tex, err := FromImage(img)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), tex.Description.Width)
	assert.Equal(t, uint32(2), tex.Description.Height)
	assert.Equal(t, FormatR8G8B8A8, tex.Description.Format)
	require.Len(t, tex.Description.Pixels, 16)

	// Rows are stored bottom-up, so the red top-left pixel lands in
	// the second row.
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Description.Pixels[8:12])
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Description.Pixels[0:4])
}

func TestFromDescriptionDefaultsSampler(t *testing.T) {
	tex, err := FromDescription(Description{
		Width:  1,
		Height: 1,
		Pixels: []byte{1, 2, 3, 4},
		Format: FormatR8G8B8A8,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, FilterNearest, tex.Sampler.MinFilter)
	assert.Equal(t, WrapRepeat, tex.Sampler.WrapS)
}

func TestFromDescriptionNormalizes24Bit(t *testing.T) {
	sampler := Sampler{MinFilter: FilterLinear, WrapS: WrapClampToEdge}
	tex, err := FromDescription(Description{
		Width:  1,
		Height: 1,
		Pixels: []byte{10, 20, 30},
		Format: FormatR8G8B8,
	}, &sampler)
	require.NoError(t, err)

	assert.Equal(t, FormatR8G8B8A8, tex.Description.Format)
	assert.Equal(t, []byte{10, 20, 30, 0xFF}, tex.Description.Pixels)
	assert.Equal(t, FilterLinear, tex.Sampler.MinFilter)
	assert.Equal(t, WrapClampToEdge, tex.Sampler.WrapS)
}

func TestFromHDRDecodesRadiance(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n")
	buf.WriteString("\n")
	buf.WriteString("-Y 2 +X 2\n")
	// Flat RGBE scanlines: red, green / blue, gray. Mantissa 128 at
	// exponent 129 decodes to 1.0.
	buf.Write([]byte{
		128, 0, 0, 129, 0, 128, 0, 129,
		0, 0, 128, 129, 128, 128, 128, 129,
	})

	path := filepath.Join(t.TempDir(), "probe.hdr")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tex, err := FromHDR(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), tex.Description.Width)
	assert.Equal(t, uint32(2), tex.Description.Height)
	assert.Equal(t, FormatR32G32B32A32F, tex.Description.Format)
	require.Len(t, tex.Description.Pixels, 2*2*16)

	red := math.Float32frombits(binary.LittleEndian.Uint32(tex.Description.Pixels[0:4]))
	green := math.Float32frombits(binary.LittleEndian.Uint32(tex.Description.Pixels[4:8]))
	alpha := math.Float32frombits(binary.LittleEndian.Uint32(tex.Description.Pixels[12:16]))
	assert.InDelta(t, 1.0, float64(red), 0.01)
	assert.InDelta(t, 0.0, float64(green), 0.01)
	assert.InDelta(t, 1.0, float64(alpha), 1e-6)
}

func TestCheckerboard(t *testing.T) {
	tex := Checkerboard(4, 4, 2)

	assert.Equal(t, uint32(4), tex.Description.Width)
	assert.Equal(t, FormatR8G8B8A8, tex.Description.Format)
	require.Len(t, tex.Description.Pixels, 4*4*4)

	first := tex.Description.Pixels[0:4]
	acrossCell := tex.Description.Pixels[2*4 : 2*4+4]
	assert.NotEqual(t, first[:3], acrossCell[:3])
	assert.EqualValues(t, 0xFF, first[3])

	withinCell := tex.Description.Pixels[4:8]
	assert.Equal(t, first, withinCell)
}

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, "<Unnamed>", m.Name)
	assert.EqualValues(t, -1, m.ColorTextureIndex)
	assert.EqualValues(t, -1, m.NormalTextureIndex)
	assert.Equal(t, AlphaOpaque, m.AlphaMode)
	assert.InDelta(t, 0.5, float64(m.AlphaCutoff), 1e-6)
	assert.InDelta(t, 1.0, float64(m.MetallicFactor), 1e-6)
	assert.False(t, m.IsUnlit)
}

func TestGLFormatMapping(t *testing.T) {
	internal, format, xtype, err := glFormat(FormatR8G8B8A8)
	require.NoError(t, err)
	assert.NotZero(t, internal)
	assert.NotZero(t, format)
	assert.NotZero(t, xtype)

	_, _, _, err = glFormat(FormatR8G8B8)
	assert.Error(t, err)

	_, _, _, err = glFormat(FormatR32)
	assert.Error(t, err)
}
