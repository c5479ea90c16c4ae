package texture

import (
	"fmt"
	"math"
)

// Format enumerates the supported pixel layouts. The zero value is
// R8G8B8A8.
type Format int

const (
	FormatR8G8B8A8 Format = iota
	FormatR8
	FormatR8G8
	FormatR8G8B8
	FormatB8G8R8
	FormatB8G8R8A8
	FormatR16
	FormatR16G16
	FormatR16G16B16
	FormatR16G16B16A16
	FormatR16F
	FormatR16G16F
	FormatR16G16B16F
	FormatR16G16B16A16F
	FormatR32
	FormatR32G32
	FormatR32G32B32
	FormatR32G32B32A32
	FormatR32F
	FormatR32G32F
	FormatR32G32B32F
	FormatR32G32B32A32F
)

func (f Format) BytesPerPixel() uint32 {
	switch f {
	case FormatR8:
		return 1
	case FormatR8G8:
		return 2
	case FormatR8G8B8, FormatB8G8R8:
		return 3
	case FormatR8G8B8A8, FormatB8G8R8A8:
		return 4
	case FormatR16, FormatR16F:
		return 2
	case FormatR16G16, FormatR16G16F:
		return 4
	case FormatR16G16B16, FormatR16G16B16F:
		return 6
	case FormatR16G16B16A16, FormatR16G16B16A16F:
		return 8
	case FormatR32, FormatR32F:
		return 4
	case FormatR32G32, FormatR32G32F:
		return 8
	case FormatR32G32B32, FormatR32G32B32F:
		return 12
	case FormatR32G32B32A32, FormatR32G32B32A32F:
		return 16
	}
	return 0
}

// Description is CPU-side texture data plus the layout needed to
// upload it.
type Description struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Pixels []byte `json:"pixels"`
	Format Format `json:"format"`
}

// MipLevels is the full mip chain length down to 1x1 on the shorter
// axis.
func (d *Description) MipLevels() uint32 {
	shorter := d.Width
	if d.Height < shorter {
		shorter = d.Height
	}
	if shorter == 0 {
		return 1
	}
	return uint32(math.Floor(math.Log2(float64(shorter)))) + 1
}

func (d *Description) BytesPerRow() uint32 {
	return d.Format.BytesPerPixel() * d.Width
}

// PaddedBytesPerRow rounds the row size up to the given alignment.
func (d *Description) PaddedBytesPerRow(alignment uint32) uint32 {
	bytesPerRow := d.BytesPerRow()
	padding := (alignment - bytesPerRow%alignment) % alignment
	return bytesPerRow + padding
}

// Convert24Bit widens 24-bit formats to their 32-bit equivalents by
// attaching an opaque alpha channel. Other formats pass through.
func (d *Description) Convert24Bit() error {
	switch d.Format {
	case FormatR8G8B8:
		d.Format = FormatR8G8B8A8
	case FormatB8G8R8:
		d.Format = FormatB8G8R8A8
	default:
		return nil
	}
	return d.AttachAlphaChannel()
}

// AttachAlphaChannel rewrites three-channel pixel data as four-channel
// with full alpha.
func (d *Description) AttachAlphaChannel() error {
	expected := int(d.Width) * int(d.Height) * 3
	if len(d.Pixels) < expected {
		return fmt.Errorf("attaching alpha channel: have %d pixel bytes, need %d", len(d.Pixels), expected)
	}

	converted := make([]byte, 0, int(d.Width)*int(d.Height)*4)
	for i := 0; i+2 < expected; i += 3 {
		converted = append(converted, d.Pixels[i], d.Pixels[i+1], d.Pixels[i+2], 0xFF)
	}
	d.Pixels = converted
	return nil
}

// FlipVertical reverses the row order in place, converting between
// top-down image layout and bottom-up GL layout.
func (d *Description) FlipVertical() {
	rowLen := int(d.BytesPerRow())
	height := int(d.Height)
	if rowLen == 0 || height < 2 {
		return
	}
	tmp := make([]byte, rowLen)
	for y := 0; y < height/2; y++ {
		top := d.Pixels[y*rowLen : (y+1)*rowLen]
		bottom := d.Pixels[(height-1-y)*rowLen : (height-y)*rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
