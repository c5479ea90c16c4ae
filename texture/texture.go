package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/mdouchement/hdr"

	// Image decoders for FromFile and FromBytes.
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/mdouchement/hdr/codec/rgbe"
)

// Texture is CPU-side image data paired with sampling state, ready for
// upload.
type Texture struct {
	Description Description `json:"description"`
	Sampler     Sampler     `json:"sampler"`
}

// FromFile decodes a PNG or JPEG file.
func FromFile(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	return FromImage(img)
}

// FromBytes decodes an in-memory PNG or JPEG.
func FromBytes(data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding texture bytes: %w", err)
	}
	return FromImage(img)
}

// FromImage converts a decoded image to RGBA pixel data, rows
// reordered bottom-up for GL.
func FromImage(img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	desc := Description{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Pixels: rgba.Pix,
		Format: FormatR8G8B8A8,
	}
	desc.FlipVertical()
	return FromDescription(desc, nil)
}

// FromHDR decodes a Radiance .hdr file into 32-bit float RGBA.
func FromHDR(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hdr %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding hdr %s: %w", path, err)
	}
	hdrImage, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("decoding hdr %s: not a high dynamic range image", path)
	}

	bounds := hdrImage.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 0, width*height*16)
	var scratch [4]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := hdrImage.HDRAt(x, y).HDRRGBA()
			for _, channel := range [4]float32{float32(r), float32(g), float32(b), 1} {
				binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(channel))
				pixels = append(pixels, scratch[:]...)
			}
		}
	}

	return &Texture{
		Description: Description{
			Width:  uint32(width),
			Height: uint32(height),
			Pixels: pixels,
			Format: FormatR32G32B32A32F,
		},
	}, nil
}

// FromDescription normalizes 24-bit data and applies the sampler, or a
// default sampler when nil.
func FromDescription(desc Description, sampler *Sampler) (*Texture, error) {
	if err := desc.Convert24Bit(); err != nil {
		return nil, err
	}
	t := &Texture{Description: desc}
	if sampler != nil {
		t.Sampler = *sampler
	}
	return t, nil
}

// Checkerboard generates a two-tone test pattern. It is authored as
// 24-bit RGB and widened on the way in.
func Checkerboard(width, height, cell uint32) *Texture {
	if cell == 0 {
		cell = 1
	}
	light := [3]byte{0xC8, 0xB4, 0x8C}
	dark := [3]byte{0x50, 0x3C, 0x28}

	pixels := make([]byte, 0, int(width)*int(height)*3)
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			tone := light
			if (x/cell+y/cell)%2 == 1 {
				tone = dark
			}
			pixels = append(pixels, tone[0], tone[1], tone[2])
		}
	}

	t, err := FromDescription(Description{
		Width:  width,
		Height: height,
		Pixels: pixels,
		Format: FormatR8G8B8,
	}, nil)
	if err != nil {
		// The generated pixel buffer is always complete.
		panic(err)
	}
	return t
}
