package texture

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Handle is a texture that has been uploaded to the GPU.
type Handle struct {
	ID     uint32
	Width  uint32
	Height uint32
}

// Upload creates a GL texture from CPU-side data. Mipmaps are
// generated when the sampler minifies linearly. Requires a current GL
// context.
func Upload(t *Texture) (*Handle, error) {
	desc := &t.Description
	internal, format, xtype, err := glFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	if t.Description.Pixels != nil {
		expected := int(desc.Height) * int(desc.BytesPerRow())
		if len(desc.Pixels) < expected {
			return nil, fmt.Errorf("uploading texture: have %d pixel bytes, need %d", len(desc.Pixels), expected)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(t.Sampler.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(t.Sampler.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glMinFilter(t.Sampler.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glMagFilter(t.Sampler.MagFilter))

	if desc.BytesPerRow()%4 != 0 {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		defer gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	}

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internal,
		int32(desc.Width),
		int32(desc.Height),
		0,
		format,
		xtype,
		gl.Ptr(desc.Pixels),
	)

	if t.Sampler.MinFilter == FilterLinear {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Handle{ID: id, Width: desc.Width, Height: desc.Height}, nil
}

// Bind makes the texture current on the given texture unit.
func (h *Handle) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, h.ID)
}

func (h *Handle) Destroy() {
	if h.ID != 0 {
		gl.DeleteTextures(1, &h.ID)
		h.ID = 0
	}
}

// NewDepth creates an uninitialized depth texture for use as a
// framebuffer attachment. Requires a current GL context.
func NewDepth(width, height int) *Handle {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &Handle{ID: id, Width: uint32(width), Height: uint32(height)}
}

// glFormat maps a pixel format to GL upload parameters. Pure-integer
// and 24-bit formats have no direct GL path here.
func glFormat(f Format) (internal int32, format, xtype uint32, err error) {
	switch f {
	case FormatR8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE, nil
	case FormatR8G8:
		return gl.RG8, gl.RG, gl.UNSIGNED_BYTE, nil
	case FormatR8G8B8A8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil
	case FormatB8G8R8A8:
		return gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE, nil
	case FormatR16:
		return gl.R16, gl.RED, gl.UNSIGNED_SHORT, nil
	case FormatR16G16:
		return gl.RG16, gl.RG, gl.UNSIGNED_SHORT, nil
	case FormatR16G16B16:
		return gl.RGB16, gl.RGB, gl.UNSIGNED_SHORT, nil
	case FormatR16G16B16A16:
		return gl.RGBA16, gl.RGBA, gl.UNSIGNED_SHORT, nil
	case FormatR16F:
		return gl.R16F, gl.RED, gl.HALF_FLOAT, nil
	case FormatR16G16F:
		return gl.RG16F, gl.RG, gl.HALF_FLOAT, nil
	case FormatR16G16B16F:
		return gl.RGB16F, gl.RGB, gl.HALF_FLOAT, nil
	case FormatR16G16B16A16F:
		return gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT, nil
	case FormatR32F:
		return gl.R32F, gl.RED, gl.FLOAT, nil
	case FormatR32G32F:
		return gl.RG32F, gl.RG, gl.FLOAT, nil
	case FormatR32G32B32F:
		return gl.RGB32F, gl.RGB, gl.FLOAT, nil
	case FormatR32G32B32A32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT, nil
	case FormatR8G8B8, FormatB8G8R8:
		return 0, 0, 0, fmt.Errorf("24-bit format %d requires Convert24Bit before upload", f)
	default:
		return 0, 0, 0, fmt.Errorf("format %d has no GL mapping", f)
	}
}

func glWrap(mode WrappingMode) int32 {
	switch mode {
	case WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func glMinFilter(f Filter) int32 {
	if f == FilterLinear {
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.NEAREST
}

func glMagFilter(f Filter) int32 {
	if f == FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}
