package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/matthewjberger/gl-examples/texture"
)

// NumBuffers is the readback ring depth used by capture runs.
const NumBuffers = 3

// OffscreenTarget is a fixed-size framebuffer with a ring of pixel
// buffers for reading frames back without stalling the pipeline.
type OffscreenTarget struct {
	fbo          uint32
	colorTexture uint32
	depth        *texture.Handle
	width        int
	height       int
	pbos         []uint32
	pboIndex     int
	transfers    int
}

// NewOffscreenTarget creates an RGBA8 color attachment backed by a
// 24-bit depth texture, plus numPBOs pixel buffers for readback.
func NewOffscreenTarget(width, height, numPBOs int) (*OffscreenTarget, error) {
	if numPBOs < 2 {
		return nil, fmt.Errorf("number of PBOs must be at least 2")
	}

	t := &OffscreenTarget{
		width:  width,
		height: height,
		pbos:   make([]uint32, numPBOs),
	}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.GenTextures(1, &t.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, t.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.colorTexture, 0)

	t.depth = texture.NewDepth(width, height)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depth.ID, 0)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("offscreen framebuffer is not complete")
	}

	gl.GenBuffers(int32(len(t.pbos)), &t.pbos[0])
	bufferSize := width * height * 4
	for i := 0; i < len(t.pbos); i++ {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, t.pbos[i])
		gl.BufferData(gl.PIXEL_PACK_BUFFER, bufferSize, nil, gl.STREAM_READ)
	}

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t, nil
}

// Bind directs subsequent draws into the target.
func (t *OffscreenTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
}

// Unbind restores the default framebuffer.
func (t *OffscreenTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ColorTexture returns the GL name of the color attachment.
func (t *OffscreenTarget) ColorTexture() uint32 { return t.colorTexture }

// Size returns the target dimensions.
func (t *OffscreenTarget) Size() (int, int) { return t.width, t.height }

// ReadPixels schedules a transfer of the current frame into the ring
// and maps the oldest outstanding one. Rows come back bottom-up, RGBA,
// tightly packed. Until the ring is primed it returns nil pixels, so
// callers keep rendering until frames start flowing.
func (t *OffscreenTarget) ReadPixels() ([]byte, error) {
	bufferSize := t.width * t.height * 4
	issueIndex := t.pboIndex
	mapIndex := (t.pboIndex + 1) % len(t.pbos)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, t.pbos[issueIndex])
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, nil)

	t.pboIndex = mapIndex
	t.transfers++
	if t.transfers < len(t.pbos) {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		return nil, nil
	}

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, t.pbos[mapIndex])
	ptr := gl.MapBufferRange(gl.PIXEL_PACK_BUFFER, 0, bufferSize, gl.MAP_READ_BIT)
	if ptr == nil {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		return nil, fmt.Errorf("failed to map pixel buffer")
	}

	pixels := make([]byte, bufferSize)
	copy(pixels, (*[1 << 30]byte)(ptr)[:bufferSize:bufferSize])
	gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels, nil
}

// Destroy releases the framebuffer, its attachments, and the ring.
func (t *OffscreenTarget) Destroy() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.colorTexture)
	t.depth.Destroy()
	gl.DeleteBuffers(int32(len(t.pbos)), &t.pbos[0])
}
