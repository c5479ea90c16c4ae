// Package shader holds GLSL sources shared by the examples and a helper
// for stitching shader fragments into a single compilation unit.
package shader

import "strings"

// Version is the directive that opens every shader in this module. All
// programs target the OpenGL 4.1 core profile.
const Version = "#version 410 core"

// Assemble builds a complete GLSL source from fragments. The version
// directive is emitted first and every fragment ends with a newline so
// driver error logs keep meaningful line numbers.
func Assemble(parts ...string) string {
	var b strings.Builder
	b.WriteString(Version)
	b.WriteByte('\n')
	for _, part := range parts {
		trimmed := strings.TrimLeft(part, "\n")
		b.WriteString(trimmed)
		if !strings.HasSuffix(trimmed, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Fullscreen pass used to present an offscreen color attachment.

const BlitVertexSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const BlitFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 frag_color;
uniform sampler2D u_texture;
void main() { frag_color = texture(u_texture, frag_uv); }
`
