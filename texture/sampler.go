package texture

import "github.com/go-gl/mathgl/mgl32"

// Filter selects a sampling filter. The zero value is nearest.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// WrappingMode selects texture addressing. The zero value is repeat.
type WrappingMode int

const (
	WrapRepeat WrappingMode = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// Sampler describes how a texture is filtered and addressed. The zero
// value is a nearest-filtered repeating sampler.
type Sampler struct {
	Name      string       `json:"name"`
	MinFilter Filter       `json:"min_filter"`
	MagFilter Filter       `json:"mag_filter"`
	WrapS     WrappingMode `json:"wrap_s"`
	WrapT     WrappingMode `json:"wrap_t"`
}

// AlphaMode is how a material's alpha channel is interpreted.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota + 1
	AlphaMask
	AlphaBlend
)

// Material carries glTF-style PBR parameters. Texture indices of -1
// mean the slot is unused.
type Material struct {
	Name                          string     `json:"name"`
	BaseColorFactor               mgl32.Vec4 `json:"base_color_factor"`
	EmissiveFactor                mgl32.Vec3 `json:"emissive_factor"`
	ColorTextureIndex             int32      `json:"color_texture_index"`
	ColorTextureSet               int32      `json:"color_texture_set"`
	MetallicRoughnessTextureIndex int32      `json:"metallic_roughness_texture_index"`
	MetallicRoughnessTextureSet   int32      `json:"metallic_roughness_texture_set"`
	NormalTextureIndex            int32      `json:"normal_texture_index"`
	NormalTextureSet              int32      `json:"normal_texture_set"`
	NormalTextureScale            float32    `json:"normal_texture_scale"`
	OcclusionTextureIndex         int32      `json:"occlusion_texture_index"`
	OcclusionTextureSet           int32      `json:"occlusion_texture_set"`
	OcclusionStrength             float32    `json:"occlusion_strength"`
	EmissiveTextureIndex          int32      `json:"emissive_texture_index"`
	EmissiveTextureSet            int32      `json:"emissive_texture_set"`
	MetallicFactor                float32    `json:"metallic_factor"`
	RoughnessFactor               float32    `json:"roughness_factor"`
	AlphaMode                     AlphaMode  `json:"alpha_mode"`
	AlphaCutoff                   float32    `json:"alpha_cutoff"`
	IsUnlit                       bool       `json:"is_unlit"`
}

// NewMaterial returns a material with every texture slot unused.
func NewMaterial() Material {
	return Material{
		Name:                          "<Unnamed>",
		BaseColorFactor:               mgl32.Vec4{1, 1, 1, 1},
		EmissiveFactor:                mgl32.Vec3{0, 0, 0},
		ColorTextureIndex:             -1,
		ColorTextureSet:               -1,
		MetallicRoughnessTextureIndex: -1,
		MetallicRoughnessTextureSet:   -1,
		NormalTextureIndex:            -1,
		NormalTextureSet:              -1,
		NormalTextureScale:            1,
		OcclusionTextureIndex:         -1,
		OcclusionTextureSet:           -1,
		OcclusionStrength:             1,
		EmissiveTextureIndex:          -1,
		EmissiveTextureSet:            -1,
		MetallicFactor:                1,
		RoughnessFactor:               1,
		AlphaMode:                     AlphaOpaque,
		AlphaCutoff:                   0.5,
	}
}
