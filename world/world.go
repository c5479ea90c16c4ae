// Package world loads glTF documents into the flat vertex, material and
// scene graph form the examples draw from. Vertices and indices from
// every mesh land in one shared pool; meshes keep ranges into it so a
// whole document can live in a single vertex array.
package world

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/rs/zerolog/log"

	"github.com/matthewjberger/gl-examples/scenegraph"
	"github.com/matthewjberger/gl-examples/texture"
	"github.com/matthewjberger/gl-examples/transform"
)

// Entity is the scene graph payload: a node name plus the index of the
// mesh it instantiates, -1 for empty grouping nodes.
type Entity struct {
	Name string
	Mesh int
}

// Primitive is a draw range over the world's shared index buffer.
// Material is -1 when the primitive has none.
type Primitive struct {
	FirstIndex int
	IndexCount int
	Material   int
}

// Mesh groups the primitives loaded from one glTF mesh.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// World aggregates everything a document contributes: the vertex and
// index pool, meshes as ranges into it, materials, decoded textures and
// the node hierarchy.
type World struct {
	Vertices  []Vertex
	Indices   []uint32
	Meshes    []Mesh
	Materials []texture.Material
	Textures  []*texture.Texture
	Graph     *scenegraph.Graph[Entity]

	meshNodes []int64
}

// Load reads a .gltf or .glb document along with its buffers and
// images. Image files referenced by URI resolve relative to path.
func Load(path string) (*World, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gltf %s: %w", path, err)
	}

	w := &World{Graph: scenegraph.New[Entity]()}
	if err := w.loadTextures(doc, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	w.loadMaterials(doc)
	if err := w.loadMeshes(doc); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	w.loadNodes(doc)

	log.Info().
		Str("path", path).
		Int("vertices", len(w.Vertices)).
		Int("indices", len(w.Indices)).
		Int("meshes", len(w.Meshes)).
		Int("materials", len(w.Materials)).
		Int("textures", len(w.Textures)).
		Msg("gltf document loaded")
	return w, nil
}

// MeshNodes returns the graph ids of nodes that instantiate a mesh, in
// document order.
func (w *World) MeshNodes() []int64 {
	return append([]int64(nil), w.meshNodes...)
}

func (w *World) loadTextures(doc *gltf.Document, dir string) error {
	for i, tex := range doc.Textures {
		if tex.Source == nil || *tex.Source < 0 || *tex.Source >= len(doc.Images) {
			return fmt.Errorf("texture %d has no image source", i)
		}
		data, err := imageData(doc, doc.Images[*tex.Source], dir)
		if err != nil {
			return fmt.Errorf("texture %d: %w", i, err)
		}
		loaded, err := texture.FromBytes(data)
		if err != nil {
			return fmt.Errorf("texture %d: %w", i, err)
		}
		if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(doc.Samplers) {
			loaded.Sampler = convertSampler(doc.Samplers[*tex.Sampler])
		} else {
			loaded.Sampler = texture.Sampler{MinFilter: texture.FilterLinear, MagFilter: texture.FilterLinear}
		}
		w.Textures = append(w.Textures, loaded)
	}
	return nil
}

func (w *World) loadMaterials(doc *gltf.Document) {
	for _, m := range doc.Materials {
		material := texture.NewMaterial()
		if m.Name != "" {
			material.Name = m.Name
		}
		material.EmissiveFactor = vec3From(m.EmissiveFactor)
		switch m.AlphaMode {
		case gltf.AlphaMask:
			material.AlphaMode = texture.AlphaMask
		case gltf.AlphaBlend:
			material.AlphaMode = texture.AlphaBlend
		}
		if m.AlphaCutoff != nil {
			material.AlphaCutoff = float32(*m.AlphaCutoff)
		}

		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				material.BaseColorFactor = vec4From(*pbr.BaseColorFactor)
			}
			if pbr.MetallicFactor != nil {
				material.MetallicFactor = float32(*pbr.MetallicFactor)
			}
			if pbr.RoughnessFactor != nil {
				material.RoughnessFactor = float32(*pbr.RoughnessFactor)
			}
			if info := pbr.BaseColorTexture; info != nil {
				material.ColorTextureIndex = int32(info.Index)
				material.ColorTextureSet = int32(info.TexCoord)
			}
			if info := pbr.MetallicRoughnessTexture; info != nil {
				material.MetallicRoughnessTextureIndex = int32(info.Index)
				material.MetallicRoughnessTextureSet = int32(info.TexCoord)
			}
		}
		if info := m.NormalTexture; info != nil && info.Index != nil {
			material.NormalTextureIndex = int32(*info.Index)
			material.NormalTextureSet = int32(info.TexCoord)
			if info.Scale != nil {
				material.NormalTextureScale = float32(*info.Scale)
			}
		}
		if info := m.OcclusionTexture; info != nil && info.Index != nil {
			material.OcclusionTextureIndex = int32(*info.Index)
			material.OcclusionTextureSet = int32(info.TexCoord)
			if info.Strength != nil {
				material.OcclusionStrength = float32(*info.Strength)
			}
		}
		if info := m.EmissiveTexture; info != nil {
			material.EmissiveTextureIndex = int32(info.Index)
			material.EmissiveTextureSet = int32(info.TexCoord)
		}

		w.Materials = append(w.Materials, material)
	}
}

func (w *World) loadMeshes(doc *gltf.Document) error {
	for _, mesh := range doc.Meshes {
		m := Mesh{Name: mesh.Name}
		for i, prim := range mesh.Primitives {
			base := uint32(len(w.Vertices))
			first := len(w.Indices)

			vertices, err := readVertices(doc, prim)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
			}
			indices, err := readIndices(doc, prim, len(vertices))
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
			}

			w.Vertices = append(w.Vertices, vertices...)
			for _, index := range indices {
				w.Indices = append(w.Indices, base+index)
			}

			material := -1
			if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(doc.Materials) {
				material = *prim.Material
			}
			m.Primitives = append(m.Primitives, Primitive{
				FirstIndex: first,
				IndexCount: len(indices),
				Material:   material,
			})
		}
		w.Meshes = append(w.Meshes, m)
	}
	return nil
}

func (w *World) loadNodes(doc *gltf.Document) {
	ids := make([]int64, len(doc.Nodes))
	for i, node := range doc.Nodes {
		mesh := -1
		if node.Mesh != nil && *node.Mesh >= 0 && *node.Mesh < len(w.Meshes) {
			mesh = *node.Mesh
		}
		ids[i] = w.Graph.AddNode(scenegraph.Node[Entity]{
			Transform: nodeTransform(node),
			Value:     Entity{Name: node.Name, Mesh: mesh},
		})
		if mesh >= 0 {
			w.meshNodes = append(w.meshNodes, ids[i])
		}
	}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			if child >= 0 && child < len(ids) {
				w.Graph.Connect(ids[i], ids[child])
			}
		}
	}
}

func readVertices(doc *gltf.Document, prim *gltf.Primitive) ([]Vertex, error) {
	position, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acc, err := accessor(doc, position)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = defaultVertex(mgl32.Vec3{p[0], p[1], p[2]})
	}

	if index, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(normals); i++ {
			vertices[i].Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
	}

	if index, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading texcoord 0: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(uvs); i++ {
			vertices[i].UV0 = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
	}

	if index, ok := prim.Attributes[gltf.TEXCOORD_1]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading texcoord 1: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(uvs); i++ {
			vertices[i].UV1 = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
	}

	if index, ok := prim.Attributes[gltf.JOINTS_0]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		joints, err := modeler.ReadJoints(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading joints: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(joints); i++ {
			vertices[i].Joints0 = mgl32.Vec4{
				float32(joints[i][0]),
				float32(joints[i][1]),
				float32(joints[i][2]),
				float32(joints[i][3]),
			}
		}
	}

	if index, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		weights, err := modeler.ReadWeights(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading weights: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(weights); i++ {
			vertices[i].Weights0 = mgl32.Vec4{weights[i][0], weights[i][1], weights[i][2], weights[i][3]}
		}
	}

	if index, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acc, err := accessor(doc, index)
		if err != nil {
			return nil, err
		}
		colors, err := modeler.ReadColor(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading colors: %w", err)
		}
		for i := 0; i < len(vertices) && i < len(colors); i++ {
			vertices[i].Color0 = mgl32.Vec3{
				float32(colors[i][0]) / 255,
				float32(colors[i][1]) / 255,
				float32(colors[i][2]) / 255,
			}
		}
	}

	return vertices, nil
}

// readIndices synthesizes a sequential index list for non-indexed
// primitives.
func readIndices(doc *gltf.Document, prim *gltf.Primitive, vertexCount int) ([]uint32, error) {
	if prim.Indices == nil {
		indices := make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return indices, nil
	}
	acc, err := accessor(doc, *prim.Indices)
	if err != nil {
		return nil, err
	}
	indices, err := modeler.ReadIndices(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading indices: %w", err)
	}
	return indices, nil
}

func accessor(doc *gltf.Document, index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	return doc.Accessors[index], nil
}

func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("image %q buffer view out of range", img.Name)
		}
		view := doc.BufferViews[*img.BufferView]
		if view.Buffer >= len(doc.Buffers) {
			return nil, fmt.Errorf("image %q references a missing buffer", img.Name)
		}
		buffer := doc.Buffers[view.Buffer]
		if view.ByteOffset+view.ByteLength > len(buffer.Data) {
			return nil, fmt.Errorf("image %q buffer view overruns its buffer", img.Name)
		}
		return buffer.Data[view.ByteOffset : view.ByteOffset+view.ByteLength], nil

	case strings.HasPrefix(img.URI, "data:"):
		_, encoded, ok := strings.Cut(img.URI, ",")
		if !ok {
			return nil, fmt.Errorf("image %q has a malformed data uri", img.Name)
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
		return data, nil

	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("image %q has no data", img.Name)
}

// nodeTransform prefers the TRS fields and falls back to decomposing a
// matrix when one is present.
func nodeTransform(node *gltf.Node) transform.Transform {
	zero := [16]float64{}
	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if node.Matrix != zero && node.Matrix != identity {
		return decomposeMatrix(node.Matrix)
	}

	t := transform.Transform{
		Translation: vec3From(node.Translation),
		Rotation:    mgl32.Quat{W: 1},
		Scale:       mgl32.Vec3{1, 1, 1},
	}
	if r := node.Rotation; r != ([4]float64{}) {
		t.Rotation = mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		}
	}
	if s := node.Scale; s != ([3]float64{}) {
		t.Scale = vec3From(s)
	}
	return t
}

// decomposeMatrix splits a column-major affine matrix into
// translation, rotation and scale.
func decomposeMatrix(m [16]float64) transform.Transform {
	var mat mgl32.Mat4
	for i, v := range m {
		mat[i] = float32(v)
	}

	translation := mat.Col(3).Vec3()
	scale := mgl32.Vec3{
		mat.Col(0).Vec3().Len(),
		mat.Col(1).Vec3().Len(),
		mat.Col(2).Vec3().Len(),
	}

	rotation := mgl32.Ident4()
	for i := 0; i < 3; i++ {
		if scale[i] == 0 {
			continue
		}
		rotation.SetCol(i, mat.Col(i).Mul(1/scale[i]))
	}

	return transform.Transform{
		Translation: translation,
		Rotation:    mgl32.Mat4ToQuat(rotation),
		Scale:       scale,
	}
}

func convertSampler(s *gltf.Sampler) texture.Sampler {
	out := texture.Sampler{
		Name:      s.Name,
		MinFilter: texture.FilterLinear,
		MagFilter: texture.FilterLinear,
		WrapS:     convertWrap(s.WrapS),
		WrapT:     convertWrap(s.WrapT),
	}
	if s.MagFilter == gltf.MagNearest {
		out.MagFilter = texture.FilterNearest
	}
	switch s.MinFilter {
	case gltf.MinNearest, gltf.MinNearestMipMapNearest, gltf.MinNearestMipMapLinear:
		out.MinFilter = texture.FilterNearest
	}
	return out
}

func convertWrap(mode gltf.WrappingMode) texture.WrappingMode {
	switch mode {
	case gltf.WrapClampToEdge:
		return texture.WrapClampToEdge
	case gltf.WrapMirroredRepeat:
		return texture.WrapMirroredRepeat
	default:
		return texture.WrapRepeat
	}
}

func vec3From(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec4From(v [4]float64) mgl32.Vec4 {
	return mgl32.Vec4{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}
