package world

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/require"

	"github.com/matthewjberger/gl-examples/scenegraph"
	"github.com/matthewjberger/gl-examples/texture"
)

// writeTestDocument saves a one-triangle binary document with a
// material, an embedded PNG texture and a two-level node hierarchy.
func writeTestDocument(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	normals := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	colors := modeler.WriteColor(doc, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:  gltf.Index(indices),
			Material: gltf.Index(0),
			Attributes: map[string]int{
				gltf.POSITION:   positions,
				gltf.NORMAL:     normals,
				gltf.TEXCOORD_0: uvs,
				gltf.COLOR_0:    colors,
			},
		}},
	})

	metallic := 0.25
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "painted",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{1, 0.5, 0.25, 1},
			MetallicFactor:   &metallic,
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	})

	appendTestTexture(t, doc)

	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "root", Translation: [3]float64{0, 2, 0}, Children: []int{1}},
		&gltf.Node{Name: "triangle", Mesh: gltf.Index(0), Translation: [3]float64{1, 0, 0}},
		&gltf.Node{Name: "anchor", Matrix: [16]float64{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 3, 0, 0, 1}},
	)
	doc.Scenes[0].Nodes = []int{0, 2}

	path := filepath.Join(t.TempDir(), "triangle.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

// appendTestTexture embeds a 2x2 white PNG after the accessor data.
func appendTestTexture(t *testing.T, doc *gltf.Document) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	buffer := doc.Buffers[0]
	offset := len(buffer.Data)
	buffer.Data = append(buffer.Data, buf.Bytes()...)
	buffer.ByteLength = len(buffer.Data)

	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: buf.Len(),
	})
	doc.Images = append(doc.Images, &gltf.Image{
		Name:       "white",
		MimeType:   "image/png",
		BufferView: gltf.Index(len(doc.BufferViews) - 1),
	})
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearestMipMapLinear,
		WrapS:     gltf.WrapClampToEdge,
	})
	doc.Textures = append(doc.Textures, &gltf.Texture{
		Source:  gltf.Index(0),
		Sampler: gltf.Index(0),
	})
}

func TestLoadAggregatesGeometry(t *testing.T) {
	w, err := Load(writeTestDocument(t))
	require.NoError(t, err)

	require.Len(t, w.Vertices, 3)
	require.Equal(t, []uint32{0, 1, 2}, w.Indices)

	v := w.Vertices[1]
	require.Equal(t, mgl32.Vec3{1, 0, 0}, v.Position)
	require.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal)
	require.Equal(t, mgl32.Vec2{1, 0}, v.UV0)
	require.Equal(t, mgl32.Vec3{0, 1, 0}, v.Color0)
	require.Equal(t, mgl32.Vec4{1, 0, 0, 0}, v.Weights0)

	require.Len(t, w.Meshes, 1)
	require.Equal(t, "triangle", w.Meshes[0].Name)
	require.Equal(t, []Primitive{{FirstIndex: 0, IndexCount: 3, Material: 0}}, w.Meshes[0].Primitives)
}

func TestLoadConvertsMaterials(t *testing.T) {
	w, err := Load(writeTestDocument(t))
	require.NoError(t, err)

	require.Len(t, w.Materials, 1)
	m := w.Materials[0]
	require.Equal(t, "painted", m.Name)
	require.Equal(t, mgl32.Vec4{1, 0.5, 0.25, 1}, m.BaseColorFactor)
	require.Equal(t, float32(0.25), m.MetallicFactor)
	require.Equal(t, int32(0), m.ColorTextureIndex)
	require.Equal(t, int32(0), m.ColorTextureSet)
	require.Equal(t, int32(-1), m.NormalTextureIndex)
	require.Equal(t, texture.AlphaOpaque, m.AlphaMode)
}

func TestLoadDecodesTextures(t *testing.T) {
	w, err := Load(writeTestDocument(t))
	require.NoError(t, err)

	require.Len(t, w.Textures, 1)
	tex := w.Textures[0]
	require.Equal(t, uint32(2), tex.Description.Width)
	require.Equal(t, uint32(2), tex.Description.Height)
	require.Equal(t, texture.FormatR8G8B8A8, tex.Description.Format)
	require.Equal(t, texture.FilterNearest, tex.Sampler.MagFilter)
	require.Equal(t, texture.FilterNearest, tex.Sampler.MinFilter)
	require.Equal(t, texture.WrapClampToEdge, tex.Sampler.WrapS)
	require.Equal(t, texture.WrapRepeat, tex.Sampler.WrapT)
}

func TestLoadBuildsSceneGraph(t *testing.T) {
	w, err := Load(writeTestDocument(t))
	require.NoError(t, err)

	require.Equal(t, 3, w.Graph.NodeCount())

	meshNodes := w.MeshNodes()
	require.Len(t, meshNodes, 1)

	node := w.Graph.Node(meshNodes[0])
	require.Equal(t, "triangle", node.Value.Name)
	require.Equal(t, 0, node.Value.Mesh)

	rootID, ok := w.Graph.FindNode(func(n *scenegraph.Node[Entity]) bool {
		return n.Value.Name == "root"
	})
	require.True(t, ok)
	require.Equal(t, []int64{meshNodes[0]}, w.Graph.Children(rootID))

	global := w.Graph.GlobalTransform(meshNodes[0])
	require.Equal(t, mgl32.Vec3{1, 2, 0}, global.Translation)
}

func TestLoadDecomposesMatrixNodes(t *testing.T) {
	w, err := Load(writeTestDocument(t))
	require.NoError(t, err)

	anchorID, ok := w.Graph.FindNode(func(n *scenegraph.Node[Entity]) bool {
		return n.Value.Name == "anchor"
	})
	require.True(t, ok)

	tr := w.Graph.Node(anchorID).Transform
	require.Equal(t, mgl32.Vec3{3, 0, 0}, tr.Translation)
	require.Equal(t, mgl32.Vec3{2, 2, 2}, tr.Scale)
	require.InDelta(t, 1, tr.Rotation.W, 1e-6)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening gltf")
}

func TestNodeTransformDefaults(t *testing.T) {
	tr := nodeTransform(&gltf.Node{Translation: [3]float64{1, 2, 3}})
	require.Equal(t, mgl32.Vec3{1, 2, 3}, tr.Translation)
	require.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale)
	require.Equal(t, float32(1), tr.Rotation.W)
}

func TestReadIndicesSynthesizesRange(t *testing.T) {
	indices, err := readIndices(&gltf.Document{}, &gltf.Primitive{}, 4)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1, 2, 3}, indices)
}
