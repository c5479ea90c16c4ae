package scenegraph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewjberger/gl-examples/transform"
)

func nodeAt(name string, translation mgl32.Vec3) Node[string] {
	tr := transform.New()
	tr.Rotation = mgl32.QuatIdent()
	tr.Translation = translation
	return Node[string]{Transform: tr, Value: name}
}

func TestAddAndFindNode(t *testing.T) {
	g := New[string]()
	require.Equal(t, 0, g.NodeCount())

	root := g.AddNode(nodeAt("root", mgl32.Vec3{}))
	child := g.AddNode(nodeAt("child", mgl32.Vec3{1, 0, 0}))
	g.Connect(root, child)

	assert.Equal(t, 2, g.NodeCount())

	found, ok := g.FindNode(func(n *Node[string]) bool { return n.Value == "child" })
	require.True(t, ok)
	assert.Equal(t, child, found)

	_, ok = g.FindNode(func(n *Node[string]) bool { return n.Value == "missing" })
	assert.False(t, ok)
}

func TestChildren(t *testing.T) {
	g := New[string]()
	root := g.AddNode(nodeAt("root", mgl32.Vec3{}))
	a := g.AddNode(nodeAt("a", mgl32.Vec3{}))
	b := g.AddNode(nodeAt("b", mgl32.Vec3{}))
	g.Connect(root, a)
	g.Connect(root, b)

	assert.Equal(t, []int64{a, b}, g.Children(root))
	assert.Empty(t, g.Children(a))
}

func TestGlobalTransformComposesChain(t *testing.T) {
	g := New[string]()
	root := g.AddNode(nodeAt("root", mgl32.Vec3{1, 0, 0}))
	mid := g.AddNode(nodeAt("mid", mgl32.Vec3{0, 2, 0}))
	leaf := g.AddNode(nodeAt("leaf", mgl32.Vec3{0, 0, 3}))
	g.Connect(root, mid)
	g.Connect(mid, leaf)

	global := g.GlobalTransform(leaf)
	assert.InDelta(t, 1, float64(global.Translation.X()), 1e-5)
	assert.InDelta(t, 2, float64(global.Translation.Y()), 1e-5)
	assert.InDelta(t, 3, float64(global.Translation.Z()), 1e-5)
}

func TestGlobalTransformAppliesParentRotation(t *testing.T) {
	g := New[string]()

	rootNode := nodeAt("root", mgl32.Vec3{})
	rootNode.Transform.Rotation = mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 1, 0})
	root := g.AddNode(rootNode)
	child := g.AddNode(nodeAt("child", mgl32.Vec3{1, 0, 0}))
	g.Connect(root, child)

	global := g.GlobalTransform(child)
	assert.InDelta(t, 0, float64(global.Translation.X()), 1e-5)
	assert.InDelta(t, 0, float64(global.Translation.Y()), 1e-5)
	assert.InDelta(t, -1, float64(global.Translation.Z()), 1e-5)
}

func TestGlobalTransformOfRootIsLocal(t *testing.T) {
	g := New[string]()
	root := g.AddNode(nodeAt("root", mgl32.Vec3{4, 5, 6}))

	global := g.GlobalTransform(root)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, global.Translation)
}

func TestNodeMutation(t *testing.T) {
	g := New[string]()
	id := g.AddNode(nodeAt("n", mgl32.Vec3{}))

	g.Node(id).Transform.Translation = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{9, 9, 9}, g.GlobalTransform(id).Translation)
}
