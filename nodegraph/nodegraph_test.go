package nodegraph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphIsEmpty(t *testing.T) {
	g := New[int, string, string]()

	assert.True(t, g.IsEmpty())
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestAddAndRemoveNode(t *testing.T) {
	g := New[int, string, string]()

	require.NoError(t, g.AddNode(1, "Node 1 data"))
	assert.True(t, g.ContainsNode(1))

	data, ok := g.NodeData(1)
	require.True(t, ok)
	assert.Equal(t, "Node 1 data", data)

	removed, ok := g.RemoveNode(1)
	require.True(t, ok)
	assert.Equal(t, "Node 1 data", removed)
	assert.False(t, g.ContainsNode(1))
}

func TestAddDuplicateNode(t *testing.T) {
	g := New[int, string, string]()

	require.NoError(t, g.AddNode(1, "first"))
	err := g.AddNode(1, "second")
	require.ErrorIs(t, err, ErrNodeExists)

	data, _ := g.NodeData(1)
	assert.Equal(t, "first", data)
}

func TestAddAndRemoveEdge(t *testing.T) {
	g := New[int, string, string]()
	require.NoError(t, g.AddNode(1, "Node 1"))
	require.NoError(t, g.AddNode(2, "Node 2"))

	require.NoError(t, g.AddEdge(1, 2, "connects"))
	assert.True(t, g.ContainsEdge(1, 2))
	assert.False(t, g.ContainsEdge(2, 1))

	value, ok := g.RemoveEdge(1, 2)
	require.True(t, ok)
	assert.Equal(t, "connects", value)
	assert.False(t, g.ContainsEdge(1, 2))
}

func TestEdgeCases(t *testing.T) {
	g := New[int, string, string]()
	require.NoError(t, g.AddNode(1, "Node 1"))

	err := g.AddEdge(1, 2, "connects")
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, ok := g.RemoveEdge(1, 2)
	assert.False(t, ok)

	_, ok = g.RemoveNode(2)
	assert.False(t, ok)

	require.NoError(t, g.AddNode(2, "Node 2"))
	require.ErrorIs(t, g.AddEdge(1, 1, "loop"), ErrSelfEdge)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := New[int, string, any]()

	require.NoError(t, g.AddNode(1, "Node 1 data"))
	require.NoError(t, g.AddNode(2, 42))
	require.NoError(t, g.AddNode(3, [2]uint8{3, 4}))

	require.NoError(t, g.AddEdge(1, 2, "Edge 1-2"))
	require.NoError(t, g.AddEdge(2, 3, "Edge 2-3"))
	assert.True(t, g.ContainsEdge(1, 2))
	assert.True(t, g.ContainsEdge(2, 3))

	_, ok := g.RemoveNode(2)
	require.True(t, ok)

	assert.False(t, g.ContainsNode(2))
	assert.False(t, g.ContainsEdge(1, 2))
	assert.False(t, g.ContainsEdge(2, 3))

	data, ok := g.NodeData(3)
	require.True(t, ok)
	assert.Equal(t, [2]uint8{3, 4}, data)
}

func TestJSONRoundTrip(t *testing.T) {
	g := New[uint32, string, string]()
	require.NoError(t, g.AddNode(1, "Node1"))
	require.NoError(t, g.AddNode(2, "Node2"))
	require.NoError(t, g.AddEdge(1, 2, "Edge1-2"))

	serialized, err := json.Marshal(g)
	require.NoError(t, err)

	deserialized := New[uint32, string, string]()
	require.NoError(t, json.Unmarshal(serialized, deserialized))

	assert.True(t, deserialized.ContainsNode(1))
	assert.True(t, deserialized.ContainsNode(2))
	assert.True(t, deserialized.ContainsEdge(1, 2))

	data, ok := deserialized.NodeData(1)
	require.True(t, ok)
	assert.Equal(t, "Node1", data)

	data, ok = deserialized.NodeData(2)
	require.True(t, ok)
	assert.Equal(t, "Node2", data)
}

func TestGraphvizOutput(t *testing.T) {
	g := New[uint32, string, string]()
	require.NoError(t, g.AddNode(1, "Hello!"))
	require.NoError(t, g.AddNode(2, "3"))
	require.NoError(t, g.AddNode(3, "(0, 1)"))
	require.NoError(t, g.AddEdge(1, 2, "Edge 1-2"))
	require.NoError(t, g.AddEdge(2, 3, "Edge 2-3"))

	out, err := g.ToDot()
	require.NoError(t, err)

	assert.NotEmpty(t, out)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "->")
	assert.Contains(t, out, "Hello!")
	assert.Contains(t, out, "Edge 1-2")
}

func TestNodeDataByID(t *testing.T) {
	g := New[string, string, string]()
	require.NoError(t, g.AddNode("node1", "Node 1 data"))

	data, ok := g.NodeData("node1")
	require.True(t, ok)
	assert.Equal(t, "Node 1 data", data)

	_, ok = g.NodeData("missing")
	assert.False(t, ok)
}

func TestTraverseDFS(t *testing.T) {
	g := New[string, string, string]()
	require.NoError(t, g.AddNode("root", "Root"))
	require.NoError(t, g.AddNode("child1", "Child 1"))
	require.NoError(t, g.AddNode("child2", "Child 2"))
	require.NoError(t, g.AddEdge("root", "child1", "edge1"))
	require.NoError(t, g.AddEdge("root", "child2", "edge2"))

	order, ok := g.TraverseDFS("root")
	require.True(t, ok)

	require.Len(t, order, 3)
	assert.Equal(t, "root", order[0])
	assert.ElementsMatch(t, []string{"root", "child1", "child2"}, order)

	_, ok = g.TraverseDFS("missing")
	assert.False(t, ok)
}

func TestTraverseDFSIgnoresUnreachable(t *testing.T) {
	g := New[string, string, string]()
	require.NoError(t, g.AddNode("a", "A"))
	require.NoError(t, g.AddNode("b", "B"))
	require.NoError(t, g.AddNode("island", "I"))
	require.NoError(t, g.AddEdge("a", "b", "ab"))

	order, ok := g.TraverseDFS("a")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

func TestEdgesConnectedToNode(t *testing.T) {
	g := New[string, string, string]()
	require.NoError(t, g.AddNode("node1", "Node 1"))
	require.NoError(t, g.AddNode("node2", "2"))
	require.NoError(t, g.AddEdge("node1", "node2", "edge1-2"))

	edges, ok := g.EdgesConnectedTo("node1")
	require.True(t, ok)
	assert.Equal(t, []Neighbor[string, string]{{ID: "node2", Edge: "edge1-2"}}, edges)

	// Incoming edges count as connected too.
	edges, ok = g.EdgesConnectedTo("node2")
	require.True(t, ok)
	assert.Equal(t, []Neighbor[string, string]{{ID: "node1", Edge: "edge1-2"}}, edges)

	_, ok = g.EdgesConnectedTo("missing")
	assert.False(t, ok)
}

func TestEdgesFrom(t *testing.T) {
	g := New[string, string, string]()
	require.NoError(t, g.AddNode("a", "A"))
	require.NoError(t, g.AddNode("b", "B"))
	require.NoError(t, g.AddNode("c", "C"))
	require.NoError(t, g.AddEdge("a", "b", "ab"))
	require.NoError(t, g.AddEdge("a", "c", "ac"))
	require.NoError(t, g.AddEdge("b", "c", "bc"))

	edges, ok := g.EdgesFrom("a")
	require.True(t, ok)
	assert.Equal(t, []Neighbor[string, string]{{ID: "b", Edge: "ab"}, {ID: "c", Edge: "ac"}}, edges)

	edges, ok = g.EdgesFrom("c")
	require.True(t, ok)
	assert.Empty(t, edges)
}

func TestBatchAdders(t *testing.T) {
	g := New[int, string, string]()

	require.NoError(t, g.AddNodes([]NodeSpec[int, string]{
		{ID: 1, Data: "one"},
		{ID: 2, Data: "two"},
		{ID: 3, Data: "three"},
	}))
	require.NoError(t, g.AddEdges([]EdgeSpec[int, string]{
		{From: 1, To: 2, Value: "a"},
		{From: 2, To: 3, Value: "b"},
	}))

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.False(t, g.IsEmpty())

	err := g.AddEdges([]EdgeSpec[int, string]{{From: 1, To: 99, Value: "nope"}})
	require.ErrorIs(t, err, ErrNodeNotFound)
}
