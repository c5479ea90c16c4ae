package nodegraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

var (
	ErrNodeExists   = errors.New("node with this id already exists")
	ErrNodeNotFound = errors.New("node with this id does not exist")
	ErrSelfEdge     = errors.New("self edges are not supported")
)

// NodeGraph is a directed graph keyed by caller-chosen node ids,
// carrying arbitrary payloads on both nodes and edges.
type NodeGraph[ID comparable, E any, D any] struct {
	g       *simple.DirectedGraph
	indices map[ID]int64
	ids     map[int64]ID
	nextID  int64
}

// Neighbor pairs an adjacent node id with the value of the edge
// reaching it.
type Neighbor[ID comparable, E any] struct {
	ID   ID
	Edge E
}

// NodeSpec and EdgeSpec describe batch insertions.
type NodeSpec[ID comparable, D any] struct {
	ID   ID
	Data D
}

type EdgeSpec[ID comparable, E any] struct {
	From  ID
	To    ID
	Value E
}

type dataNode[D any] struct {
	id   int64
	data D
}

func (n dataNode[D]) ID() int64     { return n.id }
func (n dataNode[D]) DOTID() string { return strconv.FormatInt(n.id, 10) }

func (n dataNode[D]) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(fmt.Sprint(n.data))}}
}

type valueEdge[E any] struct {
	from, to graph.Node
	value    E
}

func (e valueEdge[E]) From() graph.Node { return e.from }
func (e valueEdge[E]) To() graph.Node   { return e.to }
func (e valueEdge[E]) ReversedEdge() graph.Edge {
	return valueEdge[E]{from: e.to, to: e.from, value: e.value}
}

func (e valueEdge[E]) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(fmt.Sprint(e.value))}}
}

func New[ID comparable, E any, D any]() *NodeGraph[ID, E, D] {
	return &NodeGraph[ID, E, D]{
		g:       simple.NewDirectedGraph(),
		indices: make(map[ID]int64),
		ids:     make(map[int64]ID),
	}
}

func (n *NodeGraph[ID, E, D]) AddNode(id ID, data D) error {
	if _, exists := n.indices[id]; exists {
		return fmt.Errorf("adding node %v: %w", id, ErrNodeExists)
	}
	idx := n.nextID
	n.nextID++
	n.g.AddNode(dataNode[D]{id: idx, data: data})
	n.indices[id] = idx
	n.ids[idx] = id
	return nil
}

// RemoveNode deletes the node and every edge touching it, returning
// the node's payload.
func (n *NodeGraph[ID, E, D]) RemoveNode(id ID) (D, bool) {
	var zero D
	idx, ok := n.indices[id]
	if !ok {
		return zero, false
	}
	data := n.g.Node(idx).(dataNode[D]).data
	n.g.RemoveNode(idx)
	delete(n.indices, id)
	delete(n.ids, idx)
	return data, true
}

func (n *NodeGraph[ID, E, D]) AddEdge(from, to ID, value E) error {
	fromIdx, ok := n.indices[from]
	if !ok {
		return fmt.Errorf("edge %v -> %v: %w", from, to, ErrNodeNotFound)
	}
	toIdx, ok := n.indices[to]
	if !ok {
		return fmt.Errorf("edge %v -> %v: %w", from, to, ErrNodeNotFound)
	}
	if fromIdx == toIdx {
		return fmt.Errorf("edge %v -> %v: %w", from, to, ErrSelfEdge)
	}
	n.g.SetEdge(valueEdge[E]{from: n.g.Node(fromIdx), to: n.g.Node(toIdx), value: value})
	return nil
}

func (n *NodeGraph[ID, E, D]) RemoveEdge(from, to ID) (E, bool) {
	var zero E
	fromIdx, ok := n.indices[from]
	if !ok {
		return zero, false
	}
	toIdx, ok := n.indices[to]
	if !ok {
		return zero, false
	}
	e := n.g.Edge(fromIdx, toIdx)
	if e == nil {
		return zero, false
	}
	n.g.RemoveEdge(fromIdx, toIdx)
	return e.(valueEdge[E]).value, true
}

func (n *NodeGraph[ID, E, D]) ContainsNode(id ID) bool {
	_, ok := n.indices[id]
	return ok
}

func (n *NodeGraph[ID, E, D]) ContainsEdge(from, to ID) bool {
	fromIdx, ok := n.indices[from]
	if !ok {
		return false
	}
	toIdx, ok := n.indices[to]
	if !ok {
		return false
	}
	return n.g.HasEdgeFromTo(fromIdx, toIdx)
}

func (n *NodeGraph[ID, E, D]) NodeData(id ID) (D, bool) {
	var zero D
	idx, ok := n.indices[id]
	if !ok {
		return zero, false
	}
	return n.g.Node(idx).(dataNode[D]).data, true
}

// EdgesFrom lists the outgoing edges of a node.
func (n *NodeGraph[ID, E, D]) EdgesFrom(id ID) ([]Neighbor[ID, E], bool) {
	idx, ok := n.indices[id]
	if !ok {
		return nil, false
	}
	var neighbors []Neighbor[ID, E]
	to := n.g.From(idx)
	for to.Next() {
		e := n.g.Edge(idx, to.Node().ID()).(valueEdge[E])
		neighbors = append(neighbors, Neighbor[ID, E]{ID: n.ids[to.Node().ID()], Edge: e.value})
	}
	n.sortNeighbors(neighbors)
	return neighbors, true
}

// EdgesConnectedTo lists edges in both directions.
func (n *NodeGraph[ID, E, D]) EdgesConnectedTo(id ID) ([]Neighbor[ID, E], bool) {
	idx, ok := n.indices[id]
	if !ok {
		return nil, false
	}
	var neighbors []Neighbor[ID, E]
	out := n.g.From(idx)
	for out.Next() {
		e := n.g.Edge(idx, out.Node().ID()).(valueEdge[E])
		neighbors = append(neighbors, Neighbor[ID, E]{ID: n.ids[out.Node().ID()], Edge: e.value})
	}
	in := n.g.To(idx)
	for in.Next() {
		e := n.g.Edge(in.Node().ID(), idx).(valueEdge[E])
		neighbors = append(neighbors, Neighbor[ID, E]{ID: n.ids[in.Node().ID()], Edge: e.value})
	}
	n.sortNeighbors(neighbors)
	return neighbors, true
}

// TraverseDFS walks depth-first from the start node and returns ids in
// visit order, the start node first. Sibling order is unspecified.
func (n *NodeGraph[ID, E, D]) TraverseDFS(start ID) ([]ID, bool) {
	idx, ok := n.indices[start]
	if !ok {
		return nil, false
	}
	var order []ID
	df := traverse.DepthFirst{
		Visit: func(node graph.Node) {
			order = append(order, n.ids[node.ID()])
		},
	}
	df.Walk(n.g, n.g.Node(idx), nil)
	return order, true
}

func (n *NodeGraph[ID, E, D]) AddNodes(nodes []NodeSpec[ID, D]) error {
	for _, node := range nodes {
		if err := n.AddNode(node.ID, node.Data); err != nil {
			return err
		}
	}
	return nil
}

func (n *NodeGraph[ID, E, D]) AddEdges(edges []EdgeSpec[ID, E]) error {
	for _, e := range edges {
		if err := n.AddEdge(e.From, e.To, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (n *NodeGraph[ID, E, D]) IsEmpty() bool  { return n.NodeCount() == 0 }
func (n *NodeGraph[ID, E, D]) NodeCount() int { return n.g.Nodes().Len() }
func (n *NodeGraph[ID, E, D]) EdgeCount() int { return n.g.Edges().Len() }

// ToDot renders the graph in Graphviz DOT form, node payloads and edge
// values as labels.
func (n *NodeGraph[ID, E, D]) ToDot() (string, error) {
	raw, err := dot.Marshal(n.g, "", "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling graph to dot: %w", err)
	}
	return string(raw), nil
}

type graphJSON[ID comparable, E any, D any] struct {
	Nodes []nodeJSON[ID, D] `json:"nodes"`
	Edges []edgeJSON[ID, E] `json:"edges"`
}

type nodeJSON[ID comparable, D any] struct {
	ID   ID `json:"id"`
	Data D  `json:"data"`
}

type edgeJSON[ID comparable, E any] struct {
	From  ID `json:"from"`
	To    ID `json:"to"`
	Value E  `json:"value"`
}

func (n *NodeGraph[ID, E, D]) MarshalJSON() ([]byte, error) {
	out := graphJSON[ID, E, D]{
		Nodes: make([]nodeJSON[ID, D], 0, n.NodeCount()),
		Edges: make([]edgeJSON[ID, E], 0, n.EdgeCount()),
	}

	indices := make([]int64, 0, len(n.ids))
	for idx := range n.ids {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	for _, idx := range indices {
		out.Nodes = append(out.Nodes, nodeJSON[ID, D]{
			ID:   n.ids[idx],
			Data: n.g.Node(idx).(dataNode[D]).data,
		})
	}
	for _, idx := range indices {
		to := n.g.From(idx)
		targets := make([]int64, 0)
		for to.Next() {
			targets = append(targets, to.Node().ID())
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, target := range targets {
			e := n.g.Edge(idx, target).(valueEdge[E])
			out.Edges = append(out.Edges, edgeJSON[ID, E]{
				From:  n.ids[idx],
				To:    n.ids[target],
				Value: e.value,
			})
		}
	}

	return json.Marshal(out)
}

func (n *NodeGraph[ID, E, D]) UnmarshalJSON(data []byte) error {
	var in graphJSON[ID, E, D]
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshaling graph: %w", err)
	}

	fresh := New[ID, E, D]()
	for _, node := range in.Nodes {
		if err := fresh.AddNode(node.ID, node.Data); err != nil {
			return fmt.Errorf("unmarshaling graph: %w", err)
		}
	}
	for _, e := range in.Edges {
		if err := fresh.AddEdge(e.From, e.To, e.Value); err != nil {
			return fmt.Errorf("unmarshaling graph: %w", err)
		}
	}

	*n = *fresh
	return nil
}

func (n *NodeGraph[ID, E, D]) sortNeighbors(neighbors []Neighbor[ID, E]) {
	sort.Slice(neighbors, func(i, j int) bool {
		return n.indices[neighbors[i].ID] < n.indices[neighbors[j].ID]
	})
}
