package scenegraph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/matthewjberger/gl-examples/transform"
)

// Node is a scene element: a local transform plus an arbitrary payload.
type Node[T any] struct {
	Transform transform.Transform
	Value     T
}

// Graph is a directed scene hierarchy. Edges point from parent to
// child; a node's world pose composes every transform on the path from
// its root.
type Graph[T any] struct {
	g     *simple.DirectedGraph
	nodes map[int64]*Node[T]
}

func New[T any]() *Graph[T] {
	return &Graph[T]{
		g:     simple.NewDirectedGraph(),
		nodes: make(map[int64]*Node[T]),
	}
}

// AddNode inserts a node and returns its id.
func (s *Graph[T]) AddNode(node Node[T]) int64 {
	n := s.g.NewNode()
	s.g.AddNode(n)
	stored := node
	s.nodes[n.ID()] = &stored
	return n.ID()
}

// Connect makes child a child of parent.
func (s *Graph[T]) Connect(parent, child int64) {
	s.g.SetEdge(s.g.NewEdge(s.g.Node(parent), s.g.Node(child)))
}

// Node returns the stored node for in-place mutation, or nil.
func (s *Graph[T]) Node(id int64) *Node[T] {
	return s.nodes[id]
}

// Children returns the ids of a node's direct children, ascending.
func (s *Graph[T]) Children(id int64) []int64 {
	var children []int64
	it := s.g.From(id)
	for it.Next() {
		children = append(children, it.Node().ID())
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	return children
}

// FindNode returns the id of the first node, in insertion order,
// matching the predicate.
func (s *Graph[T]) FindNode(predicate func(*Node[T]) bool) (int64, bool) {
	ids := s.ids()
	for _, id := range ids {
		if predicate(s.nodes[id]) {
			return id, true
		}
	}
	return 0, false
}

// GlobalTransform composes the transforms on the path from the node's
// root down to the node. Nodes with several parents follow the first.
func (s *Graph[T]) GlobalTransform(id int64) transform.Transform {
	chain := []int64{id}
	current := id
	for {
		parents := s.g.To(current)
		if !parents.Next() {
			break
		}
		current = parents.Node().ID()
		chain = append(chain, current)
	}

	global := s.nodes[chain[len(chain)-1]].Transform
	for i := len(chain) - 2; i >= 0; i-- {
		global = global.Mul(s.nodes[chain[i]].Transform)
	}
	return global
}

func (s *Graph[T]) NodeCount() int { return len(s.nodes) }

func (s *Graph[T]) ids() []int64 {
	ids := make([]int64, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
