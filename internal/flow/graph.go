// Package flow is the flow graph engine: structural validation, branching resolution,
// answer piping, scoring and the respondent run state machine. Everything here is pure
// and safe for concurrent use; a Graph is never mutated after construction.
package flow

import (
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// Graph is an immutable snapshot of an assessment's nodes and edges.
type Graph struct {
	nodes    []models.Node
	edges    []models.Edge
	byID     map[string]models.Node
	outgoing map[string][]models.Edge
	incoming map[string][]models.Edge
}

// NewGraph indexes nodes and edges. Edge order is preserved per source node; it is the
// tie-break order for branching.
func NewGraph(nodes []models.Node, edges []models.Edge) *Graph {
	g := &Graph{
		nodes:    append([]models.Node(nil), nodes...),
		edges:    append([]models.Edge(nil), edges...),
		byID:     make(map[string]models.Node, len(nodes)),
		outgoing: make(map[string][]models.Edge),
		incoming: make(map[string][]models.Edge),
	}
	for _, n := range g.nodes {
		if _, dup := g.byID[n.ID]; !dup {
			g.byID[n.ID] = n
		}
	}
	for _, e := range g.edges {
		g.outgoing[e.SourceNodeID] = append(g.outgoing[e.SourceNodeID], e)
		g.incoming[e.TargetNodeID] = append(g.incoming[e.TargetNodeID], e)
	}
	return g
}

func (g *Graph) Nodes() []models.Node {
	return g.nodes
}

func (g *Graph) Edges() []models.Edge {
	return g.edges
}

func (g *Graph) Node(id string) (models.Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodesByID returns the node index. Callers must not modify it.
func (g *Graph) NodesByID() map[string]models.Node {
	return g.byID
}

// Outgoing returns the edges leaving id in authoring order.
func (g *Graph) Outgoing(id string) []models.Edge {
	return g.outgoing[id]
}

// Entry returns the first entry node.
func (g *Graph) Entry() (models.Node, bool) {
	for _, n := range g.nodes {
		if n.Kind() == models.NodeEntry {
			return n, true
		}
	}
	return models.Node{}, false
}

// Ancestors lists the question nodes reachable backward through edges from id, nearest
// first. These are the nodes whose answers may be piped into id's text.
func (g *Graph) Ancestors(id string) []models.Node {
	visited := map[string]bool{id: true}
	queue := []string{id}
	var out []models.Node

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.incoming[current] {
			src := e.SourceNodeID
			if visited[src] {
				continue
			}
			visited[src] = true
			queue = append(queue, src)
			if n, ok := g.byID[src]; ok && n.Kind() == models.NodeQuestion {
				out = append(out, n)
			}
		}
	}
	return out
}
