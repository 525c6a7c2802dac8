package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
		seq:        len(g.ids),
	}
	g.ids = append(g.ids, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. Adding the same
// edge twice has no further effect. A self-edge is accepted and makes the
// graph cyclic. An error is returned if either node does not exist.
func (g *Graph) AddEdge(fromID, toID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Dependencies returns the IDs of the nodes the given node depends on, in
// insertion order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the IDs of the nodes that depend on the given node, in
// insertion order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// Order computes an execution order with Kahn's algorithm. Every node appears
// exactly once and after all of its dependencies. If the graph contains a
// cycle, Order returns a *CycleError and no partial order.
func (g *Graph) Order() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	var queue []*node
	for _, id := range g.ids {
		n := g.nodes[id]
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current.id)

		for _, next := range sortedNodes(current.dependents) {
			inDegree[next.id]--
			if inDegree[next.id] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) < len(g.nodes) {
		var unreached []string
		for _, id := range g.ids {
			if inDegree[id] > 0 {
				unreached = append(unreached, id)
			}
		}
		return nil, &CycleError{Unreached: unreached}
	}
	return order, nil
}

// DetectCycles returns a *CycleError if the graph is not acyclic.
func (g *Graph) DetectCycles() error {
	_, err := g.Order()
	return err
}

func sortedNodes(set map[string]*node) []*node {
	nodes := make([]*node, 0, len(set))
	for _, n := range set {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].seq < nodes[j].seq })
	return nodes
}

func sortedIDs(set map[string]*node) []string {
	nodes := sortedNodes(set)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.id
	}
	return ids
}
