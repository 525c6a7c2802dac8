package dag

import (
	"github.com/specialistvlad/scripthub/internal/model"
)

// FromWorkflow builds a graph from a workflow's nodes and connections.
// Connections whose endpoints are not nodes of the workflow are ignored and
// returned as skipped so the caller can report them.
func FromWorkflow(w *model.Workflow) (g *Graph, skipped []model.Connection) {
	g = New()
	for _, n := range w.Nodes {
		g.AddNode(n.ID)
	}
	for _, c := range w.Connections {
		if err := g.AddEdge(c.From, c.To); err != nil {
			skipped = append(skipped, c)
		}
	}
	return g, skipped
}

// OrderWorkflow returns the execution order of a workflow's nodes.
func OrderWorkflow(w *model.Workflow) ([]string, error) {
	g, _ := FromWorkflow(w)
	return g.Order()
}
