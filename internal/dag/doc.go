// Package dag orders the nodes of a workflow. A Graph records nodes and
// directed dependency edges; Order returns a sequence in which every node
// appears after all of its dependencies, or a CycleError when no such
// sequence exists.
//
// Ordering uses Kahn's algorithm. Nodes that become eligible at the same time
// are emitted in insertion order, which keeps the result stable between
// runs, but callers must not rely on any particular order among independent
// nodes.
package dag
