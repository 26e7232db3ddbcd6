// SPDX-License-Identifier: MPL-2.0

// Package dag orders verb dependencies and detects dependency cycles.
//
// Nodes are verb names. An edge records that a verb requires another verb
// to be installed first. Edges keep declaration order so every ordering the
// package produces is deterministic.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle detected")

type (
	// CycleError indicates that the graph contains a cycle.
	CycleError struct {
		// Cycle lists the nodes on the cycle. When found by a depth-first walk
		// it starts and ends with the same node ("a -> b -> a").
		Cycle []string
	}

	// Graph is a directed dependency graph.
	Graph struct {
		// deps maps each node to the nodes it requires, in declaration order.
		deps map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}

	visitState int
)

const (
	unvisited visitState = iota
	visiting
	visited
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		deps:    make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddDependency records that node requires dep. Both nodes are implicitly
// added. Repeating an edge is a no-op.
func (g *Graph) AddDependency(node, dep string) {
	g.AddNode(node)
	g.AddNode(dep)
	if !slices.Contains(g.deps[node], dep) {
		g.deps[node] = append(g.deps[node], dep)
	}
}

// Dependencies returns the direct dependencies of node in declaration order.
func (g *Graph) Dependencies(node string) []string {
	return slices.Clone(g.deps[node])
}

// TopologicalSort returns every node with dependencies before the nodes
// that require them, using Kahn's algorithm. Nodes that become ready at the
// same time appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// A node's in-degree is the number of dependencies it still waits for.
	inDegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.deps[node])
		for _, dep := range g.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		if cycle := g.findCycle(); cycle != nil {
			return nil, cycle
		}
		var stuck []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				stuck = append(stuck, node)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}

	return result, nil
}

// PostOrder returns root and everything it transitively requires, each
// exactly once, dependencies first. Dependencies are visited in
// declaration order. A cycle reachable from root is reported as a
// *CycleError naming the path that closes it.
func (g *Graph) PostOrder(root string) ([]string, error) {
	state := make(map[string]visitState)
	var (
		order []string
		path  []string
	)

	var visit func(node string) error
	visit = func(node string) error {
		switch state[node] {
		case visited:
			return nil
		case visiting:
			start := slices.Index(path, node)
			cycle := append(slices.Clone(path[start:]), node)
			return &CycleError{Cycle: cycle}
		}

		state[node] = visiting
		path = append(path, node)
		for _, dep := range g.deps[node] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[node] = visited
		order = append(order, node)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// findCycle returns the first cycle found when walking the nodes in
// insertion order, or nil when the graph is acyclic.
func (g *Graph) findCycle() *CycleError {
	done := make(map[string]bool)
	for _, node := range g.nodes {
		if done[node] {
			continue
		}
		order, err := g.PostOrder(node)
		if err != nil {
			var ce *CycleError
			if errors.As(err, &ce) {
				return ce
			}
		}
		for _, n := range order {
			done[n] = true
		}
	}
	return nil
}
