package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/rotasim/internal/ir"
)

// CycleWarning reports a loop in the connection graph.
//
// Cycles are warnings, not errors: the compiler resolves consumption in
// timeline order and simply ignores the back edge. They usually mean an
// authoring mistake, for example two actions each marked as consuming the
// other's effect.
type CycleWarning struct {
	Path    []string `json:"path"`    // ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeCycles finds loops in the action graph formed by connections
// (From → To). Self-loops and strongly connected components of size > 1 are
// reported. Output order is deterministic.
func AnalyzeCycles(connections []ir.Connection) []CycleWarning {
	if len(connections) == 0 {
		return []CycleWarning{}
	}

	graph := buildConnectionGraph(connections)
	sccs := tarjanSCC(graph)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// connectionGraph maps action id → ids it connects to, sorted.
type connectionGraph map[string][]string

func buildConnectionGraph(connections []ir.Connection) connectionGraph {
	graph := make(connectionGraph)
	for _, c := range connections {
		from, to := ir.NormalizeID(c.From), ir.NormalizeID(c.To)
		if from == "" || to == "" {
			continue
		}
		graph[from] = append(graph[from], to)
		if _, ok := graph[to]; !ok {
			graph[to] = []string{}
		}
	}
	for k := range graph {
		sort.Strings(graph[k])
	}
	return graph
}

func hasSelfLoop(node string, graph connectionGraph) bool {
	for _, n := range graph[node] {
		if n == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so the result is stable.
func tarjanSCC(graph connectionGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for n := range graph {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return sccs
}

func cycleSCCToWarning(scc []string, graph connectionGraph) CycleWarning {
	if len(scc) == 1 {
		id := scc[0]
		return CycleWarning{
			Path:    []string{id, id},
			Message: fmt.Sprintf("action connects to itself: %s → %s", id, id),
			Level:   "warning",
		}
	}
	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("connection cycle: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath walks edges inside the SCC from its first member
// until it returns to the start.
func reconstructCyclePath(scc []string, graph connectionGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)
	for {
		visited[current] = true
		next := ""
		for _, n := range graph[current] {
			if members[n] && (!visited[n] || n == start) {
				next = n
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
