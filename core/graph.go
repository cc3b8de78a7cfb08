package core

// Graph computes execution order over a set of named, interdependent units.
// Nodes may be added in any order; missing dependencies are only surfaced when
// an ordering is requested.
type Graph struct {
	deps  map[string][]string
	order []string // registration order, used as the tie-break
}

func NewGraph() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// Add registers a node and its dependency list. Re-adding a name replaces its
// dependencies but keeps its original position in the registration order.
func (g *Graph) Add(name string, deps []string) {
	if _, exists := g.deps[name]; !exists {
		g.order = append(g.order, name)
	}
	g.deps[name] = append([]string(nil), deps...)
}

func (g *Graph) Has(name string) bool {
	_, ok := g.deps[name]
	return ok
}

func (g *Graph) Len() int {
	return len(g.deps)
}

// TopologicalOrder returns the nodes so that every dependency appears strictly
// before its dependents. Nodes with no ordering constraint between them keep
// their registration order, which makes the output deterministic.
//
// Returns *CyclicDependencyError or *MissingDependencyError; never a partial
// order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	visited := make(map[string]bool, len(g.deps))
	visiting := make(map[string]bool, len(g.deps))
	var path []string
	out := make([]string, 0, len(g.deps))

	var visit func(name string) error
	visit = func(name string) error {
		if visiting[name] {
			return &CyclicDependencyError{Cycle: cycleFrom(path, name)}
		}
		if visited[name] {
			return nil
		}
		visiting[name] = true
		path = append(path, name)

		for _, dep := range g.deps[name] {
			if _, ok := g.deps[dep]; !ok {
				return &MissingDependencyError{Module: name, Dependency: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		visiting[name] = false
		visited[name] = true
		out = append(out, name)
		return nil
	}

	for _, name := range g.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReverseOrder is the exact reverse of TopologicalOrder; dependents come
// before their dependencies. Used for shutdown.
func (g *Graph) ReverseOrder() ([]string, error) {
	forward, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	n := len(forward)
	reversed := make([]string, n)
	for i, name := range forward {
		reversed[n-1-i] = name
	}
	return reversed, nil
}

// cycleFrom slices the DFS path from the first occurrence of name and closes
// the loop, e.g. [a b c] revisiting b yields [b c b].
func cycleFrom(path []string, name string) []string {
	start := 0
	for i, p := range path {
		if p == name {
			start = i
			break
		}
	}
	cycle := append([]string(nil), path[start:]...)
	return append(cycle, name)
}
