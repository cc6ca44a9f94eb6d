// Package graph implements a plain directed graph and its acyclic
// specialization, the two building blocks every node-graph backend in
// this module is built from.
package graph

// DiGraph is a directed graph backed by an adjacency map. It carries no
// acyclicity guarantee of its own; that is layered on top by
// AcyclicDiGraph.
//
// The zero value is not usable; construct one with NewDiGraph.
type DiGraph struct {
	out map[string]map[string]struct{}
	v   map[string]struct{}
}

// NewDiGraph returns an empty DiGraph.
func NewDiGraph() *DiGraph {
	return &DiGraph{
		out: make(map[string]map[string]struct{}),
		v:   make(map[string]struct{}),
	}
}

// HasVertex reports whether v has been mentioned by any prior Insert,
// either as a from, a to, or a bare root declaration.
func (g *DiGraph) HasVertex(v string) bool {
	_, ok := g.v[v]
	return ok
}

// OutNeighbors returns the out-neighbors of v. An unknown vertex
// returns an empty, non-nil set rather than an error.
func (g *DiGraph) OutNeighbors(v string) map[string]struct{} {
	n, ok := g.out[v]
	if !ok {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(n))
	for w := range n {
		out[w] = struct{}{}
	}
	return out
}

// Vertices returns every vertex mentioned in the graph.
func (g *DiGraph) Vertices() []string {
	out := make([]string, 0, len(g.v))
	for v := range g.v {
		out = append(out, v)
	}
	return out
}

// Length returns the number of distinct vertices in the graph.
func (g *DiGraph) Length() int {
	return len(g.v)
}

// Insert adds the edge (from, to) to the graph. A to of "" denotes a
// root declaration: from is asserted to exist with no new out-edge. If
// from already has an entry (even the empty sentinel), a root
// declaration leaves it untouched. Insertion is idempotent per pair.
func (g *DiGraph) Insert(from, to string) {
	g.v[from] = struct{}{}

	if to == "" {
		if _, ok := g.out[from]; !ok {
			g.out[from] = make(map[string]struct{})
		}
		return
	}

	g.v[to] = struct{}{}
	if _, ok := g.out[from]; !ok {
		g.out[from] = make(map[string]struct{})
	}
	g.out[from][to] = struct{}{}
}

// Union mutates g by taking, for every vertex of other, the set union
// of out-neighbors, and returns g.
func (g *DiGraph) Union(other *DiGraph) *DiGraph {
	for v := range other.v {
		g.v[v] = struct{}{}
	}
	for v, neighbors := range other.out {
		if _, ok := g.out[v]; !ok {
			g.out[v] = make(map[string]struct{})
		}
		for w := range neighbors {
			g.out[v][w] = struct{}{}
			g.v[w] = struct{}{}
		}
	}
	return g
}

// Reverse returns a fresh graph with every edge flipped. Root
// declarations (to == "") contribute a vertex-only assertion, not an
// edge, and therefore produce no edge in the reverse either.
func (g *DiGraph) Reverse() *DiGraph {
	r := NewDiGraph()
	for v := range g.v {
		r.v[v] = struct{}{}
	}
	for from, neighbors := range g.out {
		if _, ok := r.out[from]; !ok {
			r.out[from] = make(map[string]struct{})
		}
		for to := range neighbors {
			if _, ok := r.out[to]; !ok {
				r.out[to] = make(map[string]struct{})
			}
			r.out[to][from] = struct{}{}
		}
	}
	return r
}

// ShallowCopy returns a new DiGraph whose adjacency map is a fresh copy
// of g's (the vertex identifiers themselves, being strings, need no
// deeper copy).
func (g *DiGraph) ShallowCopy() *DiGraph {
	cp := NewDiGraph()
	for v := range g.v {
		cp.v[v] = struct{}{}
	}
	for from, neighbors := range g.out {
		cp.out[from] = make(map[string]struct{}, len(neighbors))
		for to := range neighbors {
			cp.out[from][to] = struct{}{}
		}
	}
	return cp
}
