package graph

import "context"

// OutFunc reports what the out-neighbors of v would be. It is used to
// run a cycle check against a hypothetical graph — one or more edges
// staged but not yet applied — without mutating anything.
type OutFunc func(v string) map[string]struct{}

// AsyncOutFunc is the asynchronous twin of OutFunc, used when the
// out-neighbors of a vertex can only be discovered through I/O (a
// database round-trip). The persistent backend's cycle check is built
// on this so the DFS can query the database lazily, one vertex at a
// time, inside the transaction holding the write lock.
type AsyncOutFunc func(ctx context.Context, v string) (map[string]struct{}, error)

// AcyclicDiGraph wraps a DiGraph and enforces acyclicity at every
// observable state: after construction, after every successful
// Insert, and after every successful Union. Failed mutations leave the
// underlying graph unchanged.
type AcyclicDiGraph struct {
	g *DiGraph
}

// NewAcyclicDiGraph runs a full cycle check over g and wraps it. It
// fails with InconsistentState on the first back-edge found.
func NewAcyclicDiGraph(g *DiGraph) (*AcyclicDiGraph, error) {
	seeds := g.Vertices()
	if hasCycle(func(v string) map[string]struct{} { return g.OutNeighbors(v) }, seeds) {
		return nil, &InconsistentState{Reason: "graph contains a cycle"}
	}
	return &AcyclicDiGraph{g: g}, nil
}

// newAcyclicDiGraphUnchecked wraps g without re-running the cycle
// check. Used for Reverse(), where the reversal of a DAG is provably a
// DAG, and for internal construction where the caller has already
// validated the result.
func newAcyclicDiGraphUnchecked(g *DiGraph) *AcyclicDiGraph {
	return &AcyclicDiGraph{g: g}
}

// Underlying exposes the wrapped DiGraph for read-only composition
// (path enumeration, reverse-index rebuilds).
func (a *AcyclicDiGraph) Underlying() *DiGraph {
	return a.g
}

func (a *AcyclicDiGraph) HasVertex(v string) bool                    { return a.g.HasVertex(v) }
func (a *AcyclicDiGraph) OutNeighbors(v string) map[string]struct{}  { return a.g.OutNeighbors(v) }
func (a *AcyclicDiGraph) Vertices() []string                         { return a.g.Vertices() }
func (a *AcyclicDiGraph) Length() int                                { return a.g.Length() }

// Insert adds the edge (from, to). It is a no-op if the edge already
// exists. With strict (the default for graphs that must stay acyclic),
// it runs a cycle check against the hypothetical graph where out(from)
// gains to, and rejects with InconsistentState if a cycle would
// result — the underlying DiGraph is left untouched on rejection. With
// strict=false the check is skipped entirely; this is how the derived
// reverse index is kept in sync without re-validating it (reversal of
// a DAG is a DAG, so the reverse index cannot itself introduce a
// cycle that matters to its own invariants).
func (a *AcyclicDiGraph) Insert(from, to string, strict bool) error {
	if to != "" {
		if _, ok := a.g.OutNeighbors(from)[to]; ok {
			return nil
		}
	}

	if strict {
		hypothetical := func(v string) map[string]struct{} {
			n := a.g.OutNeighbors(v)
			if v == from && to != "" {
				n[to] = struct{}{}
			}
			return n
		}
		if hasCycle(hypothetical, []string{from}) {
			return newCycleError(from, to)
		}
	}

	a.g.Insert(from, to)
	return nil
}

// Union mutates a by taking the union of out-functions of a and other.
// With strict, it runs a cycle check on the combined out-function,
// seeded from every vertex of other whose out-neighbor set is
// non-empty (a vertex introduced only as a child inside other has no
// outgoing edges there and cannot itself start a new cycle). On
// rejection the underlying DiGraph is left untouched.
func (a *AcyclicDiGraph) Union(other *DiGraph, strict bool) error {
	if strict {
		combined := func(v string) map[string]struct{} {
			n := a.g.OutNeighbors(v)
			for w := range other.OutNeighbors(v) {
				n[w] = struct{}{}
			}
			return n
		}
		seeds := make([]string, 0)
		for _, v := range other.Vertices() {
			if len(other.OutNeighbors(v)) > 0 {
				seeds = append(seeds, v)
			}
		}
		if hasCycle(combined, seeds) {
			return newBatchCycleError()
		}
	}

	a.g.Union(other)
	return nil
}

// Reverse returns the reversal of the underlying graph, rewrapped as
// acyclic without re-running the cycle check: reversal of a DAG is
// always a DAG.
func (a *AcyclicDiGraph) Reverse() *AcyclicDiGraph {
	return newAcyclicDiGraphUnchecked(a.g.Reverse())
}

// Merge copies the larger of a and b and unions the smaller into the
// copy, returning the result. It is non-destructive with respect to
// the smaller input and destructive to a copy (never the original) of
// the larger.
func Merge(a, b *AcyclicDiGraph) (*AcyclicDiGraph, error) {
	bigger, smaller := a, b
	if b.Length() > a.Length() {
		bigger, smaller = b, a
	}
	merged := newAcyclicDiGraphUnchecked(bigger.g.ShallowCopy())
	if err := merged.Union(smaller.g, true); err != nil {
		return nil, err
	}
	return merged, nil
}

// hasCycle is the key algorithm: a recursive DFS parameterized by an
// out-function f and a seed set. One shared seen set is mutated on the
// way down and restored on the way back up, which yields correct
// per-path cycle detection rather than global reachability — the same
// vertex reachable via two disjoint paths is not, by itself, a cycle.
// Iteration order over f(s) is unspecified; the algorithm is correct
// for any deterministic order. A self-loop (v, v) is caught because v
// is its own first neighbor and is already marked seen.
func hasCycle(f OutFunc, seeds []string) bool {
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		if visit(f, s, seen) {
			return true
		}
	}
	return false
}

// visit marks s seen, walks f(s), and unmarks s on the way back up —
// the mark/unmark discipline that makes this per-path cycle detection
// rather than global reachability.
func visit(f OutFunc, s string, seen map[string]struct{}) bool {
	seen[s] = struct{}{}
	for w := range f(s) {
		if _, ok := seen[w]; ok {
			return true
		}
		seen[w] = struct{}{}
		if visit(f, w, seen) {
			return true
		}
		delete(seen, w)
	}
	delete(seen, s)
	return false
}

// HasCycleAsync is the asynchronous twin of hasCycle: f's result is
// awaited (here, simply returned with an error) rather than computed
// in memory, so the persistent backend can query the database lazily
// while the DFS recurses. Any error from f aborts the search and
// propagates to the caller.
func HasCycleAsync(ctx context.Context, f AsyncOutFunc, seeds []string) (bool, error) {
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		cyclic, err := visitAsync(ctx, f, s, seen)
		if err != nil {
			return false, err
		}
		if cyclic {
			return true, nil
		}
	}
	return false, nil
}

func visitAsync(ctx context.Context, f AsyncOutFunc, s string, seen map[string]struct{}) (bool, error) {
	seen[s] = struct{}{}
	neighbors, err := f(ctx, s)
	if err != nil {
		return false, err
	}
	for w := range neighbors {
		if _, ok := seen[w]; ok {
			return true, nil
		}
		seen[w] = struct{}{}
		cyclic, err := visitAsync(ctx, f, w, seen)
		if err != nil {
			return false, err
		}
		if cyclic {
			return true, nil
		}
		delete(seen, w)
	}
	delete(seen, s)
	return false, nil
}
