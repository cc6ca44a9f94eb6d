package model

import (
	"context"
	"sync"

	"github.com/nodeforest/graphd/src/graph"
	"github.com/nodeforest/graphd/src/paths"
)

// InMemoryModel is the node-graph store backed by two AcyclicDiGraphs,
// g and gR, with the invariant gR = reverse(g) at every observable
// state. gR is maintained (not recomputed on every read) because
// ancestor enumeration must be cheap; its inserts run with
// strict=false since it is a derived index, not a constraint of its
// own.
//
// net/http serves requests on concurrent goroutines, so every
// top-level call takes mu: Insert exclusively, the readers shared. This
// makes each call atomic with respect to every other.
type InMemoryModel struct {
	mu sync.RWMutex
	g  *graph.AcyclicDiGraph
	gR *graph.AcyclicDiGraph
}

// NewInMemoryModel returns an empty model.
func NewInMemoryModel() *InMemoryModel {
	g, _ := graph.NewAcyclicDiGraph(graph.NewDiGraph())
	gR, _ := graph.NewAcyclicDiGraph(graph.NewDiGraph())
	return &InMemoryModel{g: g, gR: gR}
}

func (m *InMemoryModel) Insert(_ context.Context, raw []Edge) error {
	batch, err := validateBatch(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(batch) == 1 {
		return m.insertOne(batch[0])
	}
	return m.insertBatch(batch)
}

func (m *InMemoryModel) insertOne(e Edge) error {
	from, to := normalize(e)

	// The forward check runs first: a rejection here must leave both
	// graphs untouched.
	if err := m.g.Insert(from, to, true); err != nil {
		return err
	}
	if to != "" {
		_ = m.gR.Insert(to, from, false)
	} else {
		_ = m.gR.Insert(from, "", false)
	}
	return nil
}

func (m *InMemoryModel) insertBatch(batch []Edge) error {
	scratch, _ := graph.NewAcyclicDiGraph(graph.NewDiGraph())
	scratchRaw := graph.NewDiGraph()
	for _, e := range batch {
		from, to := normalize(e)
		if err := scratch.Insert(from, to, true); err != nil {
			return err
		}
		scratchRaw.Insert(from, to)
	}

	if err := m.g.Union(scratchRaw, true); err != nil {
		return err
	}
	_ = m.gR.Union(scratchRaw.Reverse(), false)
	return nil
}

// normalize turns an Edge into the (from, to) pair the graph package
// expects, where to == "" denotes a root declaration.
func normalize(e Edge) (from, to string) {
	if e.Parent == nil {
		return e.NodeID, ""
	}
	return *e.Parent, e.NodeID
}

func (m *InMemoryModel) Vertices(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.Vertices(), nil
}

func (m *InMemoryModel) Has(_ context.Context, v string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.g.HasVertex(v), nil
}

func (m *InMemoryModel) Trees(_ context.Context, v string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.g.HasVertex(v) {
		return nil, &NotFound{Vertex: v}
	}

	descendantPaths := paths.Enumerate(func(x string) map[string]struct{} { return m.g.OutNeighbors(x) }, v)
	ancestorPaths := paths.Enumerate(func(x string) map[string]struct{} { return m.gR.OutNeighbors(x) }, v)

	return paths.Trees(descendantPaths, ancestorPaths, v), nil
}
