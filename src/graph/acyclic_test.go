package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcyclicDiGraph_InsertRejectsSelfLoop(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	err = a.Insert("1", "1", true)
	var ics *InconsistentState
	assert.ErrorAs(t, err, &ics)
	assert.False(t, a.HasVertex("1"))
}

func TestAcyclicDiGraph_InsertRejectsDirectCycle(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	require.NoError(t, a.Insert("2", "1", true))

	err = a.Insert("1", "2", true)
	var ics *InconsistentState
	assert.ErrorAs(t, err, &ics)

	// Atomicity: state unchanged after rejection.
	assert.Empty(t, a.OutNeighbors("1"))
	assert.ElementsMatch(t, []string{"1"}, keys(a.OutNeighbors("2")))
}

func TestAcyclicDiGraph_InsertRejectsTransitiveCycle(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	require.NoError(t, a.Insert("1", "2", true))
	require.NoError(t, a.Insert("2", "3", true))

	err = a.Insert("3", "1", true)
	var ics *InconsistentState
	assert.ErrorAs(t, err, &ics)
}

func TestAcyclicDiGraph_Insert_Idempotent(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	require.NoError(t, a.Insert("a", "b", true))
	require.NoError(t, a.Insert("a", "b", true))

	assert.ElementsMatch(t, []string{"b"}, keys(a.OutNeighbors("a")))
}

func TestAcyclicDiGraph_Union_IntraBatchCycleRejected(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	// The cycle 2->4->3->2 is entirely within the batch itself, with no
	// edge touching the live graph at all.
	batch := NewDiGraph()
	batch.Insert("2", "4")
	batch.Insert("4", "3")
	batch.Insert("3", "2")

	err = a.Union(batch, true)
	var ics *InconsistentState
	assert.ErrorAs(t, err, &ics)
	assert.Equal(t, 0, a.Length())
}

func TestAcyclicDiGraph_Union_RejectsCycleAgainstLiveGraph(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)
	require.NoError(t, a.Insert("0", "1", true))

	batch := NewDiGraph()
	batch.Insert("1", "0")

	err = a.Union(batch, true)
	var ics *InconsistentState
	assert.ErrorAs(t, err, &ics)
	assert.Empty(t, a.OutNeighbors("1"))
}

func TestAcyclicDiGraph_Union_AppliesWhenAcyclic(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	batch := NewDiGraph()
	batch.Insert("0", "1")
	batch.Insert("1", "2")

	require.NoError(t, a.Union(batch, true))
	assert.ElementsMatch(t, []string{"1"}, keys(a.OutNeighbors("0")))
	assert.ElementsMatch(t, []string{"2"}, keys(a.OutNeighbors("1")))
}

func TestAcyclicDiGraph_ChildOnlyVertexNeverSeeds(t *testing.T) {
	// A vertex introduced only as a batch child (non-empty in-degree,
	// empty out-degree inside the batch) must never be required as a
	// DFS seed: it has no outgoing edges in the batch and so cannot
	// itself start a cycle. SPEC_FULL.md §3 codifies this.
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)

	batch := NewDiGraph()
	batch.Insert("0", "1")
	batch.Insert("0", "2")
	// "1" and "2" have empty out-neighbor sets in batch and must be
	// excluded from the seed set without affecting correctness.

	var seeds []string
	for _, v := range batch.Vertices() {
		if len(batch.OutNeighbors(v)) > 0 {
			seeds = append(seeds, v)
		}
	}
	assert.ElementsMatch(t, []string{"0"}, seeds)
	require.NoError(t, a.Union(batch, true))
}

func TestAcyclicDiGraph_Reverse_NoRecheck(t *testing.T) {
	a, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)
	require.NoError(t, a.Insert("a", "b", true))

	r := a.Reverse()
	assert.ElementsMatch(t, []string{"a"}, keys(r.OutNeighbors("b")))
}

func TestMerge_CopiesLargerUnionsSmaller(t *testing.T) {
	big, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)
	require.NoError(t, big.Insert("a", "b", true))
	require.NoError(t, big.Insert("b", "c", true))

	small, err := NewAcyclicDiGraph(NewDiGraph())
	require.NoError(t, err)
	require.NoError(t, small.Insert("x", "y", true))

	merged, err := Merge(big, small)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"b"}, keys(merged.OutNeighbors("a")))
	assert.ElementsMatch(t, []string{"y"}, keys(merged.OutNeighbors("x")))

	// small is untouched.
	assert.Empty(t, small.OutNeighbors("a"))
}

func TestHasCycleAsync_DetectsCycle(t *testing.T) {
	edges := map[string]map[string]struct{}{
		"1": {"2": {}},
		"2": {"3": {}},
		"3": {"1": {}},
	}
	f := func(_ context.Context, v string) (map[string]struct{}, error) {
		return edges[v], nil
	}

	cyclic, err := HasCycleAsync(context.Background(), f, []string{"1"})
	require.NoError(t, err)
	assert.True(t, cyclic)
}

func TestHasCycleAsync_NoCycle(t *testing.T) {
	edges := map[string]map[string]struct{}{
		"1": {"2": {}},
		"2": {"3": {}},
	}
	f := func(_ context.Context, v string) (map[string]struct{}, error) {
		return edges[v], nil
	}

	cyclic, err := HasCycleAsync(context.Background(), f, []string{"1"})
	require.NoError(t, err)
	assert.False(t, cyclic)
}
