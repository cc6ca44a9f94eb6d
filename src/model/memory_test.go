package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryModel_InsertSingle_RootAndChild(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, []Edge{{NodeID: "root"}}))
	require.NoError(t, m.Insert(ctx, []Edge{{NodeID: "child", Parent: strp("root")}}))

	has, err := m.Has(ctx, "child")
	require.NoError(t, err)
	assert.True(t, has)

	vs, err := m.Vertices(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root", "child"}, vs)
}

func TestInMemoryModel_InsertSingle_RejectsCycle(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, []Edge{{NodeID: "a"}}))
	require.NoError(t, m.Insert(ctx, []Edge{{NodeID: "b", Parent: strp("a")}}))

	err := m.Insert(ctx, []Edge{{NodeID: "a", Parent: strp("b")}})
	assert.Error(t, err)

	// Rejection must not have left "b" pointing anywhere new, nor
	// broken the gR mirror: b's only ancestor path is still [a].
	trees, terr := m.Trees(ctx, "b")
	require.NoError(t, terr)
	assert.ElementsMatch(t, [][]string{{"a", "b"}}, trees)
}

func TestInMemoryModel_InsertBatch_AtomicOnRejection(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, []Edge{{NodeID: "root"}}))

	// Each edge is fine on its own, but together root -> x and x -> root
	// close a cycle inside the batch, so the whole batch is rejected.
	err := m.Insert(ctx, []Edge{
		{NodeID: "x", Parent: strp("root")},
		{NodeID: "root", Parent: strp("x")},
	})
	assert.Error(t, err)

	has, herr := m.Has(ctx, "x")
	require.NoError(t, herr)
	assert.False(t, has, "atomicity: x must not exist after the batch was rejected")
}

func TestInMemoryModel_InsertBatch_IntraBatchCycleRejected(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	err := m.Insert(ctx, []Edge{
		{NodeID: "a", Parent: strp("c")},
		{NodeID: "b", Parent: strp("a")},
		{NodeID: "c", Parent: strp("b")},
	})
	assert.Error(t, err)

	vs, verr := m.Vertices(ctx)
	require.NoError(t, verr)
	assert.Empty(t, vs)
}

func TestInMemoryModel_InsertBatch_EquivalentToSequentialInsertOne(t *testing.T) {
	batch := []Edge{
		{NodeID: "root"},
		{NodeID: "a", Parent: strp("root")},
		{NodeID: "b", Parent: strp("root")},
		{NodeID: "c", Parent: strp("a")},
	}

	viaBatch := NewInMemoryModel()
	require.NoError(t, viaBatch.Insert(context.Background(), batch))

	viaSequential := NewInMemoryModel()
	for _, e := range batch {
		require.NoError(t, viaSequential.Insert(context.Background(), []Edge{e}))
	}

	vb, err := viaBatch.Vertices(context.Background())
	require.NoError(t, err)
	vs, err := viaSequential.Vertices(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, vs, vb)

	tb, err := viaBatch.Trees(context.Background(), "c")
	require.NoError(t, err)
	ts, err := viaSequential.Trees(context.Background(), "c")
	require.NoError(t, err)
	assert.ElementsMatch(t, ts, tb)
}

func TestInMemoryModel_Insert_Idempotent(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	e := []Edge{{NodeID: "child", Parent: strp("root")}}
	require.NoError(t, m.Insert(ctx, e))
	require.NoError(t, m.Insert(ctx, e))

	vs, err := m.Vertices(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root", "child"}, vs)
}

func TestInMemoryModel_Trees_UnknownVertex(t *testing.T) {
	m := NewInMemoryModel()
	_, err := m.Trees(context.Background(), "ghost")

	var nf *NotFound
	assert.ErrorAs(t, err, &nf)
}

func TestInMemoryModel_Trees_DiamondComposition(t *testing.T) {
	m := NewInMemoryModel()
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, []Edge{
		{NodeID: "root"},
		{NodeID: "left", Parent: strp("root")},
		{NodeID: "right", Parent: strp("root")},
		{NodeID: "mid", Parent: strp("left")},
		{NodeID: "mid", Parent: strp("right")},
		{NodeID: "leaf", Parent: strp("mid")},
	}))

	trees, err := m.Trees(ctx, "mid")
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]string{
		{"root", "left", "mid", "leaf"},
		{"root", "right", "mid", "leaf"},
	}, trees)
}

func TestInMemoryModel_Insert_ValidationRejectsEmptyID(t *testing.T) {
	m := NewInMemoryModel()
	err := m.Insert(context.Background(), []Edge{{NodeID: ""}})

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
