package model

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodeforest/graphd/src/graph"
	"github.com/nodeforest/graphd/src/paths"
)

// PgModel is the node-graph store persisted in Postgres: one row per
// vertex, vertex_out holding the set of direct children. It satisfies
// the exact same Model contract as InMemoryModel; concurrency is
// delegated to the database via a ROW EXCLUSIVE table lock held for
// the duration of every mutation (see spec.md §5).
type PgModel struct {
	pool *pgxpool.Pool
}

// NewPgModel wraps an already-opened pool. The caller owns the pool's
// lifetime (opened once at startup, closed at shutdown — see
// src/pgpool and src/cmd/serve.go).
func NewPgModel(pool *pgxpool.Pool) *PgModel {
	return &PgModel{pool: pool}
}

func (m *PgModel) Insert(ctx context.Context, raw []Edge) error {
	batch, err := validateBatch(raw)
	if err != nil {
		return err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgmodel: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE graph IN ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("pgmodel: lock graph: %w", err)
	}

	descendants := func(ctx context.Context, v string) (map[string]struct{}, error) {
		return descendantsTx(ctx, tx, v)
	}

	if len(batch) == 1 {
		if err := m.insertOne(ctx, tx, batch[0], descendants); err != nil {
			return err
		}
	} else {
		if err := m.insertBatch(ctx, tx, batch, descendants); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgmodel: commit: %w", err)
	}
	return nil
}

func (m *PgModel) insertOne(ctx context.Context, tx pgx.Tx, e Edge, descendants graph.AsyncOutFunc) error {
	from, to := normalize(e)

	f := func(ctx context.Context, v string) (map[string]struct{}, error) {
		n, err := descendants(ctx, v)
		if err != nil {
			return nil, err
		}
		if v == from && to != "" {
			n[to] = struct{}{}
		}
		return n, nil
	}

	cyclic, err := graph.HasCycleAsync(ctx, f, []string{from})
	if err != nil {
		return err
	}
	if cyclic {
		return newPgCycleError(from, to)
	}

	return applyEdge(ctx, tx, from, to)
}

func (m *PgModel) insertBatch(ctx context.Context, tx pgx.Tx, batch []Edge, descendants graph.AsyncOutFunc) error {
	scratch, _ := graph.NewAcyclicDiGraph(graph.NewDiGraph())
	scratchRaw := graph.NewDiGraph()
	for _, e := range batch {
		from, to := normalize(e)
		if err := scratch.Insert(from, to, true); err != nil {
			return err
		}
		scratchRaw.Insert(from, to)
	}

	f := func(ctx context.Context, v string) (map[string]struct{}, error) {
		n, err := descendants(ctx, v)
		if err != nil {
			return nil, err
		}
		for w := range scratchRaw.OutNeighbors(v) {
			n[w] = struct{}{}
		}
		return n, nil
	}

	seeds := make([]string, 0)
	for _, v := range scratchRaw.Vertices() {
		if len(scratchRaw.OutNeighbors(v)) > 0 {
			seeds = append(seeds, v)
		}
	}

	cyclic, err := graph.HasCycleAsync(ctx, f, seeds)
	if err != nil {
		return err
	}
	if cyclic {
		return &graph.InconsistentState{Reason: "batch would create a cycle"}
	}

	for _, e := range batch {
		from, to := normalize(e)
		if err := applyEdge(ctx, tx, from, to); err != nil {
			return err
		}
	}
	return nil
}

// applyEdge upserts a single edge. A root declaration inserts an empty
// out-array row, doing nothing on conflict. A non-root edge inserts
// (from, [to]) or, on conflict, appends to preserve set semantics and
// guarantee to is present exactly once; it also materializes a bare
// row for to if none exists yet, so has(to) agrees between backends
// even when to is only ever seen as a child (see SPEC_FULL.md §3).
func applyEdge(ctx context.Context, tx pgx.Tx, from, to string) error {
	if to == "" {
		_, err := tx.Exec(ctx, `
			INSERT INTO graph (vertex, vertex_out) VALUES ($1, '{}')
			ON CONFLICT (vertex) DO NOTHING`, from)
		if err != nil {
			return fmt.Errorf("pgmodel: insert root %s: %w", from, err)
		}
		return nil
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO graph (vertex, vertex_out) VALUES ($1, ARRAY[$2::text])
		ON CONFLICT (vertex) DO UPDATE
			SET vertex_out = array_append(array_remove(graph.vertex_out, $2::text), $2::text)`,
		from, to); err != nil {
		return fmt.Errorf("pgmodel: upsert edge (%s -> %s): %w", from, to, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO graph (vertex, vertex_out) VALUES ($1, '{}')
		ON CONFLICT (vertex) DO NOTHING`, to); err != nil {
		return fmt.Errorf("pgmodel: materialize child row %s: %w", to, err)
	}
	return nil
}

func descendantsTx(ctx context.Context, tx pgx.Tx, v string) (map[string]struct{}, error) {
	var children []string
	err := tx.QueryRow(ctx, `SELECT vertex_out FROM graph WHERE vertex = $1`, v).Scan(&children)
	if err == pgx.ErrNoRows {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pgmodel: descendants(%s): %w", v, err)
	}
	out := make(map[string]struct{}, len(children))
	for _, c := range children {
		out[c] = struct{}{}
	}
	return out, nil
}

func newPgCycleError(from, to string) *graph.InconsistentState {
	if to == "" {
		return &graph.InconsistentState{Reason: fmt.Sprintf("vertex %q would be its own ancestor", from)}
	}
	return &graph.InconsistentState{Reason: fmt.Sprintf("edge (%s -> %s) would create a cycle", from, to)}
}

func (m *PgModel) Vertices(ctx context.Context) ([]string, error) {
	rows, err := m.pool.Query(ctx, `SELECT vertex FROM graph`)
	if err != nil {
		return nil, fmt.Errorf("pgmodel: vertices: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("pgmodel: scan vertex: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (m *PgModel) Has(ctx context.Context, v string) (bool, error) {
	var exists bool
	err := m.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM graph WHERE vertex = $1)`, v).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgmodel: has(%s): %w", v, err)
	}
	return exists, nil
}

func (m *PgModel) Trees(ctx context.Context, v string) ([][]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pgmodel: acquire: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("pgmodel: begin read tx: %w", err)
	}
	defer tx.Rollback(ctx)

	exists, err := existsTx(ctx, tx, v)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFound{Vertex: v}
	}

	descendantPaths, err := paths.EnumerateAsync(ctx, func(ctx context.Context, x string) (map[string]struct{}, error) {
		return descendantsTx(ctx, tx, x)
	}, v)
	if err != nil {
		return nil, err
	}

	ancestorPaths, err := paths.EnumerateAsync(ctx, func(ctx context.Context, x string) (map[string]struct{}, error) {
		return ancestorsTx(ctx, tx, x)
	}, v)
	if err != nil {
		return nil, err
	}

	return paths.Trees(descendantPaths, ancestorPaths, v), nil
}

func existsTx(ctx context.Context, tx pgx.Tx, v string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM graph WHERE vertex = $1)`, v).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgmodel: exists(%s): %w", v, err)
	}
	return exists, nil
}

// ancestorsTx uses the GIN-indexed containment predicate to find every
// vertex whose vertex_out contains v.
func ancestorsTx(ctx context.Context, tx pgx.Tx, v string) (map[string]struct{}, error) {
	rows, err := tx.Query(ctx, `SELECT vertex FROM graph WHERE vertex_out @> ARRAY[$1::text]`, v)
	if err != nil {
		return nil, fmt.Errorf("pgmodel: ancestors(%s): %w", v, err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("pgmodel: scan ancestor: %w", err)
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}
