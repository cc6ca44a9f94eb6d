// Package paths implements the root-to-leaf path enumeration shared by
// both node-graph backends: given an out-function and a start vertex,
// produce every maximal simple path through it.
package paths

import "context"

// OutFunc reports the out-neighbors of v in the graph being walked.
type OutFunc func(v string) map[string]struct{}

// AsyncOutFunc is the asynchronous twin of OutFunc, used when
// out-neighbors can only be discovered through a database round-trip.
type AsyncOutFunc func(ctx context.Context, v string) (map[string]struct{}, error)

// Enumerate returns every maximal simple path starting at v in the
// graph induced by f. The DFS carries the current path as a slice and
// recurses into every neighbor with its own copy of that path extended
// by the neighbor; when f(current) is empty the path is complete and
// is added to the result.
// Because the graph is acyclic, no visited-set is needed: a DAG has no
// infinite descending chain, so the recursion always terminates, and
// simple paths in a DAG are unique by their vertex sequence, so no
// duplicates are produced.
func Enumerate(f OutFunc, v string) [][]string {
	var out [][]string
	stack := []string{v}
	walk(f, stack, &out)
	return out
}

func walk(f OutFunc, stack []string, out *[][]string) {
	current := stack[len(stack)-1]
	neighbors := f(current)
	if len(neighbors) == 0 {
		snapshot := make([]string, len(stack))
		copy(snapshot, stack)
		*out = append(*out, snapshot)
		return
	}
	for w := range neighbors {
		next := make([]string, len(stack)+1)
		copy(next, stack)
		next[len(stack)] = w
		walk(f, next, out)
	}
}

// EnumerateAsync is the asynchronous twin of Enumerate, used by the
// Postgres backend so each out-neighbor lookup can be a database query
// run on the connection already holding the transaction's snapshot.
func EnumerateAsync(ctx context.Context, f AsyncOutFunc, v string) ([][]string, error) {
	var out [][]string
	if err := walkAsync(ctx, f, []string{v}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkAsync(ctx context.Context, f AsyncOutFunc, stack []string, out *[][]string) error {
	current := stack[len(stack)-1]
	neighbors, err := f(ctx, current)
	if err != nil {
		return err
	}
	if len(neighbors) == 0 {
		snapshot := make([]string, len(stack))
		copy(snapshot, stack)
		*out = append(*out, snapshot)
		return nil
	}
	for w := range neighbors {
		if err := walkAsync(ctx, f, append(append([]string{}, stack...), w), out); err != nil {
			return err
		}
	}
	return nil
}

// Trees composes descendant and ancestor path enumerations into the
// full set of root-to-leaf paths through v: every ancestor path
// [v, a_k, ..., a_1] is reversed and its trailing v dropped to form
// [a_1, ..., a_k], then concatenated with every descendant path. The
// result size is |ancestorPaths| x |descendantPaths|.
func Trees(descendantPaths, ancestorPaths [][]string, v string) [][]string {
	prefixes := make([][]string, 0, len(ancestorPaths))
	for _, ap := range ancestorPaths {
		reversed := make([]string, len(ap))
		for i, x := range ap {
			reversed[len(ap)-1-i] = x
		}
		prefixes = append(prefixes, reversed[:len(reversed)-1])
	}
	if len(prefixes) == 0 {
		prefixes = [][]string{{}}
	}

	result := make([][]string, 0, len(prefixes)*len(descendantPaths))
	for _, prefix := range prefixes {
		for _, dp := range descendantPaths {
			tree := make([]string, 0, len(prefix)+len(dp))
			tree = append(tree, prefix...)
			tree = append(tree, dp...)
			result = append(result, tree)
		}
	}
	return result
}
