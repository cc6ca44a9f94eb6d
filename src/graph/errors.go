package graph

import "fmt"

// InconsistentState is raised whenever a mutation would introduce a
// cycle — directly, transitively, or within a single batch. It always
// carries a human-readable reason; for a single offending edge the
// reason names it.
type InconsistentState struct {
	Reason string
}

func (e *InconsistentState) Error() string {
	return e.Reason
}

func newCycleError(from, to string) *InconsistentState {
	if to == "" {
		return &InconsistentState{Reason: fmt.Sprintf("vertex %q would be its own ancestor", from)}
	}
	return &InconsistentState{Reason: fmt.Sprintf("edge (%s -> %s) would create a cycle", from, to)}
}

func newBatchCycleError() *InconsistentState {
	return &InconsistentState{Reason: "batch would create a cycle"}
}
