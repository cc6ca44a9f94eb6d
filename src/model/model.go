// Package model defines the domain contract shared by the in-memory
// and Postgres-backed node-graph stores, and the two concrete
// implementations of it.
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Edge is an edge to insert: (NodeID, Parent). A nil Parent is a root
// declaration — NodeID is asserted to exist with no declared parent.
type Edge struct {
	NodeID string
	Parent *string
}

// Model is the contract the HTTP surface consumes, satisfied by both
// InMemoryModel and PgModel.
type Model interface {
	// Insert applies every edge in batch atomically: either all of it
	// is observable afterwards, or none of it is, and an
	// InconsistentState error explains why it was rejected.
	Insert(ctx context.Context, batch []Edge) error

	// Vertices returns every known vertex identifier.
	Vertices(ctx context.Context) ([]string, error)

	// Has reports whether v is a known vertex.
	Has(ctx context.Context, v string) (bool, error)

	// Trees returns every maximal root-to-leaf path containing v,
	// ordered root -> v -> leaf. It returns NotFound if v is unknown.
	Trees(ctx context.Context, v string) ([][]string, error)
}

// NotFound is raised when Trees is asked about an unknown vertex.
type NotFound struct {
	Vertex string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("vertex %q not found", e.Vertex)
}

// ValidationError is raised for a malformed batch. Both models return
// it from Insert (via validateBatch) before touching any state, and the
// HTTP surface maps it to 400.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validateBatch copies and validates a raw batch, collecting every
// malformed entry via multierror rather than failing on the first one,
// so the caller can report every problem in a single response.
func validateBatch(raw []Edge) ([]Edge, error) {
	batch := make([]Edge, len(raw))
	copy(batch, raw)

	var errs error
	for i, e := range batch {
		if e.NodeID == "" {
			errs = multierror.Append(errs, fmt.Errorf("edge %d: id is required and must be non-empty", i))
		}
	}
	if errs != nil {
		return nil, &ValidationError{Err: errs}
	}
	return batch, nil
}
