// Package api is the thin adapter translating HTTP verbs to model
// calls, laid out the way the teacher split its controllers: one
// handler per route, a shared JSON response builder, and a logging
// middleware wrapping every handler.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nodeforest/graphd/src/graph"
	"github.com/nodeforest/graphd/src/model"
)

// nodeSpec is one element of the POST /nodes request body.
type nodeSpec struct {
	ID     string  `json:"id"`
	Parent *string `json:"parent"`
}

type insertRequest struct {
	Nodes []nodeSpec `json:"nodes"`
}

type treesResponse struct {
	Trees [][]string `json:"trees"`
}

// Handler exposes the three routes spec.md §6 names, backed by a
// model.Model (either InMemoryModel or PgModel — the handler does not
// know which).
type Handler struct {
	model    model.Model
	response *responseBuilder
}

// NewHandler creates a new Handler.
func NewHandler(m model.Model) *Handler {
	return &Handler{
		model:    m,
		response: newResponseBuilder(),
	}
}

// HandleInsert handles POST /nodes.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.response.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.response.errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Nodes) == 0 {
		h.response.errorResponse(w, "nodes must be a non-empty array", http.StatusBadRequest)
		return
	}

	batch := make([]model.Edge, 0, len(req.Nodes))
	for _, n := range req.Nodes {
		batch = append(batch, model.Edge{NodeID: n.ID, Parent: n.Parent})
	}

	if err := h.model.Insert(r.Context(), batch); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleList handles GET /nodes.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.response.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vertices, err := h.model.Vertices(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if vertices == nil {
		vertices = []string{}
	}

	h.response.jsonResponse(w, vertices, http.StatusOK)
}

// HandleTrees handles GET /nodes/{node_id}/trees.
func (h *Handler) HandleTrees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.response.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	nodeID := r.PathValue("node_id")
	if nodeID == "" {
		h.response.errorResponse(w, "node_id is required", http.StatusBadRequest)
		return
	}

	trees, err := h.model.Trees(r.Context(), nodeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.response.jsonResponse(w, treesResponse{Trees: trees}, http.StatusOK)
}

// writeError maps a core error kind to its HTTP status per spec.md §7.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inconsistent *graph.InconsistentState
	var validation *model.ValidationError
	var notFound *model.NotFound

	switch {
	case errors.As(err, &inconsistent):
		h.response.errorResponse(w, inconsistent.Reason, http.StatusUnprocessableEntity)
	case errors.As(err, &validation):
		h.response.errorResponse(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		h.response.errorResponse(w, notFound.Error(), http.StatusNotFound)
	default:
		h.response.errorResponse(w, "internal error", http.StatusInternalServerError)
	}
}
