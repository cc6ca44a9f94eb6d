package api

import (
	"net/http"

	"github.com/go-logr/logr"

	"github.com/nodeforest/graphd/src/middleware"
	"github.com/nodeforest/graphd/src/model"
)

// Router sets up all the routes for the node-graph HTTP surface.
type Router struct {
	handler           *Handler
	loggingMiddleware *middleware.LoggingMiddleware
}

// NewRouter creates a new router backed by m.
func NewRouter(m model.Model, log logr.Logger) *Router {
	return &Router{
		handler:           NewHandler(m),
		loggingMiddleware: middleware.NewLoggingMiddleware(log),
	}
}

// RegisterRoutes registers every route with mux, per spec.md §6:
//
//	POST /nodes                     insert a batch
//	GET  /nodes                     list every vertex
//	GET  /nodes/{node_id}/trees     every root-to-leaf path through node_id
func (r *Router) RegisterRoutes(mux *http.ServeMux) {
	withLogging := func(h http.HandlerFunc) http.HandlerFunc {
		return r.loggingMiddleware.LogRequest(h)
	}

	mux.HandleFunc("POST /nodes", withLogging(r.handler.HandleInsert))
	mux.HandleFunc("GET /nodes", withLogging(r.handler.HandleList))
	mux.HandleFunc("GET /nodes/{node_id}/trees", withLogging(r.handler.HandleTrees))
}
