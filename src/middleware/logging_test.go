package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware_CapturesStatusCode(t *testing.T) {
	var logged []string
	sink := funcr.NewJSON(func(obj string) { logged = append(logged, obj) }, funcr.Options{})
	m := NewLoggingMiddleware(sink)

	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}

	req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
	rec := httptest.NewRecorder()

	m.LogRequest(next)(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, logged, 1)
}

func TestLoggingMiddleware_DefaultsStatusToOKWhenUnset(t *testing.T) {
	sink := funcr.NewJSON(func(obj string) {}, funcr.Options{})
	m := NewLoggingMiddleware(sink)

	next := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}

	req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
	rec := httptest.NewRecorder()

	m.LogRequest(next)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
