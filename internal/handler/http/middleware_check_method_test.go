// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// buildRouter creates a minimal chi.Mux without the Handler middleware stack.
func buildRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1.0.0"))
	})
	router.Post("/api/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	router.Delete("/api/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Route("/api/admin", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func TestCheckHTTPMethod_TableTest(t *testing.T) {
	router := buildRouter()

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/api/version", http.StatusOK},
		{http.MethodPost, "/api/session", http.StatusCreated},
		{http.MethodDelete, "/api/session", http.StatusNoContent},
		{http.MethodGet, "/api/admin/stats", http.StatusOK},

		// метод не зарегистрирован: 404 вместо 405
		{http.MethodPost, "/api/version", http.StatusNotFound},
		{http.MethodGet, "/api/session", http.StatusNotFound},
		{http.MethodPut, "/api/session", http.StatusNotFound},
		{http.MethodPost, "/api/admin/stats", http.StatusNotFound},

		{http.MethodGet, "/api/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestCheckHTTPMethod_PassThroughBody(t *testing.T) {
	router := buildRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, "1.0.0", rr.Body.String())
}

func TestCheckHTTPMethod_NotFoundHasEmptyBody(t *testing.T) {
	router := buildRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/session", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Body.String())
}
