// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A path served by router under the requested method is forwarded to it;
// any other method gets 404 instead of chi's 405, so the set of methods a
// route accepts is not disclosed.
//
// Only top-level patterns are compared with the raw request path. Routes
// mounted below a subrouter therefore always answer 404 here.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, route := range router.Routes() {
			if route.Pattern != r.URL.Path {
				continue
			}
			if _, ok := route.Handlers[r.Method]; ok {
				router.ServeHTTP(w, r)
				return
			}
			break
		}

		w.WriteHeader(http.StatusNotFound)
	}
}
