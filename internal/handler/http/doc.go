// Package http implements the HTTP transport of the PawRes account API.
//
// Handler wires the chi router: request tracing, access logging and the
// session cookie are handled by middleware, every route is guarded by its
// access rule, and the sign-in routes are rate limited per client address
// before requests reach the service layer.
package http
