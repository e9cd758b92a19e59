// Package server runs the HTTP server and the background workers of PawRes,
// including signal handling and graceful shutdown.
package server
