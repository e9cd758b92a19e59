package server

// Server is the lifecycle contract of the process.
//
// RunServer blocks until a termination signal arrives and everything has
// stopped. Shutdown may be called to stop it earlier.
type Server interface {
	RunServer()
	Shutdown()
}
