// Package api provides the HTTP REST API for Jobrelay.
//
// It exposes the authentication flows (signup, login, refresh, logout),
// user administration, and job posting CRUD to clients.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
