// Package api provides the HTTP REST API for Casavia Core.
//
// It exposes authentication, account security and property listing
// endpoints to web and mobile clients.
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
