// Package ws implements the WebSocket hub for jolt-server.
//
// Hub manages a set of connected clients and broadcasts the current store
// snapshot to all of them on a configurable interval (default 5s).
//
// New(store, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker; it blocks until ctx is
// cancelled, then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// snapshot immediately on connect, then streams updates on each tick. The
// client's auth.Profile is taken from the request context, so mount the hub
// behind auth.Middleware.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot",
//	  "data":  { /* same schema as GET /api/v1/snapshot */ }
//	}
//
// The upgrader accepts all origins. The endpoint is mounted at /ws/stream.
package ws
