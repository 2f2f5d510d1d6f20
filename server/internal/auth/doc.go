// Package auth provides authentication for jolt-server.
//
// APIKeyInterceptor(mode, header, key) guards the gRPC receiver: agents must
// send the configured key in the named metadata header or get
// codes.Unauthenticated. With mode != "apikey" or an empty key every call
// passes.
//
// Authenticator guards the REST API and WebSocket. Each configured user key
// maps to a Profile{name, role, scope}; Middleware attaches the profile to
// the request context and FromContext reads it back. Profile.Allows decides
// which store reports a profile may see: admins see all, store users match
// scope items against the location name, and market/district users match
// the report's market or district.
package auth
