// Package config loads the server-side configuration from the `server:` section
// of config.yaml (the `agent:` key is ignored by the server binary).
//
// Config fields:
//   - GRPCPort: port for the gRPC receiver (default 50051)
//   - HTTPPort: port for the REST API, WebSocket hub and /metrics (default 8080)
//   - Auth.Mode: "apikey" or "none"
//   - Auth.KeyEnv: environment variable holding the agent API key
//   - Auth.Header: gRPC metadata/HTTP header name (default "x-api-key")
//   - Auth.Users: dashboard profiles {name, role, scope, key_env}
//   - Snapshot.TTL: how long a location's report remains live (default 30m)
//   - Snapshot.BroadcastInterval: WebSocket push cadence (default 5s)
//   - Storage: history backend (sqlite or empty), path, retention (default 90d)
//   - Alerts: rules and webhook targets
//
// Load(path) applies defaults before unmarshalling, then validates.
package config
