// Package types defines shared Go types used by both the agent and server.
// checklist.go holds the recursive checklist tree exactly as the checklist API
// returns it; report.go holds the derived per-store report the agent ships to
// the server and the server serves to the dashboard.
package types
