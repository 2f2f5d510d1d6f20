// Package security inspects the TLS certificate of the checklist API
// endpoint. The agent logs the result at startup and joltctl exposes it as
// the cert subcommand.
//
// Status is one of valid, expiring (30 days or less), expired or
// unreachable. Plain-http endpoints have nothing to inspect and yield nil.
package security
