// Package cli implements joltctl, an offline front-end to the analytics
// engine. Every subcommand reads list instances saved as JSON (a single
// list, an array, or a GraphQL response envelope) and prints either a
// table or, with --json, the computed structures.
//
// Subcommands:
//   - analyze: per-list summaries
//   - integrity: integrity scores with their deductions
//   - report: the daily food safety report
//   - store: the full store report as shipped by the agent
//   - fetch: download one location's lists using the agent config
//   - cert: inspect the TLS certificate of the checklist API
package cli
