// Package compute derives food-safety quality signals from checklist result
// trees fetched by the jolt client.
//
// Every function here is pure and total: it never blocks, never reads the
// system clock and never fails on partially loaded trees (nil sublists, nil
// numeric answers, missing templates). Callers pass "now" or "today"
// explicitly so tests are deterministic.
//
// tree.go provides the shared traversal primitives. Every calculator recurses
// into item.SubList regardless of the item's kind, because corrective data
// can appear at any depth.
//
// integrity.go provides ComputeIntegrity, the anti-fraud heuristic that starts
// at 100 and subtracts fixed penalties for rapid entry, duplicate or integer
// temperatures, excessive N/A usage and suspiciously fast sublists. The
// thresholds and penalty sizes are tuned by hand; changing any of them
// changes which stores show as flagged.
//
// summary.go and dfsl.go fold the per-list results into the StoreReport the
// agent ships to the server.
//
// Integrity bands: high ≥85, medium 60–84, low <60, na when scoring is skipped.
package compute
