// Package api implements the HTTP REST API for jolt-server.
//
// New(store, alerts, history) returns an http.Handler that serves:
//
//	GET /api/v1/health                        band, sanitizer and flagged-store counts
//	GET /api/v1/grid                          ops grid rows (?market=&district=&location=&grouped=true)
//	GET /api/v1/grid.csv                      the grid as CSV
//	GET /api/v1/safety                        monthly audit/agenda rows (same filters)
//	GET /api/v1/safety.csv                    the safety grid as CSV
//	GET /api/v1/filters                       distinct markets and districts
//	GET /api/v1/stores/{id}                   full store report; 404 if unknown or stale
//	GET /api/v1/stores/{id}/report            daily food safety report
//	GET /api/v1/stores/{id}/lists.csv         the store's lists as CSV
//	GET /api/v1/stores/{id}/lists/{listID}    one list with diagnostics
//	GET /api/v1/history/{id}?from=&to=        daypart history (503 when disabled)
//	GET /api/v1/alerts                        firing and recently resolved alerts
//	GET /api/v1/snapshot                      all visible store reports + generated_at
//
// All endpoints:
//   - Respond with Content-Type: application/json (CSV exports excepted)
//   - Return 405 for non-GET methods
//   - Only show stores the request's auth.Profile may see; others are 404
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
