// Package metrics exposes the live store state at /metrics in the Prometheus
// text format. Families are built directly as client_model protobufs from
// the report store on every scrape and encoded with prometheus/common/expfmt.
//
// Per-daypart series carry location_id, location, market, district and
// daypart labels; status series add a status label.
package metrics
