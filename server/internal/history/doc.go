// Package history keeps a per-day record of every location's daypart
// outcomes in SQLite (modernc.org/sqlite, no cgo).
//
// Each received store report is upserted as one row per daypart keyed by
// (location_id, date, daypart), so later polls of the same day replace the
// earlier state. Range serves the dashboard's trend view and Run enforces
// the configured retention.
package history
