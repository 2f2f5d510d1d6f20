// Package metadata maps checklist locations onto the market/district
// hierarchy kept in a spreadsheet export.
//
// The sheet is a CSV with a header row. Header names are matched
// case-insensitively with quotes stripped; "store" and "market" are
// required, "site" and "district" are optional. A location matches a row
// when the row's site code (longer than two characters) or its lower-cased
// store name appears in the lower-cased location name. The first matching
// row wins. Locations that match nothing are grouped as Unassigned.
package metadata
