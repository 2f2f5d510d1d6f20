// Package collector runs the agent's poll cycle.
//
// Each cycle lists the company's locations, keeps those on the configured
// allow-list, and fetches today's lists for every location with at most
// Concurrency requests in flight. "Today" is the local calendar day in the
// configured timezone, 00:00:00 through 23:59:59. The lists are turned into a
// types.StoreReport by the compute package, tagged with the market and
// district from the metadata sheet, and handed to the sink (the shipper).
//
// A location whose fetch fails still produces a report: every daypart is
// Missing and Error carries the cause. With safety_grid enabled the month's
// lists are fetched as well and summarised into the report's Safety row.
package collector
