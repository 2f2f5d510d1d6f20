// Package store holds the latest StoreReport per location in memory.
// Entries expire when a location stops reporting for longer than the TTL;
// durable daypart history lives in the history package.
package store
