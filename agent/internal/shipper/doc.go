// Package shipper sends StoreReports to jolt-server via gRPC
// (jolt.v1.ReportService/SendReport, JSON codec from pkg/wire).
//
// Shipper.Ship() is non-blocking: reports are placed in an in-memory channel
// (default capacity 1000). When the buffer is full the oldest entry is
// evicted so the latest state of every store is preserved.
//
// Shipper.Run() connects, then flushes the buffer every ship_interval. It
// reconnects with truncated exponential backoff (1s→60s, ±25% jitter) on
// connection or send errors. Permanent gRPC errors (Unauthenticated,
// PermissionDenied, InvalidArgument) discard the report instead of retrying.
//
// Auth: mTLS via credentials.NewTLS(), API key via gRPC metadata header,
// or insecure (plaintext) for local development.
package shipper
