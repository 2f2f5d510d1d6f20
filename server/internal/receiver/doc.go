// Package receiver implements wire.ReportServiceServer, the gRPC endpoint
// that accepts StoreReport messages from jolt-agent instances.
//
// Receiver.SendReport validates that location_id is non-empty
// (codes.InvalidArgument if missing), calls store.Put to record the report,
// then runs the alert engine and the history recorder. Authentication is
// enforced upstream by the gRPC server interceptor (see package auth).
package receiver
