// Package wire defines the agent→server RPC without generated code.
//
// ReportService has a single unary method, SendReport, carrying a
// types.StoreReport and answering SendReportResponse. Messages are encoded
// with a JSON codec registered under the "json" content subtype; clients
// built with NewReportServiceClient select it on every call, and servers
// pick it up from the request's content type.
package wire
