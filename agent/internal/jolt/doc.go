// Package jolt is a small GraphQL client for the checklist vendor API.
//
// Every request is a POST of {query, variables} to the configured endpoint
// (normally a proxy that adds the vendor credentials). Requests pass through
// a token-bucket limiter and an auth RoundTripper (apikey | bearer | basic).
//
// A request is attempted up to three times with a linear pause (1s, then 2s)
// when the transport fails, the status is not 2xx, or the body is not JSON.
// Proxies answer timeouts with an HTML page; its <title> is carried in the
// error. GraphQL-level errors are returned as *APIError and never retried.
package jolt
