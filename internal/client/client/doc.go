// Package client talks to the jobassist server over gRPC.
//
// GRPCClient keeps the session token from the last Register or Login,
// attaches it to every call through a unary interceptor and maps gRPC
// status codes onto the sentinel errors in errors.go so callers can match
// them with errors.Is.
package client
